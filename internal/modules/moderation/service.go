package moderation

import (
	"context"
	"time"

	"github.com/colefield/parley/internal/domain"
	"github.com/colefield/parley/internal/models"
)

// Service implements the topic moderation actions: delete/restore, purge,
// lock/unlock, pin/unpin with expiry, pinned reordering and cross-category
// moves.
//
// The service takes no locks of its own; concurrent moderation of the same
// topic relies on the atomicity of the underlying storage primitives. Storage
// failures propagate to the caller without compensation, so a failure partway
// through a multi-set mutation can leave index state partially updated.
type Service struct {
	topics     TopicStore
	sets       SortedSets
	events     EventStore
	categories CategoryStore
	users      UserStore
	privs      Privileges
	hooks      *Hooks

	now func() time.Time
}

// ServiceDeps holds the collaborators the moderation service is wired with.
type ServiceDeps struct {
	Topics     TopicStore
	Sets       SortedSets
	Events     EventStore
	Categories CategoryStore
	Users      UserStore
	Privileges Privileges
	Hooks      *Hooks
}

// NewService creates a moderation service.
func NewService(deps ServiceDeps) *Service {
	hooks := deps.Hooks
	if hooks == nil {
		hooks = NewHooks()
	}
	return &Service{
		topics:     deps.Topics,
		sets:       deps.Sets,
		events:     deps.Events,
		categories: deps.Categories,
		users:      deps.Users,
		privs:      deps.Privileges,
		hooks:      hooks,
		now:        time.Now,
	}
}

// getTopic loads a topic or fails with the no-topic error code.
func (s *Service) getTopic(ctx context.Context, tid string) (*models.Topic, error) {
	topic, err := s.topics.Get(ctx, tid)
	if err != nil {
		return nil, err
	}
	if topic == nil || topic.CID == "" {
		return nil, domain.ErrNoTopic
	}
	return topic, nil
}

// Delete soft-deletes a topic.
func (s *Service) Delete(ctx context.Context, tid, uid string) (*DeleteResult, error) {
	return s.deleteOrRestore(ctx, tid, uid, true)
}

// Restore reverses a soft-delete.
func (s *Service) Restore(ctx context.Context, tid, uid string) (*DeleteResult, error) {
	return s.deleteOrRestore(ctx, tid, uid, false)
}

func (s *Service) deleteOrRestore(ctx context.Context, tid, uid string, isDelete bool) (*DeleteResult, error) {
	topic, err := s.getTopic(ctx, tid)
	if err != nil {
		return nil, err
	}
	// Scheduled topics may only be purged, never soft-deleted or restored.
	if topic.Scheduled {
		return nil, domain.ErrInvalidData
	}

	allowed, err := s.privs.CanDelete(ctx, topic, uid)
	if err != nil {
		return nil, err
	}

	// The filter chain may rewrite any part of the pending decision,
	// including the verdict, the topic payload and the target user.
	decision := &DeleteDecision{Topic: topic, UID: uid, IsDelete: isDelete, Allowed: allowed}
	if err := s.hooks.filterDelete(ctx, decision); err != nil {
		return nil, err
	}
	topic, uid, isDelete = decision.Topic, decision.UID, decision.IsDelete

	if !decision.Allowed {
		return nil, domain.ErrNoPrivileges
	}
	if isDelete && topic.Deleted {
		return nil, domain.ErrAlreadyDeleted
	}
	if !isDelete && !topic.Deleted {
		return nil, domain.ErrAlreadyRestored
	}

	now := s.now().UnixMilli()
	fields := map[string]any{"deleted": isDelete}
	if isDelete {
		fields["deleterUid"] = uid
		fields["deletedTimestamp"] = now
	} else {
		fields["deleterUid"] = nil
		fields["deletedTimestamp"] = nil
	}
	if err := s.topics.SetFields(ctx, topic.TID, fields); err != nil {
		return nil, err
	}

	eventType := models.EventRestore
	if isDelete {
		eventType = models.EventDelete
	}
	event, err := s.events.Append(ctx, &models.AuditEvent{
		TID:       topic.TID,
		Type:      eventType,
		UID:       uid,
		Timestamp: now,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.users.MiniProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{
		TID:      topic.TID,
		CID:      topic.CID,
		IsDelete: isDelete,
		UID:      uid,
		User:     user,
		Events:   []*models.AuditEvent{event},
	}

	topicName := TopicRestored
	if isDelete {
		topicName = TopicDeleted
	}
	s.hooks.notify(ctx, topicName, uid, result)

	return result, nil
}

// Purge irreversibly removes a topic and its posts. The purge privilege is
// independent of the delete privilege.
func (s *Service) Purge(ctx context.Context, tid, uid string) (*PurgeResult, error) {
	topic, err := s.getTopic(ctx, tid)
	if err != nil {
		return nil, err
	}

	allowed, err := s.privs.CanPurge(ctx, topic, uid)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrNoPrivileges
	}

	// Full removal is delegated; it is terminal, with no retry or partial
	// recovery.
	if err := s.topics.Purge(ctx, topic.TID); err != nil {
		return nil, err
	}

	result := &PurgeResult{TID: topic.TID, CID: topic.CID, UID: uid}
	s.hooks.notify(ctx, TopicPurged, uid, result)
	return result, nil
}

// Lock closes a topic to further replies. Reply enforcement happens in the
// posting path; this only records the state.
func (s *Service) Lock(ctx context.Context, tid, uid string) (*LockResult, error) {
	return s.lockOrUnlock(ctx, tid, uid, true)
}

// Unlock reopens a locked topic.
func (s *Service) Unlock(ctx context.Context, tid, uid string) (*LockResult, error) {
	return s.lockOrUnlock(ctx, tid, uid, false)
}

func (s *Service) lockOrUnlock(ctx context.Context, tid, uid string, locked bool) (*LockResult, error) {
	topic, err := s.getTopic(ctx, tid)
	if err != nil {
		return nil, err
	}

	allowed, err := s.privs.IsAdminOrMod(ctx, topic.CID, uid)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrNoPrivileges
	}

	if err := s.topics.SetFields(ctx, topic.TID, map[string]any{"locked": locked}); err != nil {
		return nil, err
	}

	eventType := models.EventUnlock
	if locked {
		eventType = models.EventLock
	}
	event, err := s.events.Append(ctx, &models.AuditEvent{
		TID:       topic.TID,
		Type:      eventType,
		UID:       uid,
		Timestamp: s.now().UnixMilli(),
	})
	if err != nil {
		return nil, err
	}

	topic.Locked = locked
	result := &LockResult{
		Topic:    topic,
		Events:   []*models.AuditEvent{event},
		IsLocked: locked,
	}

	topicName := TopicUnlocked
	if locked {
		topicName = TopicLocked
	}
	s.hooks.notify(ctx, topicName, uid, result)

	return result, nil
}
