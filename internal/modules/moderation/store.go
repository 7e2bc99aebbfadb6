package moderation

import (
	"context"
	"fmt"

	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/models"
)

// The service orchestrates its collaborators through these interfaces. The
// concrete implementations live in internal/database and internal/privileges;
// tests substitute in-memory fakes.

// TopicStore is the slice of topic persistence the service needs.
type TopicStore interface {
	// Get returns nil, nil when the topic does not exist.
	Get(ctx context.Context, tid string) (*models.Topic, error)
	SetFields(ctx context.Context, tid string, fields map[string]any) error
	// Purge irreversibly removes the topic and everything attached to it.
	Purge(ctx context.Context, tid string) error
}

// SortedSets exposes the ordered-set primitives the category indices use.
type SortedSets interface {
	Add(ctx context.Context, key, member string, score float64) error
	AddBulk(ctx context.Context, entries []database.SetEntry) error
	Remove(ctx context.Context, keys []string, member string) error
	IsMember(ctx context.Context, key, member string) (bool, error)
}

// EventStore appends and reads the audit log.
type EventStore interface {
	Append(ctx context.Context, event *models.AuditEvent) (*models.AuditEvent, error)
	ListByTopic(ctx context.Context, tid string) ([]*models.AuditEvent, error)
}

// CategoryStore maintains category metadata derived from topic placement.
type CategoryStore interface {
	IncrTopicCount(ctx context.Context, cid string, delta int) error
	UpdateRecentTID(ctx context.Context, cid string) error
	RecountTagUsage(ctx context.Context, cid string, tags []string) error
}

// UserStore resolves minimal acting-user profiles for result payloads.
type UserStore interface {
	MiniProfile(ctx context.Context, uid string) (*models.MiniUser, error)
}

// Privileges evaluates whether an acting user may perform an action.
type Privileges interface {
	CanDelete(ctx context.Context, topic *models.Topic, uid string) (bool, error)
	CanPurge(ctx context.Context, topic *models.Topic, uid string) (bool, error)
	IsAdminOrMod(ctx context.Context, cid, uid string) (bool, error)
	IsAdminOrModOrSystem(ctx context.Context, cid, uid string) (bool, error)
}

// Per-category index set keys. A topic is a member of either the pinned set
// or the standard/posts/votes sets, never both.

func keyTids(cid string) string         { return fmt.Sprintf("cid:%s:tids", cid) }
func keyTidsCreate(cid string) string   { return fmt.Sprintf("cid:%s:tids:create", cid) }
func keyTidsPinned(cid string) string   { return fmt.Sprintf("cid:%s:tids:pinned", cid) }
func keyTidsPosts(cid string) string    { return fmt.Sprintf("cid:%s:tids:posts", cid) }
func keyTidsVotes(cid string) string    { return fmt.Sprintf("cid:%s:tids:votes", cid) }
func keyTidsLastPost(cid string) string { return fmt.Sprintf("cid:%s:tids:lastposttime", cid) }
func keyUserTids(cid, uid string) string {
	return fmt.Sprintf("cid:%s:uid:%s:tids", cid, uid)
}
func keyTagTopics(cid, tag string) string {
	return fmt.Sprintf("cid:%s:tag:%s:topics", cid, tag)
}
