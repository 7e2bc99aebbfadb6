package moderation

import (
	"context"

	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/domain"
	"github.com/colefield/parley/internal/models"
	"github.com/colefield/parley/internal/privileges"
	"golang.org/x/sync/errgroup"
)

// Pin pins a topic: it joins the category's pinned index and leaves the
// standard ones.
func (s *Service) Pin(ctx context.Context, tid, uid string) (*PinResult, error) {
	return s.pinOrUnpin(ctx, tid, uid, true)
}

// Unpin unpins a topic, clears any pin expiry and restores the topic to the
// standard indices with its natural sort keys.
func (s *Service) Unpin(ctx context.Context, tid, uid string) (*PinResult, error) {
	return s.pinOrUnpin(ctx, tid, uid, false)
}

func (s *Service) pinOrUnpin(ctx context.Context, tid, uid string, pinned bool) (*PinResult, error) {
	topic, err := s.getTopic(ctx, tid)
	if err != nil {
		return nil, err
	}
	if pinned && topic.Scheduled {
		return nil, domain.ErrCantPinScheduled
	}

	// The system actor pins nothing but may unpin on expiry.
	allowed, err := s.privs.IsAdminOrModOrSystem(ctx, topic.CID, uid)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrNoPrivileges
	}

	now := s.now().UnixMilli()
	fields := map[string]any{"pinned": pinned}
	if !pinned {
		fields["pinExpiry"] = nil
	}
	if err := s.topics.SetFields(ctx, topic.TID, fields); err != nil {
		return nil, err
	}

	eventType := models.EventUnpin
	if pinned {
		eventType = models.EventPin
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

	// A topic lives in either the pinned set or the standard sets, never
	// both. The two legs are independent, so they run concurrently; a
	// failure of either aborts the call with the other possibly committed.
	g, gctx := errgroup.WithContext(ctx)
	if pinned {
		g.Go(func() error {
			return s.sets.Add(gctx, keyTidsPinned(topic.CID), topic.TID, float64(now))
		})
		g.Go(func() error {
			return s.sets.Remove(gctx, []string{
				keyTids(topic.CID),
				keyTidsPosts(topic.CID),
				keyTidsVotes(topic.CID),
			}, topic.TID)
		})
	} else {
		g.Go(func() error {
			return s.sets.Remove(gctx, []string{keyTidsPinned(topic.CID)}, topic.TID)
		})
		g.Go(func() error {
			return s.sets.AddBulk(gctx, []database.SetEntry{
				{Key: keyTids(topic.CID), Member: topic.TID, Score: float64(topic.LastPostTime)},
				{Key: keyTidsPosts(topic.CID), Member: topic.TID, Score: float64(topic.PostCount)},
				{Key: keyTidsVotes(topic.CID), Member: topic.TID, Score: float64(topic.Votes())},
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	topic.Pinned = pinned
	if !pinned {
		topic.PinExpiry = 0
	}
	result := &PinResult{
		Topic:    topic,
		Events:   []*models.AuditEvent{event},
		IsPinned: pinned,
	}

	topicName := TopicUnpinned
	if pinned {
		topicName = TopicPinned
	}
	s.hooks.notify(ctx, topicName, uid, result)

	return result, nil
}

// SetPinExpiry records the time at which the topic's pin lapses. It does not
// schedule anything itself; the sweeper picks the expiry up.
func (s *Service) SetPinExpiry(ctx context.Context, tid, uid string, expiry int64) error {
	topic, err := s.getTopic(ctx, tid)
	if err != nil {
		return err
	}
	if expiry <= s.now().UnixMilli() {
		return domain.ErrInvalidData
	}

	allowed, err := s.privs.IsAdminOrMod(ctx, topic.CID, uid)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrNoPrivileges
	}

	if err := s.topics.SetFields(ctx, topic.TID, map[string]any{"pinExpiry": expiry}); err != nil {
		return err
	}

	s.hooks.notify(ctx, TopicPinExpiry, uid, map[string]any{
		"tid":       topic.TID,
		"cid":       topic.CID,
		"pinExpiry": expiry,
	})
	return nil
}

// CheckPinExpiry unpins, as the system actor, every supplied topic whose pin
// expiry has passed, and returns the input list with the just-unpinned ids
// removed. Input order is preserved.
//
// The unpins run concurrently without per-item error isolation: one failure
// fails the whole sweep call. Callers treat the sweep as best-effort and
// retry on the next cycle.
func (s *Service) CheckPinExpiry(ctx context.Context, tids []string) ([]string, error) {
	now := s.now().UnixMilli()
	expired := make([]bool, len(tids))

	g, gctx := errgroup.WithContext(ctx)
	for i, tid := range tids {
		g.Go(func() error {
			topic, err := s.topics.Get(gctx, tid)
			if err != nil {
				return err
			}
			if topic == nil || !topic.Pinned {
				return nil
			}
			if topic.PinExpiry > 0 && topic.PinExpiry <= now {
				if _, err := s.Unpin(gctx, tid, privileges.SystemUID); err != nil {
					return err
				}
				expired[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(tids))
	for i, tid := range tids {
		if !expired[i] {
			remaining = append(remaining, tid)
		}
	}
	return remaining, nil
}

// TopicOrder pairs a topic with its desired rank in the pinned index.
type TopicOrder struct {
	TID   string  `json:"tid" validate:"required"`
	Order float64 `json:"order"`
}

// OrderPinnedTopics re-ranks the pinned index of a single category. All
// supplied topics must resolve to the same category. Ids that are not
// currently pinned are silently dropped.
func (s *Service) OrderPinnedTopics(ctx context.Context, uid string, data []TopicOrder) error {
	if len(data) == 0 {
		return domain.ErrInvalidData
	}

	cids := make(map[string]bool)
	for _, item := range data {
		topic, err := s.topics.Get(ctx, item.TID)
		if err != nil {
			return err
		}
		if topic == nil {
			cids[""] = true
			continue
		}
		cids[topic.CID] = true
	}
	if len(cids) != 1 {
		return domain.ErrInvalidData
	}
	var cid string
	for c := range cids {
		cid = c
	}
	if cid == "" {
		return domain.ErrInvalidData
	}

	allowed, err := s.privs.IsAdminOrMod(ctx, cid, uid)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrNoPrivileges
	}

	pinnedKey := keyTidsPinned(cid)
	for _, item := range data {
		isPinned, err := s.sets.IsMember(ctx, pinnedKey, item.TID)
		if err != nil {
			return err
		}
		if !isPinned {
			continue
		}
		if err := s.sets.Add(ctx, pinnedKey, item.TID, item.Order); err != nil {
			return err
		}
	}
	return nil
}
