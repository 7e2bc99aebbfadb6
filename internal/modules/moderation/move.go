package moderation

import (
	"context"

	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/domain"
	"github.com/colefield/parley/internal/models"
	"golang.org/x/sync/errgroup"
)

// Move relocates a topic to another category, carrying its index placement
// forward: a pinned topic lands in the destination's pinned set, an unpinned
// one in the standard sets with its natural sort keys.
func (s *Service) Move(ctx context.Context, tid, toCID, uid string) (*MoveResult, error) {
	topic, err := s.getTopic(ctx, tid)
	if err != nil {
		return nil, err
	}
	fromCID := topic.CID
	if toCID == fromCID {
		return nil, domain.ErrCantMoveSameCategory
	}

	now := s.now().UnixMilli()

	// Remove the topic from every index of the source category.
	removeKeys := []string{
		keyTids(fromCID),
		keyTidsCreate(fromCID),
		keyTidsPinned(fromCID),
		keyTidsPosts(fromCID),
		keyTidsVotes(fromCID),
		keyTidsLastPost(fromCID),
		keyUserTids(fromCID, topic.UID),
	}
	for _, tag := range topic.Tags {
		removeKeys = append(removeKeys, keyTagTopics(fromCID, tag))
	}
	if err := s.sets.Remove(ctx, removeKeys, topic.TID); err != nil {
		return nil, err
	}

	// Insert into the destination: last-post-time, owner and tag indices
	// always; pinned or standard placement depending on state.
	entries := []database.SetEntry{
		{Key: keyTidsLastPost(toCID), Member: topic.TID, Score: float64(topic.LastPostTime)},
		{Key: keyUserTids(toCID, topic.UID), Member: topic.TID, Score: float64(topic.Timestamp)},
	}
	for _, tag := range topic.Tags {
		entries = append(entries, database.SetEntry{
			Key: keyTagTopics(toCID, tag), Member: topic.TID, Score: float64(topic.Timestamp),
		})
	}
	if topic.Pinned {
		entries = append(entries, database.SetEntry{
			Key: keyTidsPinned(toCID), Member: topic.TID, Score: float64(now),
		})
	} else {
		entries = append(entries,
			database.SetEntry{Key: keyTids(toCID), Member: topic.TID, Score: float64(topic.LastPostTime)},
			database.SetEntry{Key: keyTidsPosts(toCID), Member: topic.TID, Score: float64(topic.PostCount)},
			database.SetEntry{Key: keyTidsVotes(toCID), Member: topic.TID, Score: float64(topic.Votes())},
		)
	}

	// Index inserts and counter updates are independent of each other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.sets.AddBulk(gctx, entries) })
	g.Go(func() error { return s.categories.IncrTopicCount(gctx, fromCID, -1) })
	g.Go(func() error { return s.categories.IncrTopicCount(gctx, toCID, 1) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.topics.SetFields(ctx, topic.TID, map[string]any{
		"cid":    toCID,
		"oldCid": fromCID,
	}); err != nil {
		return nil, err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return s.categories.UpdateRecentTID(gctx, fromCID) })
	g.Go(func() error { return s.categories.UpdateRecentTID(gctx, toCID) })
	g.Go(func() error { return s.categories.RecountTagUsage(gctx, fromCID, topic.Tags) })
	g.Go(func() error { return s.categories.RecountTagUsage(gctx, toCID, topic.Tags) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := s.events.Append(ctx, &models.AuditEvent{
		TID:       topic.TID,
		Type:      models.EventMove,
		UID:       uid,
		Timestamp: now,
		FromCID:   fromCID,
	}); err != nil {
		return nil, err
	}

	result := &MoveResult{TID: topic.TID, FromCID: fromCID, ToCID: toCID, UID: uid}
	s.hooks.notify(ctx, TopicMoved, uid, result)
	return result, nil
}
