package database

import (
	"context"
	"fmt"

	"github.com/colefield/parley/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// CategoryStore maintains category metadata: topic counters, the
// recent-topic pointer and per-tag usage counts.
type CategoryStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewCategoryStore creates a new CategoryStore instance.
func NewCategoryStore(db *surrealdb.DB, ns, dbName string) *CategoryStore {
	return &CategoryStore{db: db, ns: ns, dbName: dbName}
}

func (s *CategoryStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

// Get fetches a category by id. It returns nil, nil when the category does
// not exist.
func (s *CategoryStore) Get(ctx context.Context, cid string) (*models.Category, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM category WHERE cid = $cid"
	category, err := QueryOne[models.Category](ctx, s.db, query, map[string]any{"cid": cid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", cid, err)
	}
	return category, nil
}

// IncrTopicCount adjusts a category's topic counter by delta.
func (s *CategoryStore) IncrTopicCount(ctx context.Context, cid string, delta int) error {
	if err := s.use(ctx); err != nil {
		return err
	}

	query := "UPDATE category SET topic_count += $delta WHERE cid = $cid"
	params := map[string]any{"cid": cid, "delta": delta}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to adjust topic count for category %s: %w", cid, err)
	}
	return nil
}

// UpdateRecentTID refreshes the category's most-recent-topic pointer from
// the last-post-time index.
func (s *CategoryStore) UpdateRecentTID(ctx context.Context, cid string) error {
	if err := s.use(ctx); err != nil {
		return err
	}

	query := `LET $top = (SELECT member FROM set_entry
		WHERE key = $key ORDER BY score DESC LIMIT 1);
	UPDATE category SET recent_tid = $top[0].member ?? NONE WHERE cid = $cid`
	params := map[string]any{
		"cid": cid,
		"key": fmt.Sprintf("cid:%s:tids:lastposttime", cid),
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to refresh recent topic for category %s: %w", cid, err)
	}
	return nil
}

// RecountTagUsage recomputes the per-tag topic counts for a category from
// the per-tag index sets.
func (s *CategoryStore) RecountTagUsage(ctx context.Context, cid string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	if err := s.use(ctx); err != nil {
		return err
	}

	for _, tag := range tags {
		query := `LET $n = (SELECT count() FROM set_entry WHERE key = $key GROUP ALL);
		UPSERT type::thing('tag_usage', [$cid, $tag])
			SET cid = $cid, tag = $tag, topic_count = $n[0].count ?? 0`
		params := map[string]any{
			"cid": cid,
			"tag": tag,
			"key": fmt.Sprintf("cid:%s:tag:%s:topics", cid, tag),
		}
		if err := Execute(ctx, s.db, query, params); err != nil {
			return fmt.Errorf("failed to recount tag %s for category %s: %w", tag, cid, err)
		}
	}
	return nil
}
