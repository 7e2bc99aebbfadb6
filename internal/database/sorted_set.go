package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// SetEntry is a single member of a sorted set, identified by (key, member)
// and ordered by score.
type SetEntry struct {
	Key    string  `json:"key"`
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// SortedSetStore implements the ordered-set primitives the category indices
// are built on. Entries live in the set_entry table, one record per
// (key, member) pair.
type SortedSetStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewSortedSetStore creates a new SortedSetStore instance.
func NewSortedSetStore(db *surrealdb.DB, ns, dbName string) *SortedSetStore {
	return &SortedSetStore{db: db, ns: ns, dbName: dbName}
}

func (s *SortedSetStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

// Add upserts a member into a set with the given score.
func (s *SortedSetStore) Add(ctx context.Context, key, member string, score float64) error {
	if err := s.use(ctx); err != nil {
		return err
	}

	query := `UPSERT type::thing('set_entry', [$key, $member])
		SET key = $key, member = $member, score = $score`
	params := map[string]any{"key": key, "member": member, "score": score}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to add %s to set %s: %w", member, key, err)
	}
	return nil
}

// AddBulk upserts several entries in one round trip.
func (s *SortedSetStore) AddBulk(ctx context.Context, entries []SetEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.use(ctx); err != nil {
		return err
	}

	query := `FOR $e IN $entries {
		UPSERT type::thing('set_entry', [$e.key, $e.member])
			SET key = $e.key, member = $e.member, score = $e.score;
	}`
	if err := Execute(ctx, s.db, query, map[string]any{"entries": entries}); err != nil {
		return fmt.Errorf("failed to bulk add set entries: %w", err)
	}
	return nil
}

// Remove deletes a member from each of the given sets. Missing entries are
// not an error.
func (s *SortedSetStore) Remove(ctx context.Context, keys []string, member string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.use(ctx); err != nil {
		return err
	}

	query := "DELETE FROM set_entry WHERE key IN $keys AND member = $member"
	params := map[string]any{"keys": keys, "member": member}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to remove %s from sets: %w", member, err)
	}
	return nil
}

// IsMember reports whether member belongs to the set identified by key.
func (s *SortedSetStore) IsMember(ctx context.Context, key, member string) (bool, error) {
	if err := s.use(ctx); err != nil {
		return false, err
	}

	query := "SELECT * FROM set_entry WHERE key = $key AND member = $member"
	params := map[string]any{"key": key, "member": member}
	entry, err := QueryOne[SetEntry](ctx, s.db, query, params)
	if err != nil {
		return false, fmt.Errorf("failed to check membership of %s in %s: %w", member, key, err)
	}
	return entry != nil, nil
}

// Score returns the member's score and whether the member exists in the set.
func (s *SortedSetStore) Score(ctx context.Context, key, member string) (float64, bool, error) {
	if err := s.use(ctx); err != nil {
		return 0, false, err
	}

	query := "SELECT * FROM set_entry WHERE key = $key AND member = $member"
	params := map[string]any{"key": key, "member": member}
	entry, err := QueryOne[SetEntry](ctx, s.db, query, params)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read score of %s in %s: %w", member, key, err)
	}
	if entry == nil {
		return 0, false, nil
	}
	return entry.Score, true, nil
}

// Members returns the members of a set ordered by descending score.
func (s *SortedSetStore) Members(ctx context.Context, key string, limit int) ([]string, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM set_entry WHERE key = $key ORDER BY score DESC LIMIT $limit"
	params := map[string]any{"key": key, "limit": limit}
	entries, err := Query[SetEntry](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of %s: %w", key, err)
	}

	members := make([]string, len(entries))
	for i, e := range entries {
		members[i] = e.Member
	}
	return members, nil
}

// PinnedMembers returns the members of every per-category pinned set. The
// pin-expiry sweeper uses this to find sweep candidates across all categories.
func (s *SortedSetStore) PinnedMembers(ctx context.Context) ([]string, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM set_entry WHERE string::ends_with(key, ':tids:pinned')"
	entries, err := Query[SetEntry](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned members: %w", err)
	}

	members := make([]string, len(entries))
	for i, e := range entries {
		members[i] = e.Member
	}
	return members, nil
}
