package database

import (
	"context"
	"fmt"

	"github.com/colefield/parley/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// TopicStore handles persistence of topic records.
type TopicStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewTopicStore creates a new TopicStore instance.
func NewTopicStore(db *surrealdb.DB, ns, dbName string) *TopicStore {
	return &TopicStore{db: db, ns: ns, dbName: dbName}
}

func (s *TopicStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

// Get fetches a topic by id. It returns nil, nil when the topic does not exist.
func (s *TopicStore) Get(ctx context.Context, tid string) (*models.Topic, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM topic WHERE tid = $tid"
	topic, err := QueryOne[models.Topic](ctx, s.db, query, map[string]any{"tid": tid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch topic %s: %w", tid, err)
	}
	return topic, nil
}

// Create inserts a new topic record.
func (s *TopicStore) Create(ctx context.Context, topic *models.Topic) (*models.Topic, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "CREATE topic CONTENT $data RETURN AFTER"
	created, err := QueryOne[models.Topic](ctx, s.db, query, map[string]any{"data": topic})
	if err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("topic was not created or could not be fetched")
	}
	return created, nil
}

// SetFields merges the given fields into the topic record. Fields set to nil
// are removed from the record.
func (s *TopicStore) SetFields(ctx context.Context, tid string, fields map[string]any) error {
	if err := s.use(ctx); err != nil {
		return err
	}

	query := "UPDATE topic MERGE $data WHERE tid = $tid"
	params := map[string]any{"tid": tid, "data": fields}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to update topic %s: %w", tid, err)
	}
	return nil
}

// Purge irreversibly removes a topic, its posts, its audit events and every
// index entry that references it. There is no undo.
func (s *TopicStore) Purge(ctx context.Context, tid string) error {
	if err := s.use(ctx); err != nil {
		return err
	}

	params := map[string]any{"tid": tid}
	queries := []string{
		"DELETE FROM post WHERE tid = $tid",
		"DELETE FROM topic_event WHERE tid = $tid",
		"DELETE FROM set_entry WHERE member = $tid",
		"DELETE FROM topic WHERE tid = $tid",
	}
	for _, q := range queries {
		if err := Execute(ctx, s.db, q, params); err != nil {
			return fmt.Errorf("failed to purge topic %s: %w", tid, err)
		}
	}
	return nil
}
