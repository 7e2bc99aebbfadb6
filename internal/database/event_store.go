package database

import (
	"context"
	"fmt"

	"github.com/colefield/parley/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
)

// EventStore persists the append-only audit log of moderation actions.
type EventStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewEventStore creates a new EventStore instance.
func NewEventStore(db *surrealdb.DB, ns, dbName string) *EventStore {
	return &EventStore{db: db, ns: ns, dbName: dbName}
}

func (s *EventStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

// Append writes a new audit event to a topic's event log and returns the
// stored record. Events are never mutated or deleted afterwards.
func (s *EventStore) Append(ctx context.Context, event *models.AuditEvent) (*models.AuditEvent, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query := "CREATE topic_event CONTENT $data RETURN AFTER"
	created, err := QueryOne[models.AuditEvent](ctx, s.db, query, map[string]any{"data": event})
	if err != nil {
		return nil, fmt.Errorf("failed to append topic event: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("topic event was not created or could not be fetched")
	}
	return created, nil
}

// ListByTopic returns a topic's audit events, oldest first.
func (s *EventStore) ListByTopic(ctx context.Context, tid string) ([]*models.AuditEvent, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM topic_event WHERE tid = $tid ORDER BY timestamp ASC"
	result, err := Query[models.AuditEvent](ctx, s.db, query, map[string]any{"tid": tid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch topic events: %w", err)
	}

	events := make([]*models.AuditEvent, len(result))
	for i := range result {
		events[i] = &result[i]
	}
	return events, nil
}

// ListRecent returns the most recent audit events across all topics,
// newest first. The admin moderation log renders this.
func (s *EventStore) ListRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM topic_event ORDER BY timestamp DESC LIMIT $limit"
	result, err := Query[models.AuditEvent](ctx, s.db, query, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent topic events: %w", err)
	}

	events := make([]*models.AuditEvent, len(result))
	for i := range result {
		events[i] = &result[i]
	}
	return events, nil
}
