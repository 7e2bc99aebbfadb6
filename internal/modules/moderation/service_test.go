package moderation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/domain"
	"github.com/colefield/parley/internal/models"
	"github.com/colefield/parley/internal/privileges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTopics is an in-memory TopicStore keyed by tid.
type mockTopics struct {
	mu     sync.Mutex
	topics map[string]*models.Topic
	purged []string
}

func newMockTopics(topics ...*models.Topic) *mockTopics {
	m := &mockTopics{topics: make(map[string]*models.Topic)}
	for _, t := range topics {
		m.topics[t.TID] = t
	}
	return m
}

func (m *mockTopics) Get(ctx context.Context, tid string) (*models.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topic, ok := m.topics[tid]
	if !ok {
		return nil, nil
	}
	copied := *topic
	return &copied, nil
}

func (m *mockTopics) SetFields(ctx context.Context, tid string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	topic, ok := m.topics[tid]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "deleted":
			topic.Deleted = v.(bool)
		case "locked":
			topic.Locked = v.(bool)
		case "pinned":
			topic.Pinned = v.(bool)
		case "cid":
			topic.CID = v.(string)
		case "oldCid":
			topic.OldCID = v.(string)
		case "deleterUid":
			if v == nil {
				topic.DeleterUID = ""
			} else {
				topic.DeleterUID = v.(string)
			}
		case "deletedTimestamp":
			if v == nil {
				topic.DeletedTimestamp = 0
			} else {
				topic.DeletedTimestamp = v.(int64)
			}
		case "pinExpiry":
			if v == nil {
				topic.PinExpiry = 0
			} else {
				topic.PinExpiry = v.(int64)
			}
		}
	}
	return nil
}

func (m *mockTopics) Purge(ctx context.Context, tid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.topics, tid)
	m.purged = append(m.purged, tid)
	return nil
}

// mockSets is an in-memory SortedSets implementation.
type mockSets struct {
	mu   sync.Mutex
	sets map[string]map[string]float64
}

func newMockSets() *mockSets {
	return &mockSets{sets: make(map[string]map[string]float64)}
}

func (m *mockSets) Add(ctx context.Context, key, member string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]float64)
	}
	m.sets[key][member] = score
	return nil
}

func (m *mockSets) AddBulk(ctx context.Context, entries []database.SetEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if m.sets[e.Key] == nil {
			m.sets[e.Key] = make(map[string]float64)
		}
		m.sets[e.Key][e.Member] = e.Score
	}
	return nil
}

func (m *mockSets) Remove(ctx context.Context, keys []string, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.sets[key], member)
	}
	return nil
}

func (m *mockSets) IsMember(ctx context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[key][member]
	return ok, nil
}

func (m *mockSets) score(key, member string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.sets[key][member]
	return score, ok
}

// mockEvents records appended audit events.
type mockEvents struct {
	mu     sync.Mutex
	events []*models.AuditEvent
}

func (m *mockEvents) Append(ctx context.Context, event *models.AuditEvent) (*models.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = "event-" + event.Type
	m.events = append(m.events, event)
	return event, nil
}

func (m *mockEvents) ListByTopic(ctx context.Context, tid string) ([]*models.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AuditEvent
	for _, e := range m.events {
		if e.TID == tid {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEvents) ListRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.AuditEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *mockEvents) byTopic(tid string) []*models.AuditEvent {
	events, _ := m.ListByTopic(context.Background(), tid)
	return events
}

// mockCategories tracks counter deltas and maintenance calls.
type mockCategories struct {
	mu           sync.Mutex
	counts       map[string]int
	recentCalls  []string
	recountCalls []string
}

func newMockCategories() *mockCategories {
	return &mockCategories{counts: make(map[string]int)}
}

func (m *mockCategories) IncrTopicCount(ctx context.Context, cid string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[cid] += delta
	return nil
}

func (m *mockCategories) UpdateRecentTID(ctx context.Context, cid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recentCalls = append(m.recentCalls, cid)
	return nil
}

func (m *mockCategories) RecountTagUsage(ctx context.Context, cid string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recountCalls = append(m.recountCalls, cid)
	return nil
}

// mockUsers resolves mini profiles without a backing store.
type mockUsers struct{}

func (m *mockUsers) MiniProfile(ctx context.Context, uid string) (*models.MiniUser, error) {
	return &models.MiniUser{UID: uid, Username: "user-" + uid}, nil
}

// mockPrivs grants or denies everything based on flags.
type mockPrivs struct {
	canDelete  bool
	canPurge   bool
	adminOrMod bool
}

func (m *mockPrivs) CanDelete(ctx context.Context, topic *models.Topic, uid string) (bool, error) {
	return m.canDelete, nil
}

func (m *mockPrivs) CanPurge(ctx context.Context, topic *models.Topic, uid string) (bool, error) {
	return m.canPurge, nil
}

func (m *mockPrivs) IsAdminOrMod(ctx context.Context, cid, uid string) (bool, error) {
	return m.adminOrMod, nil
}

func (m *mockPrivs) IsAdminOrModOrSystem(ctx context.Context, cid, uid string) (bool, error) {
	if uid == privileges.SystemUID {
		return true, nil
	}
	return m.adminOrMod, nil
}

// recordingObserver captures post-commit notifications.
type recordingObserver struct {
	mu     sync.Mutex
	events []string
}

func (o *recordingObserver) Notify(ctx context.Context, event string, uid string, payload any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) seen() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	copy(out, o.events)
	return out
}

type testEnv struct {
	service    *Service
	topics     *mockTopics
	sets       *mockSets
	events     *mockEvents
	categories *mockCategories
	privs      *mockPrivs
	observer   *recordingObserver
	now        time.Time
}

func newTestEnv(t *testing.T, topics ...*models.Topic) *testEnv {
	t.Helper()

	env := &testEnv{
		topics:     newMockTopics(topics...),
		sets:       newMockSets(),
		events:     &mockEvents{},
		categories: newMockCategories(),
		privs:      &mockPrivs{canDelete: true, canPurge: true, adminOrMod: true},
		observer:   &recordingObserver{},
		now:        time.UnixMilli(1700000000000),
	}
	hooks := NewHooks().AddObserver(env.observer)
	env.service = NewService(ServiceDeps{
		Topics:     env.topics,
		Sets:       env.sets,
		Events:     env.events,
		Categories: env.categories,
		Users:      &mockUsers{},
		Privileges: env.privs,
		Hooks:      hooks,
	})
	env.service.now = func() time.Time { return env.now }
	return env
}

func TestService_DeleteAndRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("delete then restore round trip", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1", UID: "owner"})

		result, err := env.service.Delete(ctx, "1", "mod")
		require.NoError(t, err)
		assert.True(t, result.IsDelete)
		assert.Equal(t, "mod", result.UID)
		assert.Equal(t, "user-mod", result.User.Username)

		topic, _ := env.topics.Get(ctx, "1")
		assert.True(t, topic.Deleted)
		assert.Equal(t, "mod", topic.DeleterUID)
		assert.Equal(t, env.now.UnixMilli(), topic.DeletedTimestamp)

		result, err = env.service.Restore(ctx, "1", "mod")
		require.NoError(t, err)
		assert.False(t, result.IsDelete)

		topic, _ = env.topics.Get(ctx, "1")
		assert.False(t, topic.Deleted)
		assert.Empty(t, topic.DeleterUID)
		assert.Zero(t, topic.DeletedTimestamp)

		events := env.events.byTopic("1")
		require.Len(t, events, 2)
		assert.Equal(t, models.EventDelete, events[0].Type)
		assert.Equal(t, models.EventRestore, events[1].Type)
		assert.Equal(t, []string{TopicDeleted, TopicRestored}, env.observer.seen())
	})

	t.Run("missing topic", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.Delete(ctx, "nope", "mod")
		assert.ErrorIs(t, err, domain.ErrNoTopic)
	})

	t.Run("already deleted", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1", Deleted: true})
		_, err := env.service.Delete(ctx, "1", "mod")
		assert.ErrorIs(t, err, domain.ErrAlreadyDeleted)
	})

	t.Run("already restored", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1"})
		_, err := env.service.Restore(ctx, "1", "mod")
		assert.ErrorIs(t, err, domain.ErrAlreadyRestored)
	})

	t.Run("scheduled topics are rejected", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1", Scheduled: true})
		_, err := env.service.Delete(ctx, "1", "mod")
		assert.ErrorIs(t, err, domain.ErrInvalidData)
	})

	t.Run("without privileges", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1"})
		env.privs.canDelete = false
		_, err := env.service.Delete(ctx, "1", "stranger")
		assert.ErrorIs(t, err, domain.ErrNoPrivileges)
		assert.Empty(t, env.observer.seen())
	})
}

func TestService_Purge(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the topic", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1"})

		result, err := env.service.Purge(ctx, "1", "mod")
		require.NoError(t, err)
		assert.Equal(t, "1", result.TID)
		assert.Equal(t, []string{"1"}, env.topics.purged)
		assert.Equal(t, []string{TopicPurged}, env.observer.seen())

		topic, err := env.topics.Get(ctx, "1")
		require.NoError(t, err)
		assert.Nil(t, topic)
	})

	t.Run("purge privilege is independent of delete", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1", UID: "owner"})
		env.privs.canDelete = true
		env.privs.canPurge = false
		_, err := env.service.Purge(ctx, "1", "owner")
		assert.ErrorIs(t, err, domain.ErrNoPrivileges)
		assert.Empty(t, env.topics.purged)
	})
}

func TestService_LockAndUnlock(t *testing.T) {
	ctx := context.Background()

	t.Run("lock then unlock", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1"})

		result, err := env.service.Lock(ctx, "1", "mod")
		require.NoError(t, err)
		assert.True(t, result.Topic.Locked)
		assert.True(t, result.IsLocked)

		topic, _ := env.topics.Get(ctx, "1")
		assert.True(t, topic.Locked)

		result, err = env.service.Unlock(ctx, "1", "mod")
		require.NoError(t, err)
		assert.False(t, result.Topic.Locked)

		events := env.events.byTopic("1")
		require.Len(t, events, 2)
		assert.Equal(t, models.EventLock, events[0].Type)
		assert.Equal(t, models.EventUnlock, events[1].Type)
	})

	t.Run("requires moderator", func(t *testing.T) {
		env := newTestEnv(t, &models.Topic{TID: "1", CID: "c1"})
		env.privs.adminOrMod = false
		_, err := env.service.Lock(ctx, "1", "stranger")
		assert.ErrorIs(t, err, domain.ErrNoPrivileges)
	})

	t.Run("missing topic", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.Lock(ctx, "nope", "mod")
		assert.ErrorIs(t, err, domain.ErrNoTopic)
	})
}
