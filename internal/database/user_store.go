package database

import (
	"context"
	"fmt"

	"github.com/colefield/parley/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// UserStore looks up forum accounts and the role fields the privilege
// checks are built on.
type UserStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewUserStore creates a new UserStore instance.
func NewUserStore(db *surrealdb.DB, ns, dbName string) *UserStore {
	return &UserStore{db: db, ns: ns, dbName: dbName}
}

func (s *UserStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

// Get fetches a user by id. It returns nil, nil when the user does not exist.
func (s *UserStore) Get(ctx context.Context, uid string) (*models.User, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM user WHERE uid = $uid"
	user, err := QueryOne[models.User](ctx, s.db, query, map[string]any{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", uid, err)
	}
	return user, nil
}

// MiniProfile returns the minimal profile embedded in moderation results.
// Unknown users yield a profile carrying only the uid.
func (s *UserStore) MiniProfile(ctx context.Context, uid string) (*models.MiniUser, error) {
	user, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &models.MiniUser{UID: uid}, nil
	}
	return user.Mini(), nil
}
