package cmd

import (
	"context"

	"github.com/colefield/parley/internal/config"
	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/modules/moderation"
	"github.com/colefield/parley/internal/privileges"
	"github.com/surrealdb/surrealdb.go"
)

// stores bundles the database-backed collaborators CLI commands operate on.
// Commands run against the store directly, without hooks or observers.
type stores struct {
	db      *surrealdb.DB
	topics  *database.TopicStore
	sets    *database.SortedSetStore
	service *moderation.Service
}

func connect(ctx context.Context) (*stores, error) {
	cfg := config.New()

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	topicStore := database.NewTopicStore(db, cfg.DBNs, cfg.DBDb)
	setStore := database.NewSortedSetStore(db, cfg.DBNs, cfg.DBDb)
	eventStore := database.NewEventStore(db, cfg.DBNs, cfg.DBDb)
	categoryStore := database.NewCategoryStore(db, cfg.DBNs, cfg.DBDb)
	userStore := database.NewUserStore(db, cfg.DBNs, cfg.DBDb)

	service := moderation.NewService(moderation.ServiceDeps{
		Topics:     topicStore,
		Sets:       setStore,
		Events:     eventStore,
		Categories: categoryStore,
		Users:      userStore,
		Privileges: privileges.New(userStore),
		Hooks:      moderation.NewHooks(),
	})

	return &stores{
		db:      db,
		topics:  topicStore,
		sets:    setStore,
		service: service,
	}, nil
}

func (s *stores) close(ctx context.Context) {
	s.db.Close(ctx)
}
