package app

import (
	"github.com/colefield/parley/internal/config"
	"github.com/colefield/parley/internal/hub"
	"github.com/colefield/parley/internal/module"
	"github.com/colefield/parley/internal/modules/moderation"
	"github.com/colefield/parley/internal/pubsub"
	"github.com/colefield/parley/internal/script"
	"github.com/surrealdb/surrealdb.go"
)

// Dependencies holds the core services that are required by the application's
// modules. This struct is passed from the main application entrypoint to wire
// up the modules.
type Dependencies struct {
	DB        *surrealdb.DB
	Cfg       *config.Config
	Publisher pubsub.Publisher
	Hub       *hub.Hub
	Scripts   *script.Engine
}

// NewModules creates and returns the list of all active modules for the
// application. This is the single source of truth for which features are
// enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		// Add new application modules here.
		moderation.New(moderation.Dependencies{
			DB:        deps.DB,
			NS:        deps.Cfg.DBNs,
			DBName:    deps.Cfg.DBDb,
			Publisher: deps.Publisher,
			Hub:       deps.Hub,
			Scripts:   deps.Scripts,
			SweepCron: deps.Cfg.PinSweepCron,
		}),
	}
}
