package moderation

import (
	"context"
	"log/slog"

	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/hub"
	"github.com/colefield/parley/internal/middleware"
	"github.com/colefield/parley/internal/module"
	"github.com/colefield/parley/internal/privileges"
	"github.com/colefield/parley/internal/pubsub"
	"github.com/colefield/parley/internal/registry"
	"github.com/colefield/parley/internal/script"
	"github.com/labstack/echo/v4"
	"github.com/surrealdb/surrealdb.go"
)

// ServiceKey locates the moderation service in the registry.
var ServiceKey = registry.Key[*Service]("moderation.service")

// Dependencies holds the core services the moderation module is wired with.
type Dependencies struct {
	DB     *surrealdb.DB
	NS     string
	DBName string

	Publisher pubsub.Publisher
	Hub       *hub.Hub

	// Scripts is optional; when set, the delete/restore filter script is
	// active and hot-reloaded.
	Scripts *script.Engine

	// SweepCron schedules the pin-expiry sweeper.
	SweepCron string
}

// Module wires the moderation feature into the application.
type Module struct {
	module.BaseModule

	deps    Dependencies
	service *Service
	handler *Handler
	sweeper *Sweeper
}

// New creates the moderation module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the unique name for the module.
func (m *Module) Name() string {
	return "moderation"
}

// Register builds the stores, composes the hook chain and exposes the
// service through the registry.
func (m *Module) Register(reg *registry.Registry) error {
	topicStore := database.NewTopicStore(m.deps.DB, m.deps.NS, m.deps.DBName)
	setStore := database.NewSortedSetStore(m.deps.DB, m.deps.NS, m.deps.DBName)
	eventStore := database.NewEventStore(m.deps.DB, m.deps.NS, m.deps.DBName)
	categoryStore := database.NewCategoryStore(m.deps.DB, m.deps.NS, m.deps.DBName)
	userStore := database.NewUserStore(m.deps.DB, m.deps.NS, m.deps.DBName)
	privs := privileges.New(userStore)

	hooks := NewHooks()
	if m.deps.Scripts != nil {
		hooks.AddDeleteFilter(NewScriptFilter(m.deps.Scripts))
	}
	if m.deps.Publisher != nil {
		hooks.AddObserver(NewPublisherObserver(m.deps.Publisher))
	}
	if m.deps.Hub != nil {
		hooks.AddObserver(NewHubObserver(m.deps.Hub))
	}

	m.service = NewService(ServiceDeps{
		Topics:     topicStore,
		Sets:       setStore,
		Events:     eventStore,
		Categories: categoryStore,
		Users:      userStore,
		Privileges: privs,
		Hooks:      hooks,
	})
	m.handler = NewHandler(m.service, m.deps.Hub, eventStore)
	m.sweeper = NewSweeper(m.service, setStore, m.deps.SweepCron)

	registry.Set(reg, ServiceKey, m.service)
	return nil
}

// Boot registers the HTTP routes and starts the background processes.
func (m *Module) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	auth := middleware.Auth()

	topics := router.Group("/api/v1/topics", auth)
	topics.DELETE("/:tid", m.handler.Delete)
	topics.PUT("/:tid", m.handler.Restore)
	topics.DELETE("/:tid/purge", m.handler.Purge)
	topics.PUT("/:tid/lock", m.handler.Lock)
	topics.DELETE("/:tid/lock", m.handler.Unlock)
	topics.PUT("/:tid/pin", m.handler.Pin)
	topics.DELETE("/:tid/pin", m.handler.Unpin)
	topics.PUT("/:tid/pin/expiry", m.handler.SetPinExpiry)
	topics.POST("/pins/order", m.handler.OrderPinned)
	topics.PUT("/:tid/move", m.handler.Move)

	admin := router.Group("/admin/moderation", auth)
	admin.GET("/log", m.handler.AdminLog)
	admin.GET("/log/fragment", m.handler.AdminLogFragment)

	router.GET("/ws/moderation", m.handler.ServeWS, auth)

	if m.deps.Scripts != nil {
		if err := m.deps.Scripts.Load(); err != nil {
			slog.Warn("Failed to load moderation filter scripts", "error", err)
		} else if err := m.deps.Scripts.Watch(ctx); err != nil {
			slog.Warn("Failed to watch moderation filter scripts", "error", err)
		}
	}

	m.sweeper.Start(ctx)
	return nil
}

// Shutdown stops the background processes.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.sweeper != nil {
		m.sweeper.Stop()
	}
	return nil
}
