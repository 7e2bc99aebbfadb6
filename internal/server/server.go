package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/colefield/parley/internal/app"
	"github.com/colefield/parley/internal/config"
	"github.com/colefield/parley/internal/database"
	"github.com/colefield/parley/internal/handlers"
	"github.com/colefield/parley/internal/hub"
	"github.com/colefield/parley/internal/logging"
	appmiddleware "github.com/colefield/parley/internal/middleware"
	"github.com/colefield/parley/internal/module"
	"github.com/colefield/parley/internal/pubsub"
	"github.com/colefield/parley/internal/registry"
	"github.com/colefield/parley/internal/script"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	"github.com/surrealdb/surrealdb.go"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	DB  *surrealdb.DB
	Cfg *config.Config

	bridge   *pubsub.WatermillBridge
	registry *registry.Registry
	modules  []module.Module

	bootCtx     context.Context
	bootCancel  context.CancelFunc
	otelCleanup func()
}

// New creates a new Server instance with every core service wired up.
func New() *Server {
	logging.New() // Initialize the structured logger
	cfg := config.New()

	ctx, cancel := context.WithCancel(context.Background())

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	bridge := pubsub.NewWatermillBridge()
	tracer, otelCleanup, err := pubsub.SetupOTel(ctx, pubsub.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		ServiceName: "parley",
		ZipkinURL:   cfg.ZipkinURL,
	})
	if err != nil {
		slog.Error("Failed to set up tracing", "error", err)
		os.Exit(1)
	}
	bridge.SetTracer(tracer)

	modHub := hub.NewHub()
	go modHub.Run()

	var scripts *script.Engine
	if cfg.ModScriptDir != "" {
		scripts = script.NewEngine(afero.NewOsFs(), cfg.ModScriptDir)
	}

	reg := registry.New()
	modules := app.NewModules(app.Dependencies{
		DB:        db,
		Cfg:       cfg,
		Publisher: bridge,
		Hub:       modHub,
		Scripts:   scripts,
	})
	for _, m := range modules {
		if err := m.Register(reg); err != nil {
			slog.Error("Failed to register module", "module", m.Name(), "error", err)
			os.Exit(1)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	e.Static("/static", "web/static")

	return &Server{
		E:           e,
		DB:          db,
		Cfg:         cfg,
		bridge:      bridge,
		registry:    reg,
		modules:     modules,
		bootCtx:     ctx,
		bootCancel:  cancel,
		otelCleanup: otelCleanup,
	}
}
