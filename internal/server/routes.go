package server

import (
	"log/slog"
	"net/http"
	"os"

	appmiddleware "github.com/colefield/parley/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the application routes and boots every module.
func (s *Server) RegisterRoutes() {
	rateLimiter := appmiddleware.RateLimiter()

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	root := s.E.Group("", rateLimiter)
	for _, m := range s.modules {
		if err := m.Boot(s.bootCtx, root, s.registry); err != nil {
			slog.Error("Failed to boot module", "module", m.Name(), "error", err)
			os.Exit(1)
		}
	}
}
