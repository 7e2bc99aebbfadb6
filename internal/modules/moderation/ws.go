package moderation

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/colefield/parley/internal/hub"
	"github.com/colefield/parley/internal/middleware"
	"github.com/labstack/echo/v4"
)

// ServeWS upgrades the connection and streams the live moderation feed. The
// hub broadcasts every post-commit moderation event to connected clients.
func (h *Handler) ServeWS(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		// The feed is same-origin in production; origin checks are enforced
		// at the proxy.
		InsecureSkipVerify: true,
	})
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return c.String(http.StatusInternalServerError, "Failed to upgrade to WebSocket")
	}

	sub := &hub.Subscriber{
		UserID: middleware.ActingUID(c),
		Send:   make(chan []byte, 256),
	}
	h.hub.Register <- sub

	// The feed is write-only; CloseRead still services control frames and
	// signals when the client goes away.
	ctx := conn.CloseRead(c.Request().Context())

	go func() {
		defer func() {
			h.hub.Unregister <- sub
			conn.Close(websocket.StatusNormalClosure, "")
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Send:
				if !ok {
					return
				}
				if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
					slog.Debug("Moderation feed write failed", "error", err)
					return
				}
			}
		}
	}()

	return nil
}
