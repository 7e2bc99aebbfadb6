package moderation

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/colefield/parley/internal/models"
	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// EventLister reads recent audit events for the admin moderation log.
type EventLister interface {
	ListRecent(ctx context.Context, limit int) ([]*models.AuditEvent, error)
}

const adminLogLimit = 50

// AdminLog handles GET /admin/moderation/log and renders the moderation log
// page. The table auto-refreshes via htmx.
func (h *Handler) AdminLog(c echo.Context) error {
	events, err := h.events.ListRecent(c.Request().Context(), adminLogLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load moderation log")
	}
	return renderHTML(c, adminLogPage(events))
}

// AdminLogFragment handles GET /admin/moderation/log/fragment and returns
// just the refreshed table.
func (h *Handler) AdminLogFragment(c echo.Context) error {
	events, err := h.events.ListRecent(c.Request().Context(), adminLogLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load moderation log")
	}
	return renderHTML(c, eventTable(events))
}

func renderHTML(c echo.Context, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return node.Render(c.Response())
}

func adminLogPage(events []*models.AuditEvent) g.Node {
	return HTML(
		Head(
			TitleEl(g.Text("Moderation log")),
			Script(Src("/static/htmx.min.js")),
		),
		Body(
			H1(g.Text("Moderation log")),
			Div(
				hx.Get("/admin/moderation/log/fragment"),
				hx.Trigger("every 10s"),
				hx.Swap("innerHTML"),
				eventTable(events),
			),
		),
	)
}

func eventTable(events []*models.AuditEvent) g.Node {
	return Table(
		THead(Tr(
			Th(g.Text("Time")),
			Th(g.Text("Topic")),
			Th(g.Text("Action")),
			Th(g.Text("By")),
			Th(g.Text("From category")),
		)),
		TBody(
			g.Map(events, func(e *models.AuditEvent) g.Node {
				ts := time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339)
				return Tr(
					Td(g.Text(ts)),
					Td(g.Text(e.TID)),
					Td(g.Text(e.Type)),
					Td(g.Text(e.UID)),
					Td(g.Text(e.FromCID)),
				)
			}),
		),
		TFoot(Tr(Td(
			ColSpan(strconv.Itoa(5)),
			g.Textf("%d events", len(events)),
		))),
	)
}
