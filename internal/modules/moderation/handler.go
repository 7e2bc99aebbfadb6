package moderation

import (
	"net/http"

	"github.com/colefield/parley/internal/domain"
	"github.com/colefield/parley/internal/handlers"
	"github.com/colefield/parley/internal/hub"
	"github.com/colefield/parley/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handler exposes the moderation actions over HTTP.
type Handler struct {
	service *Service
	hub     *hub.Hub
	events  EventLister
}

// NewHandler creates a new moderation handler.
func NewHandler(service *Service, h *hub.Hub, events EventLister) *Handler {
	return &Handler{service: service, hub: h, events: events}
}

// SetPinExpiryRequest is the DTO for the pin expiry endpoint. Expiry is unix
// milliseconds; binding rejects non-numeric values.
type SetPinExpiryRequest struct {
	Expiry int64 `json:"expiry" validate:"required"`
}

// OrderPinnedRequest is the DTO for the pinned reorder endpoint.
type OrderPinnedRequest struct {
	Topics []TopicOrder `json:"topics" validate:"required,min=1,dive"`
}

// MoveRequest is the DTO for the move endpoint.
type MoveRequest struct {
	CID string `json:"cid" validate:"required"`
}

// Delete handles DELETE /api/v1/topics/:tid.
func (h *Handler) Delete(c echo.Context) error {
	result, err := h.service.Delete(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Restore handles PUT /api/v1/topics/:tid.
func (h *Handler) Restore(c echo.Context) error {
	result, err := h.service.Restore(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Purge handles DELETE /api/v1/topics/:tid/purge.
func (h *Handler) Purge(c echo.Context) error {
	result, err := h.service.Purge(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Lock handles PUT /api/v1/topics/:tid/lock.
func (h *Handler) Lock(c echo.Context) error {
	result, err := h.service.Lock(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Unlock handles DELETE /api/v1/topics/:tid/lock.
func (h *Handler) Unlock(c echo.Context) error {
	result, err := h.service.Unlock(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Pin handles PUT /api/v1/topics/:tid/pin.
func (h *Handler) Pin(c echo.Context) error {
	result, err := h.service.Pin(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Unpin handles DELETE /api/v1/topics/:tid/pin.
func (h *Handler) Unpin(c echo.Context) error {
	result, err := h.service.Unpin(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// SetPinExpiry handles PUT /api/v1/topics/:tid/pin/expiry.
func (h *Handler) SetPinExpiry(c echo.Context) error {
	var req SetPinExpiryRequest
	if err := c.Bind(&req); err != nil {
		return handlers.DomainError(c, domain.ErrInvalidData)
	}
	if err := c.Validate(&req); err != nil {
		return handlers.DomainError(c, domain.ErrInvalidData)
	}

	err := h.service.SetPinExpiry(c.Request().Context(), c.Param("tid"), middleware.ActingUID(c), req.Expiry)
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// OrderPinned handles POST /api/v1/topics/pins/order.
func (h *Handler) OrderPinned(c echo.Context) error {
	var req OrderPinnedRequest
	if err := c.Bind(&req); err != nil {
		return handlers.DomainError(c, domain.ErrInvalidData)
	}
	if err := c.Validate(&req); err != nil {
		return handlers.DomainError(c, domain.ErrInvalidData)
	}

	if err := h.service.OrderPinnedTopics(c.Request().Context(), middleware.ActingUID(c), req.Topics); err != nil {
		return handlers.DomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Move handles PUT /api/v1/topics/:tid/move.
func (h *Handler) Move(c echo.Context) error {
	var req MoveRequest
	if err := c.Bind(&req); err != nil {
		return handlers.DomainError(c, domain.ErrInvalidData)
	}
	if err := c.Validate(&req); err != nil {
		return handlers.DomainError(c, domain.ErrInvalidData)
	}

	result, err := h.service.Move(c.Request().Context(), c.Param("tid"), req.CID, middleware.ActingUID(c))
	if err != nil {
		return handlers.DomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
