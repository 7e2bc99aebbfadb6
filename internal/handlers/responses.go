package handlers

import (
	"errors"
	"net/http"

	"github.com/colefield/parley/internal/domain"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the standard format for API error responses. Code carries
// the stable domain error code clients match on.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DomainError writes a domain error as a JSON error response with the
// appropriate HTTP status.
func DomainError(c echo.Context, err error) error {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrNoTopic):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoPrivileges):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrAlreadyRestored):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidData),
		errors.Is(err, domain.ErrCantPinScheduled),
		errors.Is(err, domain.ErrCantMoveSameCategory):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		return c.JSON(status, ErrorResponse{Code: "internal-error", Message: "internal error"})
	}
	return c.JSON(status, ErrorResponse{Code: err.Error(), Message: err.Error()})
}
