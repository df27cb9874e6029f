package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unilink/backend/internal/models"
	"github.com/unilink/backend/internal/services"
)

// getUserIDFromContext extracts the authenticated user ID placed in the
// context by the JWT middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// serviceError translates service-layer sentinel errors to HTTP errors.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, services.ErrSelfReference):
		return echo.NewHTTPError(http.StatusBadRequest, "Operation cannot target yourself")
	case errors.Is(err, services.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to perform this action")
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Operation conflicts with current state")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
