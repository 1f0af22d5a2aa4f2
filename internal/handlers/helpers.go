package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storyforge-app/backend/internal/middleware"
)

// getUserIDFromContext returns the authenticated user's id, or 0 when the
// request carries no valid claims.
func getUserIDFromContext(c echo.Context) uint {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
