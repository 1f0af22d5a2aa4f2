package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
)

// MaintenanceMiddleware gates API traffic behind the maintenance_mode system
// setting. Admin users, the admin API and login remain reachable so the mode
// can be turned off again.
func MaintenanceMiddleware(settings repositories.SystemSettingRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/api/admin") || strings.HasPrefix(path, "/api/auth") || path == "/health" {
				return next(c)
			}

			if settings.GetValue(models.SettingMaintenanceMode, "false") != "true" {
				return next(c)
			}

			if claims := ClaimsFromContext(c); claims != nil && claims.Role == models.RoleAdmin {
				return next(c)
			}

			message := settings.GetValue(models.SettingMaintenanceMessage, "The platform is under maintenance. Please try again later.")
			return echo.NewHTTPError(http.StatusServiceUnavailable, message)
		}
	}
}
