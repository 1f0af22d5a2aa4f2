package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Version is the build version reported by /api/version.
var Version = "dev"

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "storyforge-api",
	})
}

func GetVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"version": Version})
}
