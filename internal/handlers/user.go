package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/internal/services"
	"github.com/storyforge-app/backend/pkg/cache"
)

// UserHandler handles user account HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	cache          *cache.Cache
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, c *cache.Cache) *UserHandler {
	return &UserHandler{userRepository: userRepo, cache: c}
}

// RegisterUserRoutes registers user account routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
	g.DELETE("/users/delete-account", h.DeleteAccount)
}

// GetUser returns a user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToCompact())
}

// DeleteAccount permanently deletes the authenticated user's account after
// a password confirmation. Stories, comments, likes and notifications are
// removed by the declared FK cascades.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Password is incorrect")
	}

	if err := h.userRepository.DeleteUser(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Cascaded notification deletes stale the unread counts of users this
	// account interacted with.
	h.cache.InvalidateByPrefix(services.UnreadCountCachePrefix)
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted successfully"})
}
