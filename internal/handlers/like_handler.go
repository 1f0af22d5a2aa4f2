package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository     repositories.LikeRepository
	interactionService *services.InteractionService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, interactions *services.InteractionService) *LikeHandler {
	return &LikeHandler{
		likeRepository:     likeRepo,
		interactionService: interactions,
	}
}

// RegisterPublicRoutes registers the like read routes
func (h *LikeHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/stories/:storyId/likes", h.GetLikes)
	g.GET("/stories/:storyId/likes/count", h.GetLikesCount)
}

// RegisterLikeRoutes registers the authenticated like routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/stories/:storyId/likes/toggle", h.ToggleLike)
	g.GET("/stories/:storyId/likes/status", h.GetLikeStatus)
}

// GetLikes retrieves all likes for a story with the liking user attached
func (h *LikeHandler) GetLikes(c echo.Context) error {
	storyID, err := parseUintParam(c, "storyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	likes, err := h.likeRepository.ListForStory(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, likes)
}

// GetLikesCount retrieves the total number of likes for a story
func (h *LikeHandler) GetLikesCount(c echo.Context) error {
	storyID, err := parseUintParam(c, "storyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	count, err := h.likeRepository.CountForStory(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"story_id": storyID, "count": count})
}

// ToggleLike likes or unlikes the story for the authenticated user
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	storyID, err := parseUintParam(c, "storyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	liked, err := h.interactionService.ToggleLike(currentUserID, storyID)
	if err != nil {
		if errors.Is(err, services.ErrStoryNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// GetLikeStatus checks if the authenticated user has liked the story
func (h *LikeHandler) GetLikeStatus(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	storyID, err := parseUintParam(c, "storyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	hasLiked, err := h.likeRepository.HasLiked(currentUserID, storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"story_id": storyID, "has_liked": hasLiked})
}
