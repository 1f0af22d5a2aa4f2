package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/internal/services"
	"github.com/storyforge-app/backend/pkg/sanitize"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository  repositories.CommentRepository
	interactionService *services.InteractionService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, interactions *services.InteractionService) *CommentHandler {
	return &CommentHandler{
		commentRepository:  commentRepo,
		interactionService: interactions,
	}
}

// RegisterPublicRoutes registers the comment read routes
func (h *CommentHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/stories/:storyId/comments", h.GetComments)
}

// RegisterCommentRoutes registers the authenticated comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/stories/:storyId/comments", h.CreateComment)
	g.PUT("/stories/:storyId/comments/:id", h.UpdateComment)
	g.DELETE("/stories/:storyId/comments/:id", h.DeleteComment)
}

// GetComments retrieves all comments for a story, newest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	storyID, err := parseUintParam(c, "storyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	comments, err := h.commentRepository.GetCommentsByStoryID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment posts a comment or a reply on a story. Notification
// emission happens inside the interaction service and never fails the
// request.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	storyID, err := parseUintParam(c, "storyId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.interactionService.PostComment(currentUserID, storyID, req.Content, req.ParentCommentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStoryNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		case errors.Is(err, services.ErrParentCommentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
		case errors.Is(err, services.ErrEmptyComment):
			return echo.NewHTTPError(http.StatusBadRequest, "Comment must not be empty")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates an existing comment; author only
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this comment")
	}

	content := strings.TrimSpace(sanitize.Plain(req.Content))
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment must not be empty")
	}

	comment.Content = content
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment; author only. Replies go with it via the
// declared FK cascade.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
