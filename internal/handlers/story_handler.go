package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/internal/services"
	"github.com/storyforge-app/backend/pkg/cache"
	"github.com/storyforge-app/backend/pkg/sanitize"
)

const tagsCacheKey = "stories:tags"

// StoryHandler handles story and chapter HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	cache           *cache.Cache
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, c *cache.Cache) *StoryHandler {
	return &StoryHandler{storyRepository: storyRepo, cache: c}
}

// RegisterPublicRoutes registers story routes that need no authentication
func (h *StoryHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/stories", h.ListStories)
	g.GET("/stories/explore", h.Explore)
	g.GET("/stories/tags", h.GetTags)
	g.GET("/stories/:id", h.GetStory)
	g.POST("/stories/:id/view", h.IncrementView)
	g.GET("/stories/:id/chapters", h.GetChapters)
}

// RegisterStoryRoutes registers authenticated story routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories/my-stories", h.GetMyStories)
	g.POST("/stories", h.CreateStory)
	g.PUT("/stories/:id", h.UpdateStory)
	g.PATCH("/stories/:id/publish", h.PublishStory)
	g.DELETE("/stories/:id", h.DeleteStory)
	g.POST("/stories/:id/chapters", h.AddChapter)
	g.PUT("/stories/:id/chapters/:chapterId", h.UpdateChapter)
}

// ListStories returns public published stories, optionally filtered by tag
func (h *StoryHandler) ListStories(c echo.Context) error {
	stories, err := h.storyRepository.ListPublished(c.QueryParam("tag"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stories)
}

// Explore returns a paginated, searchable view of published stories
func (h *StoryHandler) Explore(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	stories, total, err := h.storyRepository.Explore(c.QueryParam("search"), page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"stories": stories,
		"meta": echo.Map{
			"currentPage":  page,
			"totalItems":   total,
			"itemsPerPage": limit,
		},
	})
}

// GetTags returns all tag names in use, cached
func (h *StoryHandler) GetTags(c echo.Context) error {
	var tags []string
	if !h.cache.GetJSON(tagsCacheKey, &tags) {
		var err error
		tags, err = h.storyRepository.ListTags()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.cache.SetJSON(tagsCacheKey, tags, 10*time.Minute)
	}
	return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}

// GetMyStories returns all stories owned by the authenticated user
func (h *StoryHandler) GetMyStories(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	stories, err := h.storyRepository.ListByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stories)
}

// GetStory returns a single story. Unpublished or private stories are
// visible to their owner only.
func (h *StoryHandler) GetStory(c echo.Context) error {
	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	story, err := h.storyRepository.GetStoryByID(storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if story.Status != models.StoryStatusPublished || !story.IsPublic {
		if getUserIDFromContext(c) != story.UserID {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
	}
	return c.JSON(http.StatusOK, story)
}

// CreateStory creates a new draft story for the authenticated user
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	story := &models.Story{
		Title:       sanitize.Plain(req.Title),
		Description: sanitize.UGC(req.Description),
		CoverImage:  req.CoverImage,
		Status:      models.StoryStatusDraft,
		IsPublic:    isPublic,
		UserID:      currentUserID,
	}
	for _, name := range req.Tags {
		story.Tags = append(story.Tags, models.StoryTag{TagName: name})
	}

	if err := h.storyRepository.CreateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Delete(tagsCacheKey)

	return c.JSON(http.StatusCreated, story)
}

// UpdateStory updates story fields and tags; owner only
func (h *StoryHandler) UpdateStory(c echo.Context) error {
	story, httpErr := h.ownedStory(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.UpdateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != "" {
		story.Title = sanitize.Plain(req.Title)
	}
	if req.Description != "" {
		story.Description = sanitize.UGC(req.Description)
	}
	if req.CoverImage != "" {
		story.CoverImage = req.CoverImage
	}
	if req.Status != "" {
		story.Status = req.Status
	}
	if req.IsPublic != nil {
		story.IsPublic = *req.IsPublic
	}

	if err := h.storyRepository.UpdateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Tags != nil {
		if err := h.storyRepository.ReplaceTags(story.ID, req.Tags); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.cache.Delete(tagsCacheKey)
	}

	updated, err := h.storyRepository.GetStoryByID(story.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

// PublishStory transitions a story to the published status; owner only
func (h *StoryHandler) PublishStory(c echo.Context) error {
	story, httpErr := h.ownedStory(c)
	if httpErr != nil {
		return httpErr
	}

	story.Status = models.StoryStatusPublished
	if err := h.storyRepository.UpdateStory(story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, story)
}

// IncrementView bumps the story's view counter
func (h *StoryHandler) IncrementView(c echo.Context) error {
	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}
	if err := h.storyRepository.IncrementViews(storyID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "View counted"})
}

// DeleteStory removes a story and everything attached to it; owner only
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	story, httpErr := h.ownedStory(c)
	if httpErr != nil {
		return httpErr
	}

	if err := h.storyRepository.DeleteStory(story.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.cache.Delete(tagsCacheKey)
	// The cascade removes notifications for recipients we cannot enumerate,
	// so their cached unread counts must all go.
	h.cache.InvalidateByPrefix(services.UnreadCountCachePrefix)
	return c.NoContent(http.StatusNoContent)
}

// AddChapter appends a chapter to a story; owner only
func (h *StoryHandler) AddChapter(c echo.Context) error {
	story, httpErr := h.ownedStory(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.CreateChapterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chapter := &models.Chapter{
		ChapterNumber: req.ChapterNumber,
		Title:         sanitize.Plain(req.Title),
		Content:       sanitize.UGC(req.Content),
		Image:         req.Image,
		StoryID:       story.ID,
	}
	if err := h.storyRepository.AddChapter(chapter); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, chapter)
}

// GetChapters returns all chapters of a story in reading order
func (h *StoryHandler) GetChapters(c echo.Context) error {
	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}
	chapters, err := h.storyRepository.GetChaptersByStoryID(storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chapters)
}

// UpdateChapter updates a chapter; story owner only
func (h *StoryHandler) UpdateChapter(c echo.Context) error {
	story, httpErr := h.ownedStory(c)
	if httpErr != nil {
		return httpErr
	}

	chapterID, err := parseUintParam(c, "chapterId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid chapter ID")
	}

	chapter, err := h.storyRepository.GetChapterByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Chapter not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chapter.StoryID != story.ID {
		return echo.NewHTTPError(http.StatusNotFound, "Chapter not found")
	}

	var req models.UpdateChapterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.ChapterNumber != 0 {
		chapter.ChapterNumber = req.ChapterNumber
	}
	if req.Title != "" {
		chapter.Title = sanitize.Plain(req.Title)
	}
	if req.Content != "" {
		chapter.Content = sanitize.UGC(req.Content)
	}
	if req.Image != "" {
		chapter.Image = req.Image
	}

	if err := h.storyRepository.UpdateChapter(chapter); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chapter)
}

// ownedStory loads the story from the :id parameter and verifies the
// authenticated user owns it.
func (h *StoryHandler) ownedStory(c echo.Context) (*models.Story, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	storyID, err := parseUintParam(c, "id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	story, err := h.storyRepository.GetStoryByID(storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if story.UserID != currentUserID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this story")
	}
	return story, nil
}
