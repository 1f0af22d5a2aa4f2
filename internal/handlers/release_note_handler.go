package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
)

// ReleaseNoteHandler handles release note HTTP requests
type ReleaseNoteHandler struct {
	releaseNoteRepository repositories.ReleaseNoteRepository
}

// NewReleaseNoteHandler creates a new ReleaseNoteHandler
func NewReleaseNoteHandler(noteRepo repositories.ReleaseNoteRepository) *ReleaseNoteHandler {
	return &ReleaseNoteHandler{releaseNoteRepository: noteRepo}
}

// RegisterPublicRoutes registers the public release note routes
func (h *ReleaseNoteHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/release-notes", h.GetPublished)
	g.GET("/release-notes/latest", h.GetLatest)
}

// RegisterAdminRoutes registers the admin release note CRUD routes
func (h *ReleaseNoteHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/release-notes", h.Create)
	g.GET("/release-notes", h.ListAll)
	g.GET("/release-notes/:id", h.GetOne)
	g.PATCH("/release-notes/:id", h.Update)
	g.PATCH("/release-notes/:id/toggle-published", h.TogglePublished)
	g.DELETE("/release-notes/:id", h.Delete)
}

// GetPublished returns published notes ordered by priority then recency
func (h *ReleaseNoteHandler) GetPublished(c echo.Context) error {
	notes, err := h.releaseNoteRepository.ListPublished()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notes)
}

// GetLatest returns the most recent published notes
func (h *ReleaseNoteHandler) GetLatest(c echo.Context) error {
	notes, err := h.releaseNoteRepository.Latest(5)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notes)
}

// Create adds a new release note
func (h *ReleaseNoteHandler) Create(c echo.Context) error {
	var req models.CreateReleaseNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	noteType := req.Type
	if noteType == "" {
		noteType = models.ReleaseNoteTypeMinor
	}

	note := &models.ReleaseNote{
		Title:       req.Title,
		Content:     req.Content,
		Version:     req.Version,
		Type:        noteType,
		IsPublished: isPublished,
		Priority:    req.Priority,
		ReleaseDate: req.ReleaseDate,
	}
	if err := h.releaseNoteRepository.Create(note); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, note)
}

// ListAll returns all notes including unpublished ones
func (h *ReleaseNoteHandler) ListAll(c echo.Context) error {
	notes, err := h.releaseNoteRepository.ListAll()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notes)
}

// GetOne returns a single release note by id
func (h *ReleaseNoteHandler) GetOne(c echo.Context) error {
	note, httpErr := h.noteByID(c)
	if httpErr != nil {
		return httpErr
	}
	return c.JSON(http.StatusOK, note)
}

// Update modifies an existing release note
func (h *ReleaseNoteHandler) Update(c echo.Context) error {
	note, httpErr := h.noteByID(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.UpdateReleaseNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}
	if req.Version != "" {
		note.Version = req.Version
	}
	if req.Type != "" {
		note.Type = req.Type
	}
	if req.IsPublished != nil {
		note.IsPublished = *req.IsPublished
	}
	if req.Priority != nil {
		note.Priority = *req.Priority
	}
	if req.ReleaseDate != nil {
		note.ReleaseDate = req.ReleaseDate
	}

	if err := h.releaseNoteRepository.Update(note); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, note)
}

// TogglePublished flips the published flag
func (h *ReleaseNoteHandler) TogglePublished(c echo.Context) error {
	note, httpErr := h.noteByID(c)
	if httpErr != nil {
		return httpErr
	}

	note.IsPublished = !note.IsPublished
	if err := h.releaseNoteRepository.Update(note); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, note)
}

// Delete removes a release note
func (h *ReleaseNoteHandler) Delete(c echo.Context) error {
	note, httpErr := h.noteByID(c)
	if httpErr != nil {
		return httpErr
	}

	if err := h.releaseNoteRepository.Delete(note.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReleaseNoteHandler) noteByID(c echo.Context) (*models.ReleaseNote, error) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid release note ID")
	}

	note, err := h.releaseNoteRepository.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Release note not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return note, nil
}
