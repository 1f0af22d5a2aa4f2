package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/storyforge-app/backend/pkg/config"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadHandler stores uploaded images on local disk under per-kind
// directories and returns their public URLs.
type UploadHandler struct {
	uploadDir    string
	maxSizeBytes int64
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		uploadDir:    cfg.UploadDir,
		maxSizeBytes: int64(cfg.MaxUploadSizeMB) << 20,
	}
}

// RegisterUploadRoutes registers the authenticated upload routes
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload/avatar", h.uploadKind("avatar"))
	g.POST("/upload/cover", h.uploadKind("cover"))
	g.POST("/upload/chapter-image", h.uploadKind("chapter-image"))
}

func (h *UploadHandler) uploadKind(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if getUserIDFromContext(c) == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing file field")
		}
		if fileHeader.Size > h.maxSizeBytes {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB limit", h.maxSizeBytes>>20))
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedImageExtensions[ext] {
			return echo.NewHTTPError(http.StatusBadRequest, "Unsupported image type")
		}

		src, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		defer src.Close()

		dir := filepath.Join(h.uploadDir, kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		name := uuid.NewString() + ext
		dstPath := filepath.Join(dir, name)
		dst, err := os.Create(dstPath)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		defer dst.Close()

		if _, err := io.Copy(dst, src); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusCreated, echo.Map{
			"url": "/uploads/" + kind + "/" + name,
		})
	}
}
