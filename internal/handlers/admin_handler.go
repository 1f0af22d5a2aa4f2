package handlers

import (
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
)

var startTime = time.Now()

// AdminHandler handles the admin dashboard and system management endpoints.
// Registered behind the admin role guard.
type AdminHandler struct {
	db                *gorm.DB
	userRepository    repositories.UserRepository
	storyRepository   repositories.StoryRepository
	settingRepository repositories.SystemSettingRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(db *gorm.DB, userRepo repositories.UserRepository, storyRepo repositories.StoryRepository, settingRepo repositories.SystemSettingRepository) *AdminHandler {
	return &AdminHandler{
		db:                db,
		userRepository:    userRepo,
		storyRepository:   storyRepo,
		settingRepository: settingRepo,
	}
}

// RegisterAdminRoutes registers the admin routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/dashboard", h.GetDashboard)
	g.GET("/stats", h.GetStats)
	g.GET("/settings", h.GetSettings)
	g.POST("/settings", h.UpdateSetting)
	g.GET("/maintenance", h.GetMaintenanceStatus)
	g.POST("/maintenance/enable", h.EnableMaintenance)
	g.POST("/maintenance/disable", h.DisableMaintenance)
	g.POST("/maintenance/warning", h.EnableMaintenanceWarning)
	g.POST("/maintenance/warning/disable", h.DisableMaintenanceWarning)
	g.GET("/system/metrics", h.GetSystemMetrics)
	g.GET("/database/info", h.GetDatabaseInfo)
	g.GET("/environment", h.GetEnvironment)
}

// GetDashboard returns entity counts and the newest signups
func (h *AdminHandler) GetDashboard(c echo.Context) error {
	counts := h.entityCounts()

	recent, err := h.userRepository.RecentUsers(10)
	if err != nil {
		recent = nil
	}
	recentCompact := make([]models.UserCompact, 0, len(recent))
	for i := range recent {
		recentCompact = append(recentCompact, recent[i].ToCompact())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"counts":       counts,
		"recent_users": recentCompact,
	})
}

// GetStats returns aggregate platform statistics
func (h *AdminHandler) GetStats(c echo.Context) error {
	counts := h.entityCounts()

	var publishedStories int64
	if err := h.db.Model(&models.Story{}).Where("status = ?", models.StoryStatusPublished).Count(&publishedStories).Error; err != nil {
		publishedStories = 0
	}
	var unreadNotifications int64
	if err := h.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&unreadNotifications).Error; err != nil {
		unreadNotifications = 0
	}

	counts["published_stories"] = publishedStories
	counts["unread_notifications"] = unreadNotifications
	return c.JSON(http.StatusOK, counts)
}

// GetSettings lists system settings, optionally filtered by category
func (h *AdminHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingRepository.List(c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSetting upserts a system setting by key
func (h *AdminHandler) UpdateSetting(c echo.Context) error {
	var req models.UpdateSystemSettingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	setting := &models.SystemSetting{
		Key:         req.Key,
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
		Category:    req.Category,
	}
	if setting.Type == "" {
		setting.Type = "string"
	}
	if setting.Category == "" {
		setting.Category = "system"
	}

	if err := h.settingRepository.Upsert(setting); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, setting)
}

// GetMaintenanceStatus reports the maintenance and warning flags
func (h *AdminHandler) GetMaintenanceStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"maintenance_mode":    h.settingRepository.GetValue(models.SettingMaintenanceMode, "false") == "true",
		"maintenance_message": h.settingRepository.GetValue(models.SettingMaintenanceMessage, ""),
		"warning":             h.settingRepository.GetValue(models.SettingMaintenanceWarning, "false") == "true",
		"warning_message":     h.settingRepository.GetValue(models.SettingMaintenanceWarningMessage, ""),
	})
}

// EnableMaintenance turns maintenance mode on with an optional message
func (h *AdminHandler) EnableMaintenance(c echo.Context) error {
	return h.setMaintenanceFlag(c, models.SettingMaintenanceMode, models.SettingMaintenanceMessage, "true")
}

// DisableMaintenance turns maintenance mode off
func (h *AdminHandler) DisableMaintenance(c echo.Context) error {
	return h.setMaintenanceFlag(c, models.SettingMaintenanceMode, models.SettingMaintenanceMessage, "false")
}

// EnableMaintenanceWarning shows a pre-maintenance warning banner
func (h *AdminHandler) EnableMaintenanceWarning(c echo.Context) error {
	return h.setMaintenanceFlag(c, models.SettingMaintenanceWarning, models.SettingMaintenanceWarningMessage, "true")
}

// DisableMaintenanceWarning hides the warning banner
func (h *AdminHandler) DisableMaintenanceWarning(c echo.Context) error {
	return h.setMaintenanceFlag(c, models.SettingMaintenanceWarning, models.SettingMaintenanceWarningMessage, "false")
}

// GetSystemMetrics reports Go runtime metrics for the monitoring panel
func (h *AdminHandler) GetSystemMetrics(c echo.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return c.JSON(http.StatusOK, echo.Map{
		"goroutines":       runtime.NumGoroutine(),
		"heap_alloc":       m.HeapAlloc,
		"heap_sys":         m.HeapSys,
		"total_alloc":      m.TotalAlloc,
		"gc_runs":          m.NumGC,
		"uptime_seconds":   int64(time.Since(startTime).Seconds()),
		"go_version":       runtime.Version(),
		"num_cpu":          runtime.NumCPU(),
		"last_gc_pause_ns": m.PauseNs[(m.NumGC+255)%256],
	})
}

// GetDatabaseInfo reports per-table row counts
func (h *AdminHandler) GetDatabaseInfo(c echo.Context) error {
	info := echo.Map{}
	for name, model := range map[string]interface{}{
		"users":           &models.User{},
		"stories":         &models.Story{},
		"chapters":        &models.Chapter{},
		"story_tags":      &models.StoryTag{},
		"comments":        &models.Comment{},
		"likes":           &models.Like{},
		"notifications":   &models.Notification{},
		"release_notes":   &models.ReleaseNote{},
		"system_settings": &models.SystemSetting{},
	} {
		var count int64
		if err := h.db.Model(model).Count(&count).Error; err != nil {
			count = 0
		}
		info[name] = count
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": info})
}

// GetEnvironment returns non-sensitive environment variables
func (h *AdminHandler) GetEnvironment(c echo.Context) error {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := parts[0]
		upper := strings.ToUpper(key)
		if strings.Contains(upper, "SECRET") || strings.Contains(upper, "PASSWORD") ||
			strings.Contains(upper, "TOKEN") || strings.Contains(upper, "CONN_STR") {
			env[key] = "[redacted]"
			continue
		}
		env[key] = parts[1]
	}
	return c.JSON(http.StatusOK, env)
}

func (h *AdminHandler) setMaintenanceFlag(c echo.Context, flagKey, messageKey, value string) error {
	flag := &models.SystemSetting{Key: flagKey, Value: value, Type: "boolean", Category: "maintenance"}
	if err := h.settingRepository.Upsert(flag); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if value == "true" {
		var body struct {
			Message string `json:"message"`
		}
		if err := c.Bind(&body); err == nil && body.Message != "" {
			msg := &models.SystemSetting{Key: messageKey, Value: body.Message, Type: "string", Category: "maintenance"}
			if err := h.settingRepository.Upsert(msg); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"key": flagKey, "value": value})
}

func (h *AdminHandler) entityCounts() map[string]int64 {
	users, err := h.userRepository.CountUsers()
	if err != nil {
		users = 0
	}
	stories, err := h.storyRepository.CountStories()
	if err != nil {
		stories = 0
	}

	counts := map[string]int64{"users": users, "stories": stories}
	for name, model := range map[string]interface{}{
		"comments": &models.Comment{},
		"likes":    &models.Like{},
	} {
		var count int64
		if err := h.db.Model(model).Count(&count).Error; err != nil {
			count = 0
		}
		counts[name] = count
	}
	return counts
}
