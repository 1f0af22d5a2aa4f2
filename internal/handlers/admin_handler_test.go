package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/middleware"
	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
)

func newAdminTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.SystemSetting{},
	))

	userRepo := repositories.NewPostgresUserRepository(db)
	storyRepo := repositories.NewPostgresStoryRepository(db)
	settingRepo := repositories.NewPostgresSystemSettingRepository(db)

	e := echo.New()
	admin := e.Group("/api/admin", middleware.JWTAuthMiddleware(testJWTSecret), middleware.RequireAdmin())
	NewAdminHandler(db, userRepo, storyRepo, settingRepo).RegisterAdminRoutes(admin)
	return e, db
}

func TestAdminDashboard_RequiresAdminRole(t *testing.T) {
	e, db := newAdminTestServer(t)

	reader := &models.User{Email: "reader@example.com", Username: "reader", Password: "hash"}
	require.NoError(t, db.Create(reader).Error)

	token := signTestToken(t, reader.ID, reader.Username, models.RoleUser)
	rec := doJSONRequest(e, http.MethodGet, "/api/admin/dashboard", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminDashboard_ReportsEntityCounts(t *testing.T) {
	e, db := newAdminTestServer(t)

	admin := &models.User{Email: "admin@example.com", Username: "admin", Password: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)
	author := &models.User{Email: "author@example.com", Username: "author", Password: "hash"}
	require.NoError(t, db.Create(author).Error)
	for _, title := range []string{"First", "Second", "Third"} {
		story := &models.Story{Title: title, Status: models.StoryStatusPublished, IsPublic: true, UserID: author.ID}
		require.NoError(t, db.Create(story).Error)
	}

	token := signTestToken(t, admin.ID, admin.Username, models.RoleAdmin)
	rec := doJSONRequest(e, http.MethodGet, "/api/admin/dashboard", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Counts      map[string]int64     `json:"counts"`
		RecentUsers []models.UserCompact `json:"recent_users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Counts["users"])
	assert.EqualValues(t, 3, body.Counts["stories"])
	assert.EqualValues(t, 0, body.Counts["comments"])
	assert.EqualValues(t, 0, body.Counts["likes"])
	assert.Len(t, body.RecentUsers, 2)
}
