package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
)

// newTestDB opens an in-memory SQLite database with foreign keys enforced
// and error translation enabled, matching the production GORM configuration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.Chapter{},
		&models.StoryTag{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.ReleaseNote{},
		&models.SystemSetting{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
		Password: "hash",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedStory(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Story {
	t.Helper()
	story := &models.Story{
		Title:    title,
		Status:   models.StoryStatusPublished,
		IsPublic: true,
		UserID:   author.ID,
	}
	require.NoError(t, db.Create(story).Error)
	return story
}
