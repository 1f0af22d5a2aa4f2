package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/middleware"
	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/internal/services"
	"github.com/storyforge-app/backend/pkg/cache"
	"github.com/storyforge-app/backend/pkg/config"
)

const testJWTSecret = "test-secret"

func newNotificationTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
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
		&models.Notification{},
	))

	notifRepo := repositories.NewPostgresNotificationRepository(db)
	notifService := services.NewNotificationService(notifRepo, cache.New(&config.Config{}))

	e := echo.New()
	protected := e.Group("/api", middleware.JWTAuthMiddleware(testJWTSecret))
	NewNotificationHandler(notifService).RegisterNotificationRoutes(protected)
	return e, db
}

func signTestToken(t *testing.T, userID uint, username, role string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func doJSONRequest(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNotificationRoutes_RejectMissingToken(t *testing.T) {
	e, _ := newNotificationTestServer(t)

	rec := doJSONRequest(e, http.MethodGet, "/api/notifications", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSONRequest(e, http.MethodGet, "/api/notifications/count", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationRoutes_ListAndCount(t *testing.T) {
	e, db := newNotificationTestServer(t)

	recipient := &models.User{Email: "recipient@example.com", Username: "recipient", Password: "hash"}
	require.NoError(t, db.Create(recipient).Error)
	actor := &models.User{Email: "actor@example.com", Username: "actor", Password: "hash"}
	require.NoError(t, db.Create(actor).Error)
	story := &models.Story{Title: "A Story", Status: models.StoryStatusPublished, IsPublic: true, UserID: recipient.ID}
	require.NoError(t, db.Create(story).Error)
	notif := &models.Notification{RecipientID: recipient.ID, Type: models.NotificationTypeLike, StoryID: story.ID, ActorID: actor.ID}
	require.NoError(t, db.Create(notif).Error)

	token := signTestToken(t, recipient.ID, recipient.Username, models.RoleUser)

	rec := doJSONRequest(e, http.MethodGet, "/api/notifications", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.NotificationTypeLike, listed[0].Type)

	rec = doJSONRequest(e, http.MethodGet, "/api/notifications/count", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var counted map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counted))
	assert.EqualValues(t, 1, counted["count"])

	// The actor's own feed is empty; notifications are scoped to the recipient.
	actorToken := signTestToken(t, actor.ID, actor.Username, models.RoleUser)
	rec = doJSONRequest(e, http.MethodGet, "/api/notifications", actorToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestNotificationRoutes_MarkReadFlow(t *testing.T) {
	e, db := newNotificationTestServer(t)

	recipient := &models.User{Email: "recipient@example.com", Username: "recipient", Password: "hash"}
	require.NoError(t, db.Create(recipient).Error)
	actor := &models.User{Email: "actor@example.com", Username: "actor", Password: "hash"}
	require.NoError(t, db.Create(actor).Error)
	story := &models.Story{Title: "A Story", Status: models.StoryStatusPublished, IsPublic: true, UserID: recipient.ID}
	require.NoError(t, db.Create(story).Error)
	notif := &models.Notification{RecipientID: recipient.ID, Type: models.NotificationTypeComment, StoryID: story.ID, ActorID: actor.ID}
	require.NoError(t, db.Create(notif).Error)

	token := signTestToken(t, recipient.ID, recipient.Username, models.RoleUser)

	rec := doJSONRequest(e, http.MethodPut, "/api/notifications/1/read", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Marking an already-read notification succeeds again.
	rec = doJSONRequest(e, http.MethodPut, "/api/notifications/1/read", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSONRequest(e, http.MethodGet, "/api/notifications?unread=true", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var unread []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unread))
	assert.Empty(t, unread)

	rec = doJSONRequest(e, http.MethodPut, "/api/notifications/read-all", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
