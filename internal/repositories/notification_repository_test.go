package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge-app/backend/internal/models"
)

func TestNotificationRepository_SelfNotificationSuppressed(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	author := seedUser(t, db, "author")
	story := seedStory(t, db, author, "A Story")

	notification, err := repo.CreateNotification(author.ID, story.ID, author.ID, models.NotificationTypeLike, nil)
	require.NoError(t, err)
	assert.Nil(t, notification, "self-notification must not be persisted")

	count, err := repo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestNotificationRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	older, err := repo.CreateNotification(author.ID, story.ID, reader.ID, models.NotificationTypeLike, nil)
	require.NoError(t, err)
	require.NotNil(t, older)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer, err := repo.CreateNotification(author.ID, story.ID, reader.ID, models.NotificationTypeComment, nil)
	require.NoError(t, err)
	require.NotNil(t, newer)

	notifications, err := repo.GetByRecipientID(author.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, models.NotificationTypeComment, notifications[0].Type)
	assert.Equal(t, models.NotificationTypeLike, notifications[1].Type)

	// Enriched with actor and story for presentation.
	require.NotNil(t, notifications[0].Actor)
	assert.Equal(t, "reader", notifications[0].Actor.Username)
	require.NotNil(t, notifications[0].Story)
	assert.Equal(t, "A Story", notifications[0].Story.Title)
}

func TestNotificationRepository_UnreadFilterAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	first, err := repo.CreateNotification(author.ID, story.ID, reader.ID, models.NotificationTypeLike, nil)
	require.NoError(t, err)
	second, err := repo.CreateNotification(author.ID, story.ID, reader.ID, models.NotificationTypeComment, nil)
	require.NoError(t, err)

	require.NoError(t, repo.MarkAsRead(first.ID))

	unread, err := repo.GetByRecipientID(author.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	// Marking an already-read notification again is a no-op success.
	require.NoError(t, repo.MarkAsRead(first.ID))

	count, err := repo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotificationRepository_MarkAllReadIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	for i := 0; i < 3; i++ {
		_, err := repo.CreateNotification(author.ID, story.ID, reader.ID, models.NotificationTypeLike, nil)
		require.NoError(t, err)
	}

	require.NoError(t, repo.MarkAllAsRead(author.ID))
	count, err := repo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Second call has nothing to do and still succeeds.
	require.NoError(t, repo.MarkAllAsRead(author.ID))
	count, err = repo.GetUnreadCount(author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
