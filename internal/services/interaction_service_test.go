package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/pkg/cache"
	"github.com/storyforge-app/backend/pkg/config"
)

type fixture struct {
	db                  *gorm.DB
	likes               repositories.LikeRepository
	comments            repositories.CommentRepository
	stories             repositories.StoryRepository
	notifications       repositories.NotificationRepository
	interactionService  *InteractionService
	notificationService *NotificationService
}

func newFixture(t *testing.T) *fixture {
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
	))

	likes := repositories.NewPostgresLikeRepository(db)
	comments := repositories.NewPostgresCommentRepository(db)
	stories := repositories.NewPostgresStoryRepository(db)
	notifications := repositories.NewPostgresNotificationRepository(db)
	c := cache.New(&config.Config{})

	return &fixture{
		db:                  db,
		likes:               likes,
		comments:            comments,
		stories:             stories,
		notifications:       notifications,
		interactionService:  NewInteractionService(likes, comments, stories, notifications, c),
		notificationService: NewNotificationService(notifications, c),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Email: username + "@example.com", Username: username, Password: "hash"}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) story(t *testing.T, author *models.User) *models.Story {
	t.Helper()
	s := &models.Story{Title: "A Story", Status: models.StoryStatusPublished, IsPublic: true, UserID: author.ID}
	require.NoError(t, f.db.Create(s).Error)
	return s
}

func (f *fixture) unreadCount(t *testing.T, userID uint) int64 {
	t.Helper()
	count, err := f.notifications.GetUnreadCount(userID)
	require.NoError(t, err)
	return count
}

func TestToggleLike_AlternatesState(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	story := f.story(t, author)

	// hasLiked reflects the parity of prior toggles.
	for i := 0; i < 4; i++ {
		liked, err := f.interactionService.ToggleLike(reader.ID, story.ID)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 0, liked)

		hasLiked, err := f.likes.HasLiked(reader.ID, story.ID)
		require.NoError(t, err)
		assert.Equal(t, liked, hasLiked)
	}
}

func TestToggleLike_NotifiesAuthorOnLikeOnly(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	story := f.story(t, author)

	liked, err := f.interactionService.ToggleLike(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, f.unreadCount(t, author.ID))

	// Unlike does not notify; the like notification stays.
	liked, err = f.interactionService.ToggleLike(reader.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 1, f.unreadCount(t, author.ID))

	notifications, err := f.notifications.GetByRecipientID(author.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLike, notifications[0].Type)
	assert.Equal(t, reader.ID, notifications[0].ActorID)
}

func TestToggleLike_SelfLikeSuppressed(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	story := f.story(t, author)

	liked, err := f.interactionService.ToggleLike(author.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 0, f.unreadCount(t, author.ID))
}

func TestToggleLike_StoryNotFound(t *testing.T) {
	f := newFixture(t)
	reader := f.user(t, "reader")

	_, err := f.interactionService.ToggleLike(reader.ID, 9999)
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

// racingLikeRepository simulates the window where two concurrent toggles both
// observe an absent like before either insert lands.
type racingLikeRepository struct {
	repositories.LikeRepository
}

func (r *racingLikeRepository) HasLiked(userID, storyID uint) (bool, error) {
	return false, nil
}

func TestToggleLike_DuplicateInsertReconciled(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	story := f.story(t, author)

	racing := NewInteractionService(&racingLikeRepository{f.likes}, f.comments, f.stories, f.notifications, cache.New(&config.Config{}))

	// First toggle wins the insert.
	liked, err := racing.ToggleLike(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// Second toggle hits the uniqueness constraint and is reconciled into
	// an idempotent already-liked result rather than an error.
	liked, err = racing.ToggleLike(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := f.likes.CountForStory(story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "the constraint admits a single row")

	// The race loser does not emit a second notification.
	assert.EqualValues(t, 1, f.unreadCount(t, author.ID))
}

func TestPostComment_TopLevelNotifiesStoryAuthor(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	story := f.story(t, author)

	comment, err := f.interactionService.PostComment(reader.ID, story.ID, "lovely story", nil)
	require.NoError(t, err)
	require.NotNil(t, comment)
	assert.Nil(t, comment.ParentCommentID)

	notifications, err := f.notifications.GetByRecipientID(author.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeComment, notifications[0].Type)
	assert.Equal(t, reader.ID, notifications[0].ActorID)
	require.NotNil(t, notifications[0].CommentID)
	assert.Equal(t, comment.ID, *notifications[0].CommentID)
}

func TestPostComment_ReplyNotifiesParentAuthorNotStoryAuthor(t *testing.T) {
	f := newFixture(t)
	storyAuthor := f.user(t, "story-author")
	commenter := f.user(t, "commenter")
	replier := f.user(t, "replier")
	story := f.story(t, storyAuthor)

	parent, err := f.interactionService.PostComment(commenter.ID, story.ID, "top level", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.unreadCount(t, storyAuthor.ID))

	reply, err := f.interactionService.PostComment(replier.ID, story.ID, "a reply", &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)

	// The reply notifies the parent comment's author with type reply.
	notifications, err := f.notifications.GetByRecipientID(commenter.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeReply, notifications[0].Type)
	assert.Equal(t, replier.ID, notifications[0].ActorID)

	// The story author gets nothing for the reply.
	assert.EqualValues(t, 1, f.unreadCount(t, storyAuthor.ID))
}

func TestPostComment_SelfReplySuppressed(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	commenter := f.user(t, "commenter")
	story := f.story(t, author)

	parent, err := f.interactionService.PostComment(commenter.ID, story.ID, "top level", nil)
	require.NoError(t, err)

	// Replying to your own comment produces no notification.
	_, err = f.interactionService.PostComment(commenter.ID, story.ID, "replying to myself", &parent.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.unreadCount(t, commenter.ID))
}

func TestPostComment_ParentFromAnotherStoryRejected(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	commenter := f.user(t, "commenter")
	storyA := f.story(t, author)
	storyB := f.story(t, author)

	parent, err := f.interactionService.PostComment(commenter.ID, storyA.ID, "on story A", nil)
	require.NoError(t, err)

	_, err = f.interactionService.PostComment(commenter.ID, storyB.ID, "cross-story reply", &parent.ID)
	assert.ErrorIs(t, err, ErrParentCommentNotFound)
}

func TestPostComment_AllMarkupContentRejected(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	reader := f.user(t, "reader")
	story := f.story(t, author)

	// Sanitization strips the body to nothing; the comment must not be
	// stored and no notification emitted.
	_, err := f.interactionService.PostComment(reader.ID, story.ID, "<script>alert(1)</script>", nil)
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = f.interactionService.PostComment(reader.ID, story.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyComment)

	count, err := f.comments.CountForStory(story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.EqualValues(t, 0, f.unreadCount(t, author.ID))

	// Markup around real text survives as the text itself.
	comment, err := f.interactionService.PostComment(reader.ID, story.ID, "<b>bold take</b>", nil)
	require.NoError(t, err)
	assert.Equal(t, "bold take", comment.Content)
}

func TestPostComment_MissingParentRejected(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	commenter := f.user(t, "commenter")
	story := f.story(t, author)

	missing := uint(9999)
	_, err := f.interactionService.PostComment(commenter.ID, story.ID, "orphan reply", &missing)
	assert.ErrorIs(t, err, ErrParentCommentNotFound)
}

func TestInteractionScenario_EndToEnd(t *testing.T) {
	f := newFixture(t)
	user1 := f.user(t, "user1")
	user2 := f.user(t, "user2")
	user3 := f.user(t, "user3")
	story := f.story(t, user1)

	// User 2 likes the story.
	liked, err := f.interactionService.ToggleLike(user2.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, f.unreadCount(t, user1.ID))

	// User 2 unlikes; no new notification, the old one remains.
	liked, err = f.interactionService.ToggleLike(user2.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 1, f.unreadCount(t, user1.ID))

	// User 3 comments top-level.
	comment, err := f.interactionService.PostComment(user3.ID, story.ID, "great read", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.unreadCount(t, user1.ID))

	// User 1 replies to user 3's comment: user 3 is notified, user 1's
	// own count is unchanged.
	_, err = f.interactionService.PostComment(user1.ID, story.ID, "thank you", &comment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.unreadCount(t, user3.ID))
	assert.EqualValues(t, 2, f.unreadCount(t, user1.ID))

	// Mark-all-read empties user 1's unread set; repeating it is a no-op.
	require.NoError(t, f.notificationService.MarkAllRead(user1.ID))
	assert.EqualValues(t, 0, f.unreadCount(t, user1.ID))
	require.NoError(t, f.notificationService.MarkAllRead(user1.ID))
	assert.EqualValues(t, 0, f.unreadCount(t, user1.ID))
}
