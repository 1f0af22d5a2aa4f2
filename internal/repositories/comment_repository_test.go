package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge-app/backend/internal/models"
)

func TestCommentRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCommentRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	first := &models.Comment{StoryID: story.ID, UserID: reader.ID, Content: "first"}
	require.NoError(t, repo.CreateComment(first))
	// Distinct timestamps so the ordering assertion is meaningful.
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	second := &models.Comment{StoryID: story.ID, UserID: reader.ID, Content: "second"}
	require.NoError(t, repo.CreateComment(second))

	comments, err := repo.GetCommentsByStoryID(story.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "first", comments[1].Content)
	require.NotNil(t, comments[0].User)
	assert.Equal(t, "reader", comments[0].User.Username)

	count, err := repo.CountForStory(story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCommentRepository_DeleteCascadesToReplies(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCommentRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	parent := &models.Comment{StoryID: story.ID, UserID: reader.ID, Content: "parent"}
	require.NoError(t, repo.CreateComment(parent))

	reply := &models.Comment{StoryID: story.ID, UserID: author.ID, Content: "reply", ParentCommentID: &parent.ID}
	require.NoError(t, repo.CreateComment(reply))

	require.NoError(t, repo.DeleteComment(parent.ID))

	_, err := repo.GetCommentByID(reply.ID)
	require.Error(t, err)

	count, err := repo.CountForStory(story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestCommentRepository_UpdateContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCommentRepository(db)

	author := seedUser(t, db, "author")
	story := seedStory(t, db, author, "A Story")

	comment := &models.Comment{StoryID: story.ID, UserID: author.ID, Content: "draft thought"}
	require.NoError(t, repo.CreateComment(comment))

	comment.Content = "revised thought"
	require.NoError(t, repo.UpdateComment(comment))

	got, err := repo.GetCommentByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised thought", got.Content)
}
