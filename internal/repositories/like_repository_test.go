package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLikeRepository_DuplicatePairRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	_, err := repo.LikeStory(reader.ID, story.ID)
	require.NoError(t, err)

	_, err = repo.LikeStory(reader.ID, story.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	count, err := repo.CountForStory(story.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestLikeRepository_HasLikedAndUnlike(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	story := seedStory(t, db, author, "A Story")

	hasLiked, err := repo.HasLiked(reader.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, hasLiked)

	_, err = repo.LikeStory(reader.ID, story.ID)
	require.NoError(t, err)

	hasLiked, err = repo.HasLiked(reader.ID, story.ID)
	require.NoError(t, err)
	assert.True(t, hasLiked)

	require.NoError(t, repo.UnlikeStory(reader.ID, story.ID))

	hasLiked, err = repo.HasLiked(reader.ID, story.ID)
	require.NoError(t, err)
	assert.False(t, hasLiked)

	// Unliking an absent like is a no-op, not an error.
	require.NoError(t, repo.UnlikeStory(reader.ID, story.ID))
}

func TestLikeRepository_ListForStoryAttachesUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresLikeRepository(db)

	author := seedUser(t, db, "author")
	readerA := seedUser(t, db, "reader-a")
	readerB := seedUser(t, db, "reader-b")
	story := seedStory(t, db, author, "A Story")

	_, err := repo.LikeStory(readerA.ID, story.ID)
	require.NoError(t, err)
	_, err = repo.LikeStory(readerB.ID, story.ID)
	require.NoError(t, err)

	likes, err := repo.ListForStory(story.ID)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	for _, like := range likes {
		require.NotNil(t, like.User)
		assert.NotEmpty(t, like.User.Username)
	}
}
