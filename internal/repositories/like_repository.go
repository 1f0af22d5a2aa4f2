package repositories

import (
	"github.com/storyforge-app/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations.
// At most one like exists per (story, user) pair; LikeStory surfaces
// gorm.ErrDuplicatedKey when the pair already exists.
type LikeRepository interface {
	LikeStory(userID, storyID uint) (*models.Like, error)
	UnlikeStory(userID, storyID uint) error
	HasLiked(userID, storyID uint) (bool, error)
	CountForStory(storyID uint) (int64, error)
	ListForStory(storyID uint) ([]models.Like, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// LikeStory inserts a like row for the pair.
func (r *PostgresLikeRepository) LikeStory(userID, storyID uint) (*models.Like, error) {
	like := &models.Like{StoryID: storyID, UserID: userID}
	if err := r.db.Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

// UnlikeStory deletes the like row for the pair. Deleting an absent like is
// not an error.
func (r *PostgresLikeRepository) UnlikeStory(userID, storyID uint) error {
	return r.db.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.Like{}).Error
}

// HasLiked checks whether the user has liked the story.
func (r *PostgresLikeRepository) HasLiked(userID, storyID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("story_id = ? AND user_id = ?", storyID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForStory returns the number of likes on the story.
func (r *PostgresLikeRepository) CountForStory(storyID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("story_id = ?", storyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListForStory returns all likes on the story with the liking user attached.
func (r *PostgresLikeRepository) ListForStory(storyID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Preload("User").Where("story_id = ?", storyID).Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}
