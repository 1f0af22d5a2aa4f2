package repositories

import (
	"github.com/storyforge-app/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story and chapter data operations
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	ListPublished(tag string) ([]models.Story, error)
	Explore(search string, page, limit int) ([]models.Story, int64, error)
	ListByUserID(userID uint) ([]models.Story, error)
	UpdateStory(story *models.Story) error
	DeleteStory(id uint) error
	IncrementViews(id uint) error
	ListTags() ([]string, error)
	ReplaceTags(storyID uint, tags []string) error
	CountStories() (int64, error)

	AddChapter(chapter *models.Chapter) error
	GetChapterByID(id uint) (*models.Chapter, error)
	GetChaptersByStoryID(storyID uint) ([]models.Chapter, error)
	UpdateChapter(chapter *models.Chapter) error
}

// PostgresStoryRepository implements StoryRepository for PostgreSQL
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	return r.db.Create(story).Error
}

func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.Preload("User").Preload("Tags").First(&story, id).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

// ListPublished returns public published stories, optionally filtered by tag.
func (r *PostgresStoryRepository) ListPublished(tag string) ([]models.Story, error) {
	var stories []models.Story
	q := r.db.Preload("User").Preload("Tags").
		Where("status = ? AND is_public = ?", models.StoryStatusPublished, true)
	if tag != "" {
		q = q.Joins("JOIN story_tags ON story_tags.story_id = stories.id").
			Where("story_tags.tag_name = ?", tag)
	}
	if err := q.Order("stories.created_at DESC").Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

// Explore returns a page of public published stories matching the search
// term, with the total count for pagination metadata.
func (r *PostgresStoryRepository) Explore(search string, page, limit int) ([]models.Story, int64, error) {
	var stories []models.Story
	var total int64

	q := r.db.Model(&models.Story{}).
		Where("status = ? AND is_public = ?", models.StoryStatusPublished, true)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("User").Preload("Tags").
		Order("views_count DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&stories).Error
	return stories, total, err
}

func (r *PostgresStoryRepository) ListByUserID(userID uint) ([]models.Story, error) {
	var stories []models.Story
	if err := r.db.Preload("Tags").Where("user_id = ?", userID).Order("created_at DESC").Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *PostgresStoryRepository) UpdateStory(story *models.Story) error {
	return r.db.Omit("Tags", "Chapters", "User").Save(story).Error
}

// DeleteStory removes the story. Chapters, tags, comments, likes and
// notifications referencing it go with it via FK cascade.
func (r *PostgresStoryRepository) DeleteStory(id uint) error {
	return r.db.Delete(&models.Story{}, id).Error
}

// IncrementViews bumps the view counter atomically in the database.
func (r *PostgresStoryRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Story{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// ListTags returns all distinct tag names in use.
func (r *PostgresStoryRepository) ListTags() ([]string, error) {
	var tags []string
	if err := r.db.Model(&models.StoryTag{}).Distinct("tag_name").Order("tag_name").Pluck("tag_name", &tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ReplaceTags swaps the story's tag set for the given names.
func (r *PostgresStoryRepository) ReplaceTags(storyID uint, tags []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", storyID).Delete(&models.StoryTag{}).Error; err != nil {
			return err
		}
		for _, name := range tags {
			if err := tx.Create(&models.StoryTag{StoryID: storyID, TagName: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresStoryRepository) CountStories() (int64, error) {
	var count int64
	err := r.db.Model(&models.Story{}).Count(&count).Error
	return count, err
}

func (r *PostgresStoryRepository) AddChapter(chapter *models.Chapter) error {
	return r.db.Create(chapter).Error
}

func (r *PostgresStoryRepository) GetChapterByID(id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *PostgresStoryRepository) GetChaptersByStoryID(storyID uint) ([]models.Chapter, error) {
	var chapters []models.Chapter
	if err := r.db.Where("story_id = ?", storyID).Order("chapter_number ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *PostgresStoryRepository) UpdateChapter(chapter *models.Chapter) error {
	return r.db.Save(chapter).Error
}
