package repositories

import (
	"github.com/storyforge-app/backend/internal/models"
	"gorm.io/gorm"
)

// ReleaseNoteRepository defines the interface for release note operations
type ReleaseNoteRepository interface {
	Create(note *models.ReleaseNote) error
	GetByID(id uint) (*models.ReleaseNote, error)
	ListAll() ([]models.ReleaseNote, error)
	ListPublished() ([]models.ReleaseNote, error)
	Latest(limit int) ([]models.ReleaseNote, error)
	Update(note *models.ReleaseNote) error
	Delete(id uint) error
}

type postgresReleaseNoteRepository struct {
	db *gorm.DB
}

func NewPostgresReleaseNoteRepository(db *gorm.DB) ReleaseNoteRepository {
	return &postgresReleaseNoteRepository{db: db}
}

func (r *postgresReleaseNoteRepository) Create(note *models.ReleaseNote) error {
	return r.db.Create(note).Error
}

func (r *postgresReleaseNoteRepository) GetByID(id uint) (*models.ReleaseNote, error) {
	var note models.ReleaseNote
	if err := r.db.First(&note, id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *postgresReleaseNoteRepository) ListAll() ([]models.ReleaseNote, error) {
	var notes []models.ReleaseNote
	if err := r.db.Order("priority DESC, created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *postgresReleaseNoteRepository) ListPublished() ([]models.ReleaseNote, error) {
	var notes []models.ReleaseNote
	if err := r.db.Where("is_published = ?", true).Order("priority DESC, created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Latest returns the most recent published notes for the landing page widget.
func (r *postgresReleaseNoteRepository) Latest(limit int) ([]models.ReleaseNote, error) {
	var notes []models.ReleaseNote
	if err := r.db.Where("is_published = ?", true).Order("created_at DESC").Limit(limit).Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *postgresReleaseNoteRepository) Update(note *models.ReleaseNote) error {
	return r.db.Save(note).Error
}

func (r *postgresReleaseNoteRepository) Delete(id uint) error {
	return r.db.Delete(&models.ReleaseNote{}, id).Error
}
