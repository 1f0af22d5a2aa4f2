package repositories

import (
	"github.com/storyforge-app/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemSettingRepository defines the interface for system setting operations
type SystemSettingRepository interface {
	Get(key string) (*models.SystemSetting, error)
	GetValue(key, fallback string) string
	List(category string) ([]models.SystemSetting, error)
	Upsert(setting *models.SystemSetting) error
}

type postgresSystemSettingRepository struct {
	db *gorm.DB
}

func NewPostgresSystemSettingRepository(db *gorm.DB) SystemSettingRepository {
	return &postgresSystemSettingRepository{db: db}
}

func (r *postgresSystemSettingRepository) Get(key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetValue returns the setting value or fallback when the key is absent.
func (r *postgresSystemSettingRepository) GetValue(key, fallback string) string {
	setting, err := r.Get(key)
	if err != nil {
		return fallback
	}
	return setting.Value
}

func (r *postgresSystemSettingRepository) List(category string) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	q := r.db.Order("category, key")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert inserts the setting or updates the existing row with the same key.
func (r *postgresSystemSettingRepository) Upsert(setting *models.SystemSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "description", "category", "updated_at"}),
	}).Create(setting).Error
}
