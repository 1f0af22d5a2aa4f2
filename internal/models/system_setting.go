package models

import "time"

// Well-known system setting keys.
const (
	SettingMaintenanceMode           = "maintenance_mode"
	SettingMaintenanceMessage        = "maintenance_message"
	SettingMaintenanceWarning        = "maintenance_warning"
	SettingMaintenanceWarningMessage = "maintenance_warning_message"
)

// SystemSetting is a key/value pair controlling runtime behavior such as
// maintenance mode.
type SystemSetting struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"key" gorm:"size:100;uniqueIndex;not null"`
	Value       string    `json:"value" gorm:"type:text"`
	Type        string    `json:"type" gorm:"size:50;default:string"`
	Description string    `json:"description,omitempty" gorm:"size:255"`
	Category    string    `json:"category" gorm:"size:50;default:system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateSystemSettingRequest struct {
	Key         string `json:"key" validate:"required,min=1,max=100"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty" validate:"omitempty,max=50"`
	Description string `json:"description,omitempty" validate:"omitempty,max=255"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=50"`
}
