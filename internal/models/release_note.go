package models

import "time"

// Release note types
const (
	ReleaseNoteTypeMajor    = "major"
	ReleaseNoteTypeMinor    = "minor"
	ReleaseNoteTypePatch    = "patch"
	ReleaseNoteTypeSecurity = "security"
)

type ReleaseNote struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Version     string     `json:"version" gorm:"size:50;not null"`
	Type        string     `json:"type" gorm:"size:20;default:minor"`
	IsPublished bool       `json:"is_published" gorm:"default:true"`
	Priority    int        `json:"priority" gorm:"default:0"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateReleaseNoteRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Content     string     `json:"content" validate:"required"`
	Version     string     `json:"version" validate:"required,max=50"`
	Type        string     `json:"type,omitempty" validate:"omitempty,oneof=major minor patch security"`
	IsPublished *bool      `json:"is_published,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

type UpdateReleaseNoteRequest struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content     string     `json:"content,omitempty"`
	Version     string     `json:"version,omitempty" validate:"omitempty,max=50"`
	Type        string     `json:"type,omitempty" validate:"omitempty,oneof=major minor patch security"`
	IsPublished *bool      `json:"is_published,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}
