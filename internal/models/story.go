package models

import "time"

// Story statuses
const (
	StoryStatusDraft     = "draft"
	StoryStatusPublished = "published"
	StoryStatusArchived  = "archived"
)

type Story struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Status      string     `json:"status" gorm:"size:20;default:draft;index"`
	IsPublic    bool       `json:"is_public" gorm:"default:true"`
	ViewsCount  uint       `json:"views_count" gorm:"default:0"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	User        *User      `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Chapters    []Chapter  `json:"chapters,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Tags        []StoryTag `json:"tags,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StoryTag is a free-form label attached to a story.
type StoryTag struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	TagName string `json:"tag_name" gorm:"size:50;not null;index"`
	StoryID uint   `json:"story_id" gorm:"index;not null"`
}

type CreateStoryRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	CoverImage  string   `json:"cover_image,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}

type UpdateStoryRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	CoverImage  string   `json:"cover_image,omitempty"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}
