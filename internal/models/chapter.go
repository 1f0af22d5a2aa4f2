package models

import "time"

// Chapter is a numbered section of a story. Chapters are removed together
// with their story via the declared FK cascade.
type Chapter struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChapterNumber int       `json:"chapter_number" gorm:"not null"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	Image         string    `json:"image,omitempty"`
	StoryID       uint      `json:"story_id" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateChapterRequest struct {
	ChapterNumber int    `json:"chapter_number" validate:"required,min=1"`
	Title         string `json:"title" validate:"required,min=1,max=255"`
	Content       string `json:"content" validate:"required,min=1"`
	Image         string `json:"image,omitempty"`
}

type UpdateChapterRequest struct {
	ChapterNumber int    `json:"chapter_number,omitempty" validate:"omitempty,min=1"`
	Title         string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content       string `json:"content,omitempty"`
	Image         string `json:"image,omitempty"`
}
