package models

import "time"

// Comment represents a comment on a story. A nil ParentCommentID means a
// top-level comment; otherwise the comment is a reply to another comment on
// the same story.
type Comment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	StoryID         uint      `json:"story_id" gorm:"index;not null"`
	Story           *Story    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID          uint      `json:"user_id" gorm:"index;not null"`
	User            *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Content         string    `json:"comment" gorm:"type:text;not null"`
	ParentCommentID *uint     `json:"parent_comment_id,omitempty" gorm:"index"`
	Replies         []Comment `json:"-" gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a comment or reply
type CreateCommentRequest struct {
	Content         string `json:"comment" validate:"required,min=1,max=2000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"comment" validate:"required,min=1,max=2000"`
}
