package models

import "time"

// Like represents a like on a story. The composite unique index guarantees
// at most one row per (story, user) pair; a duplicate insert surfaces as
// gorm.ErrDuplicatedKey.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"not null;uniqueIndex:idx_story_user_like"`
	Story     *Story    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_story_user_like"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
