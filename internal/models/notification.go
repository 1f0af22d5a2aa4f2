package models

import "time"

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeReply   = "reply"
)

// Notification is a directed event created as a side effect of a like or
// comment. Rows are append-only except for the one-way unread -> read
// transition. RecipientID never equals ActorID for persisted rows.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	Recipient   *User     `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Type        string    `json:"type" gorm:"size:20;not null;index"`
	StoryID     uint      `json:"story_id" gorm:"index;not null"`
	Story       *Story    `json:"story,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ActorID     uint      `json:"actor_id" gorm:"index;not null"`
	Actor       *User     `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
	CommentID   *uint     `json:"comment_id,omitempty"` // set for comment/reply types only
	Comment     *Comment  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
