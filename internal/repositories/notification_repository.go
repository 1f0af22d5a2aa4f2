package repositories

import (
	"github.com/storyforge-app/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Notifications are created only through CreateNotification and mutated only
// by the unread -> read transition.
type NotificationRepository interface {
	CreateNotification(recipientID, storyID, actorID uint, notifType string, commentID *uint) (*models.Notification, error)
	GetByRecipientID(recipientID uint, onlyUnread bool) ([]models.Notification, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// CreateNotification persists a directed notification. Self-notifications
// are suppressed here, at the store boundary, so no caller can bypass the
// rule: when recipient and actor match, nothing is written and (nil, nil)
// is returned.
func (r *postgresNotificationRepository) CreateNotification(recipientID, storyID, actorID uint, notifType string, commentID *uint) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}
	notification := &models.Notification{
		RecipientID: recipientID,
		Type:        notifType,
		StoryID:     storyID,
		ActorID:     actorID,
		CommentID:   commentID,
	}
	if err := r.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// GetByRecipientID returns the user's notifications newest first, enriched
// with the acting user and the referenced story for presentation.
func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, onlyUnread bool) ([]models.Notification, error) {
	var notifications []models.Notification
	q := r.db.Preload("Actor").Preload("Story").Where("recipient_id = ?", recipientID)
	if onlyUnread {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, err
}

// MarkAsRead is idempotent: marking an already-read notification again is a
// no-op success.
func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true).Error
}

// MarkAllAsRead marks every unread notification for the user as read.
// Succeeds with zero rows affected when there is nothing to do.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", recipientID, false).Update("is_read", true).Error
}
