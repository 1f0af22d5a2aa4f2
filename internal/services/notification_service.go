package services

import (
	"time"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/pkg/cache"
)

const unreadCountTTL = 5 * time.Minute

// NotificationService exposes the notification read paths with a cached
// unread count.
type NotificationService struct {
	notificationRepository repositories.NotificationRepository
	cache                  *cache.Cache
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifRepo repositories.NotificationRepository, c *cache.Cache) *NotificationService {
	return &NotificationService{notificationRepository: notifRepo, cache: c}
}

// List returns the user's notifications newest first, optionally only unread.
func (s *NotificationService) List(userID uint, onlyUnread bool) ([]models.Notification, error) {
	return s.notificationRepository.GetByRecipientID(userID, onlyUnread)
}

// UnreadCount reads through the cache to the store.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	key := unreadCountCacheKey(userID)
	var cached int64
	if s.cache.GetJSON(key, &cached) {
		return cached, nil
	}
	count, err := s.notificationRepository.GetUnreadCount(userID)
	if err != nil {
		return 0, err
	}
	s.cache.SetJSON(key, count, unreadCountTTL)
	return count, nil
}

// MarkRead marks one notification as read. Idempotent.
func (s *NotificationService) MarkRead(notificationID, userID uint) error {
	if err := s.notificationRepository.MarkAsRead(notificationID); err != nil {
		return err
	}
	s.cache.Delete(unreadCountCacheKey(userID))
	return nil
}

// MarkAllRead marks every unread notification for the user as read.
// Idempotent; succeeds even when nothing was unread.
func (s *NotificationService) MarkAllRead(userID uint) error {
	if err := s.notificationRepository.MarkAllAsRead(userID); err != nil {
		return err
	}
	s.cache.Delete(unreadCountCacheKey(userID))
	return nil
}
