package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/storyforge-app/backend/internal/models"
	"github.com/storyforge-app/backend/internal/repositories"
	"github.com/storyforge-app/backend/pkg/cache"
	"github.com/storyforge-app/backend/pkg/logger"
	"github.com/storyforge-app/backend/pkg/sanitize"
)

var (
	// ErrStoryNotFound is returned when the referenced story does not exist.
	ErrStoryNotFound = errors.New("story not found")
	// ErrParentCommentNotFound is returned when a reply references a parent
	// comment that does not exist or belongs to a different story.
	ErrParentCommentNotFound = errors.New("parent comment not found")
	// ErrEmptyComment is returned when a comment has no text left after
	// sanitization.
	ErrEmptyComment = errors.New("comment text must not be empty")
)

// UnreadCountCachePrefix prefixes the per-user unread notification count
// keys. Deleting a story or account cascades notifications away for
// recipients that cannot be enumerated, so those callers sweep the whole
// prefix.
const UnreadCountCachePrefix = "notifications:unread:"

// unreadCountCacheKey is the cache key for a user's unread notification count.
func unreadCountCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", UnreadCountCachePrefix, userID)
}

// InteractionService composes like and comment writes with notification
// emission. Notification emission is best-effort: it never fails or rolls
// back the primary operation.
type InteractionService struct {
	likeRepository         repositories.LikeRepository
	commentRepository      repositories.CommentRepository
	storyRepository        repositories.StoryRepository
	notificationRepository repositories.NotificationRepository
	cache                  *cache.Cache
}

// NewInteractionService creates a new InteractionService
func NewInteractionService(
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	storyRepo repositories.StoryRepository,
	notifRepo repositories.NotificationRepository,
	c *cache.Cache,
) *InteractionService {
	return &InteractionService{
		likeRepository:         likeRepo,
		commentRepository:      commentRepo,
		storyRepository:        storyRepo,
		notificationRepository: notifRepo,
		cache:                  c,
	}
}

// ToggleLike likes the story if the user has not liked it, and unlikes it
// otherwise. Returns whether a like exists after the call.
//
// Only the like direction emits a notification; removing a like never does.
// Two concurrent toggles for the same pair can both observe "not liked" and
// both attempt the insert; the unique constraint rejects the second, which
// is reconciled here into an idempotent already-liked result instead of an
// error. The loser of that race does not emit a notification.
func (s *InteractionService) ToggleLike(actorID, storyID uint) (bool, error) {
	story, err := s.storyRepository.GetStoryByID(storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrStoryNotFound
		}
		return false, err
	}

	hasLiked, err := s.likeRepository.HasLiked(actorID, storyID)
	if err != nil {
		return false, err
	}

	if hasLiked {
		if err := s.likeRepository.UnlikeStory(actorID, storyID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.likeRepository.LikeStory(actorID, storyID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}

	s.notify(story.UserID, models.NotificationTypeLike, storyID, actorID, nil)
	return true, nil
}

// PostComment creates a comment or reply on the story and notifies the
// affected author: the parent comment's author for a reply, the story's
// author for a top-level comment.
func (s *InteractionService) PostComment(actorID, storyID uint, content string, parentCommentID *uint) (*models.Comment, error) {
	story, err := s.storyRepository.GetStoryByID(storyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}

	// A reply's parent must exist and belong to the same story.
	if parentCommentID != nil {
		parent, err := s.commentRepository.GetCommentByID(*parentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentCommentNotFound
			}
			return nil, err
		}
		if parent.StoryID != storyID {
			return nil, ErrParentCommentNotFound
		}
	}

	// Sanitization can strip an all-markup body down to nothing; an empty
	// comment must not be stored or announced.
	text := strings.TrimSpace(sanitize.Plain(content))
	if text == "" {
		return nil, ErrEmptyComment
	}

	comment := &models.Comment{
		StoryID:         storyID,
		UserID:          actorID,
		Content:         text,
		ParentCommentID: parentCommentID,
	}
	if err := s.commentRepository.CreateComment(comment); err != nil {
		return nil, err
	}

	if parentCommentID != nil {
		// Re-fetch: the parent may have been deleted since the pre-insert
		// check. A missing parent means no notification, not a failure.
		parent, err := s.commentRepository.GetCommentByID(*parentCommentID)
		if err == nil {
			s.notify(parent.UserID, models.NotificationTypeReply, storyID, actorID, &comment.ID)
		}
	} else {
		s.notify(story.UserID, models.NotificationTypeComment, storyID, actorID, &comment.ID)
	}

	return comment, nil
}

// notify writes a notification and invalidates the recipient's cached unread
// count. Failures are logged and swallowed. Self-notifications are suppressed
// inside the repository.
func (s *InteractionService) notify(recipientID uint, notifType string, storyID, actorID uint, commentID *uint) {
	notification, err := s.notificationRepository.CreateNotification(recipientID, storyID, actorID, notifType, commentID)
	if err != nil {
		logger.S.Warnw("notification emission failed",
			"type", notifType, "recipient", recipientID, "actor", actorID, "story", storyID, "err", err)
		return
	}
	if notification != nil {
		s.cache.Delete(unreadCountCacheKey(recipientID))
	}
}
