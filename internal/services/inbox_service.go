package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"github.com/yukikurage/teamdesk-api/internal/utils"
)

// InboxService reads and acknowledges a user's notifications. The read flag
// only ever moves from false to true.
type InboxService struct {
	repo repository.NotificationRepository
	feed realtime.Publisher
}

func NewInboxService(repo repository.NotificationRepository, feed realtime.Publisher) *InboxService {
	return &InboxService{repo: repo, feed: feed}
}

// List returns one page of the user's notifications, newest first.
func (s *InboxService) List(ctx context.Context, userID uint64, params utils.PageQuery) ([]models.Notification, int64, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, total, nil
}

// MarkRead marks one of the user's notifications read. Marking an already
// read or foreign notification changes nothing and is not an error.
func (s *InboxService) MarkRead(ctx context.Context, userID, id uint64) error {
	changed, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if changed > 0 {
		announce(ctx, s.feed, models.TableNotifications, realtime.EventUpdate, id, idColumn("user_id", userID))
	}
	return nil
}

// MarkAllRead marks every notification of the user read.
func (s *InboxService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	changed, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if changed > 0 {
		announce(ctx, s.feed, models.TableNotifications, realtime.EventUpdate, 0, idColumn("user_id", userID))
	}
	return changed, nil
}

func (s *InboxService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
