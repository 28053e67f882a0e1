package services

import (
	"context"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"github.com/yukikurage/teamdesk-api/internal/telemetry"
)

// reportFailure is swapped in tests.
var reportFailure = telemetry.Capture

// Notifier inserts one inbox row per recipient of a task action.
type Notifier struct {
	repo repository.NotificationRepository
	feed realtime.Publisher
}

func NewNotifier(repo repository.NotificationRepository, feed realtime.Publisher) *Notifier {
	return &Notifier{repo: repo, feed: feed}
}

// Notice is the per-recipient payload of a fan-out.
type Notice struct {
	Type    models.NotificationType
	Content string
}

// Recipients returns owners without the actor, deduplicated, in owner order.
func Recipients(ownerIDs []uint64, actorID uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ownerIDs))
	result := make([]uint64, 0, len(ownerIDs))

	for _, id := range ownerIDs {
		if id == actorID {
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}

// FanOut notifies every owner except the actor. It is fire-and-forget: a
// failed insert is reported and dropped, never returned, and never retried.
// It returns how many rows were written.
func (n *Notifier) FanOut(ctx context.Context, taskID, actorID uint64, ownerIDs []uint64, notice func(recipientID uint64) Notice) int {
	recipients := Recipients(ownerIDs, actorID)
	if len(recipients) == 0 {
		return 0
	}

	rows := make([]models.Notification, len(recipients))
	for i, userID := range recipients {
		nt := notice(userID)
		rows[i] = models.Notification{
			UserID:  userID,
			TaskID:  taskID,
			Type:    nt.Type,
			Content: nt.Content,
		}
	}

	if err := n.repo.CreateBatch(ctx, rows); err != nil {
		reportFailure("notification_fanout", err, map[string]interface{}{
			"task_id":    taskID,
			"actor_id":   actorID,
			"recipients": len(recipients),
		})
		return 0
	}

	for _, row := range rows {
		announce(ctx, n.feed, models.TableNotifications, realtime.EventInsert, row.ID, idColumn("user_id", row.UserID))
	}

	return len(rows)
}

// Uniform is a notice func sending the same notice to everybody.
func Uniform(typ models.NotificationType, content string) func(uint64) Notice {
	return func(uint64) Notice {
		return Notice{Type: typ, Content: content}
	}
}
