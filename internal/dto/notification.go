package dto

import (
	"time"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/utils"
)

// NotificationDTO represents an inbox item
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	UserID    uint64                  `json:"userId"`
	TaskID    uint64                  `json:"taskId"`
	TaskName  string                  `json:"taskName,omitempty"`
	Type      models.NotificationType `json:"type"`
	Content   string                  `json:"content"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

// InboxResponse represents a page of notifications
type InboxResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Pagination    utils.PageMeta    `json:"pagination"`
}

func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		TaskID:    n.TaskID,
		TaskName:  n.Task.Name,
		Type:      n.Type,
		Content:   n.Content,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationDTOs(items []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(items))
	for i, n := range items {
		out[i] = ToNotificationDTO(n)
	}
	return out
}

func ToInboxResponse(items []models.Notification, query utils.PageQuery, total int64) InboxResponse {
	return InboxResponse{
		Notifications: ToNotificationDTOs(items),
		Pagination:    query.Meta(total),
	}
}
