package models

import "time"

type NotificationType string

const (
	NotificationAssignment NotificationType = "assignment"
	NotificationComment    NotificationType = "comment"
	NotificationMention    NotificationType = "mention"
	NotificationUpdate     NotificationType = "update"
)

// Notification is one inbox item. Read only ever moves from false to true.
type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	TaskID    uint64           `gorm:"not null;index" json:"task_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	Read      bool             `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
