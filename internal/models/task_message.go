package models

import "time"

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindAudio MessageKind = "audio"
	MessageKindImage MessageKind = "image"
)

// TaskMessage is immutable once created.
type TaskMessage struct {
	ID        uint64      `gorm:"primarykey" json:"id"`
	TaskID    uint64      `gorm:"not null;index" json:"task_id"`
	UserID    uint64      `gorm:"not null" json:"user_id"`
	Kind      MessageKind `gorm:"type:varchar(10);not null;default:'text'" json:"kind"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time   `json:"created_at"`

	// Relations
	User Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
