package models

import "time"

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusWorking TaskStatus = "working"
	TaskStatusStuck   TaskStatus = "stuck"
	TaskStatusDone    TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     time.Time    `gorm:"not null" json:"due_date"`
	Description string       `gorm:"type:text" json:"description"`
	TeamID      *uint64      `gorm:"index" json:"team_id"`
	IsGeneral   bool         `gorm:"not null;default:false" json:"is_general"`
	CreatorID   uint64       `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Owners   []TaskOwner   `gorm:"foreignKey:TaskID" json:"owners,omitempty"`
	Messages []TaskMessage `gorm:"foreignKey:TaskID" json:"messages,omitempty"`
}
