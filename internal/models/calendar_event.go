package models

import "time"

type EventType string

const (
	EventTypeMeeting EventType = "meeting"
	EventTypeEvent   EventType = "event"
	EventTypeHealth  EventType = "health"
)

type CalendarEvent struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Type        EventType `gorm:"type:varchar(20);not null;default:'event'" json:"type"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	StartTime   *string   `gorm:"type:varchar(5)" json:"start_time"`
	EndTime     *string   `gorm:"type:varchar(5)" json:"end_time"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uint64    `gorm:"not null" json:"creator_id"`
	TeamID      *uint64   `gorm:"index" json:"team_id"`
	IsGeneral   bool      `gorm:"not null;default:false" json:"is_general"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Creator      Profile            `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Participants []EventParticipant `gorm:"foreignKey:EventID" json:"participants,omitempty"`
}

type EventParticipant struct {
	EventID uint64 `gorm:"primarykey" json:"event_id"`
	UserID  uint64 `gorm:"primarykey" json:"user_id"`

	// Relations
	User Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
