package dto

import (
	"time"

	"github.com/yukikurage/teamdesk-api/internal/models"
)

const dateLayout = "2006-01-02"

// CalendarEventDTO represents a calendar event. Date is a calendar day.
type CalendarEventDTO struct {
	ID           uint64           `json:"id"`
	Title        string           `json:"title"`
	Type         models.EventType `json:"type"`
	Date         string           `json:"date"`
	StartTime    *string          `json:"startTime"`
	EndTime      *string          `json:"endTime"`
	Location     string           `json:"location"`
	Description  string           `json:"description"`
	CreatorID    uint64           `json:"creatorId"`
	CreatorName  string           `json:"creatorName,omitempty"`
	TeamID       string           `json:"teamId"`
	IsGeneral    bool             `json:"isGeneral"`
	Participants []UserDTO        `json:"participants"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func ToCalendarEventDTO(e models.CalendarEvent) CalendarEventDTO {
	participants := make([]UserDTO, 0, len(e.Participants))
	for _, p := range e.Participants {
		user := ToUserDTO(p.User)
		if user.ID == 0 {
			user.ID = p.UserID
		}
		participants = append(participants, user)
	}

	return CalendarEventDTO{
		ID:           e.ID,
		Title:        e.Title,
		Type:         e.Type,
		Date:         e.Date.Format(dateLayout),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Location:     e.Location,
		Description:  e.Description,
		CreatorID:    e.CreatorID,
		CreatorName:  e.Creator.Name,
		TeamID:       TeamIDString(e.TeamID, e.IsGeneral),
		IsGeneral:    e.IsGeneral,
		Participants: participants,
		CreatedAt:    e.CreatedAt,
	}
}

func ToCalendarEventDTOs(events []models.CalendarEvent) []CalendarEventDTO {
	out := make([]CalendarEventDTO, len(events))
	for i, e := range events {
		out[i] = ToCalendarEventDTO(e)
	}
	return out
}
