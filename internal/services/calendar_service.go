package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("calendar event not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrDateRequired     = errors.New("date is required")
	ErrInvalidEventTime = errors.New("times must be formatted as HH:MM")
)

const clockLayout = "15:04"

// CalendarService manages calendar events. Events do not notify anybody.
type CalendarService struct {
	repo  repository.CalendarRepository
	teams repository.TeamRepository
	feed  realtime.Publisher
}

func NewCalendarService(repo repository.CalendarRepository, teams repository.TeamRepository, feed realtime.Publisher) *CalendarService {
	return &CalendarService{repo: repo, teams: teams, feed: feed}
}

// CreateEventInput represents a new event. TeamID follows the same
// "general" sentinel as tasks.
type CreateEventInput struct {
	Title          string
	Type           models.EventType
	Date           time.Time
	StartTime      *string
	EndTime        *string
	Location       string
	Description    string
	TeamID         string
	ParticipantIDs []uint64
}

// UpdateEventInput is a sparse event update.
type UpdateEventInput struct {
	Title          *string
	Type           *models.EventType
	Date           *time.Time
	StartTime      *string
	EndTime        *string
	ClearTimes     bool
	Location       *string
	Description    *string
	TeamID         *string
	ParticipantIDs *[]uint64
}

// ListEvents returns the events visible to viewer by date ascending.
func (s *CalendarService) ListEvents(ctx context.Context, viewer Viewer) ([]models.CalendarEvent, error) {
	events, err := s.repo.List(ctx, repository.EventFilter{
		All:    viewer.IsManager(),
		UserID: viewer.UserID,
		TeamID: viewer.TeamID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *CalendarService) GetEvent(ctx context.Context, id uint64) (*models.CalendarEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// CanViewEvent applies the ListEvents visibility rule to a single event.
func CanViewEvent(viewer Viewer, event *models.CalendarEvent) bool {
	if viewer.IsManager() || event.IsGeneral || event.CreatorID == viewer.UserID {
		return true
	}
	if event.TeamID != nil && viewer.TeamID != nil && *event.TeamID == *viewer.TeamID {
		return true
	}
	for _, p := range event.Participants {
		if p.UserID == viewer.UserID {
			return true
		}
	}
	return false
}

func (s *CalendarService) CreateEvent(ctx context.Context, input CreateEventInput, creatorID uint64) (*models.CalendarEvent, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if err := checkClock(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	teamID, isGeneral, err := resolveTeamRef(ctx, s.teams, input.TeamID)
	if err != nil {
		return nil, err
	}

	if input.Type == "" {
		input.Type = models.EventTypeEvent
	}

	event := &models.CalendarEvent{
		Title:       strings.TrimSpace(input.Title),
		Type:        input.Type,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Description: input.Description,
		CreatorID:   creatorID,
		TeamID:      teamID,
		IsGeneral:   isGeneral,
	}

	if err := s.repo.Create(ctx, event, uniqueUint64(input.ParticipantIDs)); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	announce(ctx, s.feed, models.TableCalendarEvents, realtime.EventInsert, event.ID, nil)
	return s.GetEvent(ctx, event.ID)
}

func (s *CalendarService) UpdateEvent(ctx context.Context, id uint64, input UpdateEventInput) (*models.CalendarEvent, error) {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, ErrDateRequired
		}
		fields["date"] = *input.Date
	}
	if input.ClearTimes {
		fields["start_time"] = nil
		fields["end_time"] = nil
	} else {
		if err := checkClock(input.StartTime, input.EndTime); err != nil {
			return nil, err
		}
		if input.StartTime != nil {
			fields["start_time"] = *input.StartTime
		}
		if input.EndTime != nil {
			fields["end_time"] = *input.EndTime
		}
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.TeamID != nil {
		teamID, isGeneral, err := resolveTeamRef(ctx, s.teams, *input.TeamID)
		if err != nil {
			return nil, err
		}
		fields["team_id"] = teamID
		fields["is_general"] = isGeneral
	}

	var participants []uint64
	if input.ParticipantIDs != nil {
		participants = uniqueUint64(*input.ParticipantIDs)
	}

	if len(fields) > 0 || participants != nil {
		if err := s.repo.Update(ctx, id, fields, participants); err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
		announce(ctx, s.feed, models.TableCalendarEvents, realtime.EventUpdate, id, nil)
	}

	return s.GetEvent(ctx, id)
}

func (s *CalendarService) DeleteEvent(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	announce(ctx, s.feed, models.TableCalendarEvents, realtime.EventDelete, id, nil)
	return nil
}

func checkClock(values ...*string) error {
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, err := time.Parse(clockLayout, *v); err != nil {
			return ErrInvalidEventTime
		}
	}
	return nil
}
