package repository

import (
	"context"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts the task row and its owner links in one transaction
	Create(ctx context.Context, task *models.Task, ownerIDs []uint64) error

	// FindByID finds a task with owners (ordered) and messages (oldest first)
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves every visible task, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update writes only the given columns
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error

	// ReplaceOwners swaps the owner list of a task
	ReplaceOwners(ctx context.Context, taskID uint64, ownerIDs []uint64) error

	// OwnerIDs returns the current owners in order
	OwnerIDs(ctx context.Context, taskID uint64) ([]uint64, error)

	// Delete removes a task with its owners, messages and notifications
	Delete(ctx context.Context, id uint64) error

	// AddMessage inserts a message
	AddMessage(ctx context.Context, msg *models.TaskMessage) error
}

// TaskFilter holds visibility options for listing tasks.
// With All unset a task is visible when it is general, belongs to TeamID,
// or is owned by UserID.
type TaskFilter struct {
	All    bool
	UserID uint64
	TeamID *uint64
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uint64) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	CreateBootstrap(ctx context.Context, profile *models.Profile, firstRole models.Role) error
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	FindByID(ctx context.Context, id uint64) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error

	// Delete removes the team; its tasks and events become general and its
	// members lose their affiliation
	Delete(ctx context.Context, id uint64) error
}

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id uint64) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	Save(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uint64) error
}

// NotificationRepository defines the interface for inbox data access
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByUser(ctx context.Context, userID uint64, params utils.PageQuery) ([]models.Notification, int64, error)

	// MarkRead flips one unread row of the user and reports rows changed
	MarkRead(ctx context.Context, userID, id uint64) (int64, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

// CalendarRepository defines the interface for calendar event data access
type CalendarRepository interface {
	// Create inserts the event and its participants in one transaction
	Create(ctx context.Context, event *models.CalendarEvent, participantIDs []uint64) error
	FindByID(ctx context.Context, id uint64) (*models.CalendarEvent, error)
	List(ctx context.Context, filter EventFilter) ([]models.CalendarEvent, error)

	// Update writes the given columns and, when participantIDs is non-nil,
	// replaces the participant list
	Update(ctx context.Context, id uint64, fields map[string]interface{}, participantIDs []uint64) error
	Delete(ctx context.Context, id uint64) error
}

// EventFilter mirrors TaskFilter for calendar events; participation stands in
// for ownership.
type EventFilter struct {
	All    bool
	UserID uint64
	TeamID *uint64
}
