package repository

import (
	"context"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormCalendarRepository is a GORM implementation of CalendarRepository
type GormCalendarRepository struct {
	db *gorm.DB
}

// NewCalendarRepository creates a new CalendarRepository
func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &GormCalendarRepository{db: db}
}

func participantLinks(eventID uint64, userIDs []uint64) []models.EventParticipant {
	links := make([]models.EventParticipant, len(userIDs))
	for i, userID := range userIDs {
		links[i] = models.EventParticipant{EventID: eventID, UserID: userID}
	}
	return links
}

func (r *GormCalendarRepository) Create(ctx context.Context, event *models.CalendarEvent, participantIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Creator", "Participants").Create(event).Error; err != nil {
			return err
		}
		if len(participantIDs) == 0 {
			return nil
		}
		return tx.Create(participantLinks(event.ID, participantIDs)).Error
	})
}

func (r *GormCalendarRepository) FindByID(ctx context.Context, id uint64) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Participants.User").
		First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns visible events by date ascending
func (r *GormCalendarRepository) List(ctx context.Context, filter EventFilter) ([]models.CalendarEvent, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.CalendarEvent{})

	if !filter.All {
		participatingSubQuery := db.Model(&models.EventParticipant{}).
			Select("1").
			Where("event_participants.event_id = calendar_events.id").
			Where("event_participants.user_id = ?", filter.UserID)

		visible := db.Where("calendar_events.is_general = ?", true).
			Or("calendar_events.creator_id = ?", filter.UserID).
			Or("EXISTS (?)", participatingSubQuery)
		if filter.TeamID != nil {
			visible = visible.Or("calendar_events.team_id = ?", *filter.TeamID)
		}
		query = query.Where(visible)
	}

	events := []models.CalendarEvent{}
	err := query.
		Preload("Creator").
		Preload("Participants.User").
		Order("calendar_events.date ASC").
		Order("calendar_events.start_time ASC").
		Order("calendar_events.id ASC").
		Find(&events).Error
	return events, err
}

func (r *GormCalendarRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}, participantIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&models.CalendarEvent{ID: id}).Updates(fields).Error; err != nil {
				return err
			}
		}
		if participantIDs == nil {
			return nil
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		if len(participantIDs) == 0 {
			return nil
		}
		return tx.Create(participantLinks(id, participantIDs)).Error
	})
}

func (r *GormCalendarRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventParticipant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CalendarEvent{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
