package repository

import (
	"context"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *GormTeamRepository) FindByID(ctx context.Context, id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *GormTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	teams := []models.Team{}
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&teams).Error
	return teams, err
}

func (r *GormTeamRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Team{ID: id}).Updates(fields).Error
}

// Delete removes the team; its tasks and events become general and its
// members lose their affiliation
func (r *GormTeamRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		general := map[string]interface{}{"team_id": nil, "is_general": true}

		if err := tx.Model(&models.Task{}).Where("team_id = ?", id).Updates(general).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CalendarEvent{}).Where("team_id = ?", id).Updates(general).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Profile{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Team{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
