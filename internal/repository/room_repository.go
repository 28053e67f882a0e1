package repository

import (
	"context"

	"github.com/yukikurage/teamdesk-api/internal/database"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormRoomRepository is a GORM implementation of RoomRepository
type GormRoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uint64) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// List returns every room, newest first
func (r *GormRoomRepository) List(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	err := r.db.WithContext(ctx).Scopes(database.NewestFirst("rooms")).Find(&rooms).Error
	return rooms, err
}

// Save writes the whole row; the json columns do not support column-wise updates
func (r *GormRoomRepository) Save(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *GormRoomRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Room{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
