package repository

import (
	"context"

	"github.com/yukikurage/teamdesk-api/internal/database"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func ownerLinks(taskID uint64, ownerIDs []uint64) []models.TaskOwner {
	links := make([]models.TaskOwner, len(ownerIDs))
	for i, userID := range ownerIDs {
		links[i] = models.TaskOwner{
			TaskID:   taskID,
			UserID:   userID,
			Position: i,
		}
	}
	return links
}

// withRelations eagerly attaches owners in position order and messages oldest first.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owners", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_owners.position ASC")
		}).
		Preload("Owners.User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_messages.created_at ASC").Order("task_messages.id ASC")
		}).
		Preload("Messages.User")
}

// Create inserts the task row and its owner links in one transaction
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, ownerIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if len(ownerIDs) == 0 {
			return nil
		}
		return tx.Create(ownerLinks(task.ID, ownerIDs)).Error
	})
}

// FindByID finds a task with owners and messages attached
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Scopes(withRelations).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves every visible task, newest first
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Task{})

	if !filter.All {
		ownedSubQuery := db.Model(&models.TaskOwner{}).
			Select("1").
			Where("task_owners.task_id = tasks.id").
			Where("task_owners.user_id = ?", filter.UserID)

		visible := db.Where("tasks.is_general = ?", true).Or("EXISTS (?)", ownedSubQuery)
		if filter.TeamID != nil {
			visible = visible.Or("tasks.team_id = ?", *filter.TeamID)
		}
		query = query.Where(visible)
	}

	tasks := []models.Task{}
	if err := query.
		Scopes(database.NewestFirst("tasks"), withRelations).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update writes only the given columns
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Task{ID: id}).Updates(fields).Error
}

// ReplaceOwners swaps the owner list of a task
func (r *GormTaskRepository) ReplaceOwners(ctx context.Context, taskID uint64, ownerIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskOwner{}).Error; err != nil {
			return err
		}
		if len(ownerIDs) == 0 {
			return nil
		}
		return tx.Create(ownerLinks(taskID, ownerIDs)).Error
	})
}

// OwnerIDs returns the current owners in order
func (r *GormTaskRepository) OwnerIDs(ctx context.Context, taskID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&models.TaskOwner{}).
		Where("task_id = ?", taskID).
		Order("position ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// Delete removes a task with its owners, messages and notifications
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskOwner{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddMessage inserts a message
func (r *GormTaskRepository) AddMessage(ctx context.Context, msg *models.TaskMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}
