package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns string
}

// listIndexes are the indexes backing the list and inbox queries.
var listIndexes = []indexSpec{
	{"tasks", "idx_tasks_created_at", "created_at"},
	{"tasks", "idx_tasks_due_date", "due_date"},
	{"tasks", "idx_tasks_is_general", "is_general"},
	{"task_owners", "idx_task_owners_user_id", "user_id"},
	{"task_messages", "idx_task_messages_task_created", "task_id, created_at"},
	{"notifications", "idx_notifications_user_read", "user_id, is_read"},
	{"notifications", "idx_notifications_created_at", "created_at"},
	{"event_participants", "idx_event_participants_user_id", "user_id"},
}

// AddIndexes adds indexes that gorm tags cannot express.
func AddIndexes(db *gorm.DB) error {
	for _, idx := range listIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		zap.L().Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
