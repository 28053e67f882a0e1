package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamdesk-api/internal/database"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDB(db))
	return db
}

// recordingFeed keeps every published event.
type recordingFeed struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (f *recordingFeed) Publish(_ context.Context, e realtime.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *recordingFeed) tables() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Table
	}
	return out
}

func seedProfile(t *testing.T, db *gorm.DB, name string, role models.Role, teamID *uint64) models.Profile {
	t.Helper()
	p := models.Profile{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		TeamID:       teamID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func notificationsFor(t *testing.T, db *gorm.DB, taskID uint64) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, db.Where("task_id = ?", taskID).Order("id ASC").Find(&rows).Error)
	return rows
}
