package services

import (
	"context"
	"strconv"

	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
)

// Viewer is who a query runs on behalf of.
type Viewer struct {
	UserID uint64
	Role   models.Role
	TeamID *uint64
}

func (v Viewer) IsManager() bool {
	return v.Role == models.RoleManager
}

// ViewerOf builds the viewer for a loaded profile.
func ViewerOf(p models.Profile) Viewer {
	return Viewer{UserID: p.ID, Role: p.Role, TeamID: p.TeamID}
}

// announce publishes a change event. Publishing never fails the write that
// caused it; listeners that miss an event catch up on their next reload.
func announce(ctx context.Context, feed realtime.Publisher, table string, typ realtime.EventType, rowID uint64, columns map[string]string) {
	if feed == nil {
		return
	}
	e := realtime.Event{Table: table, Type: typ, RowID: rowID, Columns: columns}
	if err := feed.Publish(ctx, e); err != nil {
		reportFailure("publish", err, map[string]interface{}{"table": table, "row_id": rowID})
	}
}

func idColumn(name string, id uint64) map[string]string {
	return map[string]string{name: strconv.FormatUint(id, 10)}
}
