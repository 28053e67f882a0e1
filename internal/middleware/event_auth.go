package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

// ContextKeyEvent holds the event loaded by RequireEventAccess.
const ContextKeyEvent = "calendarEvent"

// EventLoader loads one calendar event with its participants.
type EventLoader interface {
	GetEvent(ctx context.Context, id uint64) (*models.CalendarEvent, error)
}

// RequireEventAccess lets the request through only when the session could
// list the event named by :id. Hidden events answer 404.
func RequireEventAccess(events EventLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "invalidId")
			return
		}

		session, exists := GetSession(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		event, err := events.GetEvent(c.Request.Context(), eventID)
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			apierrors.NotFound(c, "eventNotFound")
			return
		case err != nil:
			apierrors.Database(c, err)
			return
		case !services.CanViewEvent(session.Viewer(), event):
			apierrors.NotFound(c, "eventNotFound")
			return
		}

		c.Set(ContextKeyEvent, event)
		c.Next()
	}
}

// GetEvent returns the event loaded by RequireEventAccess.
func GetEvent(c *gin.Context) (*models.CalendarEvent, bool) {
	event, ok := c.Get(ContextKeyEvent)
	if !ok {
		return nil, false
	}
	e, ok := event.(*models.CalendarEvent)
	return e, ok
}
