package middleware

import (
	"context"
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

// Session is the signed-in user as resolved for one request.
type Session struct {
	UserID uint64
	Role   models.Role
	TeamID *uint64
}

// Viewer returns the visibility scope of the session.
func (s Session) Viewer() services.Viewer {
	return services.Viewer{UserID: s.UserID, Role: s.Role, TeamID: s.TeamID}
}

func (s Session) IsManager() bool {
	return s.Role == models.RoleManager
}

// ProfileLoader loads the profile behind a session user id.
type ProfileLoader interface {
	GetUser(ctx context.Context, id uint64) (*models.Profile, error)
}

// RequireAuth checks if the user is authenticated via session and loads
// their profile. A session whose profile was deleted is cleared.
func RequireAuth(profiles ProfileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUint64(session.Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		profile, err := profiles.GetUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				session.Clear()
				_ = session.Save()
				apierrors.Unauthorized(c, "")
				return
			}
			apierrors.Database(c, err)
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, profile.ID)
		c.Set(constants.ContextKeySession, Session{
			UserID: profile.ID,
			Role:   profile.Role,
			TeamID: profile.TeamID,
		})
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetSession retrieves the session resolved by RequireAuth.
func GetSession(c *gin.Context) (Session, bool) {
	v, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// Session values round-trip through gob (cookie store) or redis, so the
// stored id can come back as any integer type.
func toUint64(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
