package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/liveview"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"github.com/yukikurage/teamdesk-api/internal/utils"
)

var errInvalidDate = errors.New("invalid date")

var notFoundKeys = map[error]string{
	services.ErrTaskNotFound:           "taskNotFound",
	services.ErrUserNotFound:           "userNotFound",
	services.ErrTeamNotFound:           "teamNotFound",
	services.ErrRoomNotFound:           "roomNotFound",
	services.ErrEventNotFound:          "eventNotFound",
	liveview.ErrViewNotFound:           "viewNotFound",
	liveview.ErrTaskNotOnBoard:         "taskNotFound",
	liveview.ErrNotificationNotInInbox: "notFound",
}

var badRequestKeys = map[error]string{
	services.ErrNameRequired:         "nameRequired",
	services.ErrDueDateRequired:      "dueDateRequired",
	services.ErrInvalidTeamID:        "invalidTeamId",
	services.ErrMessageEmpty:         "messageEmpty",
	services.ErrMediaURLRequired:     "mediaUrlRequired",
	services.ErrEmailRequired:        "emailRequired",
	services.ErrPasswordTooShort:     "passwordTooShort",
	services.ErrInvalidRole:          "invalidRole",
	services.ErrInvalidTeamName:      "teamNameRequired",
	services.ErrRoomImageRequired:    "roomImageRequired",
	services.ErrTitleRequired:        "titleRequired",
	services.ErrDateRequired:         "dateRequired",
	services.ErrInvalidEventTime:     "invalidEventTime",
	services.ErrNoFiles:              "noFiles",
	services.ErrAINoTasksGenerated:   "aiNoTasks",
	services.ErrAINoValidTasks:       "aiNoTasks",
	services.ErrCannotDeleteYourself: "cannotDeleteYourself",
	errInvalidDate:                   "invalidInput",
}

// respondError maps a service error onto a translated API error.
func respondError(c *gin.Context, err error) {
	for target, key := range notFoundKeys {
		if errors.Is(err, target) {
			apierrors.NotFound(c, key)
			return
		}
	}
	for target, key := range badRequestKeys {
		if errors.Is(err, target) {
			apierrors.BadRequest(c, key)
			return
		}
	}

	var roomErr *services.RoomValidationError
	switch {
	case errors.As(err, &roomErr):
		apierrors.BadRequestWithDetails(c, "roomInvalid", gin.H{"fields": roomErr.Fields})
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "emailAlreadyRegistered")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "aiNotConfigured")
	case errors.Is(err, services.ErrFailedToHashPassword):
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	default:
		apierrors.Database(c, err)
	}
}

// paramID parses a numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		apierrors.BadRequest(c, "invalidId")
		return 0, false
	}
	return id, true
}

// parseDate accepts a calendar day or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
