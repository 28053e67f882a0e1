package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/dto"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/services"
)

type CalendarHandler struct {
	calendar *services.CalendarService
}

func NewCalendarHandler(calendar *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendar: calendar,
	}
}

func (h *CalendarHandler) ListEvents(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	events, err := h.calendar.ListEvents(c.Request.Context(), session.Viewer())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": dto.ToCalendarEventDTOs(events),
	})
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Title          string           `json:"title" binding:"required,max=255"`
		Type           models.EventType `json:"type" binding:"omitempty,oneof=meeting event health"`
		Date           string           `json:"date" binding:"required"`
		StartTime      *string          `json:"startTime"`
		EndTime        *string          `json:"endTime"`
		Location       string           `json:"location"`
		Description    string           `json:"description"`
		TeamID         string           `json:"teamId"`
		ParticipantIDs []uint64         `json:"participantIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.calendar.CreateEvent(c.Request.Context(), services.CreateEventInput{
		Title:          req.Title,
		Type:           req.Type,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
		Description:    req.Description,
		TeamID:         req.TeamID,
		ParticipantIDs: req.ParticipantIDs,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCalendarEventDTO(*event))
}

// UpdateEvent applies a sparse update. clearTimes turns the event into an
// all-day event.
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	current, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.NotFound(c, "eventNotFound")
		return
	}

	var req struct {
		Title          *string           `json:"title" binding:"omitempty,max=255"`
		Type           *models.EventType `json:"type" binding:"omitempty,oneof=meeting event health"`
		Date           *string           `json:"date"`
		StartTime      *string           `json:"startTime"`
		EndTime        *string           `json:"endTime"`
		ClearTimes     bool              `json:"clearTimes"`
		Location       *string           `json:"location"`
		Description    *string           `json:"description"`
		TeamID         *string           `json:"teamId"`
		ParticipantIDs *[]uint64         `json:"participantIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	date, err := parseDatePtr(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.calendar.UpdateEvent(c.Request.Context(), current.ID, services.UpdateEventInput{
		Title:          req.Title,
		Type:           req.Type,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ClearTimes:     req.ClearTimes,
		Location:       req.Location,
		Description:    req.Description,
		TeamID:         req.TeamID,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCalendarEventDTO(*event))
}

func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.NotFound(c, "eventNotFound")
		return
	}

	if err := h.calendar.DeleteEvent(c.Request.Context(), event.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
