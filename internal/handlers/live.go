package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/livestate"
	"github.com/yukikurage/teamdesk-api/internal/liveview"
	"github.com/yukikurage/teamdesk-api/internal/middleware"
	"github.com/yukikurage/teamdesk-api/internal/models"
	"github.com/yukikurage/teamdesk-api/internal/realtime"
	"github.com/yukikurage/teamdesk-api/internal/services"
	"go.uber.org/zap"
)

// LiveHandler serves the live views. A view lives as long as the event
// stream that opened it; intents address it by the id sent in the first
// "open" event.
type LiveHandler struct {
	registry *liveview.Registry
	tasks    liveview.TaskStore
	inbox    liveview.NotificationStore
	feed     realtime.Feed
	logger   *zap.Logger
}

func NewLiveHandler(registry *liveview.Registry, tasks liveview.TaskStore, inbox liveview.NotificationStore, feed realtime.Feed, logger *zap.Logger) *LiveHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &LiveHandler{
		registry: registry,
		tasks:    tasks,
		inbox:    inbox,
		feed:     feed,
		logger:   logger,
	}
}

// Board opens a task board for the current user and streams its snapshots.
func (h *LiveHandler) Board(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	board, err := liveview.OpenTaskBoard(c.Request.Context(), liveview.NewID(), session.Viewer(), h.tasks, h.feed, h.logger)
	if err != nil {
		respondError(c, err)
		return
	}
	h.registry.Add(board)
	defer h.registry.Remove(board.ID())

	ch, cancel := board.Watch()
	defer cancel()
	stream(c, board.ID(), ch)
}

// Inbox opens the current user's live inbox and streams its snapshots.
func (h *LiveHandler) Inbox(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	inbox, err := liveview.OpenInbox(c.Request.Context(), liveview.NewID(), userID, h.inbox, h.feed, h.logger)
	if err != nil {
		respondError(c, err)
		return
	}
	h.registry.Add(inbox)
	defer h.registry.Remove(inbox.ID())

	ch, cancel := inbox.Watch()
	defer cancel()
	stream(c, inbox.ID(), ch)
}

// stream writes one "open" event and then a "snapshot" event per change
// until the client goes away or the view closes.
func stream[T any](c *gin.Context, viewID string, ch <-chan livestate.Snapshot[T]) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	c.SSEvent("open", gin.H{"viewId": viewID})
	c.Writer.Flush()

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("snapshot", snap)
			c.Writer.Flush()
		}
	}
}

// Snapshot returns the current state of a view without streaming.
func (h *LiveHandler) Snapshot(c *gin.Context) {
	view, ok := h.view(c)
	if !ok {
		return
	}

	switch v := view.(type) {
	case *liveview.TaskBoard:
		c.JSON(http.StatusOK, v.Snapshot())
	case *liveview.Inbox:
		snap := v.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"entities": snap.Entities,
			"loading":  snap.Loading,
			"version":  snap.Version,
			"unread":   v.Unread(),
		})
	default:
		apierrors.NotFound(c, "viewNotFound")
	}
}

// Close ends a view early; its stream finishes.
func (h *LiveHandler) Close(c *gin.Context) {
	if _, ok := h.view(c); !ok {
		return
	}
	h.registry.Remove(c.Param("viewID"))
	c.Status(http.StatusNoContent)
}

func (h *LiveHandler) view(c *gin.Context) (liveview.View, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return nil, false
	}

	view, err := h.registry.Get(c.Param("viewID"), userID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return view, true
}

func (h *LiveHandler) board(c *gin.Context) (*liveview.TaskBoard, bool) {
	view, ok := h.view(c)
	if !ok {
		return nil, false
	}
	board, ok := view.(*liveview.TaskBoard)
	if !ok {
		apierrors.NotFound(c, "viewNotFound")
		return nil, false
	}
	return board, true
}

func (h *LiveHandler) inboxView(c *gin.Context) (*liveview.Inbox, bool) {
	view, ok := h.view(c)
	if !ok {
		return nil, false
	}
	inbox, ok := view.(*liveview.Inbox)
	if !ok {
		apierrors.NotFound(c, "viewNotFound")
		return nil, false
	}
	return inbox, true
}

// boardIntent runs an optimistic board intent. The intent outlives a
// disconnecting client so the write is not abandoned halfway.
func (h *LiveHandler) boardIntent(c *gin.Context, run func(ctx context.Context, board *liveview.TaskBoard, taskID uint64) error) {
	board, ok := h.board(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := run(context.WithoutCancel(c.Request.Context()), board, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board.Snapshot())
}

func (h *LiveHandler) CreateTask(c *gin.Context) {
	board, ok := h.board(c)
	if !ok {
		return
	}

	var req struct {
		Name        string              `json:"name" binding:"required"`
		Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending working stuck done"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
		DueDate     string              `json:"dueDate" binding:"required"`
		Description string              `json:"description"`
		TeamID      string              `json:"teamId"`
		OwnerIDs    []uint64            `json:"ownerIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := board.Create(c.Request.Context(), services.CreateTaskInput{
		Name:        req.Name,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
		Description: req.Description,
		TeamID:      req.TeamID,
		OwnerIDs:    req.OwnerIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *LiveHandler) MoveStatus(c *gin.Context) {
	var req struct {
		Status models.TaskStatus `json:"status" binding:"required,oneof=pending working stuck done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	h.boardIntent(c, func(ctx context.Context, board *liveview.TaskBoard, taskID uint64) error {
		return board.MoveStatus(ctx, taskID, req.Status)
	})
}

func (h *LiveHandler) SetPriority(c *gin.Context) {
	var req struct {
		Priority models.TaskPriority `json:"priority" binding:"required,oneof=high medium low"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	h.boardIntent(c, func(ctx context.Context, board *liveview.TaskBoard, taskID uint64) error {
		return board.SetPriority(ctx, taskID, req.Priority)
	})
}

func (h *LiveHandler) EditTask(c *gin.Context) {
	var req struct {
		Name        *string              `json:"name"`
		Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending working stuck done"`
		Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
		DueDate     *string              `json:"dueDate"`
		Description *string              `json:"description"`
		TeamID      *string              `json:"teamId"`
		OwnerIDs    *[]uint64            `json:"ownerIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.boardIntent(c, func(ctx context.Context, board *liveview.TaskBoard, taskID uint64) error {
		return board.Edit(ctx, taskID, services.UpdateTaskInput{
			Name:        req.Name,
			Status:      req.Status,
			Priority:    req.Priority,
			DueDate:     dueDate,
			Description: req.Description,
			TeamID:      req.TeamID,
			OwnerIDs:    req.OwnerIDs,
		})
	})
}

func (h *LiveHandler) DeleteTask(c *gin.Context) {
	h.boardIntent(c, func(ctx context.Context, board *liveview.TaskBoard, taskID uint64) error {
		return board.Delete(ctx, taskID)
	})
}

func (h *LiveHandler) MarkRead(c *gin.Context) {
	inbox, ok := h.inboxView(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := inbox.MarkRead(context.WithoutCancel(c.Request.Context()), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread": inbox.Unread(),
	})
}

func (h *LiveHandler) MarkAllRead(c *gin.Context) {
	inbox, ok := h.inboxView(c)
	if !ok {
		return
	}

	if err := inbox.MarkAllRead(context.WithoutCancel(c.Request.Context())); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread": inbox.Unread(),
	})
}
