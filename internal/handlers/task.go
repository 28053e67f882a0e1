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

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListTasks returns every task visible to the current user, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	session, exists := middleware.GetSession(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), session.Viewer())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
	})
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task and notifies its owners
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Name        string              `json:"name" binding:"required"`
		Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending working stuck done"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
		DueDate     string              `json:"dueDate" binding:"required"`
		Description string              `json:"description"`
		TeamID      string              `json:"teamId"`
		OwnerIDs    []uint64            `json:"ownerIds"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Name:        req.Name,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
		Description: req.Description,
		TeamID:      req.TeamID,
		OwnerIDs:    req.OwnerIDs,
	}, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a sparse update. ownerIds, when present, replaces the
// owner list.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}
	userID, _ := middleware.GetUserID(c)

	type UpdateTaskRequest struct {
		Name        *string              `json:"name"`
		Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending working stuck done"`
		Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
		DueDate     *string              `json:"dueDate"`
		Description *string              `json:"description"`
		TeamID      *string              `json:"teamId"`
		OwnerIDs    *[]uint64            `json:"ownerIds"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.tasks.UpdateTask(c.Request.Context(), task.ID, userID, services.UpdateTaskInput{
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

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// UpdateStatus moves a task to another column of the board
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status" binding:"required,oneof=pending working stuck done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	updated, err := h.tasks.UpdateStatus(c.Request.Context(), task.ID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	var req struct {
		Priority models.TaskPriority `json:"priority" binding:"required,oneof=high medium low"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	updated, err := h.tasks.UpdatePriority(c.Request.Context(), task.ID, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task with its messages and notifications
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), task.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMessage posts to the task chat. Audio and image messages carry the
// uploaded file URL in mediaUrl.
func (h *TaskHandler) AddMessage(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "")
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req struct {
		Content  string             `json:"content"`
		Kind     models.MessageKind `json:"kind" binding:"omitempty,oneof=text audio image"`
		MediaURL string             `json:"mediaUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	msg, err := h.tasks.AddMessage(c.Request.Context(), services.AddMessageInput{
		TaskID:   task.ID,
		UserID:   userID,
		Content:  req.Content,
		Kind:     req.Kind,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageDTO(*msg))
}

// GenerateTasks drafts tasks from free text with the AI service. Nothing is
// saved; the client creates the drafts it keeps.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required,max=10000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	drafts, err := h.tasks.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text:      req.Text,
		CreatorID: userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}
