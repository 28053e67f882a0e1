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

// ContextKeyTask holds the task loaded by RequireTaskAccess.
const ContextKeyTask = "task"

// TaskLoader loads one task with its owners.
type TaskLoader interface {
	GetTask(ctx context.Context, taskID uint64) (*models.Task, error)
}

// RequireTaskAccess checks if the user can see the task named by :id
func RequireTaskAccess(tasks TaskLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "invalidId")
			return
		}

		session, exists := GetSession(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := tasks.GetTask(c.Request.Context(), taskID)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, "taskNotFound")
				return
			}
			apierrors.Database(c, err)
			return
		}

		// Return 404 instead of 403 to avoid leaking task existence
		if !services.CanView(session.Viewer(), task) {
			apierrors.NotFound(c, "taskNotFound")
			return
		}

		c.Set(ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess.
func GetTask(c *gin.Context) (*models.Task, bool) {
	v, exists := c.Get(ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := v.(*models.Task)
	return task, ok
}
