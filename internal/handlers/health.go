package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
	"github.com/yukikurage/teamdesk-api/internal/telemetry"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// Health reports whether the API and its database are reachable
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		_ = c.Error(err)
		apierrors.ServiceUnavailable(c, "serviceUnavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "TeamDesk API is running",
	})
}

// Report accepts a client-side failure and forwards it to error reporting.
func (h *HealthHandler) Report(c *gin.Context) {
	var req struct {
		Kind    string                 `json:"kind" binding:"required,max=64"`
		Message string                 `json:"message" binding:"required,max=2000"`
		Context map[string]interface{} `json:"context"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	telemetry.Capture(req.Kind, errors.New(req.Message), req.Context)
	c.Status(http.StatusAccepted)
}
