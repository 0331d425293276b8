package handlers

import (
	"time"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports subsystem health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	queueMode := "sync"
	if queue := services.GetMailQueue(); queue != nil && queue.IsAsync() {
		queueMode = "async (Redis)"
	}

	var pendingInvites int64
	models.GetDB().Model(&models.ProjectInvite{}).
		Where("used_at IS NULL AND expires_at > ?", time.Now()).
		Count(&pendingInvites)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "nocarry",
		"components": gin.H{
			"database":        dbStatus,
			"queue_mode":      queueMode,
			"pending_invites": pendingInvites,
		},
	})
}
