package handlers

import (
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	activityService *services.ActivityService
	projectHandler  *ProjectHandler
}

func NewActivityHandler(db *gorm.DB, projectHandler *ProjectHandler) *ActivityHandler {
	return &ActivityHandler{
		activityService: services.NewActivityService(db),
		projectHandler:  projectHandler,
	}
}

// ProjectFeed returns a project's recent activity
// GET /api/projects/:id/activity
func (h *ActivityHandler) ProjectFeed(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	feed, err := h.activityService.ProjectFeed(member.ProjectID, 30)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, feed)
}

// UserFeed returns the caller's recent activity across projects
// GET /api/activity
func (h *ActivityHandler) UserFeed(c *gin.Context) {
	feed, err := h.activityService.UserFeed(middleware.GetUserID(c), 20)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, feed)
}
