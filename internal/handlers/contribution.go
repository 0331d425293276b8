package handlers

import (
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContributionHandler struct {
	contributionService *services.ContributionService
	projectHandler      *ProjectHandler
}

func NewContributionHandler(db *gorm.DB, projectHandler *ProjectHandler) *ContributionHandler {
	return &ContributionHandler{
		contributionService: services.NewContributionService(db),
		projectHandler:      projectHandler,
	}
}

// List returns the ranked contribution scores for a project
// GET /api/projects/:id/contributions
func (h *ContributionHandler) List(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	contributions, err := h.contributionService.ProjectContributions(member.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, contributions)
}
