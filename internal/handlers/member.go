package handlers

import (
	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MemberHandler struct {
	memberService  *services.MemberService
	projectHandler *ProjectHandler
}

func NewMemberHandler(db *gorm.DB, projectHandler *ProjectHandler) *MemberHandler {
	return &MemberHandler{
		memberService:  services.NewMemberService(db),
		projectHandler: projectHandler,
	}
}

// List returns a project's members
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	members, err := h.memberService.List(member.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// Remove takes a member out of the project
// DELETE /api/projects/:id/members/:userId
func (h *MemberHandler) Remove(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	targetID := pathID(c, "userId")
	if targetID == 0 {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.memberService.Remove(member.ProjectID, targetID, member); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateRole changes a member's project role
// PUT /api/projects/:id/members/:userId/role
func (h *MemberHandler) UpdateRole(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}
	if !services.IsPrivileged(member.Role) {
		response.Forbidden(c, "only team leaders and professors can change roles")
		return
	}

	targetID := pathID(c, "userId")
	if targetID == 0 {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req struct {
		Role models.ProjectRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.memberService.UpdateRole(member.ProjectID, targetID, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, updated)
}
