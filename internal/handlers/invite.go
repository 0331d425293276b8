package handlers

import (
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
)

type InviteHandler struct {
	inviteService  *services.InviteService
	projectHandler *ProjectHandler
}

func NewInviteHandler(inviteService *services.InviteService, projectHandler *ProjectHandler) *InviteHandler {
	return &InviteHandler{
		inviteService:  inviteService,
		projectHandler: projectHandler,
	}
}

// Lookup answers which roles an email address may be invited as
// GET /api/projects/:id/invite?email=...
func (h *InviteHandler) Lookup(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}
	if !services.IsPrivileged(member.Role) {
		response.Forbidden(c, "only team leaders and professors can invite members")
		return
	}

	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "email is required")
		return
	}

	result, err := h.inviteService.LookupInvitee(email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Create invites an email address into the project
// POST /api/projects/:id/invite
func (h *InviteHandler) Create(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}
	if !services.IsPrivileged(member.Role) {
		response.Forbidden(c, "only team leaders and professors can invite members")
		return
	}

	var req struct {
		Email string             `json:"email" binding:"required,email"`
		Role  models.ProjectRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.inviteService.CreateOrUpdateMembership(
		member.ProjectID, req.Email, req.Role, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Preview shows an invite's details without authentication
// GET /api/invite/:token
func (h *InviteHandler) Preview(c *gin.Context) {
	preview, err := h.inviteService.PreviewInvite(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, preview)
}

// Accept consumes an invite for the authenticated caller
// POST /api/invite/:token
func (h *InviteHandler) Accept(c *gin.Context) {
	projectID, err := h.inviteService.AcceptInvite(c.Param("token"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"project_id": projectID})
}
