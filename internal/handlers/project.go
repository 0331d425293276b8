package handlers

import (
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	authService    *services.AuthService
}

func NewProjectHandler(db *gorm.DB, authService *services.AuthService) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
		authService:    authService,
	}
}

// membership resolves the caller's membership in the project named by the
// :id param. Writes the error response itself on failure.
func (h *ProjectHandler) membership(c *gin.Context) (*models.ProjectMember, bool) {
	projectID := pathID(c, "id")
	if projectID == 0 {
		response.BadRequest(c, "invalid project id")
		return nil, false
	}

	member, err := h.projectService.Membership(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return member, true
}

// Create creates a project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	project, err := h.projectService.Create(&req, user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// List returns the caller's projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	summaries, err := h.projectService.ListForUser(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, summaries)
}

// ListByCourse returns projects under a course code, for professors
// GET /api/courses/:code/projects
func (h *ProjectHandler) ListByCourse(c *gin.Context) {
	if middleware.GetGlobalRole(c) != string(models.GlobalRoleProfessor) {
		response.Forbidden(c, "professor access required")
		return
	}

	projects, err := h.projectService.ListByCourse(c.Param("code"), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, projects)
}

// GetByID returns a project the caller belongs to
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	member, ok := h.membership(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(member.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"project": project, "role": member.Role})
}

// Update edits project details
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	member, ok := h.membership(c)
	if !ok {
		return
	}
	if !services.IsPrivileged(member.Role) {
		response.Forbidden(c, "only team leaders and professors can edit the project")
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(member.ProjectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	member, ok := h.membership(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(member.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if project.OwnerID != middleware.GetUserID(c) {
		response.Forbidden(c, "only the project owner can delete it")
		return
	}

	if err := h.projectService.Delete(member.ProjectID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
