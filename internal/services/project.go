package services

import (
	"errors"
	"strings"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/types"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	CourseCode  string `json:"course_code"`
	Description string `json:"description"`
}

// UpdateProjectRequest carries partial edits. Absent fields stay unchanged;
// an explicit null clears course code and description.
type UpdateProjectRequest struct {
	Name        types.Optional[string] `json:"name"`
	CourseCode  types.Optional[string] `json:"course_code"`
	Description types.Optional[string] `json:"description"`
}

// ProjectSummary is a list item: the project plus the caller's role in it.
type ProjectSummary struct {
	models.Project
	Role        models.ProjectRole `json:"role"`
	MemberCount int64              `json:"member_count"`
	TaskCount   int64              `json:"task_count"`
}

// Create makes a project with the creator as its owner and first member.
// Students join their own projects as team leaders; professors keep their
// professor role.
func (s *ProjectService) Create(req *CreateProjectRequest, user *models.User) (*models.Project, error) {
	role := models.ProjectRoleTeamLeader
	if user.GlobalRole == models.GlobalRoleProfessor {
		role = models.ProjectRoleProfessor
	}

	var courseCode *string
	if code := strings.TrimSpace(req.CourseCode); code != "" {
		courseCode = &code
	}

	project := models.Project{
		Name:        req.Name,
		CourseCode:  courseCode,
		Description: req.Description,
		OwnerID:     user.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    user.ID,
			Role:      role,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return RecordActivity(tx, user.ID, project.ID, nil, models.ActionProjectCreated,
			map[string]interface{}{"project_name": project.Name})
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// ListForUser returns the projects the user belongs to, newest first.
func (s *ProjectService) ListForUser(userID uint) ([]ProjectSummary, error) {
	var memberships []models.ProjectMember
	if err := s.db.Where("user_id = ?", userID).
		Preload("Project").
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(memberships))
	for _, m := range memberships {
		if m.Project == nil {
			continue
		}
		summary := ProjectSummary{Project: *m.Project, Role: m.Role}
		s.db.Model(&models.ProjectMember{}).Where("project_id = ?", m.ProjectID).Count(&summary.MemberCount)
		s.db.Model(&models.Task{}).Where("project_id = ?", m.ProjectID).Count(&summary.TaskCount)
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ListByCourse returns the course's projects the user belongs to, for the
// professor course view. Membership scoping keeps one professor from
// enumerating another's projects by course code.
func (s *ProjectService) ListByCourse(courseCode string, userID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.course_code = ? AND project_members.user_id = ?", courseCode, userID).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByID returns a project with its members preloaded.
func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Preload("Owner").First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update applies a PATCH to project details.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name.Set {
		if req.Name.Value == nil || *req.Name.Value == "" {
			return nil, response.NewBadRequest("name cannot be empty")
		}
		updates["name"] = *req.Name.Value
	}
	if req.CourseCode.Set {
		if req.CourseCode.Value == nil {
			updates["course_code"] = nil
		} else {
			updates["course_code"] = strings.TrimSpace(*req.CourseCode.Value)
		}
	}
	if req.Description.Set {
		if req.Description.Value == nil {
			updates["description"] = ""
		} else {
			updates["description"] = *req.Description.Value
		}
	}
	if len(updates) == 0 {
		return project, nil
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete soft-deletes a project.
func (s *ProjectService) Delete(id uint) error {
	result := s.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("project not found")
	}
	return nil
}

// Membership returns the caller's membership row in a project, or a 403 if
// they do not belong to it.
func (s *ProjectService) Membership(projectID, userID uint) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewForbidden("you are not a member of this project")
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}
