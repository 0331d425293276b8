package services

import (
	"errors"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

// MemberService manages the membership roster of a project.
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// List returns a project's members with their users preloaded, leaders first.
func (s *MemberService) List(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Remove takes a member out of a project. Team leaders and professors can
// remove students; a member can always remove themselves. Removal is a hard
// delete so the user can be invited back.
func (s *MemberService) Remove(projectID, targetUserID uint, caller *models.ProjectMember) error {
	var target models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFound("member not found")
	}
	if err != nil {
		return err
	}

	isSelf := caller.UserID == targetUserID
	if !CanRemoveMember(caller.Role, target.Role, isSelf) {
		return response.NewForbidden("you cannot remove this member")
	}

	return s.db.Delete(&target).Error
}

// UpdateRole changes a member's project role. Restricted to privileged
// members; the new role must be assignable.
func (s *MemberService) UpdateRole(projectID, targetUserID uint, role models.ProjectRole) (*models.ProjectMember, error) {
	if !role.Valid() {
		return nil, response.NewBadRequest("invalid role")
	}

	var target models.ProjectMember
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, targetUserID).
		Preload("User").
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("member not found")
	}
	if err != nil {
		return nil, err
	}

	if target.User != nil && !RoleAssignable(target.User.GlobalRole, role) {
		return nil, response.NewBadRequest("role not available for this user")
	}

	if err := s.db.Model(&target).Update("role", role).Error; err != nil {
		return nil, err
	}
	return &target, nil
}
