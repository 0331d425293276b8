package models

import (
	"time"
)

// ProjectRole is a user's role within a single project. Distinct from
// GlobalRole; the overlap in labels is coincidental.
type ProjectRole string

const (
	ProjectRoleStudent    ProjectRole = "STUDENT"
	ProjectRoleProfessor  ProjectRole = "PROFESSOR"
	ProjectRoleTeamLeader ProjectRole = "TEAM_LEADER"
)

func (r ProjectRole) Valid() bool {
	return r == ProjectRoleStudent || r == ProjectRoleProfessor || r == ProjectRoleTeamLeader
}

// Label returns the human-readable form used in invite emails.
func (r ProjectRole) Label() string {
	switch r {
	case ProjectRoleStudent:
		return "Student"
	case ProjectRoleProfessor:
		return "Professor"
	case ProjectRoleTeamLeader:
		return "Team Leader"
	}
	return string(r)
}

// ProjectMember is the authorization record: exactly the set of users who may
// act within a project. The (project_id, user_id) pair is unique. Rows are
// hard-deleted on removal so a removed user can be re-invited later.
type ProjectMember struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ProjectID uint        `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint        `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      ProjectRole `gorm:"size:50;default:STUDENT" json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
