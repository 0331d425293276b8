package services

import (
	"github.com/draytht/nocarry/internal/models"
)

// Pure authorization predicates over project-scoped roles. Handlers load the
// membership rows; these functions decide.

// AllowedProjectRoles returns the project roles assignable to an account with
// the given global role. A professor account may only hold professor-level
// project roles; everyone else (including accounts that do not exist yet at
// lookup time) gets the student-level set.
func AllowedProjectRoles(globalRole models.GlobalRole) []models.ProjectRole {
	if globalRole == models.GlobalRoleProfessor {
		return []models.ProjectRole{models.ProjectRoleProfessor, models.ProjectRoleTeamLeader}
	}
	return []models.ProjectRole{models.ProjectRoleStudent, models.ProjectRoleTeamLeader}
}

// AllRolesAssignable is the lookup result for a wholly new account: any of
// the three roles is valid pending signup.
func AllRolesAssignable() []models.ProjectRole {
	return []models.ProjectRole{
		models.ProjectRoleStudent,
		models.ProjectRoleProfessor,
		models.ProjectRoleTeamLeader,
	}
}

// RoleAssignable reports whether role is in the allowed set for globalRole.
func RoleAssignable(globalRole models.GlobalRole, role models.ProjectRole) bool {
	for _, r := range AllowedProjectRoles(globalRole) {
		if r == role {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether a project role may perform privileged member
// and task operations.
func IsPrivileged(role models.ProjectRole) bool {
	return role == models.ProjectRoleTeamLeader || role == models.ProjectRoleProfessor
}

// CanRemoveMember decides member removal. Self-removal (quitting) is always
// permitted; removing someone else requires a privileged caller, and the team
// leader cannot be removed by anyone but themselves.
func CanRemoveMember(callerRole, targetRole models.ProjectRole, isSelf bool) bool {
	if isSelf {
		return true
	}
	if !IsPrivileged(callerRole) {
		return false
	}
	return targetRole != models.ProjectRoleTeamLeader
}

// CanEditTaskDetails allows the assignee, team leaders, and professors to
// change title, description, assignee, or due date.
func CanEditTaskDetails(isAssignee bool, callerRole models.ProjectRole) bool {
	return isAssignee || IsPrivileged(callerRole)
}

// CanChangeTaskStatus: an unassigned task may be actioned by anyone in the
// project; an assigned task only by its assignee.
func CanChangeTaskStatus(isAssignee, hasAssignee bool) bool {
	return !hasAssignee || isAssignee
}
