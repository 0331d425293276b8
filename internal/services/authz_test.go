package services

import (
	"testing"

	"github.com/draytht/nocarry/internal/models"
)

func containsRole(roles []models.ProjectRole, role models.ProjectRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func TestAllowedProjectRoles_Professor(t *testing.T) {
	roles := AllowedProjectRoles(models.GlobalRoleProfessor)

	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	if !containsRole(roles, models.ProjectRoleProfessor) {
		t.Error("professor account should be assignable PROFESSOR")
	}
	if !containsRole(roles, models.ProjectRoleTeamLeader) {
		t.Error("professor account should be assignable TEAM_LEADER")
	}
	if containsRole(roles, models.ProjectRoleStudent) {
		t.Error("professor account should NOT be assignable STUDENT")
	}
}

func TestAllowedProjectRoles_Student(t *testing.T) {
	roles := AllowedProjectRoles(models.GlobalRoleStudent)

	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}
	if !containsRole(roles, models.ProjectRoleStudent) {
		t.Error("student account should be assignable STUDENT")
	}
	if !containsRole(roles, models.ProjectRoleTeamLeader) {
		t.Error("student account should be assignable TEAM_LEADER")
	}
	if containsRole(roles, models.ProjectRoleProfessor) {
		t.Error("student account should NOT be assignable PROFESSOR")
	}
}

func TestAllRolesAssignable(t *testing.T) {
	roles := AllRolesAssignable()
	if len(roles) != 3 {
		t.Fatalf("a new account should be assignable all 3 roles, got %d", len(roles))
	}
}

func TestRoleAssignable(t *testing.T) {
	if RoleAssignable(models.GlobalRoleStudent, models.ProjectRoleProfessor) {
		t.Error("a student cannot be assigned the PROFESSOR project role")
	}
	if !RoleAssignable(models.GlobalRoleStudent, models.ProjectRoleTeamLeader) {
		t.Error("a student can be assigned TEAM_LEADER")
	}
	if !RoleAssignable(models.GlobalRoleProfessor, models.ProjectRoleProfessor) {
		t.Error("a professor can be assigned PROFESSOR")
	}
	if RoleAssignable(models.GlobalRoleProfessor, models.ProjectRoleStudent) {
		t.Error("a professor cannot be assigned STUDENT")
	}
}

func TestCanRemoveMember_SelfAlwaysAllowed(t *testing.T) {
	// Quitting is permitted regardless of either role, even for team leaders.
	roles := []models.ProjectRole{
		models.ProjectRoleStudent,
		models.ProjectRoleProfessor,
		models.ProjectRoleTeamLeader,
	}
	for _, caller := range roles {
		for _, target := range roles {
			if !CanRemoveMember(caller, target, true) {
				t.Errorf("self-removal should always be allowed (caller=%s target=%s)", caller, target)
			}
		}
	}
}

func TestCanRemoveMember_UnprivilegedCaller(t *testing.T) {
	if CanRemoveMember(models.ProjectRoleStudent, models.ProjectRoleStudent, false) {
		t.Error("a student cannot remove another member")
	}
}

func TestCanRemoveMember_TeamLeaderProtected(t *testing.T) {
	if CanRemoveMember(models.ProjectRoleProfessor, models.ProjectRoleTeamLeader, false) {
		t.Error("even a professor cannot remove the team leader")
	}
	if CanRemoveMember(models.ProjectRoleTeamLeader, models.ProjectRoleTeamLeader, false) {
		t.Error("a team leader cannot remove another team leader")
	}
}

func TestCanRemoveMember_PrivilegedRemovesStudent(t *testing.T) {
	if !CanRemoveMember(models.ProjectRoleTeamLeader, models.ProjectRoleStudent, false) {
		t.Error("a team leader can remove a student")
	}
	if !CanRemoveMember(models.ProjectRoleProfessor, models.ProjectRoleStudent, false) {
		t.Error("a professor can remove a student")
	}
}

func TestCanEditTaskDetails(t *testing.T) {
	if !CanEditTaskDetails(true, models.ProjectRoleStudent) {
		t.Error("the assignee may edit details regardless of role")
	}
	if !CanEditTaskDetails(false, models.ProjectRoleTeamLeader) {
		t.Error("a team leader may edit any task's details")
	}
	if !CanEditTaskDetails(false, models.ProjectRoleProfessor) {
		t.Error("a professor may edit any task's details")
	}
	if CanEditTaskDetails(false, models.ProjectRoleStudent) {
		t.Error("a non-assignee student may not edit details")
	}
}

func TestCanChangeTaskStatus(t *testing.T) {
	if !CanChangeTaskStatus(false, false) {
		t.Error("anyone may action an unassigned task")
	}
	if !CanChangeTaskStatus(true, true) {
		t.Error("the assignee may action their own task")
	}
	if CanChangeTaskStatus(false, true) {
		t.Error("a non-assignee may not action an assigned task")
	}
}
