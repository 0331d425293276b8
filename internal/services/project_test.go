package services

import (
	"encoding/json"
	"testing"

	"github.com/draytht/nocarry/internal/models"
)

func TestListByCourseScopedToMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	code := "CS101"

	owner := createTestUser(t, db, "owner@school.edu", models.GlobalRoleProfessor)
	outsider := createTestUser(t, db, "outsider@school.edu", models.GlobalRoleProfessor)

	project := createTestProject(t, db, owner, "Compilers", &code)
	addTestMember(t, db, project.ID, owner.ID, models.ProjectRoleProfessor)

	mine, err := svc.ListByCourse(code, owner.ID)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != project.ID {
		t.Errorf("member should see their course project, got %+v", mine)
	}

	// A professor with no membership in the project must not see it, even
	// knowing the course code.
	theirs, err := svc.ListByCourse(code, outsider.ID)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("non-member should see no projects under %s, got %d", code, len(theirs))
	}
}

func TestUpdateProjectClearsFieldsOnNull(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)
	code := "CS101"

	owner := createTestUser(t, db, "owner@school.edu", models.GlobalRoleStudent)
	project := createTestProject(t, db, owner, "Compilers", &code)
	db.Model(project).Update("description", "draft")

	var req UpdateProjectRequest
	if err := json.Unmarshal([]byte(`{"course_code":null,"description":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, err := svc.Update(project.ID, &req); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got models.Project
	if err := db.First(&got, project.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.CourseCode != nil {
		t.Errorf("explicit null should clear course code, got %q", *got.CourseCode)
	}
	if got.Description != "" {
		t.Errorf("explicit null should clear description, got %q", got.Description)
	}
	if got.Name != "Compilers" {
		t.Errorf("absent name should stay unchanged, got %q", got.Name)
	}
}

func TestUpdateProjectRejectsEmptyName(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "owner@school.edu", models.GlobalRoleStudent)
	project := createTestProject(t, db, owner, "Compilers", nil)

	var req UpdateProjectRequest
	if err := json.Unmarshal([]byte(`{"name":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, err := svc.Update(project.ID, &req); err == nil {
		t.Error("clearing name should be rejected")
	}
}
