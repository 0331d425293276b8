package services

import (
	"testing"

	"github.com/draytht/nocarry/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.ProjectInvite{},
		&models.ActivityLog{},
		&models.ProjectFile{},
		&models.PeerReview{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.GlobalRole) *models.User {
	t.Helper()

	user := models.User{
		Email:      email,
		Password:   "x",
		Name:       email,
		GlobalRole: role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return &user
}

func createTestProject(t *testing.T, db *gorm.DB, owner *models.User, name string, courseCode *string) *models.Project {
	t.Helper()

	project := models.Project{
		Name:       name,
		CourseCode: courseCode,
		OwnerID:    owner.ID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return &project
}

func addTestMember(t *testing.T, db *gorm.DB, projectID, userID uint, role models.ProjectRole) {
	t.Helper()

	member := models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("add member %d to project %d: %v", userID, projectID, err)
	}
}
