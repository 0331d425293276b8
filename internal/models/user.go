package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GlobalRole is the account-level role fixed at registration. It is distinct
// from ProjectRole even though the two share some labels.
type GlobalRole string

const (
	GlobalRoleStudent   GlobalRole = "STUDENT"
	GlobalRoleProfessor GlobalRole = "PROFESSOR"
)

func (r GlobalRole) Valid() bool {
	return r == GlobalRoleStudent || r == GlobalRoleProfessor
}

// User represents an account. Authentication is JWT-based; Password holds
// the bcrypt hash and is never serialized.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password        string         `gorm:"size:255" json:"-"`
	Name            string         `gorm:"size:200" json:"name"`
	PreferredName   *string        `gorm:"size:200" json:"preferred_name"`
	GlobalRole      GlobalRole     `gorm:"size:50;default:STUDENT" json:"global_role"`
	Bio             string         `gorm:"size:1000" json:"bio"`
	School          string         `gorm:"size:200" json:"school"`
	Major           string         `gorm:"size:200" json:"major"`
	AvatarURL       string         `gorm:"size:500" json:"avatar_url"`
	GithubURL       string         `gorm:"size:500" json:"github_url"`
	LinkedinURL     string         `gorm:"size:500" json:"linkedin_url"`
	PersonalLinks   datatypes.JSON `json:"personal_links"`
	Status          *string        `gorm:"size:200" json:"status"`
	StatusExpiresAt *time.Time     `json:"status_expires_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// DisplayName prefers the preferred name when one is set.
func (u *User) DisplayName() string {
	if u.PreferredName != nil && *u.PreferredName != "" {
		return *u.PreferredName
	}
	return u.Name
}
