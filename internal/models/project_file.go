package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectFile is a stored upload; URL points into the object store.
type ProjectFile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProjectID    uint           `gorm:"index;not null" json:"project_id"`
	Project      *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UploadedByID uint           `gorm:"not null" json:"uploaded_by_id"`
	UploadedBy   *User          `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	Name         string         `gorm:"size:300;not null" json:"name"`
	URL          string         `gorm:"size:500;not null" json:"url"`
	Path         string         `gorm:"size:500" json:"-"`
	Size         int64          `json:"size"`
	MimeType     string         `gorm:"size:200" json:"mime_type"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectFile) TableName() string { return "project_files" }
