package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity actions recorded by state-changing operations.
const (
	ActionProjectCreated    = "PROJECT_CREATED"
	ActionTaskCreated       = "TASK_CREATED"
	ActionTaskStatusUpdated = "TASK_STATUS_UPDATED"
	ActionMemberInvited     = "MEMBER_INVITED"
	ActionFileUploaded      = "FILE_UPLOADED"
)

// ActivityLog is the append-only audit trail. Rows are never updated or
// deleted; the contribution scorer reads them at aggregation time.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID uint           `gorm:"index;not null" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	TaskID    *uint          `json:"task_id"`
	Action    string         `gorm:"size:100;index;not null" json:"action"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
