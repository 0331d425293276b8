package models

import (
	"time"
)

// ProjectInvite is a time-limited invitation for an email address that does
// not yet have an account. The token is a uuid and is single-use: UsedAt is
// set exactly once, on first successful acceptance.
type ProjectInvite struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	ProjectID   uint        `gorm:"index;not null" json:"project_id"`
	Project     *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Email       string      `gorm:"index;size:255;not null" json:"email"`
	Role        ProjectRole `gorm:"size:50;not null" json:"role"`
	Token       string      `gorm:"uniqueIndex;size:64;not null" json:"-"`
	InvitedByID uint        `gorm:"not null" json:"invited_by_id"`
	InvitedBy   *User       `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
	ExpiresAt   time.Time   `gorm:"not null" json:"expires_at"`
	UsedAt      *time.Time  `json:"used_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (ProjectInvite) TableName() string { return "project_invites" }

// Used reports whether the invite has already been consumed.
func (i *ProjectInvite) Used() bool { return i.UsedAt != nil }

// Expired is a strict less-than-now check evaluated at call time; expiry is
// never persisted as a state.
func (i *ProjectInvite) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

// Usable reports whether the invite can still be accepted.
func (i *ProjectInvite) Usable(now time.Time) bool {
	return !i.Used() && !i.Expired(now)
}
