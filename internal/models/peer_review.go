package models

import (
	"time"
)

// PeerReview is one member's rating of another within the same project.
// A reviewer has at most one review per receiver per project; resubmission
// overwrites it. Reviewer and receiver must differ.
type PeerReview struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"uniqueIndex:idx_project_reviewer_receiver;not null" json:"project_id"`
	ReviewerID    uint      `gorm:"uniqueIndex:idx_project_reviewer_receiver;not null" json:"reviewer_id"`
	Reviewer      *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ReceiverID    uint      `gorm:"uniqueIndex:idx_project_reviewer_receiver;not null" json:"receiver_id"`
	Receiver      *User     `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Quality       int       `gorm:"not null" json:"quality"`
	Communication int       `gorm:"not null" json:"communication"`
	Timeliness    int       `gorm:"not null" json:"timeliness"`
	Initiative    int       `gorm:"not null" json:"initiative"`
	Comment       string    `gorm:"size:2000" json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PeerReview) TableName() string { return "peer_reviews" }

// Average is the mean of the four rating dimensions.
func (r *PeerReview) Average() float64 {
	return float64(r.Quality+r.Communication+r.Timeliness+r.Initiative) / 4
}
