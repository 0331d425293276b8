package services

import (
	"errors"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

// ReviewService handles peer reviews between project members. Each
// reviewer/receiver pair holds at most one review per project; resubmitting
// overwrites the earlier one.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type SubmitReviewRequest struct {
	ReceiverID    uint   `json:"receiver_id" binding:"required"`
	Quality       int    `json:"quality" binding:"required,min=1,max=5"`
	Communication int    `json:"communication" binding:"required,min=1,max=5"`
	Timeliness    int    `json:"timeliness" binding:"required,min=1,max=5"`
	Initiative    int    `json:"initiative" binding:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

// Submit upserts the reviewer's review of another member.
func (s *ReviewService) Submit(projectID, reviewerID uint, req *SubmitReviewRequest) (*models.PeerReview, error) {
	if req.ReceiverID == reviewerID {
		return nil, response.NewBadRequest("you cannot review yourself")
	}

	var count int64
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, req.ReceiverID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, response.NewNotFound("receiver is not a member of this project")
	}

	review := models.PeerReview{
		ProjectID:     projectID,
		ReviewerID:    reviewerID,
		ReceiverID:    req.ReceiverID,
		Quality:       req.Quality,
		Communication: req.Communication,
		Timeliness:    req.Timeliness,
		Initiative:    req.Initiative,
		Comment:       req.Comment,
	}

	var existing models.PeerReview
	err := s.db.Where("project_id = ? AND reviewer_id = ? AND receiver_id = ?",
		projectID, reviewerID, req.ReceiverID).First(&existing).Error
	if err == nil {
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
		if err := s.db.Save(&review).Error; err != nil {
			return nil, err
		}
		return &review, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Given lists the reviews the caller has submitted in a project, so the UI
// can show which teammates are still unreviewed.
func (s *ReviewService) Given(projectID, reviewerID uint) ([]models.PeerReview, error) {
	var reviews []models.PeerReview
	if err := s.db.Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).
		Preload("Receiver").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Received lists the reviews a member has received. Reviewer identities are
// only exposed to privileged roles; plain students see anonymized entries.
func (s *ReviewService) Received(projectID, receiverID uint, callerRole models.ProjectRole) ([]models.PeerReview, error) {
	var reviews []models.PeerReview
	query := s.db.Where("project_id = ? AND receiver_id = ?", projectID, receiverID).
		Order("created_at DESC")
	if IsPrivileged(callerRole) {
		query = query.Preload("Reviewer")
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}

	if !IsPrivileged(callerRole) {
		for i := range reviews {
			reviews[i].ReviewerID = 0
			reviews[i].Reviewer = nil
		}
	}
	return reviews, nil
}
