package services

import (
	"math"
	"sort"

	"github.com/draytht/nocarry/internal/models"
	"gorm.io/gorm"
)

// Scoring weights for contribution points. Completing work counts most,
// active and created work count once, and everything else (uploads,
// invites issued) counts half.
const (
	weightCompleted  = 3.0
	weightInProgress = 1.0
	weightCreated    = 1.0
	weightOther      = 0.5
)

// ContributionBreakdown is the raw counts a member's score is built from.
type ContributionBreakdown struct {
	TasksCompleted  int     `json:"tasks_completed"`
	TasksInProgress int     `json:"tasks_in_progress"`
	TasksCreated    int     `json:"tasks_created"`
	OtherActivities int     `json:"other_activities"`
	ReviewAverage   float64 `json:"review_average"`
	ReviewCount     int     `json:"review_count"`
}

// MemberContribution is one member's scored standing within a project.
type MemberContribution struct {
	UserID     uint                  `json:"user_id"`
	Name       string                `json:"name"`
	AvatarURL  string                `json:"avatar_url,omitempty"`
	Role       models.ProjectRole    `json:"role"`
	Points     float64               `json:"points"`
	Percentage int                   `json:"percentage"`
	Rank       int                   `json:"rank"`
	Breakdown  ContributionBreakdown `json:"breakdown"`
}

// Points computes the weighted score for a breakdown. Peer review ratings
// contribute their mean directly, so a well-reviewed member gains up to 5.
func (b ContributionBreakdown) Points() float64 {
	points := weightCompleted*float64(b.TasksCompleted) +
		weightInProgress*float64(b.TasksInProgress) +
		weightCreated*float64(b.TasksCreated) +
		weightOther*float64(b.OtherActivities)
	if b.ReviewCount > 0 {
		points += b.ReviewAverage
	}
	return points
}

// RankContributions sorts by points descending (user ID ascending on ties),
// assigns ranks, and fills percentages relative to the top scorer.
func RankContributions(members []MemberContribution) []MemberContribution {
	sort.Slice(members, func(i, j int) bool {
		if members[i].Points != members[j].Points {
			return members[i].Points > members[j].Points
		}
		return members[i].UserID < members[j].UserID
	})

	var max float64
	if len(members) > 0 {
		max = members[0].Points
	}
	for i := range members {
		members[i].Rank = i + 1
		if max > 0 {
			members[i].Percentage = int(math.Round(members[i].Points / max * 100))
		}
	}
	return members
}

// ContributionService computes per-member contribution scores from task
// state, the activity log, and received peer reviews.
type ContributionService struct {
	db *gorm.DB
}

func NewContributionService(db *gorm.DB) *ContributionService {
	return &ContributionService{db: db}
}

// ProjectContributions scores every member of a project and returns the
// ranked list. Units of work are counted once each: task status counts come
// from current task rows, creation counts from the activity log, and the
// "other" bucket is the member's remaining activity.
func (s *ContributionService) ProjectContributions(projectID uint) ([]MemberContribution, error) {
	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Find(&members).Error; err != nil {
		return nil, err
	}

	result := make([]MemberContribution, 0, len(members))
	for _, m := range members {
		breakdown, err := s.memberBreakdown(projectID, m.UserID)
		if err != nil {
			return nil, err
		}

		mc := MemberContribution{
			UserID:    m.UserID,
			Role:      m.Role,
			Points:    breakdown.Points(),
			Breakdown: breakdown,
		}
		if m.User != nil {
			mc.Name = m.User.DisplayName()
			mc.AvatarURL = m.User.AvatarURL
		}
		result = append(result, mc)
	}

	return RankContributions(result), nil
}

func (s *ContributionService) memberBreakdown(projectID, userID uint) (ContributionBreakdown, error) {
	var b ContributionBreakdown

	var completed, inProgress int64
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ? AND assignee_id = ? AND status = ?", projectID, userID, models.TaskStatusDone).
		Count(&completed).Error; err != nil {
		return b, err
	}
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ? AND assignee_id = ? AND status = ?", projectID, userID, models.TaskStatusInProgress).
		Count(&inProgress).Error; err != nil {
		return b, err
	}

	var created, other int64
	if err := s.db.Model(&models.ActivityLog{}).
		Where("project_id = ? AND user_id = ? AND action = ?", projectID, userID, models.ActionTaskCreated).
		Count(&created).Error; err != nil {
		return b, err
	}
	if err := s.db.Model(&models.ActivityLog{}).
		Where("project_id = ? AND user_id = ? AND action NOT IN ?", projectID, userID,
			[]string{models.ActionTaskCreated, models.ActionTaskStatusUpdated}).
		Count(&other).Error; err != nil {
		return b, err
	}

	var reviews []models.PeerReview
	if err := s.db.Where("project_id = ? AND receiver_id = ?", projectID, userID).
		Find(&reviews).Error; err != nil {
		return b, err
	}

	b.TasksCompleted = int(completed)
	b.TasksInProgress = int(inProgress)
	b.TasksCreated = int(created)
	b.OtherActivities = int(other)
	b.ReviewCount = len(reviews)
	if len(reviews) > 0 {
		var sum float64
		for _, r := range reviews {
			sum += r.Average()
		}
		b.ReviewAverage = math.Round(sum/float64(len(reviews))*100) / 100
	}

	return b, nil
}
