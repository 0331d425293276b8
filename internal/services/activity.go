package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// actionLabels maps raw actions to the human-readable feed labels.
var actionLabels = map[string]string{
	models.ActionTaskCreated:       "created task",
	models.ActionTaskStatusUpdated: "updated task status",
	models.ActionMemberInvited:     "invited a member",
	models.ActionProjectCreated:    "created project",
	models.ActionFileUploaded:      "uploaded a file",
}

// ActivityService appends immutable log entries and serves the feed views.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends one entry. Entries are append-only: nothing in this service
// updates or deletes them. Call RecordTx to participate in a transaction.
func (s *ActivityService) Record(userID, projectID uint, taskID *uint, action string, metadata map[string]interface{}) error {
	return RecordActivity(s.db, userID, projectID, taskID, action, metadata)
}

// RecordActivity appends an entry using the given handle, which may be a
// transaction so the entry commits atomically with the change it describes.
func RecordActivity(tx *gorm.DB, userID, projectID uint, taskID *uint, action string, metadata map[string]interface{}) error {
	var meta datatypes.JSON
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		meta = datatypes.JSON(b)
	}

	entry := models.ActivityLog{
		UserID:    userID,
		ProjectID: projectID,
		TaskID:    taskID,
		Action:    action,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		logger.Error().Err(err).Str("action", action).Uint("project_id", projectID).Msg("failed to record activity")
		return err
	}
	return nil
}

// FeedItem is one formatted entry for the activity feed views.
type FeedItem struct {
	ID          uint           `json:"id"`
	ActorName   string         `json:"actor_name"`
	ActorAvatar string         `json:"actor_avatar,omitempty"`
	Action      string         `json:"action"`
	ProjectID   uint           `json:"project_id"`
	ProjectName string         `json:"project_name,omitempty"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ActionLabel formats a raw action for display; unknown actions fall back to
// a lowercased, space-separated form.
func ActionLabel(action string) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return strings.ReplaceAll(strings.ToLower(action), "_", " ")
}

// ProjectFeed returns the latest entries for one project, newest first.
func (s *ActivityService) ProjectFeed(projectID uint, limit int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = 30
	}

	var logs []models.ActivityLog
	if err := s.db.Where("project_id = ?", projectID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return s.format(logs, false), nil
}

// UserFeed returns the latest entries across every project the user belongs
// to, newest first.
func (s *ActivityService) UserFeed(userID uint, limit int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = 20
	}

	var projectIDs []uint
	if err := s.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &projectIDs).Error; err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return []FeedItem{}, nil
	}

	var logs []models.ActivityLog
	if err := s.db.Where("project_id IN ?", projectIDs).
		Preload("User").
		Preload("Project").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return s.format(logs, true), nil
}

func (s *ActivityService) format(logs []models.ActivityLog, withProject bool) []FeedItem {
	items := make([]FeedItem, 0, len(logs))
	for _, log := range logs {
		item := FeedItem{
			ID:        log.ID,
			Action:    ActionLabel(log.Action),
			ProjectID: log.ProjectID,
			Metadata:  log.Metadata,
			CreatedAt: log.CreatedAt,
		}
		if log.User != nil {
			item.ActorName = log.User.DisplayName()
			item.ActorAvatar = log.User.AvatarURL
		}
		if withProject && log.Project != nil {
			item.ProjectName = log.Project.Name
		}
		items = append(items, item)
	}
	return items
}
