package services

import (
	"errors"
	"time"

	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/types"
	"github.com/draytht/nocarry/pkg/response"
	"gorm.io/gorm"
)

// historyAge is how long completed tasks stay on the live board before
// moving to the history view. This is a derived partition, not stored state.
const historyAge = 24 * time.Hour

// TaskService owns the board state machine: which status transitions are
// applied, their side effects, and the activity entries they leave behind.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  *uint      `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest distinguishes absent, null, and value per field:
// omission means unchanged, an explicit null clears.
type UpdateTaskRequest struct {
	Status      types.Optional[models.TaskStatus] `json:"status"`
	Title       types.Optional[string]            `json:"title"`
	Description types.Optional[string]            `json:"description"`
	AssigneeID  types.Optional[uint]              `json:"assignee_id"`
	DueDate     types.Optional[time.Time]         `json:"due_date"`
}

// editsDetails reports whether any non-status field is present.
func (r *UpdateTaskRequest) editsDetails() bool {
	return r.Title.Set || r.Description.Set || r.AssigneeID.Set || r.DueDate.Set
}

// Create adds a task to the board and records TASK_CREATED.
func (s *TaskService) Create(projectID, creatorID uint, req *CreateTaskRequest) (*models.Task, error) {
	task := models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatusTodo,
		AssigneeID:  req.AssigneeID,
		CreatedByID: creatorID,
		DueDate:     req.DueDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return RecordActivity(tx, creatorID, projectID, &task.ID, models.ActionTaskCreated,
			map[string]interface{}{"task_title": task.Title})
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Assignee").First(&task, task.ID)
	return &task, nil
}

// Update applies a PATCH to a task. Status changes are gated on the caller
// being the assignee (or the task being unassigned); detail edits on being
// the assignee or holding a privileged project role. Transitions into DONE
// stamp completedAt, transitions out clear it, and every status change
// appends an activity entry in the same transaction.
func (s *TaskService) Update(projectID, taskID, callerID uint, callerRole models.ProjectRole, req *UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	err := s.db.Where("project_id = ?", projectID).First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("task not found")
	}
	if err != nil {
		return nil, err
	}

	isAssignee := task.AssigneeID != nil && *task.AssigneeID == callerID
	hasAssignee := task.AssigneeID != nil

	if req.Status.Set && !CanChangeTaskStatus(isAssignee, hasAssignee) {
		return nil, response.NewForbidden("only the assigned member can update this task's status")
	}
	if req.editsDetails() && !CanEditTaskDetails(isAssignee, callerRole) {
		return nil, response.NewForbidden("only the assigned member or team leaders can edit this task")
	}

	updates := map[string]interface{}{}
	var newStatus models.TaskStatus

	if req.Status.Set {
		if req.Status.Value == nil || !req.Status.Value.Valid() {
			return nil, response.NewBadRequest("invalid status")
		}
		newStatus = *req.Status.Value
		updates["status"] = newStatus
		if newStatus == models.TaskStatusDone {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}

	if req.Title.Set {
		if req.Title.Value == nil || *req.Title.Value == "" {
			return nil, response.NewBadRequest("title cannot be empty")
		}
		updates["title"] = *req.Title.Value
		task.Title = *req.Title.Value
	}
	if req.Description.Set {
		if req.Description.Value == nil {
			updates["description"] = ""
		} else {
			updates["description"] = *req.Description.Value
		}
	}
	if req.AssigneeID.Set {
		if req.AssigneeID.Value == nil {
			updates["assignee_id"] = nil
		} else {
			updates["assignee_id"] = *req.AssigneeID.Value
		}
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = *req.DueDate.Value
		}
	}

	if len(updates) == 0 {
		return nil, response.NewBadRequest("no fields to update")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		if req.Status.Set {
			return RecordActivity(tx, callerID, projectID, &task.ID, models.ActionTaskStatusUpdated,
				map[string]interface{}{"new_status": string(newStatus), "task_title": task.Title})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Assignee").First(&task, task.ID)
	return &task, nil
}

// Board is the live board plus the history partition of old completions.
type Board struct {
	Todo       []models.Task `json:"todo"`
	InProgress []models.Task `json:"in_progress"`
	Done       []models.Task `json:"done"`
	History    []models.Task `json:"history"`
}

// GetBoard returns the project's tasks partitioned into columns. DONE tasks
// completed more than 24 hours ago appear only in History.
func (s *TaskService) GetBoard(projectID uint) (*Board, error) {
	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).
		Preload("Assignee").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return PartitionBoard(tasks, time.Now()), nil
}

// PartitionBoard splits tasks into board columns relative to now.
func PartitionBoard(tasks []models.Task, now time.Time) *Board {
	board := &Board{
		Todo:       []models.Task{},
		InProgress: []models.Task{},
		Done:       []models.Task{},
		History:    []models.Task{},
	}

	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusTodo:
			board.Todo = append(board.Todo, t)
		case models.TaskStatusInProgress:
			board.InProgress = append(board.InProgress, t)
		case models.TaskStatusDone:
			if t.CompletedAt != nil && now.Sub(*t.CompletedAt) > historyAge {
				board.History = append(board.History, t)
			} else {
				board.Done = append(board.Done, t)
			}
		}
	}

	return board
}
