package handlers

import (
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService    *services.TaskService
	projectHandler *ProjectHandler
}

func NewTaskHandler(db *gorm.DB, projectHandler *ProjectHandler) *TaskHandler {
	return &TaskHandler{
		taskService:    services.NewTaskService(db),
		projectHandler: projectHandler,
	}
}

// Board returns the project's kanban board
// GET /api/projects/:id/tasks
func (h *TaskHandler) Board(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	board, err := h.taskService.GetBoard(member.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, board)
}

// Create adds a task to the board
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(member.ProjectID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, task)
}

// Update patches a task's status or details
// PATCH /api/projects/:id/tasks/:taskId
func (h *TaskHandler) Update(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	taskID := pathID(c, "taskId")
	if taskID == 0 {
		response.BadRequest(c, "invalid task id")
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(member.ProjectID, taskID, middleware.GetUserID(c), member.Role, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, task)
}
