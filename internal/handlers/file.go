package handlers

import (
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService    *services.FileService
	projectHandler *ProjectHandler
}

func NewFileHandler(fileService *services.FileService, projectHandler *ProjectHandler) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		projectHandler: projectHandler,
	}
}

// Upload stores a file shared with the project
// POST /api/projects/:id/files
func (h *FileHandler) Upload(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(
		member.ProjectID,
		middleware.GetUserID(c),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, file)
}

// List returns the project's files
// GET /api/projects/:id/files
func (h *FileHandler) List(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	files, err := h.fileService.List(member.ProjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, files)
}

// Delete removes a file
// DELETE /api/projects/:id/files/:fileId
func (h *FileHandler) Delete(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	fileID := pathID(c, "fileId")
	if fileID == 0 {
		response.BadRequest(c, "invalid file id")
		return
	}

	if err := h.fileService.Delete(member.ProjectID, fileID, middleware.GetUserID(c), member.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
