package handlers

import (
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	reviewService  *services.ReviewService
	projectHandler *ProjectHandler
}

func NewReviewHandler(db *gorm.DB, projectHandler *ProjectHandler) *ReviewHandler {
	return &ReviewHandler{
		reviewService:  services.NewReviewService(db),
		projectHandler: projectHandler,
	}
}

// Submit records or replaces the caller's review of a teammate
// POST /api/projects/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Submit(member.ProjectID, middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, review)
}

// Given lists the reviews the caller has submitted in this project
// GET /api/projects/:id/reviews/given
func (h *ReviewHandler) Given(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.Given(member.ProjectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reviews)
}

// Received lists the reviews the caller has received in this project
// GET /api/projects/:id/reviews/received
func (h *ReviewHandler) Received(c *gin.Context) {
	member, ok := h.projectHandler.membership(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.Received(member.ProjectID, middleware.GetUserID(c), member.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, reviews)
}
