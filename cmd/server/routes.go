package main

import (
	"github.com/draytht/nocarry/internal/config"
	"github.com/draytht/nocarry/internal/middleware"
	"github.com/draytht/nocarry/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public invite endpoints: tokens are guessable
	// only by brute force, so keep the probe rate low.
	inviteLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// Uploaded project files served from local storage
	r.Static(cfg.Storage.BaseURL, cfg.Storage.UploadDir)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Invite preview is public so the accept page renders before login
		api.GET("/invite/:token", inviteLimiter.Middleware(), svc.inviteHandler.Preview)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/password", svc.authHandler.ChangePassword)

			// Profile
			protected.PATCH("/profile", svc.userHandler.UpdateProfile)
			protected.GET("/users/:id", svc.userHandler.GetByID)

			// Invite acceptance
			protected.POST("/invite/:token", svc.inviteHandler.Accept)

			// Activity across the caller's projects
			protected.GET("/activity", svc.activityHandler.UserFeed)

			// Projects
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)
			protected.GET("/courses/:code/projects", svc.projectHandler.ListByCourse)

			// Members
			protected.GET("/projects/:id/members", svc.memberHandler.List)
			protected.DELETE("/projects/:id/members/:userId", svc.memberHandler.Remove)
			protected.PUT("/projects/:id/members/:userId/role", svc.memberHandler.UpdateRole)

			// Invites
			protected.GET("/projects/:id/invite", svc.inviteHandler.Lookup)
			protected.POST("/projects/:id/invite", svc.inviteHandler.Create)

			// Tasks
			protected.GET("/projects/:id/tasks", svc.taskHandler.Board)
			protected.POST("/projects/:id/tasks", svc.taskHandler.Create)
			protected.PATCH("/projects/:id/tasks/:taskId", svc.taskHandler.Update)

			// Contributions
			protected.GET("/projects/:id/contributions", svc.contributionHandler.List)

			// Project activity
			protected.GET("/projects/:id/activity", svc.activityHandler.ProjectFeed)

			// Peer reviews
			protected.POST("/projects/:id/reviews", svc.reviewHandler.Submit)
			protected.GET("/projects/:id/reviews/given", svc.reviewHandler.Given)
			protected.GET("/projects/:id/reviews/received", svc.reviewHandler.Received)

			// Files
			protected.POST("/projects/:id/files", svc.fileHandler.Upload)
			protected.GET("/projects/:id/files", svc.fileHandler.List)
			protected.DELETE("/projects/:id/files/:fileId", svc.fileHandler.Delete)
		}
	}
}
