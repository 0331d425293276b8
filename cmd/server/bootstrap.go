package main

import (
	"github.com/draytht/nocarry/internal/config"
	"github.com/draytht/nocarry/internal/handlers"
	"github.com/draytht/nocarry/internal/models"
	"github.com/draytht/nocarry/internal/services"
	"github.com/draytht/nocarry/internal/utils"
	"github.com/draytht/nocarry/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	mailQueue  services.MailQueue
	mailWorker *services.MailWorker

	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	projectHandler      *handlers.ProjectHandler
	memberHandler       *handlers.MemberHandler
	inviteHandler       *handlers.InviteHandler
	taskHandler         *handlers.TaskHandler
	contributionHandler *handlers.ContributionHandler
	activityHandler     *handlers.ActivityHandler
	reviewHandler       *handlers.ReviewHandler
	fileHandler         *handlers.FileHandler
	healthHandler       *handlers.HealthHandler
}

// bootstrap initializes the database, services, and handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Invite mail goes through the queue: sync in-process by default,
	// asynq when Redis is enabled.
	emailService := services.NewEmailService(&cfg.Email)
	mailQueue := services.InitMailQueue(cfg)
	if syncQueue, ok := mailQueue.(*services.SyncMailQueue); ok {
		syncQueue.SetSender(emailService.SendInviteMail)
	}

	var mailWorker *services.MailWorker
	if cfg.Redis.Enabled {
		mailWorker = services.NewMailWorker(&cfg.Redis)
		if mailWorker != nil {
			mailWorker.SetSender(emailService.SendInviteMail)
			if err := mailWorker.Start(); err != nil {
				logger.Warn().Err(err).Msg("mail worker failed to start; invites fall back to links")
			}
		}
	}

	storage, err := services.NewLocalStorage(&cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize file storage: %v", err)
	}

	inviteService := services.NewInviteService(db, mailQueue, cfg.App.BaseURL)
	authService := services.NewAuthService(db, &cfg.JWT, inviteService)
	fileService := services.NewFileService(db, storage)

	projectHandler := handlers.NewProjectHandler(db, authService)

	return &appServices{
		mailQueue:           mailQueue,
		mailWorker:          mailWorker,
		authHandler:         handlers.NewAuthHandler(authService),
		userHandler:         handlers.NewUserHandler(db, authService),
		projectHandler:      projectHandler,
		memberHandler:       handlers.NewMemberHandler(db, projectHandler),
		inviteHandler:       handlers.NewInviteHandler(inviteService, projectHandler),
		taskHandler:         handlers.NewTaskHandler(db, projectHandler),
		contributionHandler: handlers.NewContributionHandler(db, projectHandler),
		activityHandler:     handlers.NewActivityHandler(db, projectHandler),
		reviewHandler:       handlers.NewReviewHandler(db, projectHandler),
		fileHandler:         handlers.NewFileHandler(fileService, projectHandler),
		healthHandler:       handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops background components.
func (s *appServices) shutdown() {
	if s.mailWorker != nil {
		s.mailWorker.Stop()
	}
	if s.mailQueue != nil {
		s.mailQueue.Close()
	}
}
