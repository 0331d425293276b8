package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/draytht/nocarry/internal/config"
	"github.com/draytht/nocarry/pkg/logger"
	"github.com/hibiken/asynq"
)

// MailWorker drains the Redis-backed mail queue when async dispatch is on.
type MailWorker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sender  func(context.Context, *InviteMail) error
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func NewMailWorker(cfg *config.RedisConfig) *MailWorker {
	if !cfg.Enabled {
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warnf("[MailWorker] Error processing task %s: %v", task.Type(), err)
			}),
		},
	)

	return &MailWorker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// SetSender sets the delivery function for queued invite mail.
func (w *MailWorker) SetSender(sender func(context.Context, *InviteMail) error) {
	w.sender = sender
}

// Start begins draining the queue.
func (w *MailWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeInviteMail, w.handleInviteMail)

	w.running = true
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		logger.Infof("[MailWorker] Starting async mail worker...")
		if err := w.server.Run(w.mux); err != nil {
			logger.Errorf("[MailWorker] Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the worker.
func (w *MailWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	logger.Infof("[MailWorker] Shutting down...")
	w.server.Shutdown()
	w.running = false
	w.wg.Wait()
}

func (w *MailWorker) handleInviteMail(ctx context.Context, t *asynq.Task) error {
	var mail InviteMail
	if err := json.Unmarshal(t.Payload(), &mail); err != nil {
		logger.Errorf("[MailWorker] Failed to unmarshal mail task: %v", err)
		return err
	}

	if w.sender == nil {
		logger.Warnf("[MailWorker] No sender configured, dropping mail to %s", mail.To)
		return nil
	}

	return w.sender(ctx, &mail)
}
