package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/draytht/nocarry/internal/config"
	"github.com/draytht/nocarry/pkg/logger"
	"github.com/hibiken/asynq"
)

const TaskTypeInviteMail = "invite:mail"

// InviteMail is the delivery payload handed to the email collaborator.
type InviteMail struct {
	To          string `json:"to"`
	ProjectName string `json:"project_name"`
	InviterName string `json:"inviter_name"`
	RoleLabel   string `json:"role_label"`
	AcceptURL   string `json:"accept_url"`
}

// MailQueue dispatches invite emails. The default is in-process dispatch;
// with Redis enabled delivery moves to an asynq worker so a slow SMTP server
// cannot stall the invite request.
type MailQueue interface {
	Enqueue(mail *InviteMail) error
	IsAsync() bool
	Close() error
}

var (
	globalMailQueue MailQueue
	mailQueueOnce   sync.Once
)

// InitMailQueue initializes the global mail queue based on config.
func InitMailQueue(cfg *config.Config) MailQueue {
	mailQueueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncMailQueue(&cfg.Redis)
			if err != nil {
				logger.Warnf("[MailQueue] Redis unavailable, falling back to sync dispatch: %v", err)
				globalMailQueue = NewSyncMailQueue()
			} else {
				logger.Infof("[MailQueue] Async dispatch via Redis at %s", cfg.Redis.Addr)
				globalMailQueue = queue
			}
		} else {
			logger.Infof("[MailQueue] Sync dispatch (Redis disabled)")
			globalMailQueue = NewSyncMailQueue()
		}
	})
	return globalMailQueue
}

// GetMailQueue returns the global mail queue instance.
func GetMailQueue() MailQueue {
	return globalMailQueue
}

// AsyncMailQueue implements MailQueue using asynq (Redis-based).
type AsyncMailQueue struct {
	client *asynq.Client
}

func NewAsyncMailQueue(cfg *config.RedisConfig) (*AsyncMailQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection up front so we can fall back to sync dispatch.
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncMailQueue{client: client}, nil
}

func (q *AsyncMailQueue) Enqueue(mail *InviteMail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeInviteMail, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[MailQueue] Invite mail enqueued: id=%s, to=%s", info.ID, mail.To)
	return nil
}

func (q *AsyncMailQueue) IsAsync() bool { return true }

func (q *AsyncMailQueue) Close() error { return q.client.Close() }

// SyncMailQueue dispatches in-process, off the request goroutine.
type SyncMailQueue struct {
	sender func(context.Context, *InviteMail) error
}

func NewSyncMailQueue() *SyncMailQueue {
	return &SyncMailQueue{}
}

// SetSender sets the delivery function for sync dispatch.
func (q *SyncMailQueue) SetSender(sender func(context.Context, *InviteMail) error) {
	q.sender = sender
}

func (q *SyncMailQueue) Enqueue(mail *InviteMail) error {
	if q.sender == nil {
		// No delivery channel configured; the caller surfaces the raw link.
		logger.Infof("[MailQueue] No sender configured, invite link: %s", mail.AcceptURL)
		return nil
	}

	go func() {
		if err := q.sender(context.Background(), mail); err != nil {
			logger.Warnf("[MailQueue] Invite mail delivery failed: %v", err)
		}
	}()

	return nil
}

func (q *SyncMailQueue) IsAsync() bool { return false }

func (q *SyncMailQueue) Close() error { return nil }
