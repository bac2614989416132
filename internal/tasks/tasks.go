package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/skills-enroll/internal/obs"
)

// Task types.
const (
	TypeContactEmail = "email:contact"
	TypeWelcomeEmail = "email:welcome"
)

// QueueMail is the asynq queue e-mail tasks are enqueued on and cmd/worker serves.
const QueueMail = "mail"

// ContactPayload is a contact-form submission awaiting delivery to the inbox.
type ContactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// WelcomePayload identifies a newly registered account.
type WelcomePayload struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Notifier hands off outgoing e-mail work.
type Notifier interface {
	Contact(ctx context.Context, p ContactPayload) error
	Welcome(ctx context.Context, p WelcomePayload) error
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewContactTask builds an email:contact task.
func NewContactTask(p ContactPayload) (*asynq.Task, error) {
	return newTask(TypeContactEmail, p)
}

// NewWelcomeTask builds an email:welcome task.
func NewWelcomeTask(p WelcomePayload) (*asynq.Task, error) {
	return newTask(TypeWelcomeEmail, p)
}

func newTask(typename string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, data), nil
}

// Queue enqueues e-mail tasks for cmd/worker.
type Queue struct {
	Client   Enqueuer
	Queue    string
	MaxRetry int
	Timeout  time.Duration
}

// Contact implements Notifier.
func (q Queue) Contact(ctx context.Context, p ContactPayload) error {
	task, err := NewContactTask(p)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task)
}

// Welcome implements Notifier. Welcome mail is retried at most three times.
func (q Queue) Welcome(ctx context.Context, p WelcomePayload) error {
	task, err := NewWelcomeTask(p)
	if err != nil {
		return err
	}
	return q.enqueue(ctx, task, asynq.MaxRetry(3))
}

func (q Queue) enqueue(ctx context.Context, task *asynq.Task, extra ...asynq.Option) error {
	if q.Client == nil {
		return fmt.Errorf("tasks: queue client not configured")
	}
	opts := make([]asynq.Option, 0, 3+len(extra))
	if q.Queue != "" {
		opts = append(opts, asynq.Queue(q.Queue))
	}
	if q.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(q.MaxRetry))
	}
	if q.Timeout > 0 {
		opts = append(opts, asynq.Timeout(q.Timeout))
	}
	opts = append(opts, extra...)
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		obs.ObserveTask(task.Type(), "enqueue", obs.ResultError)
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	obs.ObserveTask(task.Type(), "enqueue", obs.ResultOK)
	return nil
}
