package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skills-enroll/internal/common"
	"github.com/noah-isme/skills-enroll/internal/obs"
)

// Handlers deliver e-mail tasks through Mailer.
type Handlers struct {
	Mailer common.EmailSender
	From   string
	Inbox  string
	Logger zerolog.Logger
}

// Register mounts the task handlers on mux.
func (h Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeContactEmail, h.HandleContact)
	mux.HandleFunc(TypeWelcomeEmail, h.HandleWelcome)
}

// HandleContact processes an email:contact task.
func (h Handlers) HandleContact(ctx context.Context, t *asynq.Task) error {
	var p ContactPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		obs.ObserveTask(TypeContactEmail, "process", obs.ResultInvalid)
		return fmt.Errorf("decode contact payload: %v: %w", err, asynq.SkipRetry)
	}
	return h.observe(TypeContactEmail, h.deliverContact(ctx, p))
}

// HandleWelcome processes an email:welcome task.
func (h Handlers) HandleWelcome(ctx context.Context, t *asynq.Task) error {
	var p WelcomePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		obs.ObserveTask(TypeWelcomeEmail, "process", obs.ResultInvalid)
		return fmt.Errorf("decode welcome payload: %v: %w", err, asynq.SkipRetry)
	}
	return h.observe(TypeWelcomeEmail, h.deliverWelcome(ctx, p))
}

func (h Handlers) observe(taskType string, err error) error {
	if err != nil {
		obs.ObserveTask(taskType, "process", obs.ResultError)
		h.Logger.Error().Err(err).Str("task_type", taskType).Msg("task failed")
		return err
	}
	obs.ObserveTask(taskType, "process", obs.ResultOK)
	return nil
}

func (h Handlers) deliverContact(ctx context.Context, p ContactPayload) error {
	if h.Mailer == nil {
		return fmt.Errorf("tasks: mailer not configured")
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", p.Name)
	fmt.Fprintf(&body, "Email: %s\n", p.Email)
	fmt.Fprintf(&body, "Phone: %s\n\n", p.Phone)
	body.WriteString(p.Message)
	return h.Mailer.Send(ctx, common.Email{
		To:      h.Inbox,
		ReplyTo: p.Email,
		Subject: "Contact form: " + p.Subject,
		Body:    body.String(),
	})
}

func (h Handlers) deliverWelcome(ctx context.Context, p WelcomePayload) error {
	if h.Mailer == nil {
		return fmt.Errorf("tasks: mailer not configured")
	}
	return h.Mailer.Send(ctx, common.Email{
		To:      p.Email,
		ReplyTo: h.From,
		Subject: "Welcome to Skills Enroll",
		Body: fmt.Sprintf("Hi %s,\n\nYour account has been created successfully. "+
			"You can now log in and choose your courses.\n", p.FullName),
	})
}

// Inline delivers immediately instead of queueing. Used when no Redis is configured.
type Inline struct {
	Handlers Handlers
}

// Contact implements Notifier.
func (i Inline) Contact(ctx context.Context, p ContactPayload) error {
	return i.Handlers.observe(TypeContactEmail, i.Handlers.deliverContact(ctx, p))
}

// Welcome implements Notifier.
func (i Inline) Welcome(ctx context.Context, p WelcomePayload) error {
	return i.Handlers.observe(TypeWelcomeEmail, i.Handlers.deliverWelcome(ctx, p))
}
