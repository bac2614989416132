package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skills-enroll/internal/common"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

var contact = ContactPayload{
	Name:    "Ayanda",
	Email:   "ayanda@example.com",
	Phone:   "0821234567",
	Subject: "Weekend classes",
	Message: "Do you run sewing on Saturdays?",
}

func TestQueueEnqueuesTypedTasks(t *testing.T) {
	enq := &fakeEnqueuer{}
	q := Queue{Client: enq, Queue: "mail", MaxRetry: 5}

	require.NoError(t, q.Contact(context.Background(), contact))
	require.NoError(t, q.Welcome(context.Background(), WelcomePayload{UserID: "u1", FullName: "Ayanda", Email: "ayanda@example.com"}))

	require.Len(t, enq.tasks, 2)
	require.Equal(t, TypeContactEmail, enq.tasks[0].Type())
	require.Equal(t, TypeWelcomeEmail, enq.tasks[1].Type())
	require.Len(t, enq.opts[0], 2)
	require.Len(t, enq.opts[1], 3)

	var got ContactPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &got))
	require.Equal(t, contact, got)
}

func TestQueueReportsEnqueueFailure(t *testing.T) {
	q := Queue{Client: &fakeEnqueuer{err: errors.New("redis down")}}
	err := q.Contact(context.Background(), contact)
	require.ErrorContains(t, err, "redis down")

	require.Error(t, Queue{}.Welcome(context.Background(), WelcomePayload{}))
}

func TestHandlersDeliverThroughMux(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	h := Handlers{Mailer: outbox, From: "no-reply@example.com", Inbox: "info@example.com", Logger: zerolog.Nop()}
	mux := asynq.NewServeMux()
	h.Register(mux)

	task, err := NewContactTask(contact)
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	task, err = NewWelcomeTask(WelcomePayload{UserID: "u1", FullName: "Ayanda", Email: "ayanda@example.com"})
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))

	sent := outbox.Outbox()
	require.Len(t, sent, 2)
	require.Equal(t, "info@example.com", sent[0].To)
	require.Equal(t, "ayanda@example.com", sent[0].ReplyTo)
	require.Equal(t, "Contact form: Weekend classes", sent[0].Subject)
	require.Contains(t, sent[0].Body, "Do you run sewing on Saturdays?")
	require.Equal(t, "ayanda@example.com", sent[1].To)
	require.Contains(t, sent[1].Body, "Hi Ayanda")
}

func TestHandlersSkipRetryOnBadPayload(t *testing.T) {
	h := Handlers{Mailer: &common.InMemoryEmail{}, Logger: zerolog.Nop()}
	err := h.HandleContact(context.Background(), asynq.NewTask(TypeContactEmail, []byte("{")))
	require.True(t, errors.Is(err, asynq.SkipRetry))
	err = h.HandleWelcome(context.Background(), asynq.NewTask(TypeWelcomeEmail, []byte("nope")))
	require.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestInlineDeliversImmediately(t *testing.T) {
	outbox := &common.InMemoryEmail{}
	n := Inline{Handlers: Handlers{Mailer: outbox, Inbox: "info@example.com", Logger: zerolog.Nop()}}
	require.NoError(t, n.Contact(context.Background(), contact))
	require.Len(t, outbox.Outbox(), 1)

	require.Error(t, Inline{}.Welcome(context.Background(), WelcomePayload{}))
}
