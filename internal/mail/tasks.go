package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeWelcome = "email:welcome"

type WelcomePayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewWelcomeTask(email, name string) (*asynq.Task, error) {
	data, err := json.Marshal(WelcomePayload{Email: email, Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal welcome payload: %w", err)
	}
	return asynq.NewTask(TypeWelcome, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Queue puts mail tasks on the asynq queue. A nil Queue drops everything,
// which is how mail is disabled.
type Queue struct {
	client *asynq.Client
	log    *zap.Logger
}

func NewQueue(opt asynq.RedisConnOpt, log *zap.Logger) *Queue {
	return &Queue{client: asynq.NewClient(opt), log: log}
}

func (q *Queue) EnqueueWelcome(ctx context.Context, email, name string) error {
	if q == nil {
		return nil
	}

	task, err := NewWelcomeTask(email, name)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	q.log.Debug("welcome mail queued", zap.String("task_id", info.ID), zap.String("to", email))
	return nil
}

func (q *Queue) Close() error {
	if q == nil {
		return nil
	}
	return q.client.Close()
}

// Handler processes mail tasks.
type Handler struct {
	sender Sender
	log    *zap.Logger
}

func NewHandler(sender Sender, log *zap.Logger) *Handler {
	return &Handler{sender: sender, log: log}
}

func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	switch task.Type() {
	case TypeWelcome:
		return h.processWelcome(ctx, task)
	default:
		return fmt.Errorf("unknown task type: %s", task.Type())
	}
}

func (h *Handler) processWelcome(ctx context.Context, task *asynq.Task) error {
	var p WelcomePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome payload: %v: %w", err, asynq.SkipRetry)
	}

	msg := Message{
		To:      p.Email,
		ToName:  p.Name,
		Subject: "Welcome to Book Muse",
		Text:    fmt.Sprintf("Hi %s,\n\nYour Book Muse account is ready. Start by searching for a book you loved and leave a review.\n", p.Name),
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending welcome mail: %w", err)
	}

	h.log.Info("welcome mail sent", zap.String("to", p.Email))
	return nil
}

// NewServer builds the in-process worker that drains the mail queue.
func NewServer(opt asynq.RedisConnOpt, log *zap.Logger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error("mail task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
		Logger: log.Sugar(),
	})
}

func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeWelcome, h)
	return mux
}
