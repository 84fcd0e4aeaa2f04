package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// EmailSender delivers a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, from string, to []string, subject, body string) error
}

// Worker executes decoded tasks.
type Worker struct {
	email EmailSender
	from  string
	log   *zap.Logger
}

// NewWorker sends mail from the given address.
func NewWorker(email EmailSender, from string, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{email: email, from: from, log: log}
}

// Handle decodes body and runs the task it names. A returned error leaves the
// message on the queue for redelivery.
func (w *Worker) Handle(ctx context.Context, body string) error {
	var task Task
	if err := json.Unmarshal([]byte(body), &task); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}

	switch task.Name {
	case SendEmailTask:
		var args EmailArgs
		if err := json.Unmarshal(task.Args, &args); err != nil {
			return fmt.Errorf("decode %s args: %w", task.Name, err)
		}
		if err := w.email.SendEmail(ctx, w.from, []string{args.Email}, args.Subject, args.Message); err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		w.log.Info("email sent", zap.String("to", args.Email), zap.String("subject", args.Subject))
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTask, task.Name)
	}
}
