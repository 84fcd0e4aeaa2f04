// Package tasks moves work such as transactional email off the request path.
// Delivery is at-least-once and nothing reports back to the enqueuer.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SendEmailTask sends a plain text email.
const SendEmailTask = "send_email"

// Task is the wire format of a queued job.
type Task struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// EmailArgs are the arguments of SendEmailTask.
type EmailArgs struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Queue accepts tasks for asynchronous execution.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
}

// Handler processes one encoded task.
type Handler func(ctx context.Context, body string) error

var ErrUnknownTask = errors.New("unknown task")

// NewSendEmail builds a SendEmailTask.
func NewSendEmail(subject, message, email string) (Task, error) {
	args, err := json.Marshal(EmailArgs{Subject: subject, Message: message, Email: email})
	if err != nil {
		return Task{}, fmt.Errorf("encode email args: %w", err)
	}
	return Task{Name: SendEmailTask, Args: args}, nil
}

func encode(task Task) (string, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("encode task %s: %w", task.Name, err)
	}
	return string(body), nil
}
