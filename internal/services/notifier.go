package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/tasks"
)

// Mailer queues transactional email without blocking the caller.
type Mailer interface {
	SendEmail(subject, message, to string)
}

// Notifier enqueues email tasks on a background goroutine. Failures are
// logged; the request that triggered the email never sees them.
type Notifier struct {
	queue   tasks.Queue
	log     *zap.Logger
	timeout time.Duration
}

func NewNotifier(queue tasks.Queue, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{queue: queue, log: log, timeout: 5 * time.Second}
}

func (n *Notifier) SendEmail(subject, message, to string) {
	task, err := tasks.NewSendEmail(subject, message, to)
	if err != nil {
		n.log.Warn("failed to build email task", zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.queue.Enqueue(ctx, task); err != nil {
			n.log.Warn("failed to enqueue email", zap.String("to", to), zap.Error(err))
		}
	}()
}
