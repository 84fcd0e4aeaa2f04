package tasks

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrQueueClosed = errors.New("task queue is closed")
)

// LocalQueue runs tasks on an in-process goroutine. It is used when no
// remote queue is configured; tasks still pending at shutdown are lost.
type LocalQueue struct {
	handler Handler
	jobs    chan string
	log     *zap.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewLocalQueue(handler Handler, size int, log *zap.Logger) *LocalQueue {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LocalQueue{handler: handler, jobs: make(chan string, size), log: log}
}

// Start consumes tasks until ctx is cancelled or Close is called.
func (q *LocalQueue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case body, ok := <-q.jobs:
				if !ok {
					return
				}
				if err := q.handler(ctx, body); err != nil {
					q.log.Warn("task failed", zap.Error(err))
				}
			}
		}
	}()
}

// Enqueue never blocks.
func (q *LocalQueue) Enqueue(ctx context.Context, task Task) error {
	body, err := encode(task)
	if err != nil {
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- body:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to drain.
func (q *LocalQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
