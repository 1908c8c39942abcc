// Package tasks runs side effects that follow a committed local write, such
// as server ingestion and email notification. A task failure is logged and
// never reaches the caller that enqueued it.
package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/gorodok-inc/gorodok/internal/shared/goroutine"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

const DefaultQueueSize = 64

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("dispatcher closed")

// ErrQueueFull is returned by Enqueue when the queue has no room.
var ErrQueueFull = errors.New("task queue full")

// Task is a named unit of fire-and-forget work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher executes tasks one at a time on a single worker.
type Dispatcher struct {
	queue  chan Task
	logger logger.Interface

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(queueSize int, log logger.Interface) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		queue:  make(chan Task, queueSize),
		logger: log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go d.work()
	return d
}

// Enqueue never blocks. A full queue drops the task with a warning.
func (d *Dispatcher) Enqueue(task Task) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- task:
		return nil
	default:
		d.logger.Warnw("task queue full, dropping task", "task", task.Name)
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish. When ctx
// expires first, running tasks are cancelled and the rest are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer close(d.done)
	for task := range d.queue {
		if d.ctx.Err() != nil {
			d.logger.Warnw("dispatcher stopped, abandoning task", "task", task.Name)
			continue
		}
		d.run(task)
	}
}

func (d *Dispatcher) run(task Task) {
	err := goroutine.Run(d.logger, task.Name, func() error {
		return task.Run(d.ctx)
	})
	if err != nil {
		d.logger.Warnw("background task failed",
			"task", task.Name,
			"error", err,
		)
		return
	}
	d.logger.Debugw("background task completed", "task", task.Name)
}
