// Package executor serializes tree access onto a single designated worker.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQueueClosed is returned by Do after Close.
var ErrQueueClosed = errors.New("main queue closed")

// task is one unit of work and its completion signal.
type task struct {
	fn       func()
	finished chan struct{}
	err      error
}

// MainQueue runs functions one at a time on a single worker goroutine.
// Accessibility bindings require every node read to happen on one context; all
// traversals go through Do so callers never touch the tree concurrently.
//
// fn must not call Do on the same queue (it would wait on itself).
type MainQueue struct {
	work chan *task
	done chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewMainQueue starts the worker.
func NewMainQueue() *MainQueue {
	q := &MainQueue{
		work: make(chan *task),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *MainQueue) loop() {
	defer close(q.done)
	for t := range q.work {
		t.err = run(t.fn)
		close(t.finished)
	}
}

// run calls fn, turning a panic into an error so the worker survives.
func run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("main queue task panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// Do runs fn on the worker and waits for it to finish.
// If ctx ends first, Do returns ctx.Err(); fn is not interrupted once started.
func (q *MainQueue) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := &task{fn: fn, finished: make(chan struct{})}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	select {
	case q.work <- t:
		q.mu.RUnlock()
	case <-ctx.Done():
		q.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-t.finished:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for the worker to finish the current task.
// Safe to call multiple times.
func (q *MainQueue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.work)
		q.mu.Unlock()
	})
	<-q.done
}
