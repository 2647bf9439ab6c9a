package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/atomicstack/streampane/internal/command"
)

// ErrStopped is returned by Enqueue once the worker has shut down.
var ErrStopped = errors.New("worker stopped")

// queue is an unbounded multi-producer single-consumer FIFO. Producers never
// block; the consumer blocks in pop until a command arrives or the context
// is cancelled.
type queue struct {
	mu     sync.Mutex
	items  []command.Command
	closed bool
	wake   chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

func (q *queue) push(cmd command.Command) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrStopped
	}
	q.items = append(q.items, cmd)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

func (q *queue) pop(ctx context.Context) (command.Command, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			cmd := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return cmd, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, false
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-q.wake:
		}
	}
}

// tryPop returns the head of the queue without blocking.
func (q *queue) tryPop() (command.Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	cmd := q.items[0]
	q.items = q.items[1:]
	return cmd, true
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
