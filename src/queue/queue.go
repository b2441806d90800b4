// Package queue provides an unbounded FIFO with a channel-shaped receive side,
// so producers never block on a slow consumer and consumers can select on it.
package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("queue closed")

// Queue is an unbounded FIFO. Push never waits for the consumer; Out delivers
// items in push order.
type Queue[T any] struct {
	in        chan T
	out       chan T
	done      chan struct{}
	closeOnce sync.Once
}

// New starts the pump goroutine that moves items from Push to Out.
func New[T any]() *Queue[T] {
	q := &Queue[T]{
		in:   make(chan T),
		out:  make(chan T),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

// Push enqueues v. It only waits for the pump to accept the item, which
// happens regardless of whether anyone is reading Out.
func (q *Queue[T]) Push(v T) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.in <- v:
		return nil
	case <-q.done:
		return ErrClosed
	}
}

// Out is closed once the queue is closed; pending items are discarded.
func (q *Queue[T]) Out() <-chan T { return q.out }

// Close stops the queue. It is safe to call more than once.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

func (q *Queue[T]) pump() {
	defer close(q.out)

	var pending []T
	for {
		var (
			out  chan T
			head T
		)
		if len(pending) > 0 {
			out = q.out
			head = pending[0]
		}

		select {
		case <-q.done:
			return
		case v := <-q.in:
			pending = append(pending, v)
		case out <- head:
			var zero T
			pending[0] = zero
			pending = pending[1:]
		}
	}
}
