package session

import (
	"sync"
	"time"
)

// queue is an unbounded FIFO safe for multiple producers and consumers.
// push never blocks.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	notify chan struct{}
	done   chan struct{}
	closed bool
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// push appends v. Pushing to a closed queue drops v.
func (q *queue[T]) push(v T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
}

// pop removes the oldest item. timeout < 0 waits indefinitely, 0 returns
// immediately and > 0 waits at most that long. ok is false on timeout, or
// once a closed queue is empty.
func (q *queue[T]) pop(timeout time.Duration) (v T, ok bool) {
	if v, ok = q.tryPop(); ok || timeout == 0 {
		return v, ok
	}

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	for {
		select {
		case <-q.notify:
		case <-q.done:
			return q.tryPop()
		case <-expired:
			return q.tryPop()
		}
		if v, ok = q.tryPop(); ok {
			return v, true
		}
	}
}

func (q *queue[T]) tryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) > 0 {
		// Wake the next waiting consumer.
		q.signal()
	}
	return v, true
}

func (q *queue[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *queue[T]) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// close wakes every waiting consumer. Items already queued can still be popped.
func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
