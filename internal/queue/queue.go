// Package queue implements the FIFO task queue shared by pool workers.
package queue

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("queue is closed")
	ErrFull   = errors.New("queue is full")
)

// Queue is a thread-safe FIFO with blocking Pop and a closed/draining state.
//
// Items pushed before Close remain poppable after it; Pop only reports the
// closed-and-empty sentinel once every item has been handed out. A popped
// item counts as in-flight until Done is called for it.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []T
	head     int
	capacity int // 0 means unbounded
	closed   bool
	inFlight int
}

// New creates an open queue. A capacity of 0 (or less) makes it unbounded.
func New[T any](capacity int) *Queue[T] {
	q := &Queue[T]{capacity: max(capacity, 0)}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends v to the tail. On a bounded queue it blocks while the queue is
// full. It returns ErrClosed if the queue is (or becomes) closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.closed && q.full() {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}

	q.push(v)
	return nil
}

// TryPush is Push without blocking: a full bounded queue returns ErrFull.
func (q *Queue[T]) TryPush(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.full() {
		return ErrFull
	}

	q.push(v)
	return nil
}

// Pop removes and returns the head item, blocking while the queue is empty and
// open. ok is false only when the queue is closed and fully drained.
func (q *Queue[T]) Pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size() == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.size() == 0 {
		return v, false
	}

	var zero T
	v = q.items[q.head]
	q.items[q.head] = zero
	q.head++
	q.compact()
	q.inFlight++

	if q.capacity > 0 {
		q.notFull.Signal()
	}
	return v, true
}

// Done marks one previously popped item as finished.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	if q.inFlight > 0 {
		q.inFlight--
	}
	q.mu.Unlock()
}

// Close marks the queue closed and wakes every blocked pusher and popper.
// Calling it more than once is a no-op.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of queued items not yet popped.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size()
}

// Outstanding returns queued plus in-flight items.
func (q *Queue[T]) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size() + q.inFlight
}

func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Cap returns the configured capacity, 0 for an unbounded queue.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

func (q *Queue[T]) push(v T) {
	q.items = append(q.items, v)
	q.notEmpty.Signal()
}

func (q *Queue[T]) size() int {
	return len(q.items) - q.head
}

func (q *Queue[T]) full() bool {
	return q.capacity > 0 && q.size() >= q.capacity
}

// compact reclaims the consumed prefix once it dominates the backing array.
func (q *Queue[T]) compact() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head >= 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}
