// queue.go
//
// Fixed-capacity FIFO of caller-owned pointers.  The contract is
// peek-then-pop: Front returns the oldest element without removing it and
// Pop discards it without returning it.  Callers take over the pointer
// before popping.
//
// Front and Back report an empty queue as nil, so nil cannot be stored:
// Push(nil) returns false just like Push on a full queue, and leaves the
// queue unchanged.
//
// The queue never owns what it stores.  Popped slots are cleared so the
// queue stops keeping the element reachable.

package fixedqueue

import "iter"

// Queue is a bounded circular FIFO of *T.  Not safe for concurrent use.
type Queue[T any] struct {
	front int
	rear  int
	size  int
	elems []*T
}

// New allocates a queue for capacity pointers.  Panics if capacity <= 0.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("fixedqueue: capacity must be > 0")
	}
	return &Queue[T]{elems: make([]*T, capacity)}
}

// Over builds a queue on caller-owned storage, which is cleared.
func Over[T any](storage []*T) *Queue[T] {
	if len(storage) == 0 {
		panic("fixedqueue: storage must be non-empty")
	}
	clear(storage)
	return &Queue[T]{elems: storage}
}

// Push appends p.  It returns false when the queue is full or p is nil; nil
// is reserved as the empty signal of Front and Back.
func (q *Queue[T]) Push(p *T) bool {
	if p == nil || q.size == len(q.elems) {
		return false
	}
	q.elems[q.rear] = p
	q.rear = q.wrap(q.rear + 1)
	q.size++
	return true
}

// Pop discards the front element.  No-op on an empty queue.
func (q *Queue[T]) Pop() {
	if q.size == 0 {
		return
	}
	q.elems[q.front] = nil
	q.front = q.wrap(q.front + 1)
	q.size--
}

// Front returns the oldest element, or nil if empty.
func (q *Queue[T]) Front() *T {
	if q.size == 0 {
		return nil
	}
	return q.elems[q.front]
}

// Back returns the newest element, or nil if empty.
func (q *Queue[T]) Back() *T {
	if q.size == 0 {
		return nil
	}
	i := q.rear - 1
	if i < 0 {
		i = len(q.elems) - 1
	}
	return q.elems[i]
}

// Len returns the number of queued pointers.
//
//go:nosplit
func (q *Queue[T]) Len() int { return q.size }

// Cap returns the fixed capacity.
//
//go:nosplit
func (q *Queue[T]) Cap() int { return len(q.elems) }

// Empty reports whether the queue holds nothing.
//
//go:nosplit
func (q *Queue[T]) Empty() bool { return q.size == 0 }

// Full reports whether Push would fail for a non-nil pointer.
//
//go:nosplit
func (q *Queue[T]) Full() bool { return q.size == len(q.elems) }

// Reset drops every element.
func (q *Queue[T]) Reset() {
	clear(q.elems)
	q.front, q.rear, q.size = 0, 0, 0
}

// All yields elements front to back without consuming them.  The queue
// must not be mutated during iteration.
func (q *Queue[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		i := q.front
		for range q.size {
			if !yield(q.elems[i]) {
				return
			}
			i = q.wrap(i + 1)
		}
	}
}

// Storage exposes the backing array so it can be pinned in memory.
func (q *Queue[T]) Storage() []*T { return q.elems }

func (q *Queue[T]) wrap(i int) int {
	if i == len(q.elems) {
		return 0
	}
	return i
}
