// Package ilist implements an intrusive doubly linked list.
//
// The list never allocates nodes.  Each element embeds a Link and exposes it
// through a ListLink method; the list threads those embedded links together
// around a sentinel that lives inside the List value itself.
//
//	type job struct {
//		id   int
//		link ilist.Link[job]
//	}
//
//	func (j *job) ListLink() *ilist.Link[job] { return &j.link }
//
//	l := ilist.New[job]()
//	_ = l.PushBack(&j)
//
// Every link records which list it is threaded into.  That tag turns the
// classic intrusive-list footguns (inserting a node that is already linked,
// removing a node that belongs to another list) into O(1) error returns
// instead of silent corruption of both lists.
//
// Lists are not safe for concurrent use and must not be copied once an
// element has been inserted: the sentinel's address is the list's identity.
package ilist

import (
	"errors"
	"iter"
)

var (
	// ErrLinked is returned when inserting a node that is already a member
	// of some list.
	ErrLinked = errors.New("ilist: node already linked")
	// ErrNotMember is returned when removing a node that is not linked
	// into this list.
	ErrNotMember = errors.New("ilist: node not in this list")
	// ErrForeignPosition is returned when the insert position is neither
	// this list's sentinel nor one of its members.
	ErrForeignPosition = errors.New("ilist: position not in this list")
	// ErrNilNode is returned for nil nodes.
	ErrNilNode = errors.New("ilist: nil node")
)

// Link is the bookkeeping record an element embeds to become linkable.  The
// zero Link is unlinked.
type Link[T any] struct {
	next, prev *Link[T]
	owner      *Link[T] // sentinel of the owning list, nil when unlinked
	elem       *T
}

// Next returns the following link.  From the last element it returns the
// list's End sentinel.
func (k *Link[T]) Next() *Link[T] { return k.next }

// Prev returns the preceding link.
func (k *Link[T]) Prev() *Link[T] { return k.prev }

// Elem returns the element that embeds this link, or nil for a sentinel or
// an unlinked record.
func (k *Link[T]) Elem() *T {
	if k.owner == k {
		return nil
	}
	return k.elem
}

// Linked reports whether the link is currently threaded into a list.
func (k *Link[T]) Linked() bool { return k.owner != nil && k.owner != k }

// Node is the capability an element pointer must have to be stored in a
// List: it is a *T that can hand out its embedded link.
type Node[T any] interface {
	*T
	ListLink() *Link[T]
}

// List is an intrusive list of *T.  The zero value is an empty list ready
// to use.
type List[T any, P Node[T]] struct {
	head Link[T] // sentinel; head.owner == &head once initialised
	size int
}

// New returns an empty list.  The pointer type is inferred:
// ilist.New[job]() yields *List[job, *job].
func New[T any, P Node[T]]() *List[T, P] {
	l := &List[T, P]{}
	l.lazyInit()
	return l
}

func (l *List[T, P]) lazyInit() {
	if l.head.next == nil {
		l.head.next = &l.head
		l.head.prev = &l.head
		l.head.owner = &l.head
	}
}

// Insert links n immediately after pos.  pos must be End() or the link of a
// member of l.
func (l *List[T, P]) Insert(pos *Link[T], n P) error {
	if n == nil {
		return ErrNilNode
	}
	l.lazyInit()
	k := n.ListLink()
	if k.owner != nil {
		return ErrLinked
	}
	if pos == nil || pos.owner != &l.head {
		return ErrForeignPosition
	}

	k.elem = (*T)(n)
	k.owner = &l.head
	k.prev = pos
	k.next = pos.next
	pos.next.prev = k
	pos.next = k
	l.size++
	return nil
}

// Remove unlinks n from l in O(1).  The removed link keeps its old next and
// prev so a Begin/End walk may remove the element it is standing on and
// still step forward; ownership is cleared, so the stale pointers are never
// followed by the list itself.
func (l *List[T, P]) Remove(n P) error {
	if n == nil {
		return ErrNilNode
	}
	k := n.ListLink()
	if k.owner == nil || k.owner != &l.head {
		return ErrNotMember
	}
	l.unlink(k)
	return nil
}

func (l *List[T, P]) unlink(k *Link[T]) {
	k.prev.next = k.next
	k.next.prev = k.prev
	k.owner, k.elem = nil, nil
	l.size--
}

// PushBack appends n.
func (l *List[T, P]) PushBack(n P) error {
	l.lazyInit()
	return l.Insert(l.head.prev, n)
}

// PushFront prepends n.
func (l *List[T, P]) PushFront(n P) error {
	l.lazyInit()
	return l.Insert(&l.head, n)
}

// PopFront unlinks and returns the first element, or nil if l is empty.
func (l *List[T, P]) PopFront() P {
	if l.size == 0 {
		return nil
	}
	k := l.head.next
	n := P(k.elem)
	l.unlink(k)
	return n
}

// PopBack unlinks and returns the last element, or nil if l is empty.
func (l *List[T, P]) PopBack() P {
	if l.size == 0 {
		return nil
	}
	k := l.head.prev
	n := P(k.elem)
	l.unlink(k)
	return n
}

// Front returns the first element without removing it.
func (l *List[T, P]) Front() P {
	if l.size == 0 {
		return nil
	}
	return P(l.head.next.elem)
}

// Back returns the last element without removing it.
func (l *List[T, P]) Back() P {
	if l.size == 0 {
		return nil
	}
	return P(l.head.prev.elem)
}

// Len returns the number of members.
func (l *List[T, P]) Len() int { return l.size }

// Empty reports whether l has no members.
func (l *List[T, P]) Empty() bool { return l.size == 0 }

// Contains reports whether n is a member of l.
func (l *List[T, P]) Contains(n P) bool {
	return n != nil && n.ListLink().owner == &l.head
}

// Begin returns the first link, or End() when empty.  The body may remove
// the element of the current link; any other mutation during the walk is
// undefined.
//
//	for k := l.Begin(); k != l.End(); k = k.Next() {
//		use(k.Elem())
//	}
func (l *List[T, P]) Begin() *Link[T] {
	l.lazyInit()
	return l.head.next
}

// End returns the sentinel that bounds iteration in both directions.
func (l *List[T, P]) End() *Link[T] {
	l.lazyInit()
	return &l.head
}

// All yields members front to back.  The body may remove the element it was
// handed; any other mutation during iteration is undefined.
func (l *List[T, P]) All() iter.Seq[P] {
	return func(yield func(P) bool) {
		l.lazyInit()
		for k := l.head.next; k != &l.head; {
			next := k.next
			if !yield(P(k.elem)) {
				return
			}
			k = next
		}
	}
}

// Backward yields members back to front under the same rules as All.
func (l *List[T, P]) Backward() iter.Seq[P] {
	return func(yield func(P) bool) {
		l.lazyInit()
		for k := l.head.prev; k != &l.head; {
			prev := k.prev
			if !yield(P(k.elem)) {
				return
			}
			k = prev
		}
	}
}
