// ════════════════════════════════════════════════════════════════════════════════════════════════
// STATIC OBJECT POOL
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Fixed Slot Pool with Address Identity
//
// Description:
//   Owns exactly len(storage) instances of T and hands them out by address.
//   A parallel bitmap tracks which slots are in use.  Allocation tries the
//   slot after the last one handed out, then falls back to a word-wise
//   bitmap scan.  Deallocation validates that the pointer is one of ours,
//   slot-aligned, and currently in use before touching any state.
//
// Ordering:
//   Reuse is immediate and unordered.  The only bias is the hint, which
//   moves back to a freed slot that precedes it.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package objpool

import (
	"math/bits"
	"unsafe"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Pool is a fixed set of reusable T slots.  Not safe for concurrent use.
type Pool[T any] struct {
	slots []T
	used  []uint64 // bit i%64 of word i/64 set while slot i is allocated
	next  int      // preferred slot for the next Allocate
	inUse int

	base uintptr // &slots[0]; compared only, never dereferenced
	elem uintptr // unsafe.Sizeof(T)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// New allocates a pool of size zeroed slots.  Panics if size <= 0 or if T is
// zero-sized: address identity needs distinct addresses.
func New[T any](size int) *Pool[T] {
	if size <= 0 {
		panic("objpool: size must be > 0")
	}
	return Over(make([]T, size))
}

// Over builds a pool on caller-owned storage.  The storage is zeroed.
func Over[T any](storage []T) *Pool[T] {
	if len(storage) == 0 {
		panic("objpool: storage must be non-empty")
	}
	var zero T
	sz := unsafe.Sizeof(zero)
	if sz == 0 {
		panic("objpool: zero-sized element type")
	}
	clear(storage)
	return &Pool[T]{
		slots: storage,
		used:  make([]uint64, (len(storage)+63)/64),
		base:  uintptr(unsafe.Pointer(&storage[0])),
		elem:  sz,
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// BITMAP HELPERS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

//go:nosplit
func (p *Pool[T]) isUsed(i int) bool {
	return p.used[i>>6]&(1<<(uint(i)&63)) != 0
}

//go:nosplit
func (p *Pool[T]) mark(i int) {
	p.used[i>>6] |= 1 << (uint(i) & 63)
}

//go:nosplit
func (p *Pool[T]) unmark(i int) {
	p.used[i>>6] &^= 1 << (uint(i) & 63)
}

// firstFree scans the bitmap for the lowest clear bit below len(slots).
func (p *Pool[T]) firstFree() int {
	for w, word := range p.used {
		if word == ^uint64(0) {
			continue
		}
		i := w<<6 | bits.TrailingZeros64(^word)
		if i < len(p.slots) {
			return i
		}
	}
	return -1
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CORE OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Allocate hands out a zeroed slot, or nil when every slot is in use.
func (p *Pool[T]) Allocate() *T {
	if p.inUse == len(p.slots) {
		return nil
	}
	i := p.next
	if i >= len(p.slots) || p.isUsed(i) {
		i = p.firstFree()
	}
	p.mark(i)
	p.inUse++
	p.next = i + 1
	return &p.slots[i]
}

// Deallocate returns ptr's slot to the pool.  It fails without side effects
// when ptr is nil, outside the pool, not slot-aligned, or already free.
// The slot is zeroed so the pool does not keep the caller's references
// alive.
func (p *Pool[T]) Deallocate(ptr *T) bool {
	i, ok := p.Index(ptr)
	if !ok || !p.isUsed(i) {
		return false
	}
	var zero T
	p.slots[i] = zero
	p.unmark(i)
	p.inUse--
	if i < p.next {
		p.next = i
	}
	return true
}

// Index maps ptr to its slot number.  ok is false for pointers that are not
// slot-aligned addresses inside the pool, regardless of allocation state.
func (p *Pool[T]) Index(ptr *T) (int, bool) {
	if ptr == nil {
		return 0, false
	}
	addr := uintptr(unsafe.Pointer(ptr))
	if addr < p.base {
		return 0, false
	}
	off := addr - p.base
	if off%p.elem != 0 {
		return 0, false
	}
	i := off / p.elem
	if i >= uintptr(len(p.slots)) {
		return 0, false
	}
	return int(i), true
}

// Owns reports whether ptr is a slot of this pool that is currently
// allocated.
func (p *Pool[T]) Owns(ptr *T) bool {
	i, ok := p.Index(ptr)
	return ok && p.isUsed(i)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// QUERIES & MAINTENANCE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Len returns the number of allocated slots.
func (p *Pool[T]) Len() int { return p.inUse }

// Available returns the number of free slots.
func (p *Pool[T]) Available() int { return len(p.slots) - p.inUse }

// Cap returns the pool size.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Full reports whether Allocate would return nil.
func (p *Pool[T]) Full() bool { return p.inUse == len(p.slots) }

// Reset frees and zeroes every slot.  Pointers handed out earlier become
// invalid for Deallocate until allocated again.
func (p *Pool[T]) Reset() {
	clear(p.slots)
	clear(p.used)
	p.next = 0
	p.inUse = 0
}

// Storage exposes the backing array so it can be pinned in memory.
func (p *Pool[T]) Storage() []T { return p.slots }
