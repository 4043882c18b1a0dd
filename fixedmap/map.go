// ════════════════════════════════════════════════════════════════════════════════════════════════
// FIXED-CAPACITY LINEAR PROBING MAP
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Open-Addressing Hash Map with Back-Shift Deletion
//
// Description:
//   Associative table over a fixed slot array.  Keys map to references of
//   externally owned values; the map never takes ownership of them.
//   Collisions are resolved by linear probing from the key's home slot.
//
// Design Principles:
//   - Capacity fixed at construction, no resizing, no allocation afterwards
//   - Hash function injected by the caller, reduced modulo the table size
//   - Each slot caches its home index so deletion never rehashes
//   - Back-shift deletion keeps every probe run gap-free, so no tombstones
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package fixedmap

import "iter"

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// HashFunc maps a key to an arbitrary 64-bit value.  The map folds the
// result into its slot range, so the function need not know the table
// size.  It must be pure: equal keys always hash equal.
type HashFunc[K comparable] func(K) uint64

// Slot is one table cell.  Slots are exported only so callers can provide
// the backing array to Over; their fields are private.
type Slot[K comparable, V any] struct {
	key  K
	val  *V
	home int  // hash(key) % len(slots), valid while used
	used bool // false = never used or vacated by back-shift
}

// Map is a fixed-capacity open-addressing hash map from K to *V.
//
// INVARIANT:
//
//	For every used slot j holding a key with home h, every slot on the
//	cyclic path h, h+1, ..., j is used.  Lookups may therefore stop at the
//	first unused slot.
type Map[K comparable, V any] struct {
	slots []Slot[K, V]
	hash  HashFunc[K]
	size  int
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTORS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// New allocates a map with tableSize slots.  tableSize must exceed the
// largest number of keys stored at once; a full table rejects new keys.
// Panics on a non-positive size or a nil hash.
func New[K comparable, V any](tableSize int, hash HashFunc[K]) *Map[K, V] {
	if tableSize <= 0 {
		panic("fixedmap: table size must be > 0")
	}
	return Over(make([]Slot[K, V], tableSize), hash)
}

// Over builds a map on caller-provided slots.  The slots are reset.
func Over[K comparable, V any](slots []Slot[K, V], hash HashFunc[K]) *Map[K, V] {
	if len(slots) == 0 {
		panic("fixedmap: slot storage must be non-empty")
	}
	if hash == nil {
		panic("fixedmap: nil hash function")
	}
	clear(slots)
	return &Map[K, V]{slots: slots, hash: hash}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CORE OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func (m *Map[K, V]) homeOf(key K) int {
	return int(m.hash(key) % uint64(len(m.slots)))
}

// next advances a probe cursor with wraparound.
//
//go:nosplit
func (m *Map[K, V]) next(i int) int {
	i++
	if i == len(m.slots) {
		i = 0
	}
	return i
}

// find returns the slot index holding key, or -1.  The probe ends at the
// first unused slot or after one full lap.
func (m *Map[K, V]) find(key K) int {
	i := m.homeOf(key)
	for range len(m.slots) {
		s := &m.slots[i]
		if !s.used {
			return -1
		}
		if s.key == key {
			return i
		}
		i = m.next(i)
	}
	return -1
}

// Insert stores value under key.  An existing key has its value reference
// replaced in place.  Returns false only when key is new and every slot is
// occupied.
func (m *Map[K, V]) Insert(key K, value *V) bool {
	home := m.homeOf(key)
	i := home
	for range len(m.slots) {
		s := &m.slots[i]
		if !s.used {
			*s = Slot[K, V]{key: key, val: value, home: home, used: true}
			m.size++
			return true
		}
		if s.key == key {
			s.val = value
			return true
		}
		i = m.next(i)
	}
	return false
}

// Get returns the value reference stored under key.
func (m *Map[K, V]) Get(key K) (*V, bool) {
	if i := m.find(key); i >= 0 {
		return m.slots[i].val, true
	}
	return nil, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.find(key) >= 0
}

// Remove deletes key, returning false if it was absent.
//
// BACK-SHIFT:
//
//	After vacating slot `hole`, walk the run that follows it.  An entry at j
//	whose home lies cyclically in (hole, j] is still reachable and stays.
//	Any other entry would be cut off by the hole, so it moves into the hole
//	and the hole moves to j.  The walk ends at the first unused slot.
func (m *Map[K, V]) Remove(key K) bool {
	hole := m.find(key)
	if hole < 0 {
		return false
	}
	n := len(m.slots)
	j := hole
	for range n - 1 {
		j = m.next(j)
		s := &m.slots[j]
		if !s.used {
			break
		}
		if between(hole, s.home, j) {
			continue
		}
		m.slots[hole] = *s
		hole = j
	}
	m.slots[hole] = Slot[K, V]{}
	m.size--
	return true
}

// between reports whether h lies on the cyclic half-open interval (lo, hi].
//
//go:nosplit
func between(lo, h, hi int) bool {
	if lo <= hi {
		return lo < h && h <= hi
	}
	return lo < h || h <= hi
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// QUERIES & MAINTENANCE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Len returns the number of stored keys.
func (m *Map[K, V]) Len() int { return m.size }

// Cap returns the table size.
func (m *Map[K, V]) Cap() int { return len(m.slots) }

// Full reports whether no new key can be inserted.
func (m *Map[K, V]) Full() bool { return m.size == len(m.slots) }

// Clear removes every key and drops all value references.
func (m *Map[K, V]) Clear() {
	clear(m.slots)
	m.size = 0
}

// Probe returns how many slots a lookup of key inspects before it hits or
// gives up.  Diagnostic only.
func (m *Map[K, V]) Probe(key K) int {
	i := m.homeOf(key)
	for p := 1; p <= len(m.slots); p++ {
		s := &m.slots[i]
		if !s.used || s.key == key {
			return p
		}
		i = m.next(i)
	}
	return len(m.slots)
}

// All yields stored pairs in slot order.  The map must not be mutated
// during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if s.used && !yield(s.key, s.val) {
				return
			}
		}
	}
}
