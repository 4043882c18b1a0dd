// ringbuf.go
//
// Fixed-capacity byte ring with explicit head/tail offsets.  Put and Get are
// all-or-nothing: a request that does not fit (or is not fully available)
// fails without touching state.  Copies wrap the backing array in at most
// two segments and never allocate.
//
// The buffer is single-threaded.  Callers sharing one instance across
// goroutines must serialise every method call themselves.

package ringbuf

import (
	"errors"
	"io"
)

// ErrFull is returned by Write when p does not fit completely.
var ErrFull = errors.New("ringbuf: buffer full")

// Buffer is a bounded FIFO byte stream.
//
//	0 <= size <= len(buf)
//	head, tail in [0, len(buf))
//	tail == (head + size) % len(buf)
type Buffer struct {
	head int
	tail int
	size int
	buf  []byte
}

// New allocates a buffer holding capacity bytes.  A non-positive capacity
// panics.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ringbuf: capacity must be > 0")
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Over lays a buffer over caller-owned storage.  The buffer never grows
// beyond len(storage) and never reallocates it.
func Over(storage []byte) *Buffer {
	if len(storage) == 0 {
		panic("ringbuf: storage must be non-empty")
	}
	return &Buffer{buf: storage}
}

// Put appends data, returning false if fewer than len(data) bytes are free.
func (b *Buffer) Put(data []byte) bool {
	n := len(data)
	if n > len(b.buf)-b.size {
		return false
	}
	if n == 0 {
		return true
	}
	// first segment runs to the physical end, the remainder wraps to 0
	c := copy(b.buf[b.tail:], data)
	if c < n {
		copy(b.buf, data[c:])
	}
	b.tail = b.wrap(b.tail + n)
	b.size += n
	return true
}

// Get removes exactly len(data) bytes into data, returning false if fewer
// are buffered.  Vacated bytes are left in place.
func (b *Buffer) Get(data []byte) bool {
	if !b.Peek(data) {
		return false
	}
	b.advance(len(data))
	return true
}

// Peek copies the next len(data) bytes without consuming them.
func (b *Buffer) Peek(data []byte) bool {
	n := len(data)
	if n > b.size {
		return false
	}
	if n == 0 {
		return true
	}
	c := copy(data, b.buf[b.head:])
	if c < n {
		copy(data[c:], b.buf)
	}
	return true
}

// Discard drops n buffered bytes without copying them out.
func (b *Buffer) Discard(n int) bool {
	if n < 0 || n > b.size {
		return false
	}
	b.advance(n)
	return true
}

// Write implements io.Writer.  It stores as much of p as fits and reports
// ErrFull on a short write.
func (b *Buffer) Write(p []byte) (int, error) {
	n := min(len(p), b.Free())
	b.Put(p[:n])
	if n < len(p) {
		return n, ErrFull
	}
	return n, nil
}

// Read implements io.Reader.  It returns io.EOF only when the buffer is
// empty and p is non-empty.
func (b *Buffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.size == 0 {
		return 0, io.EOF
	}
	n := min(len(p), b.size)
	b.Get(p[:n])
	return n, nil
}

// Reset empties the buffer and zeroes its storage.
func (b *Buffer) Reset() {
	clear(b.buf)
	b.head, b.tail, b.size = 0, 0, 0
}

// Empty reports whether no bytes are buffered.
//
//go:nosplit
func (b *Buffer) Empty() bool { return b.size == 0 }

// Full reports whether no byte can be added.
//
//go:nosplit
func (b *Buffer) Full() bool { return b.size == len(b.buf) }

// Len returns the number of buffered bytes.
//
//go:nosplit
func (b *Buffer) Len() int { return b.size }

// Cap returns the fixed capacity.
//
//go:nosplit
func (b *Buffer) Cap() int { return len(b.buf) }

// Free returns the number of bytes Put can still accept.
//
//go:nosplit
func (b *Buffer) Free() int { return len(b.buf) - b.size }

// Storage exposes the backing array so it can be pinned in memory.  Its
// layout is not a FIFO view; use Peek for that.
func (b *Buffer) Storage() []byte { return b.buf }

func (b *Buffer) advance(n int) {
	b.head = b.wrap(b.head + n)
	b.size -= n
}

// wrap folds i back into [0, len(buf)).  i never exceeds 2*len(buf)-1, so a
// single subtraction replaces the modulo.
func (b *Buffer) wrap(i int) int {
	if i >= len(b.buf) {
		i -= len(b.buf)
	}
	return i
}

var (
	_ io.Reader = (*Buffer)(nil)
	_ io.Writer = (*Buffer)(nil)
)
