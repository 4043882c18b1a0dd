package soak

import (
	"github.com/eapache/queue"

	"fixedcap/config"
	"fixedcap/ringbuf"
)

// RunRing checks ringbuf against an unbounded byte FIFO.  Every Put and Get
// must succeed exactly when the model says the bytes fit or are present,
// and bytes must come out in the order they went in.
func RunRing(cfg *config.Config, seed int64) Result {
	r := newRun(Ring, seed)
	storage := make([]byte, cfg.Ring.Capacity)
	defer lockStorage(cfg.LockMemory, Ring, storage)()

	rb := ringbuf.Over(storage)
	model := queue.New()
	capacity := cfg.Ring.Capacity
	chunk := make([]byte, cfg.Ring.MaxChunk+1)
	var next byte

	r.loop(cfg.Ops, func() {
		n := r.rng.Intn(cfg.Ring.MaxChunk + 1)
		buf := chunk[:n]
		switch r.rng.Intn(5) {
		case 0, 1: // put
			for i := range buf {
				buf[i] = next + byte(i)
			}
			fits := n <= capacity-model.Length()
			r.expect("Put ok", rb.Put(buf), fits)
			if fits {
				for _, c := range buf {
					model.Add(c)
				}
				next += byte(n)
			}
		case 2: // get
			avail := n <= model.Length()
			r.expect("Get ok", rb.Get(buf), avail)
			if avail {
				bad := false
				for i, c := range buf {
					want := model.Remove().(byte)
					if c != want && !bad {
						r.failf("Get byte %d = %#x, want %#x", i, c, want)
						bad = true
					}
				}
			}
		case 3: // peek
			avail := n <= model.Length()
			r.expect("Peek ok", rb.Peek(buf), avail)
			if avail {
				for i, c := range buf {
					if want := model.Get(i).(byte); c != want {
						r.failf("Peek byte %d = %#x, want %#x", i, c, want)
						break
					}
				}
			}
		case 4: // discard
			avail := n <= model.Length()
			r.expect("Discard ok", rb.Discard(n), avail)
			if avail {
				for range n {
					model.Remove()
				}
			}
		}
		r.expect("Len", rb.Len(), model.Length())
		r.expect("Full", rb.Full(), model.Length() == capacity)
		r.expect("Empty", rb.Empty(), model.Length() == 0)
	})
	return r.finish()
}
