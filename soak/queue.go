package soak

import (
	"github.com/eapache/queue"

	"fixedcap/config"
	"fixedcap/fixedqueue"
)

// RunQueue checks fixedqueue against an unbounded pointer FIFO, including
// the peek-then-pop contract and pointer identity of Front and Back.
func RunQueue(cfg *config.Config, seed int64) Result {
	r := newRun(Queue, seed)
	storage := make([]*uint64, cfg.Queue.Capacity)
	defer lockStorage(cfg.LockMemory, Queue, storage)()

	q := fixedqueue.Over(storage)
	model := queue.New()
	capacity := cfg.Queue.Capacity
	// twice the capacity so a pointer can sit in the queue more than once
	items := make([]uint64, 2*capacity)
	for i := range items {
		items[i] = uint64(i)
	}

	r.loop(cfg.Ops, func() {
		switch r.rng.Intn(6) {
		case 0, 1, 2:
			p := &items[r.rng.Intn(len(items))]
			fits := model.Length() < capacity
			r.expect("Push ok", q.Push(p), fits)
			if fits {
				model.Add(p)
			}
		case 3, 4:
			if model.Length() == 0 {
				r.expect("Front on empty", q.Front(), (*uint64)(nil))
				q.Pop()
				break
			}
			want := model.Peek().(*uint64)
			r.expect("Front", q.Front(), want)
			q.Pop()
			model.Remove()
		case 5:
			r.expect("Push nil", q.Push(nil), false)
		}
		r.expect("Len", q.Len(), model.Length())
		if model.Length() > 0 {
			r.expect("Back", q.Back(), model.Get(-1).(*uint64))
		} else {
			r.expect("Back on empty", q.Back(), (*uint64)(nil))
		}
	})
	return r.finish()
}
