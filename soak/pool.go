package soak

import (
	"fixedcap/config"
	"fixedcap/objpool"
)

type poolItem struct {
	stamp uint64
	owner *poolItem
	pad   [40]byte
}

// RunPool checks objpool against a set of live pointers.  Each allocated
// slot is stamped; a stamp changing while the slot is live means two
// allocations overlapped.
func RunPool(cfg *config.Config, seed int64) Result {
	r := newRun(Pool, seed)
	storage := make([]poolItem, cfg.Pool.Size)
	defer lockStorage(cfg.LockMemory, Pool, storage)()

	p := objpool.Over(storage)
	live := make([]*poolItem, 0, cfg.Pool.Size)
	stamps := make(map[*poolItem]uint64, cfg.Pool.Size)
	var freed *poolItem
	var stranger poolItem
	var stamp uint64

	r.loop(cfg.Ops, func() {
		switch r.rng.Intn(6) {
		case 0, 1, 2:
			got := p.Allocate()
			if len(live) == cfg.Pool.Size {
				r.expect("Allocate when full", got, (*poolItem)(nil))
				return
			}
			if got == nil {
				r.failf("Allocate = nil with %d of %d live", len(live), cfg.Pool.Size)
				return
			}
			if _, dup := stamps[got]; dup {
				r.failf("Allocate handed out live slot %p", got)
				return
			}
			if *got != (poolItem{}) {
				r.failf("Allocate returned a dirty slot %p", got)
			}
			stamp++
			got.stamp, got.owner = stamp, got
			stamps[got] = stamp
			live = append(live, got)
		case 3, 4:
			if len(live) == 0 {
				r.expect("Deallocate nil", p.Deallocate(nil), false)
				return
			}
			i := r.rng.Intn(len(live))
			victim := live[i]
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			if victim.stamp != stamps[victim] || victim.owner != victim {
				r.failf("slot %p clobbered: stamp %d, want %d", victim, victim.stamp, stamps[victim])
			}
			delete(stamps, victim)
			r.expect("Deallocate live", p.Deallocate(victim), true)
			freed = victim
		case 5:
			if freed != nil && stamps[freed] == 0 {
				r.expect("double Deallocate", p.Deallocate(freed), false)
			}
			r.expect("Deallocate foreign", p.Deallocate(&stranger), false)
			r.expect("Owns foreign", p.Owns(&stranger), false)
		}
		r.expect("Len", p.Len(), len(live))
		r.expect("Available", p.Available(), cfg.Pool.Size-len(live))
	})
	for _, it := range live {
		if it.stamp != stamps[it] || !p.Owns(it) {
			r.failf("live slot %p lost: stamp %d, want %d", it, it.stamp, stamps[it])
			break
		}
	}
	return r.finish()
}
