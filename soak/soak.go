// ════════════════════════════════════════════════════════════════════════════════════════════════
// Container Soak Harness
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Differential Model Checking for the Fixed-Capacity Containers
//
// Description:
//   Drives each container through long seeded random operation sequences
//   and compares every observable result against a plain reference model.
//   Containers are built with their Over constructors so the storage can
//   optionally be mlocked first, the way a real-time caller would run them.
//
// Models:
//   - ringbuf, fixedqueue  : github.com/eapache/queue FIFO
//   - ilist                : slice of member ids
//   - fixedmap             : built-in map
//   - objpool              : live-pointer set
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package soak

import (
	"fmt"
	"math/rand"
	"time"

	"fixedcap/config"
	"fixedcap/control"
	"fixedcap/debug"
	"fixedcap/rt"
)

// pollMask sets how often loops check control.Stopped (every 1024 ops).
const pollMask = 1<<10 - 1

// Container names used in results and the history store.
const (
	Ring  = "ringbuf"
	List  = "ilist"
	Map   = "fixedmap"
	Pool  = "objpool"
	Queue = "fixedqueue"
)

// run carries per-container bookkeeping shared by the runners.
type run struct {
	res   Result
	rng   *rand.Rand
	step  int
	start time.Time
}

func newRun(name string, seed int64) *run {
	return &run{
		res:   Result{Container: name, Seed: seed},
		rng:   rand.New(rand.NewSource(seed)),
		start: time.Now(),
	}
}

// failf records a mismatch.  Only the first message is kept.
func (r *run) failf(format string, args ...any) {
	r.res.Mismatches++
	if r.res.FirstMismatch == "" {
		r.res.FirstMismatch = fmt.Sprintf("op %d: ", r.step) + fmt.Sprintf(format, args...)
	}
}

// expect records a mismatch when got != want.
func (r *run) expect(what string, got, want any) {
	if got != want {
		r.failf("%s = %v, want %v", what, got, want)
	}
}

// loop calls op ops times unless the run is stopped first.
func (r *run) loop(ops int, op func()) {
	for r.step = 0; r.step < ops; r.step++ {
		if r.step&pollMask == 0 && control.Stopped() {
			r.res.Interrupted = true
			break
		}
		op()
	}
	r.res.Ops = r.step
}

func (r *run) finish() Result {
	r.res.ElapsedNS = time.Since(r.start).Nanoseconds()
	return r.res
}

// lockStorage mlocks s when enabled and returns the matching unlock.
// Failure to lock is logged, never fatal: the run only loses residency.
func lockStorage[T any](enabled bool, name string, s []T) func() {
	if !enabled {
		return func() {}
	}
	if err := rt.LockSlice(s); err != nil {
		debug.DropError("soak: mlock "+name, err)
		return func() {}
	}
	return func() {
		if err := rt.UnlockSlice(s); err != nil {
			debug.DropError("soak: munlock "+name, err)
		}
	}
}

// Run soaks every enabled container.  Each container gets its own seed
// derived from cfg.Seed so one container's op count does not shift the
// sequence of the next.
func Run(cfg *config.Config) *Report {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rep := &Report{StartedUnix: time.Now().Unix(), Seed: seed}

	type runner struct {
		name    string
		enabled bool
		fn      func(*config.Config, int64) Result
	}
	runners := []runner{
		{Ring, cfg.Ring.Enabled, RunRing},
		{List, cfg.List.Enabled, RunList},
		{Map, cfg.Map.Enabled, RunMap},
		{Pool, cfg.Pool.Enabled, RunPool},
		{Queue, cfg.Queue.Enabled, RunQueue},
	}
	for i, rn := range runners {
		if !rn.enabled {
			continue
		}
		if control.Stopped() {
			debug.DropMessage("soak", "stopped before "+rn.name)
			break
		}
		debug.DropMessage("soak", "running "+rn.name)
		res := rn.fn(cfg, seed+int64(i))
		if !res.OK() {
			debug.DropMessage("soak: "+rn.name, res.FirstMismatch)
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}
