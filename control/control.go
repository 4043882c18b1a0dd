// control.go: Global stop flag and run deadline for long-running loops
// ============================================================================
// RUN CONTROL
// ============================================================================
//
// Soak loops poll Stopped() between operations.  Two things flip it:
//   • Shutdown(), called from a signal handler or a test
//   • an optional wall-clock deadline set with SetDeadline()
//
// Both fields are atomics: the signal goroutine writes while the loop
// goroutine reads.

package control

import (
	"sync/atomic"
	"time"
)

var (
	stop     atomic.Uint32 // 1 = stop requested
	deadline atomic.Int64  // UnixNano after which Stopped reports true, 0 = none
)

// Shutdown requests every polling loop to wind down.
func Shutdown() {
	stop.Store(1)
}

// SetDeadline arms the time limit.  The zero time disarms it.
func SetDeadline(t time.Time) {
	if t.IsZero() {
		deadline.Store(0)
		return
	}
	deadline.Store(t.UnixNano())
}

// Stopped reports whether Shutdown was called or the deadline has passed.
func Stopped() bool {
	if stop.Load() == 1 {
		return true
	}
	d := deadline.Load()
	return d != 0 && time.Now().UnixNano() > d
}

// Reset clears the stop flag and the deadline.  Tests call it between
// runs.
func Reset() {
	stop.Store(0)
	deadline.Store(0)
}
