//go:build linux

// affinity_linux.go
//
// sched_setaffinity(2) binding for the current thread.  Unlike a raw
// syscall with a precomputed one-word mask, unix.CPUSet covers every CPU
// the kernel reports, so indices above 63 work too.

package rt

import "golang.org/x/sys/unix"

func setAffinity(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set) // pid 0 → calling thread
}
