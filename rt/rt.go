// Package rt holds the operating-system knobs real-time callers reach for
// before entering a hot loop: pinning the thread to one CPU and locking
// container storage into RAM so the first touch of a slot never faults.
//
// Containers built with an Over constructor on a slice that was passed to
// LockSlice keep their whole footprint resident.
package rt

import (
	"errors"
	"unsafe"
)

// ErrUnsupported is returned on platforms without the underlying syscall.
var ErrUnsupported = errors.New("rt: unsupported on this platform")

// PinCPU binds the calling OS thread to cpu.  Go may migrate goroutines
// between threads, so callers must runtime.LockOSThread first.
func PinCPU(cpu int) error {
	if cpu < 0 {
		return errors.New("rt: negative cpu index")
	}
	return setAffinity(cpu)
}

// LockSlice mlocks the memory backing s.  Empty slices are a no-op.
func LockSlice[T any](s []T) error {
	b := bytesOf(s)
	if len(b) == 0 {
		return nil
	}
	return mlock(b)
}

// UnlockSlice undoes LockSlice.
func UnlockSlice[T any](s []T) error {
	b := bytesOf(s)
	if len(b) == 0 {
		return nil
	}
	return munlock(b)
}

// bytesOf views the elements of s as raw bytes.  The view aliases s and
// must not outlive it.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	n := len(s) * int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n)
}
