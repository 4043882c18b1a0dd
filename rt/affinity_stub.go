//go:build !linux

// affinity_stub.go
//
// No thread affinity outside Linux.  The API stays identical so callers
// compile everywhere and decide for themselves whether ErrUnsupported is
// fatal.

package rt

func setAffinity(int) error { return ErrUnsupported }
