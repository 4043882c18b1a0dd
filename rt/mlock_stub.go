//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package rt

func mlock([]byte) error   { return ErrUnsupported }
func munlock([]byte) error { return ErrUnsupported }
