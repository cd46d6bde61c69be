//go:build !linux

package thread

import "errors"

// ErrUnsupportedPlatform is returned by SetRealtimeFIFO and LockMemory on
// platforms where this package has no realtime scheduling backend.
var ErrUnsupportedPlatform = errors.New("thread: realtime scheduling not supported on this platform")

// SetRealtimeFIFO is a no-op stub outside Linux.
func SetRealtimeFIFO(priorityOffset int) error { return ErrUnsupportedPlatform }

// LockMemory is a no-op stub outside Linux.
func LockMemory() error { return ErrUnsupportedPlatform }
