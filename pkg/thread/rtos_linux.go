//go:build linux

package thread

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetRealtimeFIFO requests SCHED_FIFO scheduling for the calling OS thread
// with a priority offset above SCHED_FIFO's minimum, clamped to the valid
// range. Must be called from the goroutine that should run realtime; Go
// does not guarantee a goroutine stays pinned to one OS thread unless it
// calls runtime.LockOSThread first.
func SetRealtimeFIFO(priorityOffset int) error {
	min, err := unix.SchedGetPriorityMin(unix.SCHED_FIFO)
	if err != nil {
		return fmt.Errorf("sched_get_priority_min: %w", err)
	}
	max, err := unix.SchedGetPriorityMax(unix.SCHED_FIFO)
	if err != nil {
		return fmt.Errorf("sched_get_priority_max: %w", err)
	}
	prio := min + priorityOffset
	if prio < min {
		prio = min
	}
	if prio > max {
		prio = max
	}
	return unix.SchedSetscheduler(0, unix.SCHED_FIFO, &unix.SchedParam{Priority: int32(prio)})
}

// LockMemory pins the process's current and future pages to RAM so the
// realtime thread never takes a page fault, via mlockall(MCL_CURRENT|MCL_FUTURE).
func LockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
