package sched

import "github.com/coresampler/rtscript/pkg/scriptid"

// CallbackStatus is the run state of a script callback, modeled as a
// cooperatively scheduled task per spec.md §9.
type CallbackStatus int

const (
	CallbackRunning CallbackStatus = iota
	CallbackQueued
	CallbackTerminated
	CallbackWaiting
)

func (s CallbackStatus) String() string {
	switch s {
	case CallbackRunning:
		return "RUNNING"
	case CallbackQueued:
		return "QUEUE"
	case CallbackTerminated:
		return "TERMINATED"
	case CallbackWaiting:
		return "WAITING"
	default:
		return "UNKNOWN"
	}
}

// EventStatus is the script-visible lifecycle state of an event id.
type EventStatus int

const (
	EventStatusQueued EventStatus = iota
	EventStatusInactive
)

func (s EventStatus) String() string {
	if s == EventStatusQueued {
		return "NOTE_QUEUE"
	}
	return "INACTIVE"
}

// EventGroupCount is the default number of event-mark groups a callback
// carries (spec.md §3's "implementation-defined, e.g. 32").
const EventGroupCount = 32

// Callback is one script execution context: the fork/wait/abort unit
// spec.md §9 models as a cooperatively scheduled task with per-task
// state and a parent-child relation for auto-abort propagation.
type Callback struct {
	ID     CallbackID
	Status CallbackStatus

	HasParent bool
	ParentID  CallbackID
	ForkIndex int // 0 for the root handler, 1..n for fork() clones
	ChildIDs  []CallbackID

	AutoAbortChildren bool
	AbortRequested    bool

	WaitUntilUs  int64
	WaitDisabled bool

	eventGroups   [EventGroupCount]map[scriptid.ID]struct{}
	ignoredEvents []scriptid.ID
}

// IgnoredEvents returns the ids this callback has marked via
// ignore_event/ignore_controller.
func (c *Callback) IgnoredEvents() []scriptid.ID { return c.ignoredEvents }

// Ignore records id as ignored by this callback (ignore_event /
// ignore_controller).
func (c *Callback) Ignore(id scriptid.ID) {
	c.ignoredEvents = append(c.ignoredEvents, id)
}

// NewCallback constructs a root (non-forked) callback in the RUNNING
// state.
func NewCallback(id CallbackID) *Callback {
	return &Callback{ID: id, Status: CallbackRunning}
}

// Mark adds id to event-mark group g, returning false if g is out of
// range.
func (c *Callback) Mark(g int, id scriptid.ID) bool {
	if g < 0 || g >= EventGroupCount {
		return false
	}
	if c.eventGroups[g] == nil {
		c.eventGroups[g] = make(map[scriptid.ID]struct{})
	}
	c.eventGroups[g][id] = struct{}{}
	return true
}

// Unmark removes id from event-mark group g, returning false if g is out
// of range.
func (c *Callback) Unmark(g int, id scriptid.ID) bool {
	if g < 0 || g >= EventGroupCount {
		return false
	}
	delete(c.eventGroups[g], id)
	return true
}

// ByMarks returns the ids currently in event-mark group g. The returned
// slice is a fresh snapshot; the spec's "live view" guarantee (reflects
// insertions/removals until the statement consuming it completes) is
// satisfied by callers re-invoking ByMarks rather than caching its
// result across statements.
func (c *Callback) ByMarks(g int) []scriptid.ID {
	if g < 0 || g >= EventGroupCount {
		return nil
	}
	out := make([]scriptid.ID, 0, len(c.eventGroups[g]))
	for id := range c.eventGroups[g] {
		out = append(out, id)
	}
	return out
}
