// Package sched defines the scheduler contract the script VM and engine
// channel harness consume: sub-buffer microsecond-resolution event
// insertion, note/event/callback lookup by id, and script callback
// fork/resume bookkeeping.
package sched

import (
	"github.com/coresampler/rtscript/pkg/event"
	"github.com/coresampler/rtscript/pkg/note"
)

// CallbackID identifies one script execution context.
type CallbackID uint64

// Scheduler is the interface the VM's built-in functions call into. A
// concrete implementation (pkg/enginechannel) owns the note/event pools,
// the time-ordered queue, and the callback pool; the VM only ever sees
// this contract, so it can be exercised against a test double as easily
// as against the real harness.
type Scheduler interface {
	// ScheduleNoteMicroSec inserts a note-triggering event usFromNow
	// microseconds from the scheduler's current time and returns the id
	// of the note it will create.
	ScheduleNoteMicroSec(e event.Event, usFromNow int64) note.ID
	// ScheduleEventMicroSec inserts e usFromNow microseconds from now and
	// returns its assigned event id.
	ScheduleEventMicroSec(e event.Event, usFromNow int64) event.ID
	// ScheduleResumeOfScriptCallback resumes a waiting callback at
	// baseTimeUs; disableWait makes further wait() calls within that
	// callback no-ops for the remainder of its life.
	ScheduleResumeOfScriptCallback(id CallbackID, baseTimeUs int64, disableWait bool)

	NoteByID(id note.ID) (*note.Note, bool)
	EventByID(id event.ID) (event.Event, bool)
	ScriptCallbackByID(id CallbackID) (*Callback, bool)
	// ScriptCallbackID returns the callback that owns e's handling
	// context.
	ScriptCallbackID(e event.Event) CallbackID

	// AllNoteIDs copies up to len(out) live note ids into out, returning
	// the count copied.
	AllNoteIDs(out []note.ID) int

	HasFreeScriptCallbacks(n int) bool
	// ForkScriptCallback clones parent's callback, returning the new
	// child and true, or (nil, false) if the pool is exhausted.
	ForkScriptCallback(parent CallbackID, autoAbort bool) (*Callback, bool)

	// CurrentEventTime returns the schedule time (microseconds since
	// engine start) of the event currently being handled — the value
	// the apply-now rule compares against a note's trigger time.
	CurrentEventTime() int64
	// EngineUptimeMicros returns the engine's uptime in microseconds, for
	// $ENGINE_UPTIME. The engine channel reports the end of the last
	// processed fragment; the current event's position within the fragment
	// being processed is not added.
	EngineUptimeMicros() int64
}
