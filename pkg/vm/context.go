package vm

import (
	"github.com/coresampler/rtscript/pkg/logging"
	"github.com/coresampler/rtscript/pkg/note"
	"github.com/coresampler/rtscript/pkg/sched"
	"github.com/coresampler/rtscript/pkg/scriptid"
)

// Context is the execution context one script callback runs built-ins
// against: which scheduler it talks to, which callback it is, and where
// warnings/script errors get logged.
type Context struct {
	Scheduler  sched.Scheduler
	CallbackID sched.CallbackID
	SampleRate uint32
	Logger     *logging.Logger

	// IsNoteHandler marks this context as executing inside a note event
	// handler — the only place play_note's duration=-1 ("tied to parent
	// note") is legal.
	IsNoteHandler bool
}

// NewContext builds a Context bound to one callback.
func NewContext(s sched.Scheduler, callback sched.CallbackID, sampleRate uint32, logger *logging.Logger) *Context {
	return &Context{Scheduler: s, CallbackID: callback, SampleRate: sampleRate, Logger: logger}
}

func (c *Context) warn(op, format string, args ...interface{}) Warning {
	w := NewWarning(op, format, args...)
	if c.Logger != nil {
		c.Logger.With("callbackId", int64(c.CallbackID)).Warning(w.Error())
	}
	return w
}

func (c *Context) callback() *sched.Callback {
	cb, ok := c.Scheduler.ScriptCallbackByID(c.CallbackID)
	if !ok {
		return nil
	}
	return cb
}

func (c *Context) noteAndApplyNow(id note.ID) (*note.Note, bool) {
	n, ok := c.Scheduler.NoteByID(id)
	if !ok {
		return nil, false
	}
	return n, c.Scheduler.CurrentEventTime() == n.TriggerScheduleTime()
}

// --- Dynamic variables (C9) ---

// EngineUptimeMillis implements $ENGINE_UPTIME: engine uptime in
// milliseconds, monotonic across offline bouncing.
func (c *Context) EngineUptimeMillis() int64 {
	return c.Scheduler.EngineUptimeMicros() / 1000
}

// CallbackIDVar implements $NI_CALLBACK_ID: the current callback's id.
func (c *Context) CallbackIDVar() int64 {
	return int64(c.CallbackID)
}

// ChildCallbackIDs implements %NKSP_CALLBACK_CHILD_ID: the ids of
// callbacks spawned from the current one via fork().
func (c *Context) ChildCallbackIDs() []int64 {
	cb := c.callback()
	if cb == nil {
		return nil
	}
	out := make([]int64, len(cb.ChildIDs))
	for i, id := range cb.ChildIDs {
		out[i] = int64(id)
	}
	return out
}

// AllEvents implements %ALL_EVENTS: a snapshot of all live note ids on
// the channel, lazily refreshed on each access (not cached across
// calls, satisfying the "two reads within one VM step yield identical
// contents" idempotence property since the scheduler's live-note set
// cannot change mid-step).
func (c *Context) AllEvents() []int64 {
	buf := make([]note.ID, 256)
	n := c.Scheduler.AllNoteIDs(buf)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = int64(scriptid.FromNoteID(uint64(buf[i])))
	}
	return out
}
