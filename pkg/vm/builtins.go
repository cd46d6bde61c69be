package vm

import (
	"github.com/coresampler/rtscript/pkg/event"
	"github.com/coresampler/rtscript/pkg/note"
	"github.com/coresampler/rtscript/pkg/sched"
	"github.com/coresampler/rtscript/pkg/scriptid"
)

// --- Note/event creation and lifetime ---

// PlayNote implements play_note(key, velocity, sampleOffset, duration).
// duration: -2 no auto-off, -1 tied to parent note (only inside a note
// handler; elsewhere it is warned and treated as 0), 0 no schedule, >0
// microseconds until a matching stop-note. Only >0 schedules anything:
// for -1 no stop-note is scheduled and nothing links the new note's
// lifetime to the parent note.
// Returns the new note's script id, or scriptid.Zero on failure.
func (c *Context) PlayNote(key, velocity int, sampleOffsetUs int64, durationUs int64) (scriptid.ID, error) {
	if key < 0 || key > 127 {
		return scriptid.Zero, c.warn("play_note", "key %d out of range 0..127", key)
	}
	if velocity < 0 || velocity > 127 {
		return scriptid.Zero, c.warn("play_note", "velocity %d out of range 0..127", velocity)
	}
	if durationUs == -1 && !c.IsNoteHandler {
		c.warn("play_note", "duration=-1 (tied to parent note) is only legal inside a note event handler")
		durationUs = 0
	}

	ev := event.New(0, event.TypeNoteOn)
	ev.Note = event.NotePayload{Key: uint8(key), Velocity: uint8(velocity)}
	id := c.Scheduler.ScheduleNoteMicroSec(ev, sampleOffsetUs)
	if id == 0 {
		return scriptid.Zero, nil
	}

	if durationUs > 0 {
		off := event.New(0, event.TypeNoteOff)
		off.Note.NoteID = uint64(id)
		c.Scheduler.ScheduleEventMicroSec(off, sampleOffsetUs+durationUs)
	}
	return scriptid.FromNoteID(uint64(id)), nil
}

// NoteOff implements note_off(id|ids, velocity): emits a stop-note event
// timestamped "now" for each live target note.
func (c *Context) NoteOff(ids []scriptid.ID, velocity int) error {
	if velocity < 0 || velocity > 127 {
		velocity = 127
		c.warn("note_off", "velocity out of range, clamped to 127")
	}
	for _, id := range ids {
		if id == scriptid.Zero || id.IsEvent() {
			c.warn("note_off", "id %v is not a live note id", id)
			continue
		}
		nid := note.ID(id.Untagged())
		if _, ok := c.Scheduler.NoteByID(nid); !ok {
			c.warn("note_off", "note %d not found", nid)
			continue
		}
		off := event.New(0, event.TypeNoteOff)
		off.Note = event.NotePayload{NoteID: uint64(nid), Velocity: uint8(velocity)}
		c.Scheduler.ScheduleEventMicroSec(off, 0)
	}
	return nil
}

// ChangeNote implements change_note(id, key): only effective when the
// current event time equals the note's trigger time.
func (c *Context) ChangeNote(id scriptid.ID, key int) error {
	n, applyNow := c.noteAndApplyNow(note.ID(id.Untagged()))
	if n == nil {
		return c.warn("change_note", "note %v not found", id)
	}
	if !applyNow {
		return c.warn("change_note", "note %v already rendering, key change rejected", id)
	}
	if !n.SetHostKey(key) {
		return c.warn("change_note", "note %v host key locked", id)
	}
	return nil
}

// ChangeVelo implements change_velo(id, v): apply-now only. A note
// carries no velocity of its own, so v is not stored; the call only
// performs the apply-now check and warns when it fails.
func (c *Context) ChangeVelo(id scriptid.ID, v int) error {
	n, applyNow := c.noteAndApplyNow(note.ID(id.Untagged()))
	if n == nil {
		return c.warn("change_velo", "note %v not found", id)
	}
	if !applyNow {
		return c.warn("change_velo", "note %v already rendering, velocity change rejected", id)
	}
	return nil
}

// ChangePlayPos implements change_play_pos(id, usec): apply-now only.
func (c *Context) ChangePlayPos(id scriptid.ID, usec int64) error {
	n, applyNow := c.noteAndApplyNow(note.ID(id.Untagged()))
	if n == nil {
		return c.warn("change_play_pos", "note %v not found", id)
	}
	if !applyNow {
		return c.warn("change_play_pos", "note %v already rendering, play position change rejected", id)
	}
	n.Override.SampleOffset = int(usec)
	return nil
}

// IgnoreEvent implements ignore_event(id|ids): marks event ids so
// downstream handlers will not observe them. Modeled via the event-mark
// mechanism's group 0 reserved for "ignored" bookkeeping would conflate
// script-visible groups, so this records directly against the owning
// callback's ignore set instead.
func (c *Context) IgnoreEvent(ids []scriptid.ID) error {
	cb := c.callback()
	if cb == nil {
		return c.warn("ignore_event", "no active callback")
	}
	for _, id := range ids {
		cb.Ignore(id)
	}
	return nil
}

// IgnoreController implements ignore_controller(id?): same mechanism as
// IgnoreEvent; id is not checked to be a controller-change event.
func (c *Context) IgnoreController(id scriptid.ID) error {
	return c.IgnoreEvent([]scriptid.ID{id})
}

// --- Parameter change family (C8) ---

// ChangeParam is the generic template underlying every change_X
// function: looks up name's paramSpec, converts raw per spec.md §4.5
// items 4-6, and applies it to every target note per item 7's
// apply-now rule.
func (c *Context) ChangeParam(name string, ids []scriptid.ID, raw Value, relative bool) error {
	spec, ok := paramSpecs[name]
	if !ok {
		return NewScriptError(name, "unknown parameter function")
	}
	final := raw.Final
	if raw.Unit != UnitNone && spec.Kind != kindBel {
		final = true
	}
	value, nativeLiteral, clamped := spec.engineValue(raw)
	if clamped {
		c.warn(name, "argument out of range, clamped")
	}
	scope := deriveScope(final, relative, nativeLiteral)

	for _, id := range ids {
		nid := note.ID(id.Untagged())
		n, ok := c.Scheduler.NoteByID(nid)
		if !ok {
			c.warn(name, "note %v not found", id)
			continue
		}
		if c.Scheduler.CurrentEventTime() == n.TriggerScheduleTime() {
			if _, rejected := n.ApplySynthParam(event.SynthParamPayload{NoteID: uint64(nid), Param: spec.Param, Delta: float64(value), Scope: scope}); rejected {
				c.warn(name, "native-unit value rejected for normalized parameter")
			}
			continue
		}
		ev := event.New(0, event.TypeNoteSynthParam)
		ev.SynthParam = event.SynthParamPayload{NoteID: uint64(nid), Param: spec.Param, Delta: float64(value), Scope: scope}
		c.Scheduler.ScheduleEventMicroSec(ev, 0)
	}
	return nil
}

// FadeIn implements fade_in(id|ids, duration): apply-now sets Volume to
// 0 and VolumeTime to duration; otherwise it schedules a volume=0 event
// at "now" and leaves VolumeTime unchanged, as no event kind carries a
// fade time. In all cases a volume=1.0 event follows at now+1us — the
// +1us idiom places it strictly after the earlier write under the
// scheduler's same-microsecond FIFO ordering rule (spec.md §5).
func (c *Context) FadeIn(ids []scriptid.ID, durationUs int64) error {
	for _, id := range ids {
		nid := note.ID(id.Untagged())
		n, ok := c.Scheduler.NoteByID(nid)
		if !ok {
			c.warn("fade_in", "note %v not found", id)
			continue
		}
		if c.Scheduler.CurrentEventTime() == n.TriggerScheduleTime() {
			n.Override.Volume = note.Norm{Value: 0, Final: true}
			n.Override.VolumeTime = float32(durationUs) / 1e6
		} else {
			ev := event.New(0, event.TypeNoteSynthParam)
			ev.SynthParam = event.SynthParamPayload{NoteID: uint64(nid), Param: event.ParamVolume, Delta: 0, Scope: event.ScopeFinalNorm}
			c.Scheduler.ScheduleEventMicroSec(ev, 0)
		}
		up := event.New(0, event.TypeNoteSynthParam)
		up.SynthParam = event.SynthParamPayload{NoteID: uint64(nid), Param: event.ParamVolume, Delta: 1, Scope: event.ScopeFinalNorm}
		c.Scheduler.ScheduleEventMicroSec(up, 1)
	}
	return nil
}

// FadeOut implements fade_out(id|ids, duration, stop): apply-now also
// sets VolumeTime to duration; in all cases it schedules a volume=0
// event at now+1us, and outside apply-now no volume-time event is
// scheduled. If stop, also schedules a kill-note at now+duration+1us.
func (c *Context) FadeOut(ids []scriptid.ID, durationUs int64, stop bool) error {
	for _, id := range ids {
		nid := note.ID(id.Untagged())
		n, ok := c.Scheduler.NoteByID(nid)
		if !ok {
			c.warn("fade_out", "note %v not found", id)
			continue
		}
		if c.Scheduler.CurrentEventTime() == n.TriggerScheduleTime() {
			n.Override.VolumeTime = float32(durationUs) / 1e6
		}
		down := event.New(0, event.TypeNoteSynthParam)
		down.SynthParam = event.SynthParamPayload{NoteID: uint64(nid), Param: event.ParamVolume, Delta: 0, Scope: event.ScopeFinalNorm}
		c.Scheduler.ScheduleEventMicroSec(down, 1)
		if stop {
			kill := event.New(0, event.TypeKillNote)
			kill.Note.NoteID = uint64(nid)
			c.Scheduler.ScheduleEventMicroSec(kill, durationUs+1)
		}
	}
	return nil
}

// --- Event marks / groups ---

// SetEventMark implements set_event_mark(id, group).
func (c *Context) SetEventMark(id scriptid.ID, group int) error {
	cb := c.callback()
	if cb == nil {
		return c.warn("set_event_mark", "no active callback")
	}
	if !cb.Mark(group, id) {
		return c.warn("set_event_mark", "group %d out of range", group)
	}
	return nil
}

// DeleteEventMark implements delete_event_mark(id, group).
func (c *Context) DeleteEventMark(id scriptid.ID, group int) error {
	cb := c.callback()
	if cb == nil {
		return c.warn("delete_event_mark", "no active callback")
	}
	if !cb.Unmark(group, id) {
		return c.warn("delete_event_mark", "group %d out of range", group)
	}
	return nil
}

// ByMarks implements by_marks(group).
func (c *Context) ByMarks(group int) []scriptid.ID {
	cb := c.callback()
	if cb == nil {
		return nil
	}
	return cb.ByMarks(group)
}

// --- Control flow ---

// Wait implements wait(usec): cooperative suspend, resumed by the
// scheduler at now+usec unless the callback has disabled further waits
// via a prior stop_wait call.
func (c *Context) Wait(usec int64) error {
	cb := c.callback()
	if cb == nil {
		return c.warn("wait", "no active callback")
	}
	if cb.WaitDisabled {
		return nil
	}
	cb.Status = sched.CallbackWaiting
	cb.WaitUntilUs = c.Scheduler.CurrentEventTime() + usec
	c.Scheduler.ScheduleResumeOfScriptCallback(c.CallbackID, cb.WaitUntilUs, false)
	return nil
}

// StopWait implements stop_wait(callbackId, disableFurtherWaits):
// resumes the named callback at "now".
func (c *Context) StopWait(id sched.CallbackID, disableFurtherWaits bool) error {
	c.Scheduler.ScheduleResumeOfScriptCallback(id, c.Scheduler.CurrentEventTime(), disableFurtherWaits)
	return nil
}

// Abort implements abort(callbackId): sets a cooperative abort flag
// checked at the callback's next VM step.
func (c *Context) Abort(id sched.CallbackID) error {
	cb, ok := c.Scheduler.ScriptCallbackByID(id)
	if !ok {
		return c.warn("abort", "callback %v not found", id)
	}
	cb.AbortRequested = true
	return nil
}

// Fork implements fork(n, autoAbort): it forks n children of the current
// callback and returns them, each carrying its ForkIndex (1..n); the
// script-level results (0 in the parent, the fork index in each child)
// are read from those. If the callback pool or the per-handler fork
// limit runs out it returns a Warning together with the children forked
// so far (none when the up-front pool check fails).
func (c *Context) Fork(n int, autoAbort bool) ([]*sched.Callback, error) {
	if n < 1 {
		return nil, c.warn("fork", "fork count %d out of range", n)
	}
	if !c.Scheduler.HasFreeScriptCallbacks(n) {
		return nil, c.warn("fork", "callback pool exhausted, cannot fork %d", n)
	}
	children := make([]*sched.Callback, 0, n)
	for i := 0; i < n; i++ {
		child, ok := c.Scheduler.ForkScriptCallback(c.CallbackID, autoAbort)
		if !ok {
			return children, c.warn("fork", "callback pool or per-handler fork limit exhausted after %d of %d forks", i, n)
		}
		children = append(children, child)
	}
	return children, nil
}

// CallbackStatus implements callback_status(id).
func (c *Context) CallbackStatus(id sched.CallbackID) sched.CallbackStatus {
	cb, ok := c.Scheduler.ScriptCallbackByID(id)
	if !ok {
		return sched.CallbackTerminated
	}
	return cb.Status
}

// EventStatus implements event_status(id).
func (c *Context) EventStatus(id scriptid.ID) sched.EventStatus {
	if id.IsEvent() {
		if _, ok := c.Scheduler.EventByID(event.ID(id.Untagged())); ok {
			return sched.EventStatusQueued
		}
		return sched.EventStatusInactive
	}
	if _, ok := c.Scheduler.NoteByID(note.ID(id.Untagged())); ok {
		return sched.EventStatusQueued
	}
	return sched.EventStatusInactive
}

// EventPar enumerates the per-note parameters get_event_par/
// set_event_par can read or write.
type EventPar int

const (
	ParNote EventPar = iota
	ParVelocity
	ParVolume
	ParTune
	ParUser0
	ParUser1
	ParUser2
	ParUser3
)

// GetEventPar implements get_event_par(id, par). VOLUME/TUNE reads
// convert from linear ratio to milli-dB/milli-cent on the fly.
func (c *Context) GetEventPar(id scriptid.ID, par EventPar) (Value, error) {
	n, ok := c.Scheduler.NoteByID(note.ID(id.Untagged()))
	if !ok {
		return Value{}, c.warn("get_event_par", "note %v not found", id)
	}
	switch par {
	case ParNote:
		return Int64(int64(n.HostKey())), nil
	case ParVelocity:
		return Int64(0), nil
	case ParVolume:
		return Real64(volumeRatioToMilliDB(n.Override.Volume.Value)), nil
	case ParTune:
		return Real64(pitchRatioToMilliCent(n.Override.Pitch.Value)), nil
	case ParUser0:
		return Int64(int64(n.UserPar[0])), nil
	case ParUser1:
		return Int64(int64(n.UserPar[1])), nil
	case ParUser2:
		return Int64(int64(n.UserPar[2])), nil
	case ParUser3:
		return Int64(int64(n.UserPar[3])), nil
	default:
		return Value{}, NewScriptError("get_event_par", "unknown event par %d", par)
	}
}

// SetEventPar implements set_event_par(id, par, value). Writes to
// VOLUME/TUNE are rejected (use change_vol/change_tune instead); NOTE
// and VELOCITY obey the apply-now rule.
func (c *Context) SetEventPar(id scriptid.ID, par EventPar, value int64) error {
	n, applyNow := c.noteAndApplyNow(note.ID(id.Untagged()))
	if n == nil {
		return c.warn("set_event_par", "note %v not found", id)
	}
	switch par {
	case ParNote:
		if !applyNow {
			return c.warn("set_event_par", "note %v already rendering, NOTE change rejected", id)
		}
		if !n.SetHostKey(int(value)) {
			return c.warn("set_event_par", "note %v host key locked", id)
		}
		return nil
	case ParVelocity:
		if !applyNow {
			return c.warn("set_event_par", "note %v already rendering, VELOCITY change rejected", id)
		}
		return nil
	case ParVolume, ParTune:
		return c.warn("set_event_par", "writes to VOLUME/TUNE are rejected; use change_vol/change_tune")
	case ParUser0:
		n.UserPar[0] = int32(value)
	case ParUser1:
		n.UserPar[1] = int32(value)
	case ParUser2:
		n.UserPar[2] = int32(value)
	case ParUser3:
		n.UserPar[3] = int32(value)
	default:
		return NewScriptError("set_event_par", "unknown event par %d", par)
	}
	return nil
}
