package note

import (
	"sync/atomic"

	"github.com/coresampler/rtscript/pkg/event"
)

// ReleaseTrigger is a bit mask of the conditions under which a note
// should transition to its release stage.
type ReleaseTrigger uint8

const (
	ReleaseTriggerNone              ReleaseTrigger = 0
	ReleaseTriggerNoteOff           ReleaseTrigger = 1 << 0
	ReleaseTriggerSustainMaxVel     ReleaseTrigger = 1 << 1
	ReleaseTriggerSustainKeyVel     ReleaseTrigger = 1 << 2
	ReleaseTriggerSustain                          = ReleaseTriggerSustainMaxVel | ReleaseTriggerSustainKeyVel
)

// Has reports whether every bit of cond is set in t.
func (t ReleaseTrigger) Has(cond ReleaseTrigger) bool { return t&cond == cond }

// GigFormat carries format-specific dimension bits a sampler format may
// need to resolve which sub-sample a note plays, kept as a generic
// side payload rather than a format-specific Note subclass.
type GigFormat struct {
	DimMask uint8
	DimBits uint8
}

// ID is a process-lifetime-unique note identifier, stable for the whole
// life of the note.
type ID uint64

// userParamCount is the number of script-addressable user data slots
// ($EVENT_PAR_0.. $EVENT_PAR_3) carried on every note.
const userParamCount = 4

// Note is the atomic unit of playback causation: everything a script's
// note-related built-ins and child-note bookkeeping operate on.
//
// Invariants: ID never changes after construction. HostKey is settable
// only until the note's first audio buffer is rendered — attempting to
// change it afterward is rejected by SetHostKey, which reports the
// violation rather than silently applying it. Child notes keep their
// own independent ID and outlive a dead parent, but are no longer
// reachable via ParentID lookups once the parent note itself retires.
type Note struct {
	id             ID
	hostKey        int32
	hostKeyLocked  atomic.Bool
	parentID       ID
	hasParent      bool
	childIDs       []ID
	cause          event.Event
	eventID        event.ID
	triggerSchedTime int64

	Override Override
	Format   GigFormat
	UserPar  [userParamCount]int32

	release       ReleaseTrigger
	activeVoices  int32
}

// New constructs a Note caused by the given event, with every Override
// field at its neutral default.
func New(id ID, hostKey int, cause event.Event) *Note {
	n := &Note{
		id:               id,
		hostKey:          int32(hostKey),
		cause:            cause,
		eventID:          cause.ID,
		triggerSchedTime: cause.ScheduleTime,
		Override:         NewOverride(),
	}
	return n
}

// ID returns the note's stable identifier.
func (n *Note) ID() ID { return n.id }

// HostKey returns the MIDI key (or format-specific equivalent) this note
// sounds at.
func (n *Note) HostKey() int { return int(n.hostKey) }

// LockHostKey freezes HostKey against further change; called once the
// note's first audio buffer has been rendered.
func (n *Note) LockHostKey() { n.hostKeyLocked.Store(true) }

// SetHostKey updates HostKey, reporting false (and leaving HostKey
// unchanged) if the note has already rendered its first buffer.
func (n *Note) SetHostKey(key int) bool {
	if n.hostKeyLocked.Load() {
		return false
	}
	n.hostKey = int32(key)
	return true
}

// Cause returns the event that triggered this note (typically a note-on).
func (n *Note) Cause() event.Event { return n.cause }

// EventID returns the id of the triggering event, independent of the
// note's own ID.
func (n *Note) EventID() event.ID { return n.eventID }

// TriggerScheduleTime returns the schedule time (microseconds since
// engine start) of the triggering event.
func (n *Note) TriggerScheduleTime() int64 { return n.triggerSchedTime }

// ParentID returns the parent note's id and whether this note has one.
func (n *Note) ParentID() (ID, bool) { return n.parentID, n.hasParent }

// SetParent records pid as this note's parent.
func (n *Note) SetParent(pid ID) {
	n.parentID = pid
	n.hasParent = true
}

// AddChild records cid as a child of this note. Children outlive a dead
// parent; the parent only tracks them while it is itself alive.
func (n *Note) AddChild(cid ID) {
	n.childIDs = append(n.childIDs, cid)
}

// ChildIDs returns the ids of notes spawned from this note (e.g. via a
// release-trigger articulation), in spawn order.
func (n *Note) ChildIDs() []ID {
	return n.childIDs
}

// Release returns the set of conditions that will trigger this note's
// release stage.
func (n *Note) Release() ReleaseTrigger { return n.release }

// SetRelease replaces the note's release-trigger mask.
func (n *Note) SetRelease(t ReleaseTrigger) { n.release = t }

// ActiveVoiceCount returns how many voices are currently rendering this
// note.
func (n *Note) ActiveVoiceCount() int32 { return atomic.LoadInt32(&n.activeVoices) }

// AddVoice records that a voice has begun rendering this note.
func (n *Note) AddVoice() { atomic.AddInt32(&n.activeVoices, 1) }

// RemoveVoice records that a voice has stopped rendering this note,
// returning true if this was the last active voice — the signal that
// the note itself has retired and may be removed from the active-note
// list.
func (n *Note) RemoveVoice() bool {
	return atomic.AddInt32(&n.activeVoices, -1) == 0
}

// ApplySynthParam applies a NoteSynthParam event's delta to the
// Override field it targets, returning the resulting absolute value and
// whether the write was rejected (a FINAL_NATIVE scope aimed at a Norm
// or SNorm field, which has no native unit to receive it).
func (n *Note) ApplySynthParam(p event.SynthParamPayload) (absValue float32, rejected bool) {
	delta := float32(p.Delta)
	switch p.Param {
	case event.ParamVolume:
		v, r := ApplyEventNorm(&n.Override.Volume, p.Scope, delta)
		return v, r
	case event.ParamPitch:
		v, r := ApplyEventNorm(&n.Override.Pitch, p.Scope, delta)
		return v, r
	case event.ParamPan:
		v, r := ApplyEventSNorm(&n.Override.Pan, p.Scope, delta)
		return v, r
	case event.ParamCutoff:
		return ApplyEventParam(&n.Override.Cutoff, p.Scope, delta), false
	case event.ParamResonance:
		v, r := ApplyEventNorm(&n.Override.Resonance, p.Scope, delta)
		return v, r
	case event.ParamAttack:
		return ApplyEventParam(&n.Override.Attack, p.Scope, delta), false
	case event.ParamDecay:
		return ApplyEventParam(&n.Override.Decay, p.Scope, delta), false
	case event.ParamSustain:
		v, r := ApplyEventNorm(&n.Override.Sustain, p.Scope, delta)
		return v, r
	case event.ParamRelease:
		return ApplyEventParam(&n.Override.Release, p.Scope, delta), false
	case event.ParamCutoffAttack:
		return ApplyEventParam(&n.Override.CutoffAttack, p.Scope, delta), false
	case event.ParamCutoffDecay:
		return ApplyEventParam(&n.Override.CutoffDecay, p.Scope, delta), false
	case event.ParamCutoffSustain:
		v, r := ApplyEventNorm(&n.Override.CutoffSustain, p.Scope, delta)
		return v, r
	case event.ParamCutoffRelease:
		return ApplyEventParam(&n.Override.CutoffRelease, p.Scope, delta), false
	case event.ParamAmpLFODepth:
		v, r := ApplyEventNorm(&n.Override.AmpLFODepth, p.Scope, delta)
		return v, r
	case event.ParamAmpLFOFreq:
		return ApplyEventParam(&n.Override.AmpLFOFreq, p.Scope, delta), false
	case event.ParamCutoffLFODepth:
		v, r := ApplyEventNorm(&n.Override.CutoffLFODepth, p.Scope, delta)
		return v, r
	case event.ParamCutoffLFOFreq:
		return ApplyEventParam(&n.Override.CutoffLFOFreq, p.Scope, delta), false
	case event.ParamPitchLFODepth:
		v, r := ApplyEventNorm(&n.Override.PitchLFODepth, p.Scope, delta)
		return v, r
	case event.ParamPitchLFOFreq:
		return ApplyEventParam(&n.Override.PitchLFOFreq, p.Scope, delta), false
	default:
		return 0, true
	}
}
