// Package note defines the Note — the atomic unit of playback causation —
// and its Override sub-structure, the set of synthesis parameters a
// script's change_* built-ins may adjust.
package note

import "github.com/coresampler/rtscript/pkg/event"

// FadeCurve selects the interpolation shape used when transitioning an
// Override field toward a new value over its *Time duration.
type FadeCurve int

const (
	FadeCurveLinear FadeCurve = iota
	FadeCurveEaseInEaseOut
)

// Param is a general-purpose override value that may be either normalized
// (0..1) or in a native unit (seconds, Hertz), depending on Scope.
type Param struct {
	Value float32
	Scope event.ValueScope // RELATIVE, FINAL_NORM, or FINAL_NATIVE
}

// NewParam returns a Param in its default neutral state.
func NewParam() Param { return Param{Value: 1, Scope: event.ScopeRelative} }

func (p Param) isFinal() bool {
	return p.Scope == event.ScopeFinalNorm || p.Scope == event.ScopeFinalNative
}

// ApplyTo multiplies dst by Value, or replaces it outright if Scope marks
// this Param final.
func (p Param) ApplyTo(dst *float32) {
	if p.isFinal() {
		*dst = p.Value
	} else {
		*dst *= p.Value
	}
}

// Norm is an override value confined to the normalized 0..1 range.
type Norm struct {
	Value float32
	Final bool
}

// NewNorm returns a Norm in its default neutral state.
func NewNorm() Norm { return Norm{Value: 1} }

// ApplyTo multiplies dst by Value, or replaces it outright if Final.
func (n Norm) ApplyTo(dst *float32) {
	if n.Final {
		*dst = n.Value
	} else {
		*dst *= n.Value
	}
}

// SNorm is an override value in the signed normalized -1..+1 range (used
// for Pan), tracking how many relative sources have contributed so a new
// SELF_RELATIVE contribution can be folded in as a running average.
type SNorm struct {
	Value   float32
	Final   bool
	Sources int64
}

// ApplyEventParam applies a NoteSynthParam event's delta/scope to a Param
// field, mirroring the reference engine's NoteBase::apply(Param).
// Returns the absolute value the event should record (AbsValue), for any
// follow-up event/diagnostic that needs it.
func ApplyEventParam(p *Param, scope event.ValueScope, delta float32) float32 {
	switch scope {
	case event.ScopeSelfRelative:
		if p.Scope == event.ScopeFinalNative {
			*p = NewParam()
		}
		p.Value *= delta
		p.Scope = event.ScopeRelative
		return p.Value
	case event.ScopeRelative:
		p.Value = delta
		p.Scope = event.ScopeRelative
		return p.Value
	case event.ScopeFinalSelfRelative:
		if p.Scope == event.ScopeFinalNative {
			*p = NewParam()
		}
		p.Value *= delta
		p.Scope = event.ScopeFinalNorm
		return p.Value
	case event.ScopeFinalNorm:
		p.Value = delta
		p.Scope = event.ScopeFinalNorm
		return p.Value
	case event.ScopeFinalNative:
		p.Value = delta
		p.Scope = event.ScopeFinalNative
		return p.Value
	default:
		return p.Value
	}
}

// ApplyEventNorm applies a NoteSynthParam event's delta/scope to a Norm
// field. FINAL_NATIVE is rejected (a Norm field has no native unit to
// receive it) and is a no-op warning condition for the caller to surface.
func ApplyEventNorm(n *Norm, scope event.ValueScope, delta float32) (absValue float32, rejected bool) {
	switch scope {
	case event.ScopeSelfRelative:
		n.Value *= delta
		n.Final = false
		return n.Value, false
	case event.ScopeRelative:
		n.Value = delta
		n.Final = false
		return n.Value, false
	case event.ScopeFinalSelfRelative:
		n.Value *= delta
		n.Final = true
		return n.Value, false
	case event.ScopeFinalNorm:
		n.Value = delta
		n.Final = true
		return n.Value, false
	case event.ScopeFinalNative:
		return n.Value, true
	default:
		return n.Value, false
	}
}

// ApplyEventSNorm applies a NoteSynthParam event's delta/scope to an SNorm
// field (Pan), using the relative-summed-average identity for
// SELF_RELATIVE contributions. A non-relative write (RELATIVE or
// FINAL_NORM) resets Sources to 1, not 0 — confirmed against
// original_source/src/engines/common/Note.h, since the freshly assigned
// value itself counts as the first source for any subsequent averaging.
func ApplyEventSNorm(s *SNorm, scope event.ValueScope, delta float32) (absValue float32, rejected bool) {
	switch scope {
	case event.ScopeSelfRelative:
		s.Value = RelativeSummedAvg(s.Value, delta, s.Sources)
		s.Sources++
		s.Final = false
		return s.Value, false
	case event.ScopeRelative:
		s.Value = delta
		s.Sources = 1
		s.Final = false
		return s.Value, false
	case event.ScopeFinalSelfRelative:
		s.Value = RelativeSummedAvg(s.Value, delta, s.Sources)
		s.Sources++
		s.Final = true
		return s.Value, false
	case event.ScopeFinalNorm:
		s.Value = delta
		s.Sources = 1
		s.Final = true
		return s.Value, false
	case event.ScopeFinalNative:
		return s.Value, true
	default:
		return s.Value, false
	}
}

// RelativeSummedAvg folds a new contribution d into a running average v
// computed from n prior sources: (v*n + d) / (n+1).
func RelativeSummedAvg(v, d float32, n int64) float32 {
	return (v*float32(n) + d) / float32(n+1)
}

// ScopeByFinalUnit derives a ValueScope from whether a write is final and
// whether it is expressed in a native unit, matching
// NoteBase::scopeBy_FinalUnit.
func ScopeByFinalUnit(final, nativeUnit bool) event.ValueScope {
	if !final {
		return event.ScopeRelative
	}
	if nativeUnit {
		return event.ScopeFinalNative
	}
	return event.ScopeFinalNorm
}

// Override holds every synthesis parameter a script's change_* built-ins
// may adjust for a note.
type Override struct {
	Volume     Norm
	VolumeTime float32 // seconds
	Pitch      Norm
	PitchTime  float32 // seconds
	Pan        SNorm
	PanTime    float32 // seconds

	Cutoff    Param
	Resonance Norm

	Attack  Param
	Decay   Param
	Sustain Norm
	Release Param

	CutoffAttack  Param
	CutoffDecay   Param
	CutoffSustain Norm
	CutoffRelease Param

	AmpLFODepth Norm
	AmpLFOFreq  Param

	CutoffLFODepth Norm
	CutoffLFOFreq  Param

	PitchLFODepth Norm
	PitchLFOFreq  Param

	VolumeCurve FadeCurve
	PitchCurve  FadeCurve
	PanCurve    FadeCurve

	// SampleOffset is where playback should start, in microseconds;
	// -1 means "ignored, use the sample's natural start".
	SampleOffset int
}

const (
	defaultVolumeTimeSeconds = 0.013
	defaultPitchTimeSeconds  = 0.013
	defaultPanTimeSeconds    = 0.013
)

// NewOverride returns an Override with every field at its documented
// neutral default, matching NoteBase's constructor.
func NewOverride() Override {
	return Override{
		Volume:         NewNorm(),
		VolumeTime:     defaultVolumeTimeSeconds,
		Pitch:          NewNorm(),
		PitchTime:      defaultPitchTimeSeconds,
		Pan:            SNorm{},
		PanTime:        defaultPanTimeSeconds,
		Cutoff:         NewParam(),
		Resonance:      NewNorm(),
		Attack:         NewParam(),
		Decay:          NewParam(),
		Sustain:        NewNorm(),
		Release:        NewParam(),
		CutoffAttack:   NewParam(),
		CutoffDecay:    NewParam(),
		CutoffSustain:  NewNorm(),
		CutoffRelease:  NewParam(),
		AmpLFODepth:    NewNorm(),
		AmpLFOFreq:     NewParam(),
		CutoffLFODepth: NewNorm(),
		CutoffLFOFreq:  NewParam(),
		PitchLFODepth:  NewNorm(),
		PitchLFOFreq:   NewParam(),
		VolumeCurve:    FadeCurveLinear,
		PitchCurve:     FadeCurveLinear,
		PanCurve:       FadeCurveLinear,
		SampleOffset:   -1,
	}
}
