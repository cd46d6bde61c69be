package vm

import (
	"math"

	"github.com/coresampler/rtscript/pkg/event"
)

// nativeKind classifies how a change_* function's numeric argument is
// converted to an engine value, per spec.md §4.5's generic template.
type nativeKind int

const (
	// kindBel converts via 10^(dB/20); an unadorned (unitless) argument
	// is read as milli-decibels, matching the worked example in
	// spec.md §8 scenario 2 (change_vol(id, -6000) -> ~0.5012) — the
	// authoritative source used to resolve the scale-constant ambiguity
	// in the prose (see DESIGN.md).
	kindBel nativeKind = iota
	// kindSeconds/kindHertz pass an explicitly-unitted argument through
	// unscaled (seconds direct, Hertz as-is); an unadorned argument is
	// treated as a normalized 0..1 ratio via UnitlessScale.
	kindSeconds
	kindHertz
	// kindNormOnly never accepts a native unit; the argument is always
	// a normalized 0..1 ratio via UnitlessScale.
	kindNormOnly
	// kindPan is signed-normalized via UnitlessScale (spec's "1,000 for
	// pan").
	kindPan
)

// paramSpec is one entry in the change_* generic template's dispatch
// table: which Override field a function targets, how its numeric
// argument is interpreted, and its clamp range (applied to the raw,
// pre-conversion scaled value).
type paramSpec struct {
	Param         event.SynthParamKind
	Kind          nativeKind
	UnitlessScale float64
	Min, Max      float64
}

var paramSpecs = map[string]paramSpec{
	"change_vol":     {Param: event.ParamVolume, Kind: kindBel, UnitlessScale: 1000, Min: -960000, Max: 0},
	"change_tune":    {Param: event.ParamPitch, Kind: kindNormOnly, UnitlessScale: 1e6, Min: -1e6, Max: 1e6},
	"change_pan":     {Param: event.ParamPan, Kind: kindPan, UnitlessScale: 1000, Min: -1000, Max: 1000},
	"change_cutoff":  {Param: event.ParamCutoff, Kind: kindHertz, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_reso":    {Param: event.ParamResonance, Kind: kindNormOnly, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_attack":  {Param: event.ParamAttack, Kind: kindSeconds, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_decay":   {Param: event.ParamDecay, Kind: kindSeconds, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_sustain": {Param: event.ParamSustain, Kind: kindNormOnly, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_release": {Param: event.ParamRelease, Kind: kindSeconds, UnitlessScale: 1e6, Min: 0, Max: 1e6},

	"change_cutoff_attack":  {Param: event.ParamCutoffAttack, Kind: kindSeconds, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_cutoff_decay":   {Param: event.ParamCutoffDecay, Kind: kindSeconds, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_cutoff_sustain": {Param: event.ParamCutoffSustain, Kind: kindNormOnly, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_cutoff_release": {Param: event.ParamCutoffRelease, Kind: kindSeconds, UnitlessScale: 1e6, Min: 0, Max: 1e6},

	"change_amp_lfo_depth":    {Param: event.ParamAmpLFODepth, Kind: kindNormOnly, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_amp_lfo_freq":     {Param: event.ParamAmpLFOFreq, Kind: kindHertz, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_cutoff_lfo_depth": {Param: event.ParamCutoffLFODepth, Kind: kindNormOnly, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_cutoff_lfo_freq":  {Param: event.ParamCutoffLFOFreq, Kind: kindHertz, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_pitch_lfo_depth":  {Param: event.ParamPitchLFODepth, Kind: kindNormOnly, UnitlessScale: 1e6, Min: 0, Max: 1e6},
	"change_pitch_lfo_freq":   {Param: event.ParamPitchLFOFreq, Kind: kindHertz, UnitlessScale: 1e6, Min: 0, Max: 1e6},
}

// hasNativeUnit reports whether Kind has a concrete native unit at all
// (Bel/Hertz/Seconds) as opposed to being purely normalized.
func (k nativeKind) hasNativeUnit() bool { return k != kindNormOnly && k != kindPan }

// engineValue converts a raw script argument to the engine-native float
// this spec's Param/Norm/SNorm fields store, clamping first, per
// spec.md §4.5 items 5-6. Returns the converted value and whether the
// argument carried an explicit unit (Hertz/second) rather than being
// read as a plain normalized/scaled integer.
func (spec paramSpec) engineValue(raw Value) (value float32, nativeLiteral bool, warn bool) {
	scaled := raw.ScaledReal()

	switch spec.Kind {
	case kindBel:
		if scaled < spec.Min || scaled > spec.Max {
			warn = true
			if scaled < spec.Min {
				scaled = spec.Min
			} else {
				scaled = spec.Max
			}
		}
		db := scaled / 1000
		return float32(math.Pow(10, db/20)), false, warn
	case kindSeconds:
		if raw.Unit == UnitSecond {
			return float32(scaled), true, false
		}
		if scaled < spec.Min || scaled > spec.Max {
			warn = true
			if scaled < spec.Min {
				scaled = spec.Min
			} else {
				scaled = spec.Max
			}
		}
		return float32(scaled / spec.UnitlessScale), false, warn
	case kindHertz:
		if raw.Unit == UnitHertz {
			return float32(scaled), true, false
		}
		if scaled < spec.Min || scaled > spec.Max {
			warn = true
			if scaled < spec.Min {
				scaled = spec.Min
			} else {
				scaled = spec.Max
			}
		}
		return float32(scaled / spec.UnitlessScale), false, warn
	case kindPan:
		if scaled < spec.Min || scaled > spec.Max {
			warn = true
			if scaled < spec.Min {
				scaled = spec.Min
			} else {
				scaled = spec.Max
			}
		}
		return float32(scaled / spec.UnitlessScale), false, warn
	default: // kindNormOnly
		if scaled < spec.Min || scaled > spec.Max {
			warn = true
			if scaled < spec.Min {
				scaled = spec.Min
			} else {
				scaled = spec.Max
			}
		}
		return float32(scaled / spec.UnitlessScale), false, warn
	}
}

// deriveScope computes the Event::ValueScope this call implies from
// whether it is relative, final, and expressed in a native unit —
// spec.md §4.5 item 4 ("if a unit is present ... isFinal is implied
// true") folded in by the caller forcing final=true before this call
// when raw.Unit != UnitNone and the function isn't Bel-kinded.
func deriveScope(final, relative, nativeLiteral bool) event.ValueScope {
	if relative {
		if final {
			return event.ScopeFinalSelfRelative
		}
		return event.ScopeSelfRelative
	}
	if !final {
		return event.ScopeRelative
	}
	if nativeLiteral {
		return event.ScopeFinalNative
	}
	return event.ScopeFinalNorm
}
