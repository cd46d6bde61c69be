// Package lfo implements the low-frequency-oscillator bank: interchangeable
// kernels (sine, triangle, saw, square) behind one contract, plus a tagged
// cluster that can switch shape at runtime. One render() call produces
// exactly one sample; nothing in this package allocates once a Kernel has
// been constructed.
package lfo

// Range selects whether a kernel's output is signed ([-Max,+Max]) or
// unsigned ([0,+2*Max]).
type Range int

const (
	RangeSigned Range = iota
	RangeUnsigned
)

// StartLevel is the wave's starting phase, expressed as where in its swing
// it should begin.
type StartLevel int

const (
	StartMin StartLevel = iota
	StartMid
	StartMax
)

// Shape identifies which kernel a Cluster currently holds.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeTriangle
	ShapeSaw
	ShapeSquare
)

// Kernel is the contract every LFO implementation satisfies. Max is fixed at
// construction time; everything else is mutable state touched only from the
// audio thread that owns the kernel.
type Kernel interface {
	// Trigger (re)starts the oscillator. Called when the owning voice/note
	// is triggered.
	Trigger(freq float32, start StartLevel, internalDepth, extCtrlDepth uint16, flipPhase bool, sampleRate uint32)
	// SetPhase adjusts the starting phase in degrees (0..360), valid only
	// right after Trigger.
	SetPhase(degrees float32)
	// SetFrequency changes the oscillator frequency without retriggering.
	SetFrequency(freq float32, sampleRate uint32)
	// UpdateByMIDICtrlValue recomputes depth from a new external MIDI
	// controller value (0..127).
	UpdateByMIDICtrlValue(v uint16)
	// SetScriptDepthFactor scales the oscillator depth by factor. isFinal
	// only marks bookkeeping state (mirrored from the reference engine);
	// it does not itself suppress the other depth sources.
	SetScriptDepthFactor(factor float32, isFinal bool)
	// SetScriptFrequencyFactor multiplies the base frequency by factor.
	SetScriptFrequencyFactor(factor float32, sampleRate uint32)
	// SetScriptFrequencyFinal assigns hz as the new script frequency
	// factor (note: the effective frequency is still Frequency*factor,
	// so a prior Trigger/SetFrequency call's base frequency still
	// participates — see base.setScriptFrequencyFinal).
	SetScriptFrequencyFinal(hz float32, sampleRate uint32)
	// Render computes exactly one sample.
	Render() float32
}

// base holds the state every kernel implementation shares, mirroring
// LFOBase in the reference engine.
type base struct {
	rng Range
	max float32

	extController uint8
	internalDepth float32
	frequency     float32
	extCtrlValue  float32
	extCtrlCoeff  float32

	scriptDepthFactor float32
	scriptFreqFactor  float32

	finalDepthIsSet bool // set once a depth factor is marked final, cleared on the matching non-final call
	finalFreqIsSet  bool // set once a frequency factor is marked final, cleared by SetScriptFrequencyFactor
}

func newBase(rng Range, maxLevel float32) base {
	return base{
		rng:               rng,
		max:               maxLevel,
		frequency:         20,
		scriptDepthFactor: 1,
		scriptFreqFactor:  1,
	}
}

// depth returns the current oscillator amplitude: internal + external
// controller contribution, scaled by the script depth factor.
func (b *base) depth() float32 {
	return (b.internalDepth + b.extCtrlValue*b.extCtrlCoeff) * b.scriptDepthFactor
}

func (b *base) triggerCommon(freq float32, internalDepth, extCtrlDepth uint16) {
	b.frequency = freq
	b.scriptFreqFactor = 1
	b.scriptDepthFactor = 1
	b.finalDepthIsSet = false
	b.finalFreqIsSet = false

	scale := float32(1.0)
	if b.rng == RangeUnsigned {
		scale = 2.0
	}
	b.internalDepth = (float32(internalDepth) / 1200.0) * b.max * scale
	b.extCtrlCoeff = ((float32(extCtrlDepth) / 1200.0) / 127.0) * b.max * scale
}

func (b *base) setScriptDepthFactor(factor float32, isFinal bool) {
	b.scriptDepthFactor = factor
	if isFinal && !b.finalDepthIsSet {
		b.finalDepthIsSet = true
	} else if !isFinal && b.finalDepthIsSet {
		b.finalDepthIsSet = false
	}
}

func (b *base) setScriptFrequencyFactor(factor float32) {
	b.scriptFreqFactor = factor
	b.finalFreqIsSet = false
}

func (b *base) setScriptFrequencyFinal(hz float32) {
	b.scriptFreqFactor = hz
	if !b.finalFreqIsSet {
		b.finalFreqIsSet = true
	}
}

func (b *base) updateByMIDICtrlValue(v uint16) {
	b.extCtrlValue = float32(v)
}

func clampPhase(degrees float32) float32 {
	if degrees < 0 {
		return 0
	}
	if degrees > 360 {
		return 360
	}
	return degrees
}
