package lfo

// Saw is a branchless integer-accumulator saw oscillator: a uint32 phase
// accumulator ("slope") is advanced by a fixed increment ("c") every
// sample and the wraparound does the waveform shaping for free.
type Saw struct {
	base

	slope           uint32
	c               uint32
	offset          float32 // only meaningful in signed range
	denormalizer    float32
	flipPhaseFactor float32
}

// NewSaw constructs a saw kernel with output peaking at +/-max (signed) or
// 0..2*max (unsigned).
func NewSaw(rng Range, max float32) *Saw {
	return &Saw{base: newBase(rng, max)}
}

func (s *Saw) Render() float32 {
	s.slope += s.c
	if s.rng == RangeUnsigned {
		return s.denormalizer * float32(s.slope)
	}
	return s.denormalizer * (float32(int32(s.slope)) + s.offset)
}

func (s *Saw) UpdateByMIDICtrlValue(v uint16) {
	s.updateByMIDICtrlValue(v)
	const intLimit = float32(^uint32(0))
	max := s.depth()
	if s.rng == RangeUnsigned {
		s.denormalizer = max / intLimit
	} else {
		s.denormalizer = max / intLimit * 2.0
		s.offset = -max
	}
}

func (s *Saw) Trigger(freq float32, start StartLevel, internalDepth, extCtrlDepth uint16, flipPhase bool, sampleRate uint32) {
	s.triggerCommon(freq, internalDepth, extCtrlDepth)
	if flipPhase {
		s.flipPhaseFactor = -1
	} else {
		s.flipPhaseFactor = 1
	}

	const intLimit = float32(^uint32(0))
	r := freq / float32(sampleRate)
	s.c = uint32(int32(intLimit * r * s.flipPhaseFactor))

	var slopeAtMid, slopeAtMin uint32
	if s.rng == RangeUnsigned {
		slopeAtMid = ^uint32(0) / 2
		slopeAtMin = ^uint32(0)
	} else {
		slopeAtMid = ^uint32(0)
		slopeAtMin = ^uint32(0) / 2
	}

	switch start {
	case StartMid:
		s.slope = slopeAtMid
	case StartMax, StartMin:
		// for a saw, min and max are the same point regardless of flip.
		s.slope = slopeAtMin
	}

	s.UpdateByMIDICtrlValue(uint16(s.extCtrlValue))
}

func (s *Saw) SetPhase(degrees float32) {
	degrees = clampPhase(degrees)
	phase := degrees / 360.0
	const intLimit = float32(^uint32(0))
	s.slope += uint32(int32(intLimit * phase * s.flipPhaseFactor))
}

func (s *Saw) SetFrequency(freq float32, sampleRate uint32) {
	s.frequency = freq
	effective := freq * s.scriptFreqFactor
	const intLimit = float32(^uint32(0))
	r := effective / float32(sampleRate)
	s.c = uint32(int32(intLimit * r * s.flipPhaseFactor))
}

func (s *Saw) SetScriptDepthFactor(factor float32, isFinal bool) {
	s.setScriptDepthFactor(factor, isFinal)
	s.UpdateByMIDICtrlValue(uint16(s.extCtrlValue))
}

func (s *Saw) SetScriptFrequencyFactor(factor float32, sampleRate uint32) {
	s.setScriptFrequencyFactor(factor)
	s.SetFrequency(s.frequency, sampleRate)
}

func (s *Saw) SetScriptFrequencyFinal(hz float32, sampleRate uint32) {
	s.setScriptFrequencyFinal(hz)
	s.SetFrequency(s.frequency, sampleRate)
}
