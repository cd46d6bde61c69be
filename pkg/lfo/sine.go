package lfo

import "math"

// Sine is a numeric-rotation sine oscillator: each sample rotates a unit
// complex number (real, imag) by a fixed small angle instead of calling
// math.Sin every sample.
type Sine struct {
	base

	c          float32
	real, imag float32
	normalizer float32
	offset     float32
	startPhase float64
}

func NewSine(rng Range, max float32) *Sine {
	return &Sine{base: newBase(rng, max)}
}

func (s *Sine) Render() float32 {
	s.real -= s.c * s.imag
	s.imag += s.c * s.real
	if s.rng == RangeUnsigned {
		return s.real*s.normalizer + s.offset
	}
	return s.real * s.normalizer
}

func (s *Sine) UpdateByMIDICtrlValue(v uint16) {
	s.updateByMIDICtrlValue(v)
	max := s.depth()
	if s.rng == RangeUnsigned {
		s.normalizer = max * 0.5
		s.offset = s.normalizer
	} else {
		s.normalizer = max
	}
}

func (s *Sine) Trigger(freq float32, start StartLevel, internalDepth, extCtrlDepth uint16, flipPhase bool, sampleRate uint32) {
	s.triggerCommon(freq, internalDepth, extCtrlDepth)

	s.c = 2.0 * math.Pi * freq / float32(sampleRate)

	switch start {
	case StartMid:
		if flipPhase {
			s.startPhase = 0.5 * math.Pi
		} else {
			s.startPhase = 1.5 * math.Pi
		}
	case StartMax:
		if flipPhase {
			s.startPhase = math.Pi
		} else {
			s.startPhase = 0
		}
	case StartMin:
		if flipPhase {
			s.startPhase = 0
		} else {
			s.startPhase = math.Pi
		}
	}
	s.real = float32(math.Cos(s.startPhase))
	s.imag = float32(math.Sin(s.startPhase))

	s.UpdateByMIDICtrlValue(uint16(s.extCtrlValue))
}

func (s *Sine) SetPhase(degrees float32) {
	degrees = clampPhase(degrees)
	phase := float64(degrees) / 360.0 * 2 * math.Pi
	s.real = float32(math.Cos(s.startPhase + phase))
	s.imag = float32(math.Sin(s.startPhase + phase))
}

func (s *Sine) SetFrequency(freq float32, sampleRate uint32) {
	s.frequency = freq
	effective := freq * s.scriptFreqFactor
	s.c = 2.0 * math.Pi * effective / float32(sampleRate)
}

func (s *Sine) SetScriptDepthFactor(factor float32, isFinal bool) {
	s.setScriptDepthFactor(factor, isFinal)
	s.UpdateByMIDICtrlValue(uint16(s.extCtrlValue))
}

func (s *Sine) SetScriptFrequencyFactor(factor float32, sampleRate uint32) {
	s.setScriptFrequencyFactor(factor)
	s.SetFrequency(s.frequency, sampleRate)
}

func (s *Sine) SetScriptFrequencyFinal(hz float32, sampleRate uint32) {
	s.setScriptFrequencyFinal(hz)
	s.SetFrequency(s.frequency, sampleRate)
}
