package lfo

// Square is a branchless integer-accumulator square oscillator: the sign
// bit of the wrapping phase accumulator selects between the two output
// levels.
type Square struct {
	base

	slope        uint32
	c            uint32
	denormalizer float32
}

func NewSquare(rng Range, max float32) *Square {
	return &Square{base: newBase(rng, max)}
}

func (q *Square) Render() float32 {
	q.slope += q.c
	if q.rng == RangeUnsigned {
		return q.denormalizer * float32(q.slope>>31)
	}
	iSign := (int32(q.slope) >> 31) | 1
	return q.denormalizer * float32(iSign)
}

func (q *Square) UpdateByMIDICtrlValue(v uint16) {
	q.updateByMIDICtrlValue(v)
	q.denormalizer = q.depth()
}

func (q *Square) Trigger(freq float32, start StartLevel, internalDepth, extCtrlDepth uint16, flipPhase bool, sampleRate uint32) {
	q.triggerCommon(freq, internalDepth, extCtrlDepth)

	const intLimit = float32(^uint32(0))
	r := freq / float32(sampleRate)
	q.c = uint32(int32(intLimit * r))

	var slopeAtMax, slopeAtMin uint32
	if q.rng == RangeUnsigned {
		slopeAtMax = ^uint32(0) / 2
		slopeAtMin = ^uint32(0)
	} else {
		slopeAtMax = ^uint32(0)
		slopeAtMin = ^uint32(0) / 2
	}

	switch start {
	case StartMid, StartMax:
		// mid does not make sense for a square wave, so it maps onto max.
		if flipPhase {
			q.slope = slopeAtMin
		} else {
			q.slope = slopeAtMax
		}
	case StartMin:
		if flipPhase {
			q.slope = slopeAtMax
		} else {
			q.slope = slopeAtMin
		}
	}

	q.UpdateByMIDICtrlValue(uint16(q.extCtrlValue))
}

func (q *Square) SetPhase(degrees float32) {
	degrees = clampPhase(degrees)
	phase := degrees / 360.0
	const intLimit = float32(^uint32(0))
	q.slope += uint32(intLimit * phase)
}

func (q *Square) SetFrequency(freq float32, sampleRate uint32) {
	q.frequency = freq
	effective := freq * q.scriptFreqFactor
	const intLimit = float32(^uint32(0))
	r := effective / float32(sampleRate)
	q.c = uint32(int32(intLimit * r))
}

func (q *Square) SetScriptDepthFactor(factor float32, isFinal bool) {
	q.setScriptDepthFactor(factor, isFinal)
	q.UpdateByMIDICtrlValue(uint16(q.extCtrlValue))
}

func (q *Square) SetScriptFrequencyFactor(factor float32, sampleRate uint32) {
	q.setScriptFrequencyFactor(factor)
	q.SetFrequency(q.frequency, sampleRate)
}

func (q *Square) SetScriptFrequencyFinal(hz float32, sampleRate uint32) {
	q.setScriptFrequencyFinal(hz)
	q.SetFrequency(q.frequency, sampleRate)
}
