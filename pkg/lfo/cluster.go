package lfo

// Cluster holds one instance of every wave shape and dispatches to whichever
// is currently active, so a voice can switch an LFO's shape at retrigger
// time without reallocating. The reference engine packs all four shapes
// into a C union to keep the struct small; Go has no union, so this simply
// holds four small structs side by side — the whole Cluster is still only a
// few hundred bytes and is owned by exactly one voice, never allocated per
// sample.
type Cluster struct {
	shape    Shape
	sine     Sine
	triangle Triangle
	saw      Saw
	square   Square
}

// NewCluster constructs a cluster with every kernel configured for the
// given range and peak level, starting on the sine shape.
func NewCluster(rng Range, max float32) *Cluster {
	return &Cluster{
		shape:    ShapeSine,
		sine:     Sine{base: newBase(rng, max)},
		triangle: Triangle{base: newBase(rng, max)},
		saw:      Saw{base: newBase(rng, max)},
		square:   Square{base: newBase(rng, max)},
	}
}

func (c *Cluster) active() Kernel {
	switch c.shape {
	case ShapeTriangle:
		return &c.triangle
	case ShapeSaw:
		return &c.saw
	case ShapeSquare:
		return &c.square
	default:
		return &c.sine
	}
}

// Shape reports which waveform is currently active.
func (c *Cluster) Shape() Shape { return c.shape }

// Trigger selects shape, (re)starts that kernel, and applies the starting
// phase offset — the three steps the reference engine always performs
// together at note-on.
func (c *Cluster) Trigger(shape Shape, freq, phaseDegrees float32, start StartLevel, internalDepth, extCtrlDepth uint16, flipPhase bool, sampleRate uint32) {
	c.shape = shape
	k := c.active()
	k.Trigger(freq, start, internalDepth, extCtrlDepth, flipPhase, sampleRate)
	k.SetPhase(phaseDegrees)
}

func (c *Cluster) Render() float32 { return c.active().Render() }

func (c *Cluster) UpdateByMIDICtrlValue(v uint16) { c.active().UpdateByMIDICtrlValue(v) }

func (c *Cluster) SetPhase(degrees float32) { c.active().SetPhase(degrees) }

func (c *Cluster) SetFrequency(freq float32, sampleRate uint32) {
	c.active().SetFrequency(freq, sampleRate)
}

func (c *Cluster) SetScriptDepthFactor(factor float32, isFinal bool) {
	c.active().SetScriptDepthFactor(factor, isFinal)
}

func (c *Cluster) SetScriptFrequencyFactor(factor float32, sampleRate uint32) {
	c.active().SetScriptFrequencyFactor(factor, sampleRate)
}

func (c *Cluster) SetScriptFrequencyFinal(hz float32, sampleRate uint32) {
	c.active().SetScriptFrequencyFinal(hz, sampleRate)
}
