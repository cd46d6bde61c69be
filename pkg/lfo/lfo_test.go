package lfo

import (
	"math"
	"testing"
)

const testSampleRate = 44100

func TestSawSignedStaysInRange(t *testing.T) {
	s := NewSaw(RangeSigned, 1.0)
	s.Trigger(2.0, StartMin, 1200, 0, false, testSampleRate)
	for i := 0; i < testSampleRate; i++ {
		v := s.Render()
		if v < -1.01 || v > 1.01 {
			t.Fatalf("sample %d out of range: %f", i, v)
		}
	}
}

func TestSquareSignedAlternatesBetweenTwoLevels(t *testing.T) {
	q := NewSquare(RangeSigned, 1.0)
	q.Trigger(100.0, StartMax, 1200, 0, false, testSampleRate)
	seen := map[float32]bool{}
	for i := 0; i < 1000; i++ {
		seen[q.Render()] = true
	}
	if len(seen) > 2 {
		t.Fatalf("expected at most 2 distinct levels, got %d", len(seen))
	}
}

func TestSineSignedBounded(t *testing.T) {
	s := NewSine(RangeSigned, 1.0)
	s.Trigger(5.0, StartMin, 1200, 0, false, testSampleRate)
	for i := 0; i < testSampleRate; i++ {
		v := s.Render()
		if math.Abs(float64(v)) > 1.1 {
			t.Fatalf("sample %d out of range: %f", i, v)
		}
	}
}

func TestSineUnsignedNonNegative(t *testing.T) {
	s := NewSine(RangeUnsigned, 1.0)
	s.Trigger(5.0, StartMin, 1200, 0, false, testSampleRate)
	for i := 0; i < testSampleRate; i++ {
		v := s.Render()
		if v < -0.01 {
			t.Fatalf("sample %d negative in unsigned range: %f", i, v)
		}
	}
}

func TestTriangleMidFallsThroughToMax(t *testing.T) {
	mid := NewTriangle(RangeSigned, 1.0)
	mid.Trigger(10.0, StartMid, 1200, 0, false, testSampleRate)

	max := NewTriangle(RangeSigned, 1.0)
	max.Trigger(10.0, StartMax, 1200, 0, false, testSampleRate)

	for i := 0; i < 10; i++ {
		a, b := mid.Render(), max.Render()
		if math.Abs(float64(a-b)) > 1e-5 {
			t.Fatalf("expected StartMid to alias StartMax, diverged at sample %d: %f vs %f", i, a, b)
		}
	}
}

func TestScriptDepthFactorScalesAmplitude(t *testing.T) {
	s := NewSine(RangeSigned, 1.0)
	s.Trigger(5.0, StartMin, 1200, 0, false, testSampleRate)
	s.SetScriptDepthFactor(0.5, false)

	peak := float32(0)
	for i := 0; i < testSampleRate/5; i++ {
		v := s.Render()
		if v > peak {
			peak = v
		}
	}
	if peak > 0.6 {
		t.Fatalf("expected depth factor to roughly halve amplitude, got peak %f", peak)
	}
}

func TestClusterDispatchesToSelectedShape(t *testing.T) {
	c := NewCluster(RangeSigned, 1.0)
	c.Trigger(ShapeSquare, 100.0, 0, StartMax, 1200, 0, false, testSampleRate)
	if c.Shape() != ShapeSquare {
		t.Fatalf("expected ShapeSquare, got %v", c.Shape())
	}

	seen := map[float32]bool{}
	for i := 0; i < 200; i++ {
		seen[c.Render()] = true
	}
	if len(seen) > 2 {
		t.Fatalf("square cluster produced more than 2 distinct levels: %d", len(seen))
	}

	c.Trigger(ShapeSine, 5.0, 0, StartMin, 1200, 0, false, testSampleRate)
	if c.Shape() != ShapeSine {
		t.Fatalf("expected ShapeSine after retrigger, got %v", c.Shape())
	}
}

func TestUpdateByMIDICtrlValueAddsDepth(t *testing.T) {
	s := NewSine(RangeSigned, 1.0)
	s.Trigger(5.0, StartMin, 0, 1200, false, testSampleRate)

	s.UpdateByMIDICtrlValue(0)
	peakLow := float32(0)
	for i := 0; i < testSampleRate/5; i++ {
		v := s.Render()
		if v > peakLow {
			peakLow = v
		}
	}

	s2 := NewSine(RangeSigned, 1.0)
	s2.Trigger(5.0, StartMin, 0, 1200, false, testSampleRate)
	s2.UpdateByMIDICtrlValue(127)
	peakHigh := float32(0)
	for i := 0; i < testSampleRate/5; i++ {
		v := s2.Render()
		if v > peakHigh {
			peakHigh = v
		}
	}

	if peakHigh <= peakLow {
		t.Fatalf("expected higher MIDI controller value to increase depth: low=%f high=%f", peakLow, peakHigh)
	}
}
