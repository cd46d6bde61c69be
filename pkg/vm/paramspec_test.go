package vm

import (
	"math"
	"testing"

	"github.com/coresampler/rtscript/pkg/event"
)

func TestEngineValueBelUnadornedIsMilliDB(t *testing.T) {
	spec := paramSpecs["change_vol"]
	v, nativeLiteral, warn := spec.engineValue(Real64(-6000))
	if warn {
		t.Fatalf("unexpected clamp warning")
	}
	if nativeLiteral {
		t.Fatalf("Bel-kinded params never report a native literal")
	}
	want := float32(math.Pow(10, -6.0/20))
	if math.Abs(float64(v-want)) > 0.0005 {
		t.Fatalf("engineValue(-6000) = %v, want ~%v", v, want)
	}
}

func TestEngineValueBelClampsToRange(t *testing.T) {
	spec := paramSpecs["change_vol"]
	v, _, warn := spec.engineValue(Real64(-2000000))
	if !warn {
		t.Fatalf("expected a clamp warning for an out-of-range dB value")
	}
	if v != float32(math.Pow(10, spec.Min/1000/20)) {
		t.Fatalf("expected clamping to spec.Min, got %v", v)
	}
}

func TestEngineValueHertzWithUnitPassesThroughUnscaled(t *testing.T) {
	spec := paramSpecs["change_cutoff"]
	raw := Real64(440)
	raw.Unit = UnitHertz
	v, nativeLiteral, _ := spec.engineValue(raw)
	if !nativeLiteral {
		t.Fatalf("expected a Hertz-unit argument to report nativeLiteral=true")
	}
	if v != 440 {
		t.Fatalf("engineValue(440 Hz) = %v, want 440", v)
	}
}

func TestEngineValueHertzUnitlessIsNormalized(t *testing.T) {
	spec := paramSpecs["change_cutoff"]
	v, nativeLiteral, _ := spec.engineValue(Real64(500000))
	if nativeLiteral {
		t.Fatalf("unitless argument must not report nativeLiteral")
	}
	if v != 0.5 {
		t.Fatalf("engineValue(500000) = %v, want 0.5 (scale 1e6)", v)
	}
}

func TestEngineValuePanUsesScale1000(t *testing.T) {
	spec := paramSpecs["change_pan"]
	v, _, _ := spec.engineValue(Real64(-1000))
	if v != -1 {
		t.Fatalf("engineValue(-1000) = %v, want -1 (scale 1000 per spec's \"1,000 for pan\")", v)
	}
}

func TestDeriveScopeMatrix(t *testing.T) {
	cases := []struct {
		final, relative, nativeLiteral bool
		want                           event.ValueScope
	}{
		{false, false, false, event.ScopeRelative},
		{false, true, false, event.ScopeSelfRelative},
		{true, false, false, event.ScopeFinalNorm},
		{true, false, true, event.ScopeFinalNative},
		{true, true, false, event.ScopeFinalSelfRelative},
	}
	for _, c := range cases {
		got := deriveScope(c.final, c.relative, c.nativeLiteral)
		if got != c.want {
			t.Errorf("deriveScope(%v,%v,%v) = %v, want %v", c.final, c.relative, c.nativeLiteral, got, c.want)
		}
	}
}
