package vm

import (
	"github.com/coresampler/rtscript/pkg/note"
	"github.com/coresampler/rtscript/pkg/scriptid"
)

// Named wrappers over ChangeParam — one per change_* built-in sharing
// the generic template (spec.md §4.5). Each just binds the function
// name to its paramSpecs entry.

func (c *Context) ChangeVol(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_vol", ids, v, relative)
}
func (c *Context) ChangeTune(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_tune", ids, v, relative)
}
func (c *Context) ChangePan(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_pan", ids, v, relative)
}
func (c *Context) ChangeCutoff(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff", ids, v, relative)
}
func (c *Context) ChangeReso(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_reso", ids, v, relative)
}
func (c *Context) ChangeAttack(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_attack", ids, v, relative)
}
func (c *Context) ChangeDecay(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_decay", ids, v, relative)
}
func (c *Context) ChangeSustain(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_sustain", ids, v, relative)
}
func (c *Context) ChangeRelease(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_release", ids, v, relative)
}
func (c *Context) ChangeCutoffAttack(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff_attack", ids, v, relative)
}
func (c *Context) ChangeCutoffDecay(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff_decay", ids, v, relative)
}
func (c *Context) ChangeCutoffSustain(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff_sustain", ids, v, relative)
}
func (c *Context) ChangeCutoffRelease(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff_release", ids, v, relative)
}
func (c *Context) ChangeAmpLFODepth(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_amp_lfo_depth", ids, v, relative)
}
func (c *Context) ChangeAmpLFOFreq(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_amp_lfo_freq", ids, v, relative)
}
func (c *Context) ChangeCutoffLFODepth(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff_lfo_depth", ids, v, relative)
}
func (c *Context) ChangeCutoffLFOFreq(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_cutoff_lfo_freq", ids, v, relative)
}
func (c *Context) ChangePitchLFODepth(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_pitch_lfo_depth", ids, v, relative)
}
func (c *Context) ChangePitchLFOFreq(ids []scriptid.ID, v Value, relative bool) error {
	return c.ChangeParam("change_pitch_lfo_freq", ids, v, relative)
}

// timeField identifies one of the three *Time Override fields, which
// sit outside the SynthParamKind dispatch table (spec.md §3 lists no
// event kind for them) and so are apply-now-only: a change request
// arriving outside the note's trigger slice is rejected with a warning
// rather than scheduled, since there is no event representation to
// schedule it as.
type timeField int

const (
	timeFieldVolume timeField = iota
	timeFieldPitch
	timeFieldPan
)

func (c *Context) changeTime(op string, ids []scriptid.ID, field timeField, seconds float32) error {
	for _, id := range ids {
		n, applyNow := c.noteAndApplyNow(note.ID(id.Untagged()))
		if n == nil {
			c.warn(op, "note %v not found", id)
			continue
		}
		if !applyNow {
			c.warn(op, "note %v already rendering, time change rejected", id)
			continue
		}
		switch field {
		case timeFieldVolume:
			n.Override.VolumeTime = seconds
		case timeFieldPitch:
			n.Override.PitchTime = seconds
		case timeFieldPan:
			n.Override.PanTime = seconds
		}
	}
	return nil
}

func (c *Context) ChangeVolTime(ids []scriptid.ID, seconds float32) error {
	return c.changeTime("change_vol_time", ids, timeFieldVolume, seconds)
}
func (c *Context) ChangeTuneTime(ids []scriptid.ID, seconds float32) error {
	return c.changeTime("change_tune_time", ids, timeFieldPitch, seconds)
}
func (c *Context) ChangePanTime(ids []scriptid.ID, seconds float32) error {
	return c.changeTime("change_pan_time", ids, timeFieldPan, seconds)
}

// curveField identifies one of the three *Curve Override fields, same
// apply-now-only reasoning as timeField.
type curveField int

const (
	curveFieldVolume curveField = iota
	curveFieldPitch
	curveFieldPan
)

func (c *Context) changeCurve(op string, ids []scriptid.ID, field curveField, curve note.FadeCurve) error {
	if curve != note.FadeCurveLinear && curve != note.FadeCurveEaseInEaseOut {
		return c.warn(op, "invalid curve value %d", curve)
	}
	for _, id := range ids {
		n, applyNow := c.noteAndApplyNow(note.ID(id.Untagged()))
		if n == nil {
			c.warn(op, "note %v not found", id)
			continue
		}
		if !applyNow {
			c.warn(op, "note %v already rendering, curve change rejected", id)
			continue
		}
		switch field {
		case curveFieldVolume:
			n.Override.VolumeCurve = curve
		case curveFieldPitch:
			n.Override.PitchCurve = curve
		case curveFieldPan:
			n.Override.PanCurve = curve
		}
	}
	return nil
}

func (c *Context) ChangeVolCurve(ids []scriptid.ID, curve note.FadeCurve) error {
	return c.changeCurve("change_vol_curve", ids, curveFieldVolume, curve)
}
func (c *Context) ChangeTuneCurve(ids []scriptid.ID, curve note.FadeCurve) error {
	return c.changeCurve("change_tune_curve", ids, curveFieldPitch, curve)
}
func (c *Context) ChangePanCurve(ids []scriptid.ID, curve note.FadeCurve) error {
	return c.changeCurve("change_pan_curve", ids, curveFieldPan, curve)
}
