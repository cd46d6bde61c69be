package enginechannel

import (
	"testing"

	"github.com/coresampler/rtscript/pkg/config"
	"github.com/coresampler/rtscript/pkg/event"
	"github.com/coresampler/rtscript/pkg/ingress"
	"github.com/coresampler/rtscript/pkg/vm"
)

func testConfig() config.Config {
	return config.Config{
		SampleRate:             44100,
		MaxNotes:               8,
		MaxVoicesPerNote:       4,
		MaxForksPerHandler:     4,
		EventGroupCount:        32,
		ScriptCallbackPoolSize: 4,
		IngressCapacity:        16,
	}
}

func TestScheduleNoteMicroSecCreatesNoteImmediately(t *testing.T) {
	c := New(testConfig(), nil, nil, nil)

	noteOn := event.New(0, event.TypeNoteOn)
	noteOn.Note = event.NotePayload{Key: 60, Velocity: 100}

	id := c.ScheduleNoteMicroSec(noteOn, 0)
	if id == 0 {
		t.Fatalf("expected non-zero note id")
	}
	n, ok := c.NoteByID(id)
	if !ok {
		t.Fatalf("expected note %v to exist immediately after scheduling", id)
	}
	if n.HostKey() != 60 {
		t.Errorf("HostKey = %d, want 60", n.HostKey())
	}
}

func TestScheduleNoteMicroSecExhaustsPool(t *testing.T) {
	cfg := testConfig()
	cfg.MaxNotes = 1
	c := New(cfg, nil, nil, nil)

	noteOn := event.New(0, event.TypeNoteOn)
	if id := c.ScheduleNoteMicroSec(noteOn, 0); id == 0 {
		t.Fatalf("expected first note to be created")
	}
	if id := c.ScheduleNoteMicroSec(noteOn, 0); id != 0 {
		t.Errorf("expected pool-exhausted note to return id 0, got %v", id)
	}
}

func TestProcessFragmentDispatchesNoteOnToBoundHandler(t *testing.T) {
	c := New(testConfig(), nil, nil, nil)

	var gotIsNoteHandler bool
	var callCount int
	c.BindHandler(func(ctx *vm.Context, ev event.Event) {
		callCount++
		gotIsNoteHandler = ctx.IsNoteHandler
	})

	noteOn := event.New(0, event.TypeNoteOn)
	noteOn.Note = event.NotePayload{Key: 64, Velocity: 90}
	c.ScheduleNoteMicroSec(noteOn, 0)

	c.ProcessFragment(512, 44100)

	if callCount != 1 {
		t.Fatalf("expected handler invoked exactly once, got %d", callCount)
	}
	if !gotIsNoteHandler {
		t.Errorf("expected IsNoteHandler true for a note-on dispatch")
	}
}

func TestProcessFragmentAppliesScheduledSynthParam(t *testing.T) {
	c := New(testConfig(), nil, nil, nil)

	noteOn := event.New(0, event.TypeNoteOn)
	id := c.ScheduleNoteMicroSec(noteOn, 0)

	c.ScheduleEventMicroSec(event.Event{
		Type:       event.TypeNoteSynthParam,
		SynthParam: event.SynthParamPayload{NoteID: uint64(id), Param: event.ParamCutoff, Delta: 2000, Scope: event.ScopeFinalNative},
	}, 0)

	c.ProcessFragment(512, 44100)

	n, ok := c.NoteByID(id)
	if !ok {
		t.Fatalf("expected note to survive ProcessFragment")
	}
	if got := n.Override.Cutoff.Value; got != 2000 {
		t.Errorf("Cutoff = %v, want 2000", got)
	}
}

func TestProcessFragmentRemovesNoteOnKillNote(t *testing.T) {
	c := New(testConfig(), nil, nil, nil)

	noteOn := event.New(0, event.TypeNoteOn)
	id := c.ScheduleNoteMicroSec(noteOn, 0)

	kill := event.New(0, event.TypeKillNote)
	kill.Note = event.NotePayload{NoteID: uint64(id)}
	c.ScheduleEventMicroSec(kill, 0)

	c.ProcessFragment(512, 44100)

	if _, ok := c.NoteByID(id); ok {
		t.Errorf("expected note %v to be removed after KillNote dispatch", id)
	}
}

func TestProcessFragmentDrainsIngressQueue(t *testing.T) {
	in := ingress.New(8, nil)
	c := New(testConfig(), nil, nil, in)

	var callCount int
	c.BindHandler(func(ctx *vm.Context, ev event.Event) { callCount++ })

	e := event.New(0, event.TypeNoteOn)
	e.Note = event.NotePayload{Key: 72}
	e.ScheduleTime = 0
	in.Push(e)

	c.ProcessFragment(512, 44100)

	if callCount != 1 {
		t.Fatalf("expected ingress-originated note-on to be dispatched once, got %d", callCount)
	}
}

func TestForkScriptCallbackTracksParentChild(t *testing.T) {
	c := New(testConfig(), nil, nil, nil)

	child, ok := c.ForkScriptCallback(c.RootCallback(), true)
	if !ok {
		t.Fatalf("expected fork to succeed")
	}
	if !child.HasParent || child.ParentID != c.RootCallback() {
		t.Errorf("expected child to record root as parent, got %+v", child)
	}
	root, _ := c.ScriptCallbackByID(c.RootCallback())
	if len(root.ChildIDs) != 1 || root.ChildIDs[0] != child.ID {
		t.Errorf("expected root to track forked child, got %+v", root.ChildIDs)
	}
}

func TestForkScriptCallbackFailsWhenPoolExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.ScriptCallbackPoolSize = 1 // root already occupies the only slot
	c := New(cfg, nil, nil, nil)

	if _, ok := c.ForkScriptCallback(c.RootCallback(), false); ok {
		t.Errorf("expected fork to fail with no free callback slots")
	}
}

func TestEngineUptimeAdvancesPerFragment(t *testing.T) {
	c := New(testConfig(), nil, nil, nil)

	c.ProcessFragment(44100, 44100) // exactly 1 second at 44.1kHz
	if got := c.EngineUptimeMicros(); got != 1_000_000 {
		t.Errorf("EngineUptimeMicros = %d, want 1000000", got)
	}
}
