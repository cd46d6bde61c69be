package vm

import (
	"github.com/coresampler/rtscript/pkg/event"
	"github.com/coresampler/rtscript/pkg/note"
	"github.com/coresampler/rtscript/pkg/sched"
)

// fakeScheduler is a minimal in-memory sched.Scheduler double used only
// by this package's tests, standing in for the full enginechannel
// harness so built-ins can be exercised in isolation.
type fakeScheduler struct {
	notes       map[note.ID]*note.Note
	events      map[event.ID]event.Event
	callbacks   map[sched.CallbackID]*sched.Callback
	currentTime int64
	uptimeUs    int64
	nextNoteID  uint64
	nextEventID uint64
	scheduled   []event.Event
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		notes:     map[note.ID]*note.Note{},
		events:    map[event.ID]event.Event{},
		callbacks: map[sched.CallbackID]*sched.Callback{},
	}
}

func (f *fakeScheduler) addNote(n *note.Note) { f.notes[n.ID()] = n }

func (f *fakeScheduler) ScheduleNoteMicroSec(e event.Event, usFromNow int64) note.ID {
	f.nextNoteID++
	id := note.ID(f.nextNoteID)
	n := note.New(id, int(e.Note.Key), e.Restamp(f.currentTime+usFromNow, 0))
	f.notes[id] = n
	return id
}

func (f *fakeScheduler) ScheduleEventMicroSec(e event.Event, usFromNow int64) event.ID {
	f.nextEventID++
	id := event.ID(f.nextEventID)
	e.ID = id
	e = e.Restamp(f.currentTime+usFromNow, 0)
	f.events[id] = e
	f.scheduled = append(f.scheduled, e)
	return id
}

func (f *fakeScheduler) ScheduleResumeOfScriptCallback(id sched.CallbackID, baseTimeUs int64, disableWait bool) {
	if cb, ok := f.callbacks[id]; ok {
		cb.Status = sched.CallbackRunning
		cb.WaitDisabled = disableWait
	}
}

func (f *fakeScheduler) NoteByID(id note.ID) (*note.Note, bool) {
	n, ok := f.notes[id]
	return n, ok
}
func (f *fakeScheduler) EventByID(id event.ID) (event.Event, bool) {
	e, ok := f.events[id]
	return e, ok
}
func (f *fakeScheduler) ScriptCallbackByID(id sched.CallbackID) (*sched.Callback, bool) {
	cb, ok := f.callbacks[id]
	return cb, ok
}
func (f *fakeScheduler) ScriptCallbackID(e event.Event) sched.CallbackID { return 1 }

func (f *fakeScheduler) AllNoteIDs(out []note.ID) int {
	i := 0
	for id := range f.notes {
		if i >= len(out) {
			break
		}
		out[i] = id
		i++
	}
	return i
}

func (f *fakeScheduler) HasFreeScriptCallbacks(n int) bool { return len(f.callbacks)+n <= 8 }

func (f *fakeScheduler) ForkScriptCallback(parent sched.CallbackID, autoAbort bool) (*sched.Callback, bool) {
	if !f.HasFreeScriptCallbacks(1) {
		return nil, false
	}
	id := sched.CallbackID(len(f.callbacks) + 1)
	p := f.callbacks[parent]
	forkIndex := 1
	if p != nil {
		forkIndex = len(p.ChildIDs) + 1
	}
	child := &sched.Callback{ID: id, Status: sched.CallbackRunning, HasParent: true, ParentID: parent, ForkIndex: forkIndex, AutoAbortChildren: autoAbort}
	f.callbacks[id] = child
	if p != nil {
		p.ChildIDs = append(p.ChildIDs, id)
	}
	return child, true
}

func (f *fakeScheduler) CurrentEventTime() int64   { return f.currentTime }
func (f *fakeScheduler) EngineUptimeMicros() int64 { return f.uptimeUs }
