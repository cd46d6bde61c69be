package ingress

import (
	"testing"

	"github.com/coresampler/rtscript/pkg/event"
)

func TestPushDrainRoundTrip(t *testing.T) {
	q := New(4, nil)

	a := event.New(1, event.TypeNoteOn)
	a.Note = event.NotePayload{Key: 60, Velocity: 100}
	a.ScheduleTime = 1000
	b := event.New(2, event.TypeControlChange)
	b.Controller = event.ControllerPayload{Controller: 7, Value: 64}
	b.ScheduleTime = 2000

	q.Push(a)
	q.Push(b)

	var got []event.Event
	q.DrainAll(func(e event.Event) { got = append(got, e) })

	if len(got) != 2 {
		t.Fatalf("expected 2 drained events, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Note.Key != 60 || got[0].ScheduleTime != 1000 {
		t.Errorf("first event mismatch: %+v", got[0])
	}
	if got[1].ID != 2 || got[1].Controller.Controller != 7 || got[1].Controller.Value != 64 {
		t.Errorf("second event mismatch: %+v", got[1])
	}
}

func TestPushDropsOldestOnOverflow(t *testing.T) {
	q := New(2, nil)

	for i := 1; i <= 4; i++ {
		e := event.New(event.ID(i), event.TypeNoteOn)
		e.ScheduleTime = int64(i)
		q.Push(e)
	}

	var got []event.Event
	q.DrainAll(func(e event.Event) { got = append(got, e) })

	if q.Dropped() == 0 {
		t.Fatalf("expected at least one dropped event after overflowing a capacity-2 queue with 4 pushes")
	}
	if len(got) == 0 {
		t.Fatalf("expected surviving events after overflow, got none")
	}
	for _, e := range got {
		if e.ScheduleTime < 1 || e.ScheduleTime > 4 {
			t.Errorf("unexpected surviving event: %+v", e)
		}
	}
}
