package sched

import (
	"testing"

	"github.com/coresampler/rtscript/pkg/scriptid"
)

func TestMarkUnmarkByMarks(t *testing.T) {
	c := NewCallback(1)
	id := scriptid.FromNoteID(7)

	if !c.Mark(2, id) {
		t.Fatalf("expected mark to succeed for an in-range group")
	}
	if got := c.ByMarks(2); len(got) != 1 || got[0] != id {
		t.Fatalf("expected ByMarks(2) to contain %v, got %v", id, got)
	}
	c.Unmark(2, id)
	if got := c.ByMarks(2); len(got) != 0 {
		t.Fatalf("expected ByMarks(2) empty after unmark, got %v", got)
	}
}

func TestMarkRejectsOutOfRangeGroup(t *testing.T) {
	c := NewCallback(1)
	if c.Mark(EventGroupCount, scriptid.FromNoteID(1)) {
		t.Fatalf("expected out-of-range group to be rejected")
	}
}

func TestCallbackStatusString(t *testing.T) {
	cases := map[CallbackStatus]string{
		CallbackRunning:    "RUNNING",
		CallbackQueued:     "QUEUE",
		CallbackTerminated: "TERMINATED",
		CallbackWaiting:    "WAITING",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", status, got, want)
		}
	}
}
