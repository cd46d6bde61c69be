package scriptid

import "testing"

func TestNoteAndEventIDsDoNotCollide(t *testing.T) {
	n := FromNoteID(42)
	e := FromEventID(42)
	if n == e {
		t.Fatalf("expected note id and event id tagging of the same raw value to differ")
	}
	if !n.IsNote() || e.IsNote() {
		t.Fatalf("expected IsNote/IsEvent to classify correctly: n=%v e=%v", n, e)
	}
	if n.Untagged() != 42 || e.Untagged() != 42 {
		t.Fatalf("expected Untagged to recover the raw value regardless of tag")
	}
}

func TestZeroIsNeitherSpecialCased(t *testing.T) {
	if Zero.IsEvent() {
		t.Fatalf("expected Zero to read as a (failure) note id, not an event id")
	}
}
