package event

import "testing"

func TestRestampProducesIndependentCopy(t *testing.T) {
	e := New(1, TypeNoteOn)
	e.Note = NotePayload{Key: 60, Velocity: 100, NoteID: 7}

	r := e.Restamp(12345, 10)
	if e.ScheduleTime != 0 || e.FragmentPos != 0 {
		t.Fatalf("expected original event untouched by Restamp, got %+v", e)
	}
	if r.ScheduleTime != 12345 || r.FragmentPos != 10 {
		t.Fatalf("expected restamped copy to carry new time/pos, got %+v", r)
	}
	if r.Note != e.Note {
		t.Fatalf("expected payload preserved across Restamp")
	}
}

func TestValueScopeIsFinal(t *testing.T) {
	cases := map[ValueScope]bool{
		ScopeSelfRelative:      false,
		ScopeRelative:          false,
		ScopeFinalSelfRelative: true,
		ScopeFinalNorm:         true,
		ScopeFinalNative:       true,
	}
	for scope, want := range cases {
		if got := scope.IsFinal(); got != want {
			t.Errorf("%v.IsFinal() = %v, want %v", scope, got, want)
		}
	}
}

func TestPoolGetPutRecyclesAndZeroes(t *testing.T) {
	p := NewPool()
	e := p.Get()
	e.Note.Key = 42
	p.Put(e)

	e2 := p.Get()
	if e2.Note.Key != 0 {
		t.Fatalf("expected recycled event to be zeroed, got Key=%d", e2.Note.Key)
	}

	d := p.GetDiagnostics()
	if d.TotalAllocations != 1 {
		t.Fatalf("expected exactly one real allocation across get/put/get, got %d", d.TotalAllocations)
	}
	if d.PoolHits != 2 {
		t.Fatalf("expected two pool hits, got %d", d.PoolHits)
	}
}

func TestPoolHighWaterMarkTracksPeakConcurrentUse(t *testing.T) {
	p := NewPool()
	a := p.Get()
	b := p.Get()
	d := p.GetDiagnostics()
	if d.HighWaterMark != 2 {
		t.Fatalf("expected high water mark 2, got %d", d.HighWaterMark)
	}
	p.Put(a)
	p.Put(b)
	d = p.GetDiagnostics()
	if d.HighWaterMark != 2 {
		t.Fatalf("expected high water mark to remain 2 after release, got %d", d.HighWaterMark)
	}
	if d.CurrentAllocated != 0 {
		t.Fatalf("expected current allocated 0 after releasing both, got %d", d.CurrentAllocated)
	}
}
