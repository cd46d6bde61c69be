package thread

import (
	"context"
	"testing"
	"time"
)

func TestWorkerLifecycle(t *testing.T) {
	w := New(Options{Name: "test-worker"})
	if w.State() != NotRunning {
		t.Fatalf("expected NotRunning, got %v", w.State())
	}

	started := make(chan struct{})
	if err := w.Start(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker never started")
	}
	if w.State() != Running {
		t.Fatalf("expected Running, got %v", w.State())
	}

	w.Stop()
	if w.State() != NotRunning {
		t.Fatalf("expected NotRunning after Stop, got %v", w.State())
	}
}

func TestWorkerSelfTerminatesPendingJoin(t *testing.T) {
	w := New(Options{Name: "self-terminating"})
	done := make(chan struct{})
	if err := w.Start(func(ctx context.Context) {
		close(done)
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-done
	// give the goroutine a moment to flip state after returning
	deadline := time.Now().Add(time.Second)
	for w.State() != PendingJoin && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if w.State() != PendingJoin {
		t.Fatalf("expected PendingJoin, got %v", w.State())
	}

	w.Detach()
	if w.State() != Detached {
		t.Fatalf("expected Detached, got %v", w.State())
	}
}

func TestCancelabilityStackDiscipline(t *testing.T) {
	s := NewCancelStack()
	if !s.Cancelable() {
		t.Fatalf("expected cancelable by default")
	}

	scope := s.PushCancelable(false)
	if s.Cancelable() {
		t.Fatalf("expected non-cancelable after push")
	}
	scope.Pop()
	if !s.Cancelable() {
		t.Fatalf("expected cancelable restored after pop")
	}
}

func TestWithGuardedSection(t *testing.T) {
	s := NewCancelStack()
	ran := false
	WithGuardedSection(s, func() {
		if s.Cancelable() {
			t.Fatalf("expected guarded section to be non-cancelable")
		}
		ran = true
	})
	if !ran {
		t.Fatalf("guarded section never ran")
	}
	if !s.Cancelable() {
		t.Fatalf("expected cancelable restored after guarded section")
	}
}

func TestPopWithoutPushPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from unmatched Pop")
		}
	}()
	s := NewCancelStack()
	CancelScope{stack: s}.Pop()
}
