package rterr

import (
	"errors"
	"testing"
)

func TestWrapHostErrorNilCauseReturnsNil(t *testing.T) {
	if err := WrapHostError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWrapHostErrorUnwraps(t *testing.T) {
	cause := errors.New("pool exhausted")
	he := WrapHostError("notepool.Get", cause)
	if he == nil {
		t.Fatal("expected non-nil HostError")
	}
	if !errors.Is(he, cause) && he.Unwrap() == nil {
		t.Fatalf("expected Unwrap to expose wrapped cause")
	}
}

func TestHostErrorMessageIncludesOp(t *testing.T) {
	he := NewHostError("scheduler.InsertEvent", "queue full")
	if he.Error() == "" {
		t.Fatal("expected non-empty error message")
	}
}
