// Package rterr defines HostError, the one error severity in the scripting
// core allowed to carry a wrapped cause and stack context. It is reserved
// for failures on non-real-time paths: pool exhaustion, configuration
// problems, anything the audio thread itself must never construct.
package rterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// HostError reports a failure the hosting application, not a script author,
// is responsible for reacting to — e.g. the note pool being exhausted or
// the control-thread ingress queue dropping events under back-pressure.
type HostError struct {
	// Op names the operation that failed, e.g. "scheduler.InsertEvent".
	Op string
	// cause is wrapped with github.com/pkg/errors to retain a stack trace;
	// may be nil for host errors with no underlying error value.
	cause error
}

// NewHostError constructs a HostError for op with no underlying cause.
func NewHostError(op, message string) *HostError {
	return &HostError{Op: op, cause: errors.New(message)}
}

// WrapHostError wraps cause as a HostError for op, attaching a stack trace
// via github.com/pkg/errors. Returns nil if cause is nil.
func WrapHostError(op string, cause error) *HostError {
	if cause == nil {
		return nil
	}
	return &HostError{Op: op, cause: errors.Wrap(cause, op)}
}

func (e *HostError) Error() string {
	if e == nil {
		return "<nil HostError>"
	}
	return fmt.Sprintf("host error in %s: %v", e.Op, e.cause)
}

// Unwrap exposes the wrapped cause so callers can use errors.Is/errors.As.
func (e *HostError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// StackTrace forwards to the underlying pkg/errors stack, if the wrapped
// cause carries one, for diagnostic logging.
func (e *HostError) StackTrace() errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if e == nil || e.cause == nil {
		return nil
	}
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
