package vm

import "fmt"

// Warning is the lightest error severity (spec.md §7): logged, never
// aborts the current script. Allocation-light since it can occur on the
// audio-thread hot path.
type Warning struct {
	Op      string
	Message string
}

// NewWarning constructs a Warning, printf-formatting Message.
func NewWarning(op, format string, args ...interface{}) Warning {
	return Warning{Op: op, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) Error() string {
	return fmt.Sprintf("warning in %s: %s", w.Op, w.Message)
}

// ScriptError terminates the current script execution context but
// leaves other handlers alive. Constructed with NewScriptError; see
// spec.md §7. Also allocation-light for the same hot-path reason as Warning.
type ScriptError struct {
	Op      string
	Message string
}

// NewScriptError constructs a ScriptError, printf-formatting Message.
func NewScriptError(op, format string, args ...interface{}) ScriptError {
	return ScriptError{Op: op, Message: fmt.Sprintf(format, args...)}
}

func (e ScriptError) Error() string {
	return fmt.Sprintf("script error in %s: %s", e.Op, e.Message)
}
