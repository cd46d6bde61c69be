package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerWritesComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "scheduler")
	l.Warning("fragment overrun")

	out := buf.String()
	if !strings.Contains(out, `"component":"scheduler"`) {
		t.Fatalf("expected component field in output: %s", out)
	}
	if !strings.Contains(out, "fragment overrun") {
		t.Fatalf("expected message in output: %s", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected warn level in output: %s", out)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	l.Debug("should not panic")
	l.Warningf("nor should this: %d", 1)
}

func TestWithAddsStructuredField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "vm").With("noteId", uint64(42))
	l.Info("note triggered")

	out := buf.String()
	if !strings.Contains(out, `"noteId":42`) {
		t.Fatalf("expected noteId field in output: %s", out)
	}
}
