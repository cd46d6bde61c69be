package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.nksp")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLintCommandReportsNoIssuesForValidScript(t *testing.T) {
	path := writeScript(t, "on note\n  play_note(60, 127, 0, 500000)\nend on\n")
	out, err := runCmd(t, "lint", path)
	if err != nil {
		t.Fatalf("unexpected error: %v, output: %s", err, out)
	}
	if !strings.Contains(out, "no issues found") {
		t.Errorf("output = %q, want a no-issues message", out)
	}
}

func TestLintCommandFlagsArityViolation(t *testing.T) {
	path := writeScript(t, "on note\n  change_vol($EVENT_ID)\nend on\n")
	out, err := runCmd(t, "lint", path)
	if err == nil {
		t.Fatalf("expected an error for a bad arity call, output: %s", out)
	}
	if !strings.Contains(out, "change_vol") {
		t.Errorf("output = %q, want it to name the offending call", out)
	}
}

func TestLintCommandVerboseListsTokens(t *testing.T) {
	path := writeScript(t, "declare $x := 1\n")
	out, err := runCmd(t, "lint", "--verbose", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "VARIABLE_NAME") {
		t.Errorf("output = %q, want a VARIABLE_NAME token line", out)
	}
}

func TestLintCommandErrorsOnMissingFile(t *testing.T) {
	_, err := runCmd(t, "lint", "/nonexistent/path/script.nksp")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRunCommandPrintsNoteTimeline(t *testing.T) {
	path := writeScript(t, "on note\n  play_note($EVENT_NOTE, $EVENT_VELOCITY, 0, -1)\nend on\n")
	out, err := runCmd(t, "run", path, "--note", "64", "--velocity", "90", "--fragments", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v, output: %s", err, out)
	}
	if !strings.Contains(out, "fired note-on: key=64 velocity=90") {
		t.Errorf("output missing fired note-on line: %q", out)
	}
	if !strings.Contains(out, "volume=") || !strings.Contains(out, "cutoff=") {
		t.Errorf("output missing override report: %q", out)
	}
}

func TestRunCommandAppliesVolumeAndCutoffApplyNow(t *testing.T) {
	path := writeScript(t, "on note\n  play_note(60, 127, 0, 0)\nend on\n")
	out, err := runCmd(t, "run", path, "--volume-db", "-12", "--cutoff-hz", "1000", "--fragments", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v, output: %s", err, out)
	}
	if !strings.Contains(out, "cutoff=1000.00") {
		t.Errorf("expected change_cutoff to apply-now to 1000.00, got: %q", out)
	}
}

func TestRunCommandSurfacesLintDiagnosticsBeforeRunning(t *testing.T) {
	path := writeScript(t, "on note\n  change_vol($EVENT_ID)\nend on\n")
	out, err := runCmd(t, "run", path, "--fragments", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v, output: %s", err, out)
	}
	if !strings.Contains(out, "change_vol") {
		t.Errorf("expected the script's own arity violation to be reported, got: %q", out)
	}
	if !strings.Contains(out, "fired note-on") {
		t.Errorf("expected the demo session to still run after reporting lint diagnostics, got: %q", out)
	}
}

func TestRunCommandErrorsOnMissingFile(t *testing.T) {
	_, err := runCmd(t, "run", "/nonexistent/path/script.nksp")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
