package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", c.SampleRate)
	}
	if c.EventGroupCount != 32 {
		t.Errorf("EventGroupCount = %d, want 32", c.EventGroupCount)
	}
	if c.ScriptCallbackPoolSize != 64 {
		t.Errorf("ScriptCallbackPoolSize = %d, want 64", c.ScriptCallbackPoolSize)
	}
}

func TestEnvOverrideTakesPriorityOverDefault(t *testing.T) {
	t.Setenv("RTSCRIPT_MAX_NOTES", "256")

	v, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MaxNotes != 256 {
		t.Errorf("MaxNotes = %d, want 256 from RTSCRIPT_MAX_NOTES", c.MaxNotes)
	}
}
