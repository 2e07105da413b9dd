package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, false)

	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug message written at info level: %q", buf.String())
	}

	log.Info().Str("stage", "vertex").Msg("shown")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "shown" || entry["stage"] != "vertex" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["pid"]; !ok {
		t.Error("missing pid field")
	}
}

func TestNewWriterDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, true)
	log.Debug().Msg("frames")
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"debug"`)) {
		t.Errorf("debug message not written: %q", buf.String())
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, false).Warn().Str("diagnostic", "unused").Msg("Shader compiled with warnings")
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"warn"`)) {
		t.Errorf("warn message not written: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().Error().Str("k", "v").Msg("dropped")
}
