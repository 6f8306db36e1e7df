package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithWriterFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output should be suppressed, got %q", buf.String())
	}
}
