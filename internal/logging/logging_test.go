package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNonTerminalWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Info("world ready", "seed", 42)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON record, got %q", buf.String())
	}
	if rec["msg"] != "world ready" || rec["seed"].(float64) != 42 {
		t.Fatalf("record = %v", rec)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged without verbose: %q", buf.String())
	}
	New(&buf, true).Debug("shown")
	if buf.Len() == 0 {
		t.Fatal("debug not logged with verbose")
	}
}
