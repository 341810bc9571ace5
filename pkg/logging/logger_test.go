package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewJSONLoggerWritesUTCTimestamps(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf, Component: "engine"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("interaction started", "interaction", "abc")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v (%s)", err, buf.String())
	}
	if record["msg"] != "interaction started" || record["component"] != "engine" || record["interaction"] != "abc" {
		t.Fatalf("unexpected record %v", record)
	}
	ts, ok := record["time"].(string)
	if !ok {
		t.Fatalf("expected string timestamp, got %v", record["time"])
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("expected RFC3339 timestamp: %v", err)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %q", ts)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
