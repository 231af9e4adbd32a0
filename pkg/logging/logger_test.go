package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	if err := logger.Info(CategoryConfig, "layout_loaded", "loaded layout", map[string]any{"widgets": 6}); err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if err := logger.Error(CategoryScrape, "fetch_failed", "fetch failed", nil); err != nil {
		t.Fatalf("Error failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("reading events.jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 events, got %d", len(lines))
	}

	var event Event
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("unmarshaling event: %v", err)
	}
	if event.Category != CategoryConfig || event.EventType != "layout_loaded" {
		t.Errorf("unexpected event: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be filled in")
	}

	errData, err := os.ReadFile(filepath.Join(dir, "errors.jsonl"))
	if err != nil {
		t.Fatalf("reading errors.jsonl: %v", err)
	}
	errLines := strings.Split(strings.TrimSpace(string(errData)), "\n")
	if len(errLines) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(errLines))
	}
	if !strings.Contains(errLines[0], "fetch_failed") {
		t.Errorf("error log missing event: %s", errLines[0])
	}
}

func TestMinLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Debug(CategoryWidget, "probe", "should be dropped", nil)
	logger.Info(CategoryWidget, "kept", "should be kept", nil)

	data, _ := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if strings.Contains(string(data), "probe") {
		t.Error("debug event written despite info minimum level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("info event missing")
	}
}

func TestWidgetFailureCarriesNameAndCause(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)

	logger.WidgetFailure(CategoryWidget, "render_failed", "weather", errors.New("selector missing"))

	out := buf.String()
	if !strings.Contains(out, "widget=weather") {
		t.Errorf("console output missing widget name: %s", out)
	}
	if !strings.Contains(out, "selector missing") {
		t.Errorf("console output missing cause: %s", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	if err := logger.Log(Event{Level: LevelInfo}); err != nil {
		t.Errorf("nil logger Log returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("nil logger Close returned error: %v", err)
	}
}
