package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(Config{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Info("quote exported", zap.Int("pages", 3))
	_ = log.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "quote exported" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["pages"] != float64(3) {
		t.Fatalf("pages = %v", entry["pages"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatal("missing timestamp key")
	}
}

func TestNewWriter_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(Config{Level: "chatty", Format: "json"}, &buf)
	log.Debug("hidden")
	log.Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("written")
	if err := log.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}
