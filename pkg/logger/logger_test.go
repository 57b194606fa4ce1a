package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pagebridge/pkg/config"
)

func unsetLoggingEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PAGEBRIDGE_LOG_FORMAT", "")
	t.Setenv("PAGEBRIDGE_LOG_LEVEL", "")
}

func TestLoggerJSONEntryShape(t *testing.T) {
	unsetLoggingEnv(t)

	var out bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "info"}, &out)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.With("topic", "facebook").Info("Transmitting to messages", "status", 200, "ok", true)

	line := strings.TrimSpace(out.String())
	if line == "" {
		t.Fatal("expected log output")
	}

	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshal log entry: %v", err)
	}

	if entry.Level != "info" {
		t.Fatalf("level = %q, want %q", entry.Level, "info")
	}
	if entry.Message != "Transmitting to messages" {
		t.Fatalf("message = %q", entry.Message)
	}
	if entry.Timestamp == "" {
		t.Fatal("expected timestamp")
	}
	if got := entry.Fields["topic"]; got != "facebook" {
		t.Fatalf("fields.topic = %v, want %q", got, "facebook")
	}
	if got := entry.Fields["status"]; got != float64(200) {
		t.Fatalf("fields.status = %v, want 200", got)
	}
	if got := entry.Fields["ok"]; got != true {
		t.Fatalf("fields.ok = %v, want true", got)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	unsetLoggingEnv(t)

	var out bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "error"}, &out)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.Info("dropped")
	log.Error("kept")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "kept") {
		t.Fatalf("output = %q, want only error line", out.String())
	}
}

func TestLoggerRejectsUnknownFormat(t *testing.T) {
	unsetLoggingEnv(t)

	if _, err := newWithWriter(config.LoggingConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	unsetLoggingEnv(t)

	if _, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestLoggerEnvOverridesFormat(t *testing.T) {
	unsetLoggingEnv(t)
	t.Setenv("PAGEBRIDGE_LOG_FORMAT", "json")

	var out bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "text"}, &out)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.Info("line")
	if !strings.HasPrefix(strings.TrimSpace(out.String()), "{") {
		t.Fatalf("expected JSON output, got %q", out.String())
	}
}
