package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"Warn", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	Initialize(Config{Level: WarnLevel})
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("debug message")
	Info("info message")
	Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug/info suppressed at warn level, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn message emitted, got: %s", out)
	}
}

func TestJSONOutput(t *testing.T) {
	Initialize(Config{Level: InfoLevel, JSON: true})
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("structured", String("crate", "serde"), Int("count", 3))

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Message != "structured" {
		t.Errorf("expected message 'structured', got %q", entry.Message)
	}
	if entry.Fields["crate"] != "serde" {
		t.Errorf("expected crate field, got %v", entry.Fields)
	}
}

func TestFieldHelpers(t *testing.T) {
	f := String("k", "v")
	if f.Key != "k" || f.Value != "v" {
		t.Errorf("String field mismatch: %+v", f)
	}
	b := Bool("ok", true)
	if b.Value != true {
		t.Errorf("Bool field mismatch: %+v", b)
	}
}
