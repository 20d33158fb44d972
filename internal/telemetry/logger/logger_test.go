package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = SetLevel("info") })
	return l, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newBufferLogger(t, "debug", "json")

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("response sent", "status", "20")

			entry := decodeEntry(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "response sent" {
				t.Errorf("msg = %v, want 'response sent'", entry["msg"])
			}
			if entry["status"] != "20" {
				t.Errorf("status = %v, want 20", entry["status"])
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.With("component", "geminiserver").Info("listening")

	entry := decodeEntry(t, buf)
	if entry["component"] != "geminiserver" {
		t.Errorf("component = %v, want geminiserver", entry["component"])
	}
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("info") })

	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Error("New() with level verbose should fail")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() with format xml should fail")
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger(t, "error", "json")

	l.Info("filtered")
	if buf.Len() > 0 {
		t.Error("Info should be filtered at error level")
	}

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error = %v", err)
	}
	l.Info("visible")
	if buf.Len() == 0 {
		t.Error("Info should be logged after level changed to debug")
	}
	if got := Level(); got != "debug" {
		t.Errorf("Level() = %q, want debug", got)
	}

	if err := SetLevel("loud"); err == nil {
		t.Error("SetLevel(loud) error = nil, want failure")
	}
	if got := Level(); got != "debug" {
		t.Errorf("Level() after rejected change = %q, want debug", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"Warn", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":        FormatJSON,
		"json":    FormatJSON,
		"TEXT":    FormatText,
		"console": FormatText,
	}
	for input, want := range tests {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = (%q, %v), want %q", input, got, err, want)
		}
	}
	if _, err := ParseFormat("logfmt"); err == nil {
		t.Error("ParseFormat(logfmt) error = nil, want failure")
	}
}

func TestLogger_TextFormat(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "console")

	l.Info("capsule started", "address", "0.0.0.0:1965")

	output := buf.String()
	if !strings.Contains(output, "capsule started") {
		t.Errorf("Text output should contain message, got: %s", output)
	}
	if !strings.Contains(output, "address=0.0.0.0:1965") {
		t.Errorf("Text output should contain address, got: %s", output)
	}
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, buf := newBufferLogger(t, "info", "json")
	SetDefault(l)
	Default().Info("through default")
	if buf.Len() == 0 {
		t.Error("Default() did not return the logger passed to SetDefault")
	}
}
