package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerWithFormat_JSON(t *testing.T) {
	var buf bytes.Buffer

	log := NewLoggerWithFormat("info", "json", &buf)
	log.With("component", "cache").Info("snapshot stored", "articles", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}

	if entry["component"] != "cache" {
		t.Errorf("expected component attribute, got %v", entry["component"])
	}

	if entry["articles"] != float64(3) {
		t.Errorf("expected articles=3, got %v", entry["articles"])
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer

	log := NewLoggerWithFormat("error", "text", &buf)
	log.Info("hidden")

	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}

	log.SetLevel("debug")
	log.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug output after SetLevel, got %q", buf.String())
	}
}
