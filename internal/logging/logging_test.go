package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)

	log.Debug("hidden")
	log.Info("placed slot", "start", "16:00")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["msg"] != "placed slot" || entry["start"] != "16:00" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prepwise.log")

	for i := range 2 {
		l, err := Open(path, slog.LevelDebug)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		l.Info("run", "n", i)
		if err := l.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	l, err := Open("", slog.LevelDebug)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Error("nobody hears this")
	if err := l.Close(); err != nil {
		t.Errorf("Close on discard logger: %v", err)
	}
}
