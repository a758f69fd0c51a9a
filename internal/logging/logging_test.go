package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Level(false))

	logger.Debug("hidden")
	logger.Info("HIT status", "hit", "H1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Debug message logged at info level")
	}
	if !strings.Contains(out, "HIT status") || !strings.Contains(out, "hit=H1") {
		t.Errorf("Unexpected log output: %q", out)
	}

	buf.Reset()
	New(&buf, Level(true)).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Debug message missing at debug level")
	}
}
