package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatJSON, "json": FormatJSON, "Human": FormatHuman, "text": FormatHuman} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, FormatJSON)
	log.Debug("hidden")
	log.Info("dashboard rendered", "dashboard", "grades", "rows", 8)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "dashboard rendered", entry["msg"])
	require.Equal(t, "grades", entry["dashboard"])
	require.EqualValues(t, 8, entry["rows"])
}

func TestHumanHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHumanHandler(&buf, &HumanHandlerOptions{Level: slog.LevelDebug}))

	log.With("dashboard", "sales").Info("filter stage completed", "duration", 1500*time.Microsecond, "ratio", 0.4567)
	log.Warn("comparison views disabled")
	log.WithGroup("run").Error("failed", "id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "✓ filter stage completed")
	require.Contains(t, lines[0], "duration=1ms")
	require.Contains(t, lines[0], "ratio=0.46")
	require.Contains(t, lines[0], "dashboard=sales")
	require.Contains(t, lines[1], "⚠ comparison views disabled")
	require.Contains(t, lines[2], "✗ failed run.id=abc")
}

func TestHumanHandlerColors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHumanHandler(&buf, &HumanHandlerOptions{Level: slog.LevelInfo, UseColors: true}))
	log.Info("hello")
	require.Contains(t, buf.String(), "\x1b[")
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "250µs", formatDuration(250*time.Microsecond))
	require.Equal(t, "12ms", formatDuration(12*time.Millisecond))
	require.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}

func TestSetLevelAndFormatAndWithDashboard(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	SetLevelAndFormat(slog.LevelWarn, FormatHuman)
	require.False(t, Logger.Enabled(context.Background(), slog.LevelInfo))
	require.True(t, Logger.Enabled(context.Background(), slog.LevelWarn))
	require.NotNil(t, WithDashboard("grades"))
}
