package engine

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	base := scoreView(koreanScores...)
	exec := Execute(base, []Predicate{Threshold("x", AtOrAbove)},
		WithName("grades"), WithRunID("run-1"), WithLogger(log))

	require.Equal(t, "run-1", exec.RunID)
	require.Same(t, base, exec.Base)
	require.Equal(t, 4, exec.View.Len())
	require.Equal(t, []string{"x above mean"}, exec.Predicates)
	require.True(t, exec.Filtered())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "filter stage completed", entry["msg"])
	require.Equal(t, "grades", entry["pipeline"])
	require.Equal(t, "run-1", entry["run_id"])
	require.EqualValues(t, 4, entry["records_out"])
}

func TestExecuteGeneratesRunID(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	a := Execute(scoreView(1), nil, WithLogger(log))
	b := Execute(scoreView(1), nil, WithLogger(log))
	require.Len(t, a.RunID, 36)
	require.NotEqual(t, a.RunID, b.RunID)
	require.False(t, a.Filtered())
}

func TestResolvePlaceholders(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	exec := Execute(scoreView(koreanScores...), []Predicate{PositionRange(1, 3)}, WithLogger(log))

	tests := []struct {
		template string
		want     string
	}{
		{"Search result: {count} of {total} students match the filter conditions.",
			"Search result: 3 of 8 students match the filter conditions."},
		{"{removed} hidden by {filters}", "5 hidden by position in [1, 3]"},
		{"{count} rows {unknown}", "3 rows"},
		{"", "Showing 3 of 8 records."},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ResolvePlaceholders(tt.template, exec))
	}
}
