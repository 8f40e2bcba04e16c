package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dashboards/grades"
	"github.com/spektr-org/dashboards/sales"
)

// execute runs the CLI with args and returns what it wrote to --out.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	root := newRootCmd()
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--out", out, "--log-level", "error", "--no-color"))
	runErr := root.Execute()

	b, err := os.ReadFile(out)
	if os.IsNotExist(err) {
		return "", runErr
	}
	require.NoError(t, err)
	return string(b), runErr
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err)
	return out
}

func TestGradesJSON(t *testing.T) {
	out := run(t, "grades", "--format", "json", "--grade", "2", "--sort", "desc")

	var view struct {
		Count   int               `json:"count"`
		Total   int               `json:"total"`
		Notice  string            `json:"notice"`
		Records []json.RawMessage `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Equal(t, 3, view.Count)
	require.Equal(t, 8, view.Total)
	require.Equal(t, "Search result: 3 of 8 students match the filter conditions.", view.Notice)
	require.Len(t, view.Records, 8)
}

func TestGradesCSVSections(t *testing.T) {
	out := run(t, "grades", "--format", "csv", "--threshold", "above")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "Name,Grade,Korean,English,Math,Science,Total,Average", lines[0])
	require.Len(t, lines, 5)

	out = run(t, "grades", "--format", "csv", "--section", "bands")
	require.Equal(t, "Bucket,Range,Count\nF,0-59,0\nD,60-69,0\nC,70-79,2\nB,80-89,5\nA,90-100,1\n", out)
}

func TestGradesText(t *testing.T) {
	out := run(t, "grades", "--format", "text", "--search", "지")
	require.Contains(t, out, "Student scores")
	require.Contains(t, out, "박지호")
	require.Contains(t, out, "Search result: 2 of 8 students match the filter conditions.")
}

func TestGradesRosterAndExport(t *testing.T) {
	dir := t.TempDir()
	roster := filepath.Join(dir, "roster.csv")
	require.NoError(t, os.WriteFile(roster, []byte("name,grade,korean,english,math,science\nKim,1,90,90,90,90\nLee,2,50,60,70,80\n"), 0o644))
	exported := filepath.Join(dir, "students.json")

	out := run(t, "grades", "--format", "csv", "--section", "totals", "--roster", roster, "--export", exported)
	require.Equal(t, "Name,Grade,Total,Average\nKim,1,360,90.00\nLee,2,260,65.00\n", out)

	b, err := os.ReadFile(exported)
	require.NoError(t, err)
	var records []grades.StudentRecord
	require.NoError(t, json.Unmarshal(b, &records))
	require.Equal(t, []grades.StudentRecord{
		{ID: "student_0", Name: "Kim", Grade: 1, TotalScore: 360, Average: 90},
		{ID: "student_1", Name: "Lee", Grade: 2, TotalScore: 260, Average: 65},
	}, records)
}

func TestSales(t *testing.T) {
	out := run(t, "sales", "--format", "csv", "--from", "1", "--to", "6")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "Month,Product A,Product B,Product C", lines[0])
	require.Len(t, lines, 7)

	out = run(t, "sales", "--format", "json", "--product", "B")
	var view sales.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.True(t, view.CompareDisabled)
	require.Equal(t, sales.CompareWarning, view.Warning)

	out = run(t, "sales", "--format", "text", "--product", "A", "--product", "C")
	require.Contains(t, out, "Product A vs Product C: correlation")
	require.Contains(t, out, "서울")
}

func TestSchema(t *testing.T) {
	out := run(t, "schema", "grades", "--format", "csv")
	require.Contains(t, out, "total,measure,Total,points,korean+english+math+science")

	out = run(t, "schema", "--format", "json")
	var all []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all, 3)
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "dashboards.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output:\n  format: csv\nsales:\n  monthFrom: 11\n"), 0o644))

	out := run(t, "sales", "--config", cfg)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Equal(t, "dashboards "+version+"\n", buf.String())
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"reversed month range", []string{"sales", "--from", "9", "--to", "3"}, "month range"},
		{"unknown product", []string{"sales", "--product", "Z"}, "unknown product"},
		{"unknown threshold", []string{"grades", "--threshold", "sideways"}, "unknown threshold mode"},
		{"bad expression", []string{"grades", "--where", "math >="}, ""},
		{"unknown grades section", []string{"grades", "--format", "csv", "--section", "nope"}, `unknown grades section "nope"`},
		{"unknown dataset", []string{"schema", "teachers"}, `unknown dataset "teachers"`},
		{"missing config", []string{"grades", "--config", "/nonexistent/dashboards.yaml"}, "error loading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
			require.Empty(t, out)
		})
	}
}

func TestUnknownSections(t *testing.T) {
	require.Error(t, writeGradesCSV(&bytes.Buffer{}, &grades.View{}, "nope"))
	require.Error(t, writeSalesCSV(&bytes.Buffer{}, &sales.View{}, "nope"))
}
