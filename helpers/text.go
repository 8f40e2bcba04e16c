package helpers

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/spektr-org/dashboards/engine"
)

// ============================================================================
// TEXT RENDERER — Human-readable tables, metric cards and warnings
// ============================================================================

// TextRenderer prints dashboard outputs as aligned plain text. Color is
// applied only when Color is true.
type TextRenderer struct {
	W     io.Writer
	Color bool
}

// NewTextRenderer renders to w, coloring when color is true.
func NewTextRenderer(w io.Writer, color bool) *TextRenderer {
	return &TextRenderer{W: w, Color: color}
}

func (r *TextRenderer) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if r.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Heading prints a section title.
func (r *TextRenderer) Heading(title string) {
	fmt.Fprintf(r.W, "\n%s\n", r.paint(color.Bold, title))
}

// Notice prints an informational line.
func (r *TextRenderer) Notice(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintln(r.W, r.paint(color.FgCyan, msg))
}

// Warning prints a warning line.
func (r *TextRenderer) Warning(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintln(r.W, r.paint(color.FgYellow, "! "+msg))
}

// Metrics prints one line per metric card.
func (r *TextRenderer) Metrics(metrics []engine.Metric) {
	width := 0
	for _, m := range metrics {
		width = max(width, utf8.RuneCountInString(m.Label))
	}
	for _, m := range metrics {
		line := fmt.Sprintf("  %s  %s", pad(m.Label, width, false), r.paint(color.Bold, m.Value))
		if m.Delta != "" {
			attr := color.FgGreen
			if strings.HasPrefix(m.Delta, "-") {
				attr = color.FgRed
			}
			line += "  " + r.paint(attr, m.Delta)
		}
		fmt.Fprintln(r.W, line)
	}
}

// Table prints a table with padded columns. Highlighted cells are bold green.
func (r *TextRenderer) Table(t *engine.TableData) {
	if t == nil {
		return
	}
	r.Heading(t.Title)
	if len(t.Rows) == 0 {
		fmt.Fprintln(r.W, "  (no rows)")
		return
	}

	widths := make([]int, len(t.Columns))
	for j, c := range t.Columns {
		widths[j] = utf8.RuneCountInString(c.Label)
	}
	for _, row := range t.Rows {
		for j, cell := range row {
			if j < len(widths) {
				widths[j] = max(widths[j], utf8.RuneCountInString(cell))
			}
		}
	}

	header := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		header[j] = pad(c.Label, widths[j], c.Align == "right")
	}
	fmt.Fprintln(r.W, "  "+r.paint(color.Underline, strings.Join(header, "  ")))

	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			if j >= len(t.Columns) {
				cells[j] = cell
				continue
			}
			col := t.Columns[j]
			cells[j] = pad(cell, widths[j], col.Align == "right")
			if col.Highlight == i+1 {
				cells[j] = r.paint(color.FgGreen, cells[j])
			}
		}
		fmt.Fprintln(r.W, "  "+strings.Join(cells, "  "))
	}

	if t.Summary != nil {
		fmt.Fprintf(r.W, "  %s\n", r.paint(color.Faint, t.Summary.Label))
	}
}

// Buckets prints bucket counts with a proportional bar.
func (r *TextRenderer) Buckets(title string, counts []engine.BucketCount) {
	r.Heading(title)
	width := 0
	for _, c := range counts {
		width = max(width, utf8.RuneCountInString(c.Label))
	}
	for _, c := range counts {
		fmt.Fprintf(r.W, "  %s %3d %s\n", pad(c.Label, width, false), c.Count,
			r.paint(color.FgBlue, strings.Repeat("#", c.Count)))
	}
}

func pad(s string, width int, right bool) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
