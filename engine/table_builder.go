package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from views and aggregates
// ============================================================================
// Column discovery uses view.DimensionKeys()/MeasureKeys(). Cells are
// formatted here; views keep full precision.
// ============================================================================

// ColumnSpec selects and formats one column of a list table.
// Format "int" prints whole numbers; anything else prints two decimals.
// Dimension columns ignore Format.
type ColumnSpec struct {
	Key    string
	Label  string
	Format string
}

// BuildListTable produces one row per record. With no specs every dimension
// and measure of the view is listed in schema order.
func BuildListTable(title string, view RecordView, specs ...ColumnSpec) *TableData {
	if len(specs) == 0 {
		for _, k := range view.DimensionKeys() {
			specs = append(specs, ColumnSpec{Key: k})
		}
		for _, k := range view.MeasureKeys() {
			specs = append(specs, ColumnSpec{Key: k})
		}
	}

	columns := make([]Column, 0, len(specs))
	isDim := make([]bool, len(specs))
	for i, s := range specs {
		label := s.Label
		if label == "" {
			label = LabelForDimension(s.Key)
		}
		switch {
		case HasDimension(view, s.Key):
			isDim[i] = true
			columns = append(columns, Column{Key: s.Key, Label: label, Type: "text", Align: "left"})
		case HasMeasure(view, s.Key):
			columns = append(columns, Column{Key: s.Key, Label: label, Type: "number", Align: "right"})
		default:
			panic(fmt.Sprintf("engine: table column %q is neither a dimension nor a measure", s.Key))
		}
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, 0, len(specs))
		for c, s := range specs {
			if isDim[c] {
				row = append(row, view.Dimension(i, s.Key))
				continue
			}
			row = append(row, formatCell(view.Measure(i, s.Key), s.Format))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d records)", view.Len()),
			Values: map[string]string{"count": fmt.Sprintf("%d", view.Len())},
		},
	}
}

// BuildGroupTable renders a GroupTable, marking the row holding each column's
// maximum in Column.Highlight.
func BuildGroupTable(title string, table *GroupTable) *TableData {
	columns := []Column{
		{Key: table.Key, Label: LabelForDimension(table.Key), Type: "text", Align: "left"},
	}
	maxRows := table.MaxByColumn()
	for j, m := range table.Measures {
		columns = append(columns, Column{
			Key:       m,
			Label:     LabelForDimension(m),
			Type:      "number",
			Align:     "right",
			Highlight: maxRows[j] + 1,
		})
	}
	columns = append(columns, Column{Key: "count", Label: "Count", Type: "number", Align: "center"})

	rows := make([][]string, 0, len(table.Rows))
	var total int
	for _, g := range table.Rows {
		row := make([]string, 0, len(columns))
		row = append(row, g.Key)
		for _, v := range g.Means {
			row = append(row, FormatFixed2(v))
		}
		row = append(row, fmt.Sprintf("%d", g.Count))
		rows = append(rows, row)
		total += g.Count
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": fmt.Sprintf("%d", total)},
		},
	}
}

// BuildRankTable renders ranked groups (e.g. TopN output) as key/value rows.
func BuildRankTable(title, keyLabel, valueLabel string, groups []Group) *TableData {
	columns := []Column{
		{Key: "key", Label: keyLabel, Type: "text", Align: "left"},
		{Key: "value", Label: valueLabel, Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Label, formatCell(g.Value, "int")})
	}

	return &TableData{Title: title, Columns: columns, Rows: rows}
}

// BuildBucketTable renders bucket counts in bucket order.
func BuildBucketTable(title, labelHeader string, counts []BucketCount) *TableData {
	columns := []Column{
		{Key: "label", Label: labelHeader, Type: "text", Align: "left"},
		{Key: "range", Label: "Range", Type: "text", Align: "left"},
		{Key: "count", Label: "Count", Type: "number", Align: "right"},
	}

	rows := make([][]string, 0, len(counts))
	var total int
	for _, c := range counts {
		rows = append(rows, []string{c.Label, c.Range, fmt.Sprintf("%d", c.Count)})
		total += c.Count
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": fmt.Sprintf("%d", total)},
		},
	}
}

func formatCell(v float64, format string) string {
	if format == "int" && v == float64(int64(v)) {
		return FormatInt(int(v))
	}
	return FormatFixed2(v)
}
