package engine

import "fmt"

// ── Test Data ─────────────────────────────────────────────────────────────────

// scoreView is a one-measure view: name "r0".."rN" and measure "x".
func scoreView(values ...float64) RecordView {
	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = Record{
			Dimensions: map[string]string{"name": fmt.Sprintf("r%d", i)},
			Measures:   map[string]float64{"x": v},
		}
	}
	return NewSliceView(records, []string{"name"}, []string{"x"})
}

type row struct {
	name, group string
	a, b        float64
}

// tableView is a two-dimension, two-measure view.
func tableView(rows ...row) RecordView {
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{
			Dimensions: map[string]string{"name": r.name, "group": r.group},
			Measures:   map[string]float64{"a": r.a, "b": r.b},
		}
	}
	return NewSliceView(records, []string{"name", "group"}, []string{"a", "b"})
}

func measureColumn(view RecordView, key string) []float64 {
	return MeasureValues(view, key)
}

func dimensionColumn(view RecordView, key string) []string {
	out := make([]string, view.Len())
	for i := range out {
		out[i] = view.Dimension(i, key)
	}
	return out
}
