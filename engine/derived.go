package engine

import "fmt"

// ============================================================================
// DERIVED COLUMNS — Frozen sum/average measures
// ============================================================================
// Computed once when the view is built. The parent is never consulted for
// derived keys again; there is no incremental update.
// ============================================================================

// DerivedSpec names the derived measures and the measures they combine.
// AvgKey may be empty to skip the average.
type DerivedSpec struct {
	SumKey string
	AvgKey string
	Fields []string
}

// DerivedView is a parent view plus precomputed sum/average measures.
type DerivedView struct {
	parent  RecordView
	spec    DerivedSpec
	sums    []float64
	avgs    []float64
	mesKeys []string
}

// Derive computes spec's sum (and average) for every row of view.
// Values stay unrounded; round only when displaying.
// Panics if spec.Fields is empty or names a measure the view lacks.
func Derive(view RecordView, spec DerivedSpec) *DerivedView {
	if len(spec.Fields) == 0 {
		panic("engine: Derive needs at least one field")
	}
	if spec.SumKey == "" {
		panic("engine: Derive needs a sum key")
	}
	for _, f := range spec.Fields {
		mustMeasure(view, f)
	}
	for _, k := range []string{spec.SumKey, spec.AvgKey} {
		if k != "" && HasMeasure(view, k) {
			panic(fmt.Sprintf("engine: derived measure %q shadows an existing measure", k))
		}
	}

	n := view.Len()
	d := &DerivedView{
		parent: view,
		spec:   spec,
		sums:   make([]float64, n),
	}
	if spec.AvgKey != "" {
		d.avgs = make([]float64, n)
	}

	count := float64(len(spec.Fields))
	for i := 0; i < n; i++ {
		var sum float64
		for _, f := range spec.Fields {
			sum += view.Measure(i, f)
		}
		d.sums[i] = sum
		if d.avgs != nil {
			d.avgs[i] = sum / count
		}
	}

	d.mesKeys = append(append([]string{}, view.MeasureKeys()...), spec.SumKey)
	if spec.AvgKey != "" {
		d.mesKeys = append(d.mesKeys, spec.AvgKey)
	}
	return d
}

func (v *DerivedView) Len() int { return v.parent.Len() }

func (v *DerivedView) Dimension(i int, key string) string {
	return v.parent.Dimension(i, key)
}

func (v *DerivedView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.sums) {
		return 0
	}
	switch key {
	case v.spec.SumKey:
		return v.sums[i]
	case v.spec.AvgKey:
		if v.avgs != nil {
			return v.avgs[i]
		}
	}
	return v.parent.Measure(i, key)
}

func (v *DerivedView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *DerivedView) MeasureKeys() []string   { return v.mesKeys }
