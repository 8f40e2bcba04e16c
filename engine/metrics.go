package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// METRIC BUILDER — Headline numbers with deltas
// ============================================================================
// Raw values stay in RawValue; Value and Delta are display strings.
// ============================================================================

// MeanMetric is the mean of a measure across view.
func MeanMetric(label string, view RecordView, measure string) Metric {
	mustMeasure(view, measure)
	v := AvgMeasure(view, measure)
	return Metric{Label: label, Value: FormatFixed2(v), RawValue: v}
}

// MaxMetric is the largest value of a measure, with its distance above the mean.
func MaxMetric(label string, view RecordView, measure string) Metric {
	mustMeasure(view, measure)
	if view.Len() == 0 {
		return Metric{Label: label, Value: "-"}
	}
	v := MaxMeasure(view, measure)
	return Metric{
		Label:    label,
		Value:    FormatFixed2(v),
		RawValue: v,
		Delta:    fmt.Sprintf("+ %.2f", v-AvgMeasure(view, measure)),
	}
}

// MinMetric is the smallest value of a measure, with its distance below the mean.
func MinMetric(label string, view RecordView, measure string) Metric {
	mustMeasure(view, measure)
	if view.Len() == 0 {
		return Metric{Label: label, Value: "-"}
	}
	v := MinMeasure(view, measure)
	return Metric{
		Label:    label,
		Value:    FormatFixed2(v),
		RawValue: v,
		Delta:    fmt.Sprintf("- %.2f", AvgMeasure(view, measure)-v),
	}
}

// TotalMetric is the sum of a measure, formatted with separators and a unit.
func TotalMetric(label string, view RecordView, measure string, unit string) Metric {
	mustMeasure(view, measure)
	v := SumMeasure(view, measure)
	value := FormatInt(int(math.Round(v)))
	if unit != "" {
		value += " " + unit
	}
	return Metric{Label: label, Value: value, RawValue: v}
}
