package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Correlation is the Pearson coefficient between two measures of view.
// ok is false when it is undefined: fewer than two rows or zero variance.
func Correlation(view RecordView, x, y string) (r float64, ok bool) {
	xs, ys := MeasureValues(view, x), MeasureValues(view, y)
	if len(xs) < 2 || flat(xs) || flat(ys) {
		return math.NaN(), false
	}
	return stat.Correlation(xs, ys, nil), true
}

// LinearFit is the ordinary least-squares line of y on x.
// Returns nil when x has no variance.
func LinearFit(view RecordView, x, y string) *LinearModel {
	xs, ys := MeasureValues(view, x), MeasureValues(view, y)
	if len(xs) < 2 || flat(xs) {
		return nil
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return &LinearModel{Slope: slope, Intercept: intercept}
}

// At evaluates the line at x.
func (m LinearModel) At(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// flat reports whether every value equals the first.
func flat(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}
