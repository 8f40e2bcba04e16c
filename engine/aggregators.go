package engine

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Unknown keys are programming errors and panic; empty views are valid and
// yield empty results.
// ============================================================================

// ============================================================================
// GROUP MEANS
// ============================================================================

// GroupMeans partitions view by the distinct values of key and averages each
// measure per group. Rows come out ordered by ascending key; keys that all
// parse as numbers are compared numerically.
func GroupMeans(view RecordView, key string, measures ...string) *GroupTable {
	if len(measures) == 0 {
		panic("engine: GroupMeans needs at least one measure")
	}
	mustDimension(view, key)
	for _, m := range measures {
		mustMeasure(view, m)
	}

	table := &GroupTable{Key: key, Measures: measures, Rows: []GroupRow{}}
	groups := groupBySingle(view, key)
	if len(groups) == 0 {
		return table
	}

	sortKeys(groups)

	for _, g := range groups {
		row := GroupRow{
			Key:   g.Key,
			Count: g.View.Len(),
			Means: make([]float64, len(measures)),
		}
		for j, m := range measures {
			row.Means[j] = orderFreeMean(g.View, m)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// MaxByColumn returns, per measure, the index of the row holding its maximum
// (first on ties), or -1 for an empty table.
func (t *GroupTable) MaxByColumn() []int {
	out := make([]int, len(t.Measures))
	for j := range t.Measures {
		out[j] = -1
		for i, row := range t.Rows {
			if out[j] < 0 || row.Means[j] > t.Rows[out[j]].Means[j] {
				out[j] = i
			}
		}
	}
	return out
}

// Column returns the means of one measure across all groups, in row order.
func (t *GroupTable) Column(measure string) []float64 {
	for j, m := range t.Measures {
		if m == measure {
			col := make([]float64, len(t.Rows))
			for i, row := range t.Rows {
				col[i] = row.Means[j]
			}
			return col
		}
	}
	panic(fmt.Sprintf("engine: group table has no measure %q", measure))
}

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// orderFreeMean sums values in sorted order so the result does not depend on
// the order rows arrived in.
func orderFreeMean(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = view.Measure(i, measure)
	}
	sort.Float64s(vals)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(n)
}

func sortKeys(groups []Group) {
	numeric := true
	nums := make(map[string]float64, len(groups))
	for _, g := range groups {
		f, err := strconv.ParseFloat(g.Key, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[g.Key] = f
	}

	if numeric {
		sortStableBy(groups, func(g Group) float64 { return nums[g.Key] }, false)
		return
	}
	sortStableBy(groups, func(g Group) string { return g.Key }, false)
}

// sortStableBy orders items by key, descending when desc is set. Items with
// equal keys keep their relative order.
func sortStableBy[E any, K constraints.Ordered](items []E, key func(E) K, desc bool) {
	slices.SortStableFunc(items, func(a, b E) int {
		ka, kb := key(a), key(b)
		c := 0
		switch {
		case ka < kb:
			c = -1
		case ka > kb:
			c = 1
		}
		if desc {
			return -c
		}
		return c
	})
}

// ============================================================================
// TOP N
// ============================================================================

// TopN returns the k rows of view with the largest measure, descending.
// Ties keep their original relative order. Each Group is keyed by the row's
// key dimension and carries a one-row View.
func TopN(view RecordView, key, measure string, k int) []Group {
	if k < 0 {
		panic(fmt.Sprintf("engine: TopN with negative k=%d", k))
	}
	mustDimension(view, key)
	mustMeasure(view, measure)

	groups := make([]Group, view.Len())
	for i := range groups {
		label := view.Dimension(i, key)
		groups[i] = Group{
			Key:   label,
			Label: label,
			Value: view.Measure(i, measure),
			Count: 1,
			View:  newSubView(view, []int{i}),
		}
	}

	sortStableBy(groups, func(g Group) float64 { return g.Value }, true)

	if len(groups) > k {
		groups = groups[:k]
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	mustMeasure(view, measure)
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure.
func AvgMeasure(view RecordView, measure string) float64 {
	mustMeasure(view, measure)
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	mustMeasure(view, measure)
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v > m {
			m = v
		}
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	mustMeasure(view, measure)
	n := view.Len()
	if n == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < n; i++ {
		if v := view.Measure(i, measure); v < m {
			m = v
		}
	}
	return m
}

// MeasureValues copies a measure out of a view, in row order.
func MeasureValues(view RecordView, measure string) []float64 {
	mustMeasure(view, measure)
	vals := make([]float64, view.Len())
	for i := range vals {
		vals[i] = view.Measure(i, measure)
	}
	return vals
}

// ============================================================================
// SORTING
// ============================================================================

// Order is a row ordering for SortView.
type Order string

const (
	Unsorted   Order = "none"
	Descending Order = "desc"
	Ascending  Order = "asc"
)

// ParseOrder converts a user-facing string to an Order.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", Unsorted:
		return Unsorted, nil
	case Descending:
		return Descending, nil
	case Ascending:
		return Ascending, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want none, desc or asc)", s)
}

// SortView reorders rows by a measure. Equal values keep their relative order.
func SortView(view RecordView, measure string, order Order) RecordView {
	if order == Unsorted || order == "" {
		return view
	}
	mustMeasure(view, measure)

	indices := make([]int, view.Len())
	for i := range indices {
		indices[i] = i
	}
	sortStableBy(indices, func(i int) float64 { return view.Measure(i, measure) }, order == Descending)
	return newSubView(view, indices)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatFixed2 formats a value with two decimals.
func FormatFixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForDimension returns a capitalized label for a key.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + strings.ReplaceAll(dimension[1:], "_", " ")
}
