package engine

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/spektr-org/dashboards/internal/logger"
)

// ============================================================================
// FILTERS — Predicate-Based Filtering via RecordView
// ============================================================================
// Every predicate is bound against the UNFILTERED base view, so baselines
// (means, ordinal positions) never shrink as other filters are applied.
// Apply checks all predicates per row in one pass and returns a SubView
// (index list into the base) — original order, zero data copy.
// ============================================================================

// Predicate is a row filter. Bind prepares it against the base view and
// returns the per-row test, indexed by base row.
type Predicate interface {
	Bind(base RecordView) func(i int) bool
	String() string
}

// Apply returns the rows of base that satisfy every predicate (logical AND),
// in their original order. No predicates returns base unchanged.
func Apply(base RecordView, preds ...Predicate) RecordView {
	if len(preds) == 0 {
		return base
	}

	tests := make([]func(int) bool, 0, len(preds))
	for _, p := range preds {
		tests = append(tests, p.Bind(base))
	}

	n := base.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, test := range tests {
			if !test(i) {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(base, indices)
}

// ============================================================================
// MEMBERSHIP
// ============================================================================

type membership struct {
	dimension string
	values    []string
}

// Membership keeps rows whose dimension value is one of values.
// An empty set keeps nothing.
func Membership(dimension string, values ...string) Predicate {
	return membership{dimension: dimension, values: values}
}

func (m membership) Bind(base RecordView) func(int) bool {
	mustDimension(base, m.dimension)
	set := make(map[string]bool, len(m.values))
	for _, v := range m.values {
		set[v] = true
	}
	return func(i int) bool {
		return set[base.Dimension(i, m.dimension)]
	}
}

func (m membership) String() string {
	return fmt.Sprintf("%s in [%s]", m.dimension, strings.Join(m.values, ", "))
}

// ============================================================================
// SUBSTRING SEARCH
// ============================================================================

type substring struct {
	dimension string
	needle    string
}

// Contains keeps rows whose dimension value contains needle, case-sensitive,
// without normalization. An empty needle disables the filter.
func Contains(dimension, needle string) Predicate {
	return substring{dimension: dimension, needle: needle}
}

func (s substring) Bind(base RecordView) func(int) bool {
	mustDimension(base, s.dimension)
	if s.needle == "" {
		return func(int) bool { return true }
	}
	return func(i int) bool {
		return strings.Contains(base.Dimension(i, s.dimension), s.needle)
	}
}

func (s substring) String() string {
	return fmt.Sprintf("%s contains %q", s.dimension, s.needle)
}

// ============================================================================
// THRESHOLD VS BASE MEAN
// ============================================================================

// Mode selects the side of the mean a Threshold keeps.
type Mode string

const (
	AllRows   Mode = "all"   // filter disabled
	AtOrAbove Mode = "above" // v >= mean
	Below     Mode = "below" // v < mean
)

// ParseMode converts a user-facing string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AllRows:
		return AllRows, nil
	case AtOrAbove:
		return AtOrAbove, nil
	case Below:
		return Below, nil
	}
	return "", fmt.Errorf("unknown threshold mode %q (want all, above or below)", s)
}

type threshold struct {
	measure string
	mode    Mode
}

// Threshold compares a measure against its mean over the unfiltered base view.
func Threshold(measure string, mode Mode) Predicate {
	return threshold{measure: measure, mode: mode}
}

// ThresholdBaseline is the value a Threshold on measure compares against.
func ThresholdBaseline(base RecordView, measure string) float64 {
	mustMeasure(base, measure)
	return AvgMeasure(base, measure)
}

func (t threshold) Bind(base RecordView) func(int) bool {
	mustMeasure(base, t.measure)
	switch t.mode {
	case AtOrAbove:
		mean := AvgMeasure(base, t.measure)
		return func(i int) bool { return base.Measure(i, t.measure) >= mean }
	case Below:
		mean := AvgMeasure(base, t.measure)
		return func(i int) bool { return base.Measure(i, t.measure) < mean }
	case AllRows:
		return func(int) bool { return true }
	}
	panic(fmt.Sprintf("engine: unknown threshold mode %q", t.mode))
}

func (t threshold) String() string {
	return fmt.Sprintf("%s %s mean", t.measure, t.mode)
}

// ============================================================================
// POSITION RANGE
// ============================================================================

type positionRange struct {
	lo, hi int
}

// PositionRange keeps rows whose 1-based position in the base view lies in [lo, hi].
func PositionRange(lo, hi int) Predicate {
	return positionRange{lo: lo, hi: hi}
}

func (p positionRange) Bind(RecordView) func(int) bool {
	return func(i int) bool {
		pos := i + 1
		return pos >= p.lo && pos <= p.hi
	}
}

func (p positionRange) String() string {
	return fmt.Sprintf("position in [%d, %d]", p.lo, p.hi)
}

// ============================================================================
// EXPRESSION
// ============================================================================

type expression struct {
	source  string
	program *vm.Program
}

// Expression compiles a boolean expr-lang expression evaluated per row.
// Dimensions are strings and measures are floats in the environment, e.g.
// `math >= 90 && grade == "2"`.
func Expression(source string) (Predicate, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", source, err)
	}
	return expression{source: source, program: program}, nil
}

func (e expression) Bind(base RecordView) func(int) bool {
	dims := base.DimensionKeys()
	meas := base.MeasureKeys()
	return func(i int) bool {
		env := make(map[string]any, len(dims)+len(meas))
		for _, k := range dims {
			env[k] = base.Dimension(i, k)
		}
		for _, k := range meas {
			env[k] = base.Measure(i, k)
		}
		out, err := expr.Run(e.program, env)
		if err != nil {
			logger.Warn("expression evaluation failed; row excluded",
				"expression", e.source,
				"row", i,
				"error", err.Error(),
			)
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}

func (e expression) String() string { return e.source }
