package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var koreanScores = []float64{85, 92, 78, 96, 88, 77, 82, 94}

// ============================================================================
// THRESHOLD
// ============================================================================

func TestThresholdAgainstBaseMean(t *testing.T) {
	base := scoreView(koreanScores...)
	require.Equal(t, 86.5, ThresholdBaseline(base, "x"))

	above := Apply(base, Threshold("x", AtOrAbove))
	require.Equal(t, []float64{92, 96, 88, 94}, measureColumn(above, "x"))

	below := Apply(base, Threshold("x", Below))
	require.Equal(t, []float64{85, 78, 77, 82}, measureColumn(below, "x"))

	// the two sides partition the base
	seen := map[string]int{}
	for _, v := range []RecordView{above, below} {
		for _, name := range dimensionColumn(v, "name") {
			seen[name]++
		}
	}
	require.Len(t, seen, base.Len())
	for name, n := range seen {
		require.Equal(t, 1, n, name)
	}

	all := Apply(base, Threshold("x", AllRows))
	require.Equal(t, base.Len(), all.Len())
}

func TestThresholdBaselineIgnoresOtherFilters(t *testing.T) {
	base := scoreView(koreanScores...)

	// Keep only r0..r3 (85, 92, 78, 96; own mean 87.75). The threshold still
	// compares against the base mean 86.5, so 85 and 78 drop, 92 and 96 stay.
	got := Apply(base, PositionRange(1, 4), Threshold("x", AtOrAbove))
	require.Equal(t, []float64{92, 96}, measureColumn(got, "x"))

	// predicate order does not matter
	swapped := Apply(base, Threshold("x", AtOrAbove), PositionRange(1, 4))
	require.Equal(t, measureColumn(got, "x"), measureColumn(swapped, "x"))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", AllRows, false},
		{"all", AllRows, false},
		{"Above", AtOrAbove, false},
		{" below ", Below, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

// ============================================================================
// MEMBERSHIP / SUBSTRING / POSITION
// ============================================================================

func TestMembership(t *testing.T) {
	base := tableView(
		row{name: "kim", group: "1"},
		row{name: "lee", group: "2"},
		row{name: "park", group: "3"},
		row{name: "choi", group: "1"},
	)

	got := Apply(base, Membership("group", "1", "3"))
	require.Equal(t, []string{"kim", "park", "choi"}, dimensionColumn(got, "name"))

	require.Equal(t, 0, Apply(base, Membership("group")).Len(), "empty set keeps nothing")
	require.Equal(t, 0, Apply(base, Membership("group", "4")).Len())
}

func TestContains(t *testing.T) {
	base := tableView(
		row{name: "김민준"},
		row{name: "이서연"},
		row{name: "송지은"},
		row{name: "Minjun"},
	)

	tests := []struct {
		needle string
		want   []string
	}{
		{"", []string{"김민준", "이서연", "송지은", "Minjun"}},
		{"지", []string{"송지은"}},
		{"민", []string{"김민준"}},
		{"minjun", []string{}},
		{"Min", []string{"Minjun"}},
	}
	for _, tt := range tests {
		got := dimensionColumn(Apply(base, Contains("name", tt.needle)), "name")
		require.Equal(t, tt.want, got, "needle %q", tt.needle)
	}
}

func TestPositionRange(t *testing.T) {
	base := scoreView(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

	require.Equal(t, []float64{3, 4, 5}, measureColumn(Apply(base, PositionRange(3, 5)), "x"))
	require.Equal(t, []float64{12}, measureColumn(Apply(base, PositionRange(12, 12)), "x"))
	require.Equal(t, 12, Apply(base, PositionRange(1, 12)).Len())
	require.Equal(t, 0, Apply(base, PositionRange(5, 4)).Len())
}

func TestApplyNoPredicatesReturnsBase(t *testing.T) {
	base := scoreView(koreanScores...)
	require.Same(t, base, Apply(base))
}

func TestApplyUnknownKeysPanic(t *testing.T) {
	base := scoreView(1, 2)
	require.Panics(t, func() { Apply(base, Threshold("y", AtOrAbove)) })
	require.Panics(t, func() { Apply(base, Membership("group", "1")) })
	require.Panics(t, func() { Apply(base, Contains("group", "x")) })
}

// ============================================================================
// EXPRESSION
// ============================================================================

func TestExpression(t *testing.T) {
	base := tableView(
		row{name: "kim", group: "1", a: 95, b: 60},
		row{name: "lee", group: "2", a: 91, b: 80},
		row{name: "park", group: "2", a: 70, b: 99},
	)

	pred, err := Expression(`a >= 90 && group == "2"`)
	require.NoError(t, err)
	require.Equal(t, []string{"lee"}, dimensionColumn(Apply(base, pred), "name"))

	pred, err = Expression(`a + b > 160`)
	require.NoError(t, err)
	require.Equal(t, []string{"lee", "park"}, dimensionColumn(Apply(base, pred), "name"))
	require.Equal(t, "a + b > 160", pred.String())
}

func TestExpressionErrors(t *testing.T) {
	_, err := Expression("a >=")
	require.Error(t, err)

	_, err = Expression(`"text"`)
	require.Error(t, err, "non-boolean result")

	// a runtime failure excludes the row instead of aborting
	pred, err := Expression(`name > 5`)
	require.NoError(t, err)
	require.Equal(t, 0, Apply(tableView(row{name: "kim"}), pred).Len())
}
