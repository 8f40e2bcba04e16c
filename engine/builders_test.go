package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// CHARTS
// ============================================================================

func TestBuildSeriesChart(t *testing.T) {
	base := tableView(row{name: "Jan", a: 10.004, b: 20}, row{name: "Feb", a: 11, b: 21})
	chart := BuildSeriesChart("bar", "Sales", base, "name", []string{"a", "b"})

	require.Equal(t, "bar", chart.ChartType)
	require.Len(t, chart.Series, 2)
	require.Equal(t, "a", chart.Series[0].Name)
	require.Equal(t, []ChartPoint{{Label: "Jan", Value: 10}, {Label: "Feb", Value: 11}}, chart.Series[0].Data)
	require.Len(t, chart.Colors, 2)

	require.Nil(t, BuildSeriesChart("bar", "Sales", base, "name", nil))
	require.Nil(t, BuildSeriesChart("bar", "Sales", Apply(base, Membership("name")), "name", []string{"a"}))
}

func TestBuildValueChartPie(t *testing.T) {
	chart := BuildValueChart("pie", "Share", "Product", "Units", []ChartPoint{
		{Label: "A", Value: 1}, {Label: "B", Value: 2}, {Label: "C", Value: 3.333},
	})
	require.True(t, chart.ShowLegend)
	require.False(t, chart.ShowGrid)
	require.Len(t, chart.Colors, 3)
	require.Equal(t, 3.33, chart.Series[0].Data[2].Value)

	require.Nil(t, BuildValueChart("bar", "Empty", "x", "y", nil))
}

func TestBuildBucketChart(t *testing.T) {
	counts := Bucketize(scoreView(55, 61, 95), "x", GradeBands)
	chart := BuildBucketChart("Bands", "Band", counts)
	require.Len(t, chart.Series[0].Data, 5)
	require.Equal(t, ChartPoint{Label: "A", Value: 1}, chart.Series[0].Data[4])
}

func TestBuildScatter(t *testing.T) {
	base := tableView(row{name: "Jan", a: 1, b: 2}, row{name: "Feb", a: 2, b: 4}, row{name: "Mar", a: 3, b: 7})
	s := BuildScatter("A vs B", base, "name", "a", "b")

	require.Len(t, s.Points, 3)
	require.Equal(t, ScatterPoint{Label: "Mar", X: 3, Y: 7}, s.Points[2])
	require.True(t, s.Defined)
	require.Greater(t, s.Correlation, 0.9)
	require.NotNil(t, s.Trend)

	flat := BuildScatter("flat", tableView(row{name: "Jan", a: 1, b: 1}, row{name: "Feb", a: 1, b: 1}), "name", "a", "b")
	require.False(t, flat.Defined)
	require.Zero(t, flat.Correlation)
	require.Nil(t, flat.Trend)
}

func TestBuildHeatmap(t *testing.T) {
	base := tableView(row{name: "Jan", a: 1, b: 2}, row{name: "Feb", a: 3, b: 4})
	h := BuildHeatmap("Heat", base, "name", []string{"b", "a"})
	require.Equal(t, []string{"Jan", "Feb"}, h.Rows)
	require.Equal(t, []string{"b", "a"}, h.Columns)
	require.Equal(t, [][]float64{{2, 1}, {4, 3}}, h.Values)
}

// ============================================================================
// TABLES
// ============================================================================

func TestBuildListTable(t *testing.T) {
	base := tableView(row{name: "kim", group: "1", a: 1234, b: 86.254})
	table := BuildListTable("Scores", base,
		ColumnSpec{Key: "name", Label: "Name"},
		ColumnSpec{Key: "a", Label: "A", Format: "int"},
		ColumnSpec{Key: "b"},
	)

	require.Equal(t, []string{"Name", "A", "B"}, []string{table.Columns[0].Label, table.Columns[1].Label, table.Columns[2].Label})
	require.Equal(t, "left", table.Columns[0].Align)
	require.Equal(t, "right", table.Columns[1].Align)
	require.Equal(t, [][]string{{"kim", "1,234", "86.25"}}, table.Rows)
	require.Equal(t, "1", table.Summary.Values["count"])

	all := BuildListTable("All", base)
	require.Len(t, all.Columns, 4)

	require.Panics(t, func() { BuildListTable("Bad", base, ColumnSpec{Key: "nope"}) })
}

func TestBuildGroupTableHighlightsMax(t *testing.T) {
	table := BuildGroupTable("By group", GroupMeans(tableView(
		row{group: "1", a: 10, b: 5},
		row{group: "2", a: 20, b: 1},
	), "group", "a", "b"))

	require.Equal(t, 2, table.Columns[1].Highlight, "a peaks in the second row")
	require.Equal(t, 1, table.Columns[2].Highlight, "b peaks in the first row")
	require.Equal(t, []string{"2", "20.00", "1.00", "1"}, table.Rows[1])
	require.Equal(t, "2", table.Summary.Values["count"])
}

func TestBuildRankAndBucketTables(t *testing.T) {
	rank := BuildRankTable("Top", "Month", "Total", TopN(scoreView(100, 2500), "name", "x", 2))
	require.Equal(t, [][]string{{"r1", "2,500"}, {"r0", "100"}}, rank.Rows)

	buckets := BuildBucketTable("Bands", "Band", Bucketize(scoreView(55, 95), "x", GradeBands))
	require.Len(t, buckets.Rows, 5)
	require.Equal(t, []string{"F", "0-59", "1"}, buckets.Rows[0])
	require.Equal(t, "2", buckets.Summary.Values["count"])
}

// ============================================================================
// METRICS
// ============================================================================

func TestMetrics(t *testing.T) {
	base := scoreView(86.25, 89.75, 72.75, 92.5, 89.5, 72.5, 81, 87.5)

	mean := MeanMetric("Overall", base, "x")
	require.Equal(t, "83.97", mean.Value)
	require.InDelta(t, 83.96875, mean.RawValue, 1e-12)

	hi := MaxMetric("Highest", base, "x")
	require.Equal(t, "92.50", hi.Value)
	require.Equal(t, "+ 8.53", hi.Delta)

	lo := MinMetric("Lowest", base, "x")
	require.Equal(t, "72.50", lo.Value)
	require.Equal(t, "- 11.47", lo.Delta)

	total := TotalMetric("Total", scoreView(1200, 34), "x", "units")
	require.Equal(t, "1,234 units", total.Value)

	require.Equal(t, "-", MaxMetric("Highest", scoreView(), "x").Value)
}
