package sales

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/engine"
)

func months(v engine.RecordView) []string {
	out := make([]string, v.Len())
	for i := range out {
		out[i] = v.Dimension(i, KeyMonth)
	}
	return out
}

func TestNewLedgerDeterministic(t *testing.T) {
	a, b := NewLedger(datasource.DefaultSeed), NewLedger(datasource.DefaultSeed)
	require.Equal(t, uint64(42), a.Seed())
	require.Equal(t, 12, a.View().Len())
	require.Equal(t, 12, a.Locations().Len())
	for i := 0; i < 12; i++ {
		for _, p := range datasource.Products {
			require.Equal(t, a.View().Measure(i, p), b.View().Measure(i, p))
		}
	}
	require.NoError(t, Schema.Validate())
	require.NoError(t, LocationSchema.Validate())
}

func TestParseProduct(t *testing.T) {
	for in, want := range map[string]string{
		"A": "product_a", "b": "product_b", "product_c": "product_c", "Product A": "product_a",
	} {
		got, err := ParseProduct(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseProduct("D")
	require.ErrorIs(t, err, ErrUnknownProduct)
}

// ============================================================================
// RUN
// ============================================================================

func TestRunDefaults(t *testing.T) {
	ledger := NewLedger(datasource.DefaultSeed)
	v, err := Run(ledger, DefaultParams())
	require.NoError(t, err)

	require.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}, months(v.Rows))
	require.Len(t, v.Months.Rows, 12)
	require.Len(t, v.Months.Columns, 4)

	require.Len(t, v.Totals, 3)
	for i, p := range datasource.Products {
		require.Equal(t, engine.SumMeasure(ledger.View(), p), v.Totals[i].RawValue)
	}

	require.Len(t, v.Top, 3)
	require.GreaterOrEqual(t, v.Top[0].Value, v.Top[1].Value)
	require.GreaterOrEqual(t, v.Top[1].Value, v.Top[2].Value)
	require.Len(t, v.TopMonths.Rows, 3)

	require.Len(t, v.Bar.Series, 3)
	require.Equal(t, "Product A", v.Bar.Series[0].Name)
	require.Equal(t, "line", v.Line.ChartType)
	require.Equal(t, 0.3, v.Pie.Hole)
	require.Len(t, v.Pie.Series[0].Data, 3)

	require.False(t, v.CompareDisabled)
	require.Empty(t, v.Warning)
	require.Len(t, v.Scatter.Points, 12)
	require.Equal(t, "product_a", v.Scatter.XAxis)
	require.Equal(t, "product_b", v.Scatter.YAxis)
	require.Equal(t, []string{"product_a", "product_b", "product_c"}, v.Heatmap.Columns)
	require.Len(t, v.Heatmap.Rows, 12)

	require.Len(t, v.Map, 12)
	require.Equal(t, "서울", v.Map[0].Label)
}

func TestRunTopMonthsMatchMonthlyTotals(t *testing.T) {
	ledger := NewLedger(datasource.DefaultSeed)
	p := DefaultParams()
	p.TopK = 12
	v, err := Run(ledger, p)
	require.NoError(t, err)

	totals := map[string]float64{}
	base := ledger.View()
	for i := 0; i < base.Len(); i++ {
		var sum float64
		for _, prod := range datasource.Products {
			sum += base.Measure(i, prod)
		}
		totals[base.Dimension(i, KeyMonth)] = sum
	}
	require.Len(t, v.Top, 12)
	for i, g := range v.Top {
		require.Equal(t, totals[g.Label], g.Value)
		if i > 0 {
			require.GreaterOrEqual(t, v.Top[i-1].Value, g.Value)
		}
	}
}

func TestRunMonthRange(t *testing.T) {
	ledger := NewLedger(datasource.DefaultSeed)
	p := DefaultParams()
	p.MonthFrom, p.MonthTo = 3, 5
	v, err := Run(ledger, p)
	require.NoError(t, err)

	require.Equal(t, []string{"Mar", "Apr", "May"}, months(v.Rows))
	var want float64
	for i := 2; i <= 4; i++ {
		want += ledger.View().Measure(i, "product_a")
	}
	require.Equal(t, want, v.Totals[0].RawValue)
	require.Len(t, v.Scatter.Points, 3)
}

func TestRunFewerThanTwoProducts(t *testing.T) {
	ledger := NewLedger(datasource.DefaultSeed)
	p := DefaultParams()
	p.Products = []string{"product_b"}
	v, err := Run(ledger, p)
	require.NoError(t, err)

	require.True(t, v.CompareDisabled)
	require.Equal(t, CompareWarning, v.Warning)
	require.Nil(t, v.Scatter)
	require.Nil(t, v.Heatmap)
	require.Len(t, v.Totals, 1)
	require.Len(t, v.Top, 3)
	require.Equal(t, v.Top[0].Value, engine.MaxMeasure(ledger.View(), "product_b"))
}

func TestRunNoProducts(t *testing.T) {
	p := DefaultParams()
	p.Products = nil
	v, err := Run(NewLedger(datasource.DefaultSeed), p)
	require.NoError(t, err)

	require.Empty(t, v.Totals)
	require.Empty(t, v.Top)
	require.Empty(t, v.TopMonths.Rows)
	require.Nil(t, v.Bar)
	require.Nil(t, v.Line)
	require.Nil(t, v.Pie)
	require.True(t, v.CompareDisabled)
	require.Len(t, v.Months.Columns, 1)
	require.Len(t, v.Map, 12)
}

func TestRunScatterAxes(t *testing.T) {
	ledger := NewLedger(datasource.DefaultSeed)

	p := DefaultParams()
	p.ScatterX = "product_b"
	v, err := Run(ledger, p)
	require.NoError(t, err)
	require.Equal(t, "product_b", v.Scatter.XAxis)
	require.Equal(t, "product_a", v.Scatter.YAxis)

	p.ScatterX, p.ScatterY = "product_c", "product_c"
	v, err = Run(ledger, p)
	require.NoError(t, err)
	require.InDelta(t, 1, v.Scatter.Correlation, 1e-9)
}

func TestRunExpression(t *testing.T) {
	ledger := NewLedger(datasource.DefaultSeed)
	p := DefaultParams()
	p.Where = "product_a >= 125"
	v, err := Run(ledger, p)
	require.NoError(t, err)
	for i := 0; i < v.Rows.Len(); i++ {
		require.GreaterOrEqual(t, v.Rows.Measure(i, "product_a"), 125.0)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params func(p *Params)
		target error
	}{
		{"unknown product", func(p *Params) { p.Products = []string{"product_z"} }, ErrUnknownProduct},
		{"duplicate product", func(p *Params) { p.Products = []string{"product_a", "product_a"} }, ErrUnknownProduct},
		{"month zero", func(p *Params) { p.MonthFrom = 0 }, ErrMonthRange},
		{"month thirteen", func(p *Params) { p.MonthTo = 13 }, ErrMonthRange},
		{"reversed", func(p *Params) { p.MonthFrom, p.MonthTo = 6, 5 }, ErrMonthRange},
		{"axis not selected", func(p *Params) { p.Products = []string{"product_a", "product_b"}; p.ScatterY = "product_c" }, ErrScatterAxis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.params(&p)
			_, err := Run(NewLedger(datasource.DefaultSeed), p)
			require.ErrorIs(t, err, tt.target)
		})
	}

	p := DefaultParams()
	p.TopK = -1
	require.Error(t, p.Validate())
}
