package sales

import (
	"errors"
	"fmt"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/engine"
)

var (
	// ErrUnknownProduct is returned for a product outside datasource.Products.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrMonthRange is returned for a month range outside 1-12 or reversed.
	ErrMonthRange = errors.New("invalid month range")
	// ErrScatterAxis is returned when a scatter axis is not a selected product.
	ErrScatterAxis = errors.New("scatter axis must be a selected product")
)

// CompareWarning is shown instead of comparison charts with fewer than two products.
const CompareWarning = "Select at least two products to compare them."

// Params are the user-adjustable controls of the dashboard.
type Params struct {
	Products  []string `json:"products" yaml:"products"` // selected product keys, in display order
	MonthFrom int      `json:"monthFrom" yaml:"monthFrom"`
	MonthTo   int      `json:"monthTo" yaml:"monthTo"`
	TopK      int      `json:"topK" yaml:"topK"`
	ScatterX  string   `json:"scatterX,omitempty" yaml:"scatterX,omitempty"` // default: first product
	ScatterY  string   `json:"scatterY,omitempty" yaml:"scatterY,omitempty"` // default: first product other than X
	Where     string   `json:"where,omitempty" yaml:"where,omitempty"`
}

// DefaultParams selects every product over the whole year.
func DefaultParams() Params {
	return Params{
		Products:  append([]string{}, datasource.Products...),
		MonthFrom: 1,
		MonthTo:   12,
		TopK:      3,
	}
}

// Validate checks products, month range and scatter axes.
func (p Params) Validate() error {
	seen := make(map[string]bool)
	for _, prod := range p.Products {
		if !isProduct(prod) {
			return fmt.Errorf("%w: %q", ErrUnknownProduct, prod)
		}
		if seen[prod] {
			return fmt.Errorf("%w: %q selected twice", ErrUnknownProduct, prod)
		}
		seen[prod] = true
	}
	if p.MonthFrom < 1 || p.MonthTo > 12 || p.MonthFrom > p.MonthTo {
		return fmt.Errorf("%w: %d-%d", ErrMonthRange, p.MonthFrom, p.MonthTo)
	}
	if p.TopK < 0 {
		return fmt.Errorf("top months must not be negative: %d", p.TopK)
	}
	for _, axis := range []string{p.ScatterX, p.ScatterY} {
		if axis != "" && !seen[axis] {
			return fmt.Errorf("%w: %q", ErrScatterAxis, axis)
		}
	}
	return nil
}

func isProduct(s string) bool {
	for _, p := range datasource.Products {
		if s == p {
			return true
		}
	}
	return false
}

// View is everything the dashboard renders for one set of Params.
type View struct {
	RunID string `json:"runId"`

	Months    *engine.TableData `json:"months"`
	Totals    []engine.Metric   `json:"totals"`
	TopMonths *engine.TableData `json:"topMonths"`
	Top       []engine.Group    `json:"top"`

	Bar  *engine.ChartConfig `json:"bar,omitempty"`
	Line *engine.ChartConfig `json:"line,omitempty"`
	Pie  *engine.ChartConfig `json:"pie,omitempty"`

	// Comparison views need two products; otherwise CompareDisabled is set
	// and Warning explains why.
	CompareDisabled bool                `json:"compareDisabled"`
	Warning         string              `json:"warning,omitempty"`
	Scatter         *engine.ScatterData `json:"scatter,omitempty"`
	Heatmap         *engine.HeatmapData `json:"heatmap,omitempty"`

	Map []engine.GeoPoint `json:"map"`

	Rows engine.RecordView `json:"-"` // month-range rows
}

// Run slices the ledger by month range and builds every view for p.
func Run(ledger *Ledger, p Params, opts ...engine.Option) (*View, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	preds := []engine.Predicate{engine.PositionRange(p.MonthFrom, p.MonthTo)}
	if p.Where != "" {
		pred, err := engine.Expression(p.Where)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}

	exec := engine.Execute(ledger.View(), preds, append([]engine.Option{engine.WithName("sales")}, opts...)...)
	rows := exec.View

	v := &View{
		RunID:  exec.RunID,
		Months: engine.BuildListTable("Monthly sales", rows, monthColumns(p.Products)...),
		Totals: make([]engine.Metric, 0, len(p.Products)),
		Top:    []engine.Group{},
		Map:    buildMap(ledger.Locations()),
		Rows:   rows,
	}

	points := make([]engine.ChartPoint, 0, len(p.Products))
	for _, prod := range p.Products {
		m := engine.TotalMetric(Schema.DisplayName(prod)+" total", rows, prod, "units")
		v.Totals = append(v.Totals, m)
		points = append(points, engine.ChartPoint{Label: Schema.DisplayName(prod), Value: m.RawValue})
	}

	if len(p.Products) > 0 {
		withTotal := engine.Derive(rows, engine.DerivedSpec{SumKey: KeyMonthlyTotal, Fields: p.Products})
		v.Top = engine.TopN(withTotal, KeyMonth, KeyMonthlyTotal, p.TopK)
	}
	v.TopMonths = engine.BuildRankTable("Top months", "Month", "Monthly total", v.Top)

	v.Bar = relabel(engine.BuildSeriesChart("bar", "Units sold per month", rows, KeyMonth, p.Products))
	v.Line = relabel(engine.BuildSeriesChart("line", "Monthly sales trend", rows, KeyMonth, p.Products))
	v.Pie = engine.BuildValueChart("pie", "Share of total sales", "Product", "Units", points)
	if v.Pie != nil {
		v.Pie.Hole = 0.3
	}

	if len(p.Products) < 2 {
		v.CompareDisabled = true
		v.Warning = CompareWarning
		return v, nil
	}

	x, y := scatterAxes(p)
	v.Scatter = engine.BuildScatter(
		fmt.Sprintf("%s vs %s", Schema.DisplayName(x), Schema.DisplayName(y)), rows, KeyMonth, x, y)
	v.Heatmap = engine.BuildHeatmap("Units sold per month and product", rows, KeyMonth, p.Products)
	return v, nil
}

// scatterAxes picks X (default first product) and Y (default the first
// product that is not X).
func scatterAxes(p Params) (string, string) {
	x := p.ScatterX
	if x == "" {
		x = p.Products[0]
	}
	y := p.ScatterY
	if y == "" {
		y = p.Products[0]
		if y == x {
			y = p.Products[1]
		}
	}
	return x, y
}

func monthColumns(products []string) []engine.ColumnSpec {
	cols := []engine.ColumnSpec{{Key: KeyMonth, Label: "Month"}}
	for _, p := range products {
		cols = append(cols, engine.ColumnSpec{Key: p, Label: Schema.DisplayName(p), Format: "int"})
	}
	return cols
}

func relabel(chart *engine.ChartConfig) *engine.ChartConfig {
	if chart == nil {
		return nil
	}
	chart.YAxis = "Units"
	for i := range chart.Series {
		chart.Series[i].Name = Schema.DisplayName(chart.Series[i].Name)
	}
	return chart
}

func buildMap(locs engine.RecordView) []engine.GeoPoint {
	points := make([]engine.GeoPoint, locs.Len())
	for i := range points {
		points[i] = engine.GeoPoint{
			Label: locs.Dimension(i, KeyRegion),
			Lat:   locs.Measure(i, KeyLat),
			Lon:   locs.Measure(i, KeyLon),
			Value: locs.Measure(i, KeyVolume),
		}
	}
	return points
}
