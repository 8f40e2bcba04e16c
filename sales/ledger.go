// Package sales is the monthly sales dashboard: seeded per-product monthly
// volumes sliced by month range and product selection, with totals, top
// months, comparison charts and a regional map.
package sales

import (
	"fmt"
	"strings"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/engine"
	"github.com/spektr-org/dashboards/schema"
)

// Field keys.
const (
	KeyMonth        = "month"
	KeyMonthlyTotal = "monthly_total"
	KeyRegion       = "region"
	KeyLat          = "lat"
	KeyLon          = "lon"
	KeyVolume       = "volume"
)

// Schema declares the monthly sales table.
var Schema = schema.Config{
	Name:        "sales",
	Description: "Units sold per product per month",
	Dimensions: []schema.DimensionMeta{
		{Key: KeyMonth, DisplayName: "Month", Groupable: true},
	},
	Measures: []schema.MeasureMeta{
		schema.DefaultMeasure("product_a", "Product A", "units"),
		schema.DefaultMeasure("product_b", "Product B", "units"),
		schema.DefaultMeasure("product_c", "Product C", "units"),
	},
}

// LocationSchema declares the regional volume table.
var LocationSchema = schema.Config{
	Name:        "locations",
	Description: "Sales volume per region",
	Dimensions: []schema.DimensionMeta{
		{Key: KeyRegion, DisplayName: "Region", Groupable: true, Filterable: true},
	},
	Measures: []schema.MeasureMeta{
		{Key: KeyLat, DisplayName: "Latitude", Unit: "degrees"},
		{Key: KeyLon, DisplayName: "Longitude", Unit: "degrees"},
		schema.DefaultMeasure(KeyVolume, "Sales volume", "units"),
	},
}

var monthAdapter = func() *engine.DomainAdapter[datasource.MonthlySales] {
	a := engine.NewDomainAdapter[datasource.MonthlySales]().
		Dimension(KeyMonth, func(m datasource.MonthlySales) string { return m.Label })
	for _, p := range datasource.Products {
		a.Measure(p, func(m datasource.MonthlySales) float64 { return float64(m.Units(p)) })
	}
	return a
}()

var locationAdapter = engine.NewDomainAdapter[datasource.Location]().
	Dimension(KeyRegion, func(l datasource.Location) string { return l.Region }).
	Measure(KeyLat, func(l datasource.Location) float64 { return l.Lat }).
	Measure(KeyLon, func(l datasource.Location) float64 { return l.Lon }).
	Measure(KeyVolume, func(l datasource.Location) float64 { return float64(l.Volume) })

// Ledger is the immutable sales dataset generated from one seed.
type Ledger struct {
	seed      uint64
	months    []datasource.MonthlySales
	locations []datasource.Location
	view      engine.RecordView
	locView   engine.RecordView
}

// NewLedger generates the dataset for seed.
func NewLedger(seed uint64) *Ledger {
	months, locations := datasource.GenerateSales(seed)
	l := &Ledger{
		seed:      seed,
		months:    months,
		locations: locations,
		view:      monthAdapter.Bind(months),
		locView:   locationAdapter.Bind(locations),
	}
	Schema.MustMatch(l.view)
	LocationSchema.MustMatch(l.locView)
	return l
}

// Seed is the seed the ledger was generated from.
func (l *Ledger) Seed() uint64 { return l.seed }

// View exposes the monthly table.
func (l *Ledger) View() engine.RecordView { return l.view }

// Locations exposes the regional table.
func (l *Ledger) Locations() engine.RecordView { return l.locView }

// ParseProduct accepts "A", "product_a" or "Product A" for datasource.Products.
func ParseProduct(s string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	if !strings.HasPrefix(norm, "product_") {
		norm = "product_" + norm
	}
	for _, p := range datasource.Products {
		if p == norm {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProduct, s)
}
