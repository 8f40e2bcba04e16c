package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/spektr-org/dashboards/engine"
	"github.com/spektr-org/dashboards/grades"
	"github.com/spektr-org/dashboards/helpers"
	"github.com/spektr-org/dashboards/sales"
	"github.com/spektr-org/dashboards/schema"
)

// ============================================================================
// CSV OUTPUT — One dashboard section as Sheets-ready CSV
// ============================================================================

func writeGradesCSV(w io.Writer, v *grades.View, section string) error {
	switch section {
	case "", "students":
		return helpers.WriteTableCSV(w, v.Students)
	case "totals":
		return helpers.WriteTableCSV(w, v.Totals)
	case "grade-means":
		return helpers.WriteTableCSV(w, v.GradeMeans)
	case "histogram":
		return helpers.WriteBucketsCSV(w, v.Histogram)
	case "bands":
		return helpers.WriteBucketsCSV(w, v.Bands)
	}
	return fmt.Errorf("unknown grades section %q", section)
}

func writeSalesCSV(w io.Writer, v *sales.View, section string) error {
	switch section {
	case "", "months":
		return helpers.WriteTableCSV(w, v.Months)
	case "top":
		return helpers.WriteTableCSV(w, v.TopMonths)
	case "bar":
		return helpers.WriteChartCSV(w, v.Bar)
	case "pie":
		return helpers.WriteChartCSV(w, v.Pie)
	case "map":
		return helpers.WriteTableCSV(w, mapTable(v.Map))
	}
	return fmt.Errorf("unknown sales section %q", section)
}

func writeTableCSV(w io.Writer, table *engine.TableData) error {
	return helpers.WriteTableCSV(w, table)
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func writeGradesText(w io.Writer, v *grades.View, color bool) {
	r := helpers.NewTextRenderer(w, color)

	r.Heading("Summary")
	r.Metrics(v.Metrics)

	r.Table(v.Students)
	r.Notice(v.Notice)

	r.Table(v.Totals)
	r.Table(v.GradeMeans)
	r.Buckets(histTitle(v.HistogramChart, "Score distribution"), v.Histogram)
	r.Buckets(histTitle(v.BandChart, "Students per grade band"), v.Bands)
}

func writeSalesText(w io.Writer, v *sales.View, color bool) {
	r := helpers.NewTextRenderer(w, color)

	r.Heading("Totals")
	r.Metrics(v.Totals)

	r.Table(v.Months)
	r.Table(v.TopMonths)

	r.Heading("Comparison")
	if v.CompareDisabled {
		r.Warning(v.Warning)
	} else if v.Scatter != nil {
		corr := "undefined"
		if v.Scatter.Defined {
			corr = fmt.Sprintf("%.2f", v.Scatter.Correlation)
		}
		r.Notice(fmt.Sprintf("%s: correlation %s", v.Scatter.Title, corr))
	}

	r.Table(mapTable(v.Map))
}

func writeTableText(w io.Writer, table *engine.TableData, color bool) {
	helpers.NewTextRenderer(w, color).Table(table)
}

func histTitle(chart *engine.ChartConfig, fallback string) string {
	if chart == nil {
		return fallback
	}
	return chart.Title
}

func mapTable(points []engine.GeoPoint) *engine.TableData {
	t := &engine.TableData{
		Title: "Sales by region",
		Columns: []engine.Column{
			{Key: "region", Label: "Region", Type: "text", Align: "left"},
			{Key: "lat", Label: "Lat", Type: "number", Align: "right"},
			{Key: "lon", Label: "Lon", Type: "number", Align: "right"},
			{Key: "volume", Label: "Volume", Type: "number", Align: "right"},
		},
		Rows: make([][]string, 0, len(points)),
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{
			p.Label,
			fmt.Sprintf("%.4f", p.Lat),
			fmt.Sprintf("%.4f", p.Lon),
			helpers.FmtNum(p.Value),
		})
	}
	return t
}

func schemaTable(s schema.Config) *engine.TableData {
	t := &engine.TableData{
		Title: fmt.Sprintf("%s: %s", s.Name, s.Description),
		Columns: []engine.Column{
			{Key: "key", Label: "Key", Type: "text", Align: "left"},
			{Key: "kind", Label: "Kind", Type: "text", Align: "left"},
			{Key: "name", Label: "Display name", Type: "text", Align: "left"},
			{Key: "unit", Label: "Unit", Type: "text", Align: "left"},
			{Key: "derived", Label: "Derived from", Type: "text", Align: "left"},
		},
	}
	for _, d := range s.Dimensions {
		t.Rows = append(t.Rows, []string{d.Key, "dimension", d.DisplayName, "", ""})
	}
	for _, m := range s.Measures {
		t.Rows = append(t.Rows, []string{m.Key, "measure", m.DisplayName, m.Unit, strings.Join(m.DerivedFrom, "+")})
	}
	return t
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}

	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
