package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/dashboards/engine"
	"github.com/spektr-org/dashboards/schema"
)

// ============================================================================
// CSV HELPER — Records in, dashboard outputs out
// ============================================================================
// ParseCSV turns raw bytes into generic Records using a schema; the Write*
// functions flatten tables, charts and bucket counts into Sheets-ready rows.
// ============================================================================

// ParseCSV parses CSV bytes into Records using sch for classification.
// Derived measures are skipped: they are recomputed, never read.
func ParseCSV(data []byte, sch schema.Config) ([]engine.Record, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	dimSet := make(map[string]bool)
	for _, d := range sch.Dimensions {
		dimSet[d.Key] = true
	}
	measSet := make(map[string]bool)
	for _, m := range sch.Measures {
		if len(m.DerivedFrom) == 0 {
			measSet[m.Key] = true
		}
	}

	type colMapping struct {
		schemaKey   string
		isDimension bool
		isMeasure   bool
	}

	mappings := make([]colMapping, len(headers))
	for i, h := range headers {
		key := toSnakeCase(strings.TrimSpace(h))
		if dimSet[key] {
			mappings[i] = colMapping{schemaKey: key, isDimension: true}
		} else if measSet[key] {
			mappings[i] = colMapping{schemaKey: key, isMeasure: true}
		}
		// Unmapped columns are silently skipped
	}

	var records []engine.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}

		for i, val := range row {
			if i >= len(mappings) {
				break
			}
			m := mappings[i]
			val = strings.TrimSpace(val)

			if m.isDimension {
				rec.Dimensions[m.schemaKey] = val
			} else if m.isMeasure {
				f, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: column %q: %w", line, headers[i], err)
				}
				rec.Measures[m.schemaKey] = f
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

// WriteTableCSV writes column labels then every row.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if table == nil {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range table.Rows {
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

// WriteChartCSV writes a chart as label + one column per series.
func WriteChartCSV(w io.Writer, chart *engine.ChartConfig) error {
	cw := csv.NewWriter(w)
	if chart == nil || len(chart.Series) == 0 {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}

	xLabel := chart.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}

	headers := []string{xLabel}
	if len(chart.Series) == 1 {
		yLabel := chart.YAxis
		if yLabel == "" {
			yLabel = "Value"
		}
		headers = append(headers, yLabel)
	} else {
		for _, s := range chart.Series {
			headers = append(headers, s.Name)
		}
	}
	cw.Write(headers)

	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, FmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

// WriteBucketsCSV writes one row per bucket, zero counts included.
func WriteBucketsCSV(w io.Writer, counts []engine.BucketCount) error {
	return WriteTableCSV(w, engine.BuildBucketTable("", "Bucket", counts))
}

// FmtNum prints whole numbers without decimals and anything else with two.
func FmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
