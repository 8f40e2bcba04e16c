package engine

// ============================================================================
// ENGINE TYPES — Rows, groups and render-ready output shapes
// ============================================================================
// Rows are read through RecordView (view.go). Everything the engine hands to
// a renderer is a plain table of scalars: groups, buckets, chart series,
// table cells, metric cards.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// Typed datasets use DomainAdapter instead; Record backs SliceView.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group is a keyed aggregate over a subset of rows.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // rows of this group (zero-copy)
}

// GroupTable holds per-group means for several measures.
// Rows are ordered by ascending key.
type GroupTable struct {
	Key      string     `json:"key"`
	Measures []string   `json:"measures"`
	Rows     []GroupRow `json:"rows"`
}

// GroupRow is one group of a GroupTable. Means is aligned with GroupTable.Measures.
type GroupRow struct {
	Key   string    `json:"key"`
	Count int       `json:"count"`
	Means []float64 `json:"means"`
}

// ============================================================================
// BUCKETS
// ============================================================================

// Bucket is a half-open numeric range [Floor, next Floor) with a label.
type Bucket struct {
	Label string  `json:"label"`
	Range string  `json:"range"`
	Floor float64 `json:"floor"`
}

// BucketCount is the number of rows that fell into a bucket.
type BucketCount struct {
	Label string `json:"label"`
	Range string `json:"range"`
	Count int    `json:"count"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a category chart (bar, line, pie).
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Hole       float64       `json:"hole,omitempty"` // donut ratio for pie charts
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScatterData is a two-measure scatter plot with a least-squares trendline.
type ScatterData struct {
	Title       string         `json:"title"`
	XAxis       string         `json:"xAxis"`
	YAxis       string         `json:"yAxis"`
	Points      []ScatterPoint `json:"points"`
	Correlation float64        `json:"correlation"`
	Defined     bool           `json:"defined"` // false when correlation is undefined (zero variance)
	Trend       *LinearModel   `json:"trend,omitempty"`
}

// ScatterPoint is one (x, y) observation with its hover label.
type ScatterPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// LinearModel is y = Slope*x + Intercept.
type LinearModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// HeatmapData is a row-label x column-label matrix of values.
type HeatmapData struct {
	Title   string      `json:"title"`
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// GeoPoint is a labelled coordinate with a magnitude.
type GeoPoint struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Type      string `json:"type"`  // "text", "number"
	Align     string `json:"align"` // "left", "center", "right"
	Highlight int    `json:"highlight,omitempty"` // 1-based row holding the column max, 0 = none
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// METRIC TYPES
// ============================================================================

// Metric is a single headline number with an optional delta.
type Metric struct {
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	RawValue float64 `json:"rawValue"`
	Delta    string  `json:"delta,omitempty"`
}
