package engine

// ============================================================================
// CHART BUILDER — Produces chart configs from views, groups and buckets
// ============================================================================
// Values are rounded to 2 decimals here and nowhere earlier.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildSeriesChart plots one series per measure, one point per row of view
// labelled by labelKey. Used for grouped bar and line charts.
func BuildSeriesChart(chartType, title string, view RecordView, labelKey string, measures []string) *ChartConfig {
	if view.Len() == 0 || len(measures) == 0 {
		return nil
	}
	mustDimension(view, labelKey)

	series := make([]ChartSeries, 0, len(measures))
	for i, m := range measures {
		mustMeasure(view, m)
		points := make([]ChartPoint, 0, view.Len())
		for r := 0; r < view.Len(); r++ {
			points = append(points, ChartPoint{
				Label: view.Dimension(r, labelKey),
				Value: RoundTo2(view.Measure(r, m)),
			})
		}
		series = append(series, ChartSeries{
			Name:  m,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      LabelForDimension(labelKey),
		YAxis:      "Value",
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildGroupTableChart plots one series per measure of a GroupTable, one
// point per group.
func BuildGroupTableChart(chartType, title string, table *GroupTable, measures []string) *ChartConfig {
	if table == nil || len(table.Rows) == 0 {
		return nil
	}

	series := make([]ChartSeries, 0, len(measures))
	for i, m := range measures {
		col := table.Column(m)
		points := make([]ChartPoint, 0, len(col))
		for r, v := range col {
			points = append(points, ChartPoint{Label: table.Rows[r].Key, Value: RoundTo2(v)})
		}
		series = append(series, ChartSeries{
			Name:  m,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      LabelForDimension(table.Key),
		YAxis:      "Average",
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildValueChart plots a single series of labelled values.
func BuildValueChart(chartType, title, xAxis, yAxis string, points []ChartPoint) *ChartConfig {
	if len(points) == 0 {
		return nil
	}

	rounded := make([]ChartPoint, len(points))
	for i, p := range points {
		rounded[i] = ChartPoint{Label: p.Label, Value: RoundTo2(p.Value)}
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     []ChartSeries{{Name: yAxis, Data: rounded}},
		ShowLegend: chartType == "pie",
		ShowGrid:   chartType != "pie",
	}
	if chartType == "pie" {
		config.Colors = assignColors(len(rounded))
	} else {
		config.Colors = assignColors(1)
	}
	return config
}

// BuildBucketChart plots bucket counts as a bar chart, in bucket order.
func BuildBucketChart(title, xAxis string, counts []BucketCount) *ChartConfig {
	points := make([]ChartPoint, len(counts))
	for i, c := range counts {
		points[i] = ChartPoint{Label: c.Label, Value: float64(c.Count)}
	}
	return BuildValueChart("bar", title, xAxis, "Count", points)
}

// BuildScatter pairs two measures per row and fits a trendline.
func BuildScatter(title string, view RecordView, labelKey, x, y string) *ScatterData {
	mustDimension(view, labelKey)
	mustMeasure(view, x)
	mustMeasure(view, y)

	points := make([]ScatterPoint, view.Len())
	for i := range points {
		points[i] = ScatterPoint{
			Label: view.Dimension(i, labelKey),
			X:     view.Measure(i, x),
			Y:     view.Measure(i, y),
		}
	}

	r, ok := Correlation(view, x, y)
	data := &ScatterData{
		Title:   title,
		XAxis:   x,
		YAxis:   y,
		Points:  points,
		Defined: ok,
		Trend:   LinearFit(view, x, y),
	}
	if ok {
		data.Correlation = r
	}
	return data
}

// BuildHeatmap lays out measures (columns) against rows labelled by rowKey.
func BuildHeatmap(title string, view RecordView, rowKey string, measures []string) *HeatmapData {
	mustDimension(view, rowKey)

	data := &HeatmapData{
		Title:   title,
		Rows:    make([]string, view.Len()),
		Columns: append([]string{}, measures...),
		Values:  make([][]float64, view.Len()),
	}
	for _, m := range measures {
		mustMeasure(view, m)
	}
	for i := 0; i < view.Len(); i++ {
		data.Rows[i] = view.Dimension(i, rowKey)
		row := make([]float64, len(measures))
		for j, m := range measures {
			row[j] = view.Measure(i, m)
		}
		data.Values[i] = row
	}
	return data
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
