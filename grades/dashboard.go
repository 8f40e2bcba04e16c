package grades

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/engine"
)

var (
	// ErrUnknownSubject is returned for a subject outside datasource.Subjects.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrUnknownField is returned for a distribution field that is neither a
	// subject nor the average.
	ErrUnknownField = errors.New("unknown score field")
)

// Params are the user-adjustable controls of the dashboard.
type Params struct {
	Grades         []int        `json:"grades" yaml:"grades"`                 // school years to keep; empty keeps none
	Search         string       `json:"search" yaml:"search"`                 // name substring, case-sensitive; empty disables
	Subject        string       `json:"subject" yaml:"subject"`               // subject for the mean threshold and metric
	Threshold      engine.Mode  `json:"threshold" yaml:"threshold"`           // all, above, below
	Sort           engine.Order `json:"sort" yaml:"sort"`                     // by average: none, desc, asc
	HistogramField string       `json:"histogramField" yaml:"histogramField"` // average or a subject
	BandField      string       `json:"bandField" yaml:"bandField"`           // average or a subject
	Where          string       `json:"where,omitempty" yaml:"where,omitempty"`
}

// DefaultParams shows every student, unsorted.
func DefaultParams() Params {
	return Params{
		Grades:         []int{1, 2, 3},
		Subject:        "korean",
		Threshold:      engine.AllRows,
		Sort:           engine.Unsorted,
		HistogramField: KeyAverage,
		BandField:      KeyAverage,
	}
}

// Validate rejects parameters that name fields the table does not have.
func (p Params) Validate() error {
	if !isSubject(p.Subject) {
		return fmt.Errorf("%w: %q", ErrUnknownSubject, p.Subject)
	}
	for _, f := range []string{p.HistogramField, p.BandField} {
		if f != KeyAverage && !isSubject(f) {
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}
	if _, err := engine.ParseMode(string(p.Threshold)); err != nil {
		return err
	}
	if _, err := engine.ParseOrder(string(p.Sort)); err != nil {
		return err
	}
	return nil
}

func isSubject(s string) bool {
	for _, subject := range datasource.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// View is everything the dashboard renders for one set of Params.
type View struct {
	RunID string `json:"runId"`

	// Filtered roster
	Students *engine.TableData `json:"students"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
	Notice   string            `json:"notice,omitempty"` // set only when rows were filtered out
	Baseline float64           `json:"baseline"`         // unfiltered mean of the selected subject

	// Headline numbers, always over the full roster
	Metrics []engine.Metric `json:"metrics"`

	// Totals and interchange projection
	Totals  *engine.TableData `json:"totals"`
	Records []StudentRecord   `json:"records"`

	// Analysis, over the full roster
	SubjectMeans   *engine.ChartConfig  `json:"subjectMeans"`
	GradeMeans     *engine.TableData    `json:"gradeMeans"`
	GradeTrend     *engine.ChartConfig  `json:"gradeTrend"`
	Histogram      []engine.BucketCount `json:"histogram"`
	HistogramChart *engine.ChartConfig  `json:"histogramChart"`
	Bands          []engine.BucketCount `json:"bands"`
	BandChart      *engine.ChartConfig  `json:"bandChart"`

	Rows engine.RecordView `json:"-"` // filtered and sorted rows
}

const noticeTemplate = "Search result: {count} of {total} students match the filter conditions."

// Run filters, sorts and aggregates the book for p.
func Run(book *Book, p Params, opts ...engine.Option) (*View, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	// Validate accepts any casing; the engine compares exact values.
	p.Threshold, _ = engine.ParseMode(string(p.Threshold))
	p.Sort, _ = engine.ParseOrder(string(p.Sort))

	base := book.View()

	preds := []engine.Predicate{
		engine.Membership(KeyGrade, gradeKeys(p.Grades)...),
		engine.Contains(KeyName, p.Search),
		engine.Threshold(p.Subject, p.Threshold),
	}
	if p.Where != "" {
		pred, err := engine.Expression(p.Where)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}

	exec := engine.Execute(base, preds, append([]engine.Option{engine.WithName("grades")}, opts...)...)
	rows := engine.SortView(exec.View, KeyAverage, p.Sort)

	v := &View{
		RunID:    exec.RunID,
		Students: engine.BuildListTable("Student scores", rows, studentColumns()...),
		Count:    rows.Len(),
		Total:    base.Len(),
		Baseline: engine.ThresholdBaseline(base, p.Subject),
		Metrics:  buildMetrics(base, p.Subject),
		Totals:   engine.BuildListTable("Total scores", base, totalsColumns()...),
		Records:  book.Records(),
		Rows:     rows,
	}
	if exec.Filtered() {
		v.Notice = engine.ResolvePlaceholders(noticeTemplate, exec)
	}

	buildAnalysis(v, base, p)
	return v, nil
}

func gradeKeys(grades []int) []string {
	keys := make([]string, len(grades))
	for i, g := range grades {
		keys[i] = strconv.Itoa(g)
	}
	return keys
}

func studentColumns() []engine.ColumnSpec {
	cols := []engine.ColumnSpec{
		{Key: KeyName, Label: Schema.DisplayName(KeyName)},
		{Key: KeyGrade, Label: Schema.DisplayName(KeyGrade)},
	}
	for _, s := range datasource.Subjects {
		cols = append(cols, engine.ColumnSpec{Key: s, Label: Schema.DisplayName(s), Format: "int"})
	}
	return append(cols,
		engine.ColumnSpec{Key: KeyTotal, Label: Schema.DisplayName(KeyTotal), Format: "int"},
		engine.ColumnSpec{Key: KeyAverage, Label: Schema.DisplayName(KeyAverage)},
	)
}

func totalsColumns() []engine.ColumnSpec {
	return []engine.ColumnSpec{
		{Key: KeyName, Label: "Name"},
		{Key: KeyGrade, Label: "Grade"},
		{Key: KeyTotal, Label: "Total", Format: "int"},
		{Key: KeyAverage, Label: "Average"},
	}
}

func buildMetrics(base engine.RecordView, subject string) []engine.Metric {
	return []engine.Metric{
		engine.MeanMetric("Overall average", base, KeyAverage),
		engine.MaxMetric("Highest average", base, KeyAverage),
		engine.MinMetric("Lowest average", base, KeyAverage),
		engine.MeanMetric(Schema.DisplayName(subject)+" average", base, subject),
	}
}

func buildAnalysis(v *View, base engine.RecordView, p Params) {
	points := make([]engine.ChartPoint, len(datasource.Subjects))
	for i, s := range datasource.Subjects {
		points[i] = engine.ChartPoint{Label: Schema.DisplayName(s), Value: engine.AvgMeasure(base, s)}
	}
	v.SubjectMeans = engine.BuildValueChart("bar", "Average score by subject", "Subject", "Average", points)

	measures := append(append([]string{}, datasource.Subjects...), KeyAverage)
	byGrade := engine.GroupMeans(base, KeyGrade, measures...)
	v.GradeMeans = engine.BuildGroupTable("Average score by grade", byGrade)
	v.GradeTrend = engine.BuildGroupTableChart("line", "Subject averages by grade", byGrade, datasource.Subjects)

	v.Histogram = engine.Bucketize(base, p.HistogramField, engine.ScoreRanges)
	v.HistogramChart = engine.BuildBucketChart(
		"Score distribution: "+Schema.DisplayName(p.HistogramField), "Score range", v.Histogram)

	v.Bands = engine.Bucketize(base, p.BandField, engine.GradeBands)
	v.BandChart = engine.BuildBucketChart(
		"Students per grade band: "+Schema.DisplayName(p.BandField), "Band", v.Bands)
}
