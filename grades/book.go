// Package grades is the student-grade dashboard: a fixed roster with derived
// totals, filtered by school year, name and subject mean, plus grouped means
// and score distributions.
package grades

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/engine"
	"github.com/spektr-org/dashboards/schema"
)

// Field keys.
const (
	KeyName    = "name"
	KeyGrade   = "grade"
	KeyTotal   = "total"
	KeyAverage = "average"
)

// Schema declares the grade table as the dashboard sees it.
var Schema = schema.Config{
	Name:        "grades",
	Description: "Student scores per subject with derived total and average",
	Dimensions: []schema.DimensionMeta{
		{Key: KeyName, DisplayName: "Name", Filterable: true, Searchable: true},
		schema.DefaultDimension(KeyGrade, "Grade"),
	},
	Measures: []schema.MeasureMeta{
		schema.DefaultMeasure("korean", "Korean", "points"),
		schema.DefaultMeasure("english", "English", "points"),
		schema.DefaultMeasure("math", "Math", "points"),
		schema.DefaultMeasure("science", "Science", "points"),
		schema.DerivedMeasure(KeyTotal, "Total", "points", "sum", datasource.Subjects...),
		schema.DerivedMeasure(KeyAverage, "Average", "points", "avg", datasource.Subjects...),
	},
}

var studentAdapter = func() *engine.DomainAdapter[datasource.Student] {
	a := engine.NewDomainAdapter[datasource.Student]().
		Dimension(KeyName, func(s datasource.Student) string { return s.Name }).
		Dimension(KeyGrade, func(s datasource.Student) string { return strconv.Itoa(s.Grade) })
	for _, subject := range datasource.Subjects {
		a.Measure(subject, func(s datasource.Student) float64 { return float64(s.Score(subject)) })
	}
	return a
}()

// Book is the immutable grade table: the roster plus its frozen totals.
// Build it once and share it; nothing mutates it afterwards.
type Book struct {
	rows *engine.DomainView[datasource.Student]
	view *engine.DerivedView
}

// NewBook derives totals and averages for students.
func NewBook(students []datasource.Student) *Book {
	rows := studentAdapter.Bind(append([]datasource.Student(nil), students...))
	view := engine.Derive(rows, engine.DerivedSpec{
		SumKey: KeyTotal,
		AvgKey: KeyAverage,
		Fields: datasource.Subjects,
	})
	Schema.MustMatch(view)
	return &Book{rows: rows, view: view}
}

// DefaultBook is the book over the literal roster.
func DefaultBook() *Book {
	return NewBook(datasource.Students())
}

// View exposes the base table.
func (b *Book) View() engine.RecordView { return b.view }

// Len is the number of students.
func (b *Book) Len() int { return b.rows.Len() }

// StudentRecord is the interchange projection of one student.
type StudentRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Grade      int     `json:"grade"`
	TotalScore int     `json:"total_score"`
	Average    float64 `json:"average"`
}

// Records projects every student, in roster order. Average is unrounded.
func (b *Book) Records() []StudentRecord {
	out := make([]StudentRecord, b.rows.Len())
	for i := range out {
		s := b.rows.Row(i)
		out[i] = StudentRecord{
			ID:         fmt.Sprintf("student_%d", i),
			Name:       s.Name,
			Grade:      s.Grade,
			TotalScore: int(math.Round(b.view.Measure(i, KeyTotal))),
			Average:    b.view.Measure(i, KeyAverage),
		}
	}
	return out
}
