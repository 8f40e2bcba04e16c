package grades

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spektr-org/dashboards/datasource"
	"github.com/spektr-org/dashboards/helpers"
)

// ReadRoster parses a CSV roster with name, grade and one column per subject.
// Total and average columns, if present, are ignored and recomputed.
func ReadRoster(data []byte) ([]datasource.Student, error) {
	records, err := helpers.ParseCSV(data, Schema)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}

	students := make([]datasource.Student, 0, len(records))
	for i, rec := range records {
		row := i + 1
		name, ok := rec.Dimensions[KeyName]
		if !ok || name == "" {
			return nil, fmt.Errorf("roster row %d: missing name", row)
		}
		grade, err := strconv.Atoi(rec.Dimensions[KeyGrade])
		if err != nil {
			return nil, fmt.Errorf("roster row %d: grade: %w", row, err)
		}

		scores := make(map[string]int, len(datasource.Subjects))
		for _, subject := range datasource.Subjects {
			v, ok := rec.Measures[subject]
			if !ok {
				return nil, fmt.Errorf("roster row %d: missing %s score", row, subject)
			}
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("roster row %d: %s score %v is not a whole number", row, subject, v)
			}
			scores[subject] = int(v)
		}

		students = append(students, datasource.Student{
			Name:    name,
			Grade:   grade,
			Korean:  scores["korean"],
			English: scores["english"],
			Math:    scores["math"],
			Science: scores["science"],
		})
	}
	return students, nil
}
