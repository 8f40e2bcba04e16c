// Package datasource builds the synthetic datasets behind the dashboards.
// Every constructor is deterministic: the roster is literal and the sales
// generator is driven by an explicit seed.
package datasource

// Subjects lists the scored subjects in column order.
var Subjects = []string{"korean", "english", "math", "science"}

// Student is one row of the grade roster.
type Student struct {
	Name    string
	Grade   int // school year, 1-3
	Korean  int
	English int
	Math    int
	Science int
}

// Score returns the student's score for a key from Subjects.
func (s Student) Score(subject string) int {
	switch subject {
	case "korean":
		return s.Korean
	case "english":
		return s.English
	case "math":
		return s.Math
	case "science":
		return s.Science
	}
	panic("datasource: unknown subject " + subject)
}

// Students returns the fixed eight-student roster. The slice is fresh on each
// call so callers may keep it without aliasing.
func Students() []Student {
	return []Student{
		{Name: "김민준", Grade: 1, Korean: 85, English: 92, Math: 78, Science: 90},
		{Name: "이서연", Grade: 2, Korean: 92, English: 88, Math: 95, Science: 84},
		{Name: "박지호", Grade: 3, Korean: 78, English: 76, Math: 65, Science: 72},
		{Name: "최수아", Grade: 1, Korean: 96, English: 94, Math: 92, Science: 88},
		{Name: "정도윤", Grade: 2, Korean: 88, English: 85, Math: 90, Science: 95},
		{Name: "한예은", Grade: 3, Korean: 77, English: 75, Math: 68, Science: 70},
		{Name: "황현우", Grade: 2, Korean: 82, English: 79, Math: 85, Science: 78},
		{Name: "송지은", Grade: 1, Korean: 94, English: 91, Math: 79, Science: 86},
	}
}
