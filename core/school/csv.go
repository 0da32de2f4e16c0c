package school

import (
	"strings"

	"github.com/google/uuid"
)

// CSV import defaults for optional/absent columns.
const (
	defaultGender  = "Male"
	defaultAddress = "Mogadishu"
	defaultDOB     = "2015-01-01"
)

// ParseStudentsCSV parses student rows from comma-delimited text. The first
// line is treated as a header and skipped. A data row needs at least 4 fields
// (fullName, parentName, phone, grade); gender and address are optional.
// Shorter or blank lines are silently skipped, never fatal. Imported students
// get a fresh id and parent access code, and enroll on the supplied date.
//
// Fields are split on raw commas with no quoting rule; an embedded comma in a
// name or address shifts the remaining columns. That matches the export side
// of the round-trip, so do not add escaping here without changing both.
func ParseStudentsCSV(text, enrollmentDate string) []Student {
	lines := strings.Split(text, "\n")
	students := make([]Student, 0)
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			continue
		}

		grade := GradeLevel(strings.TrimSpace(parts[3]))
		if !grade.Valid() {
			grade = Grade1
		}
		student := Student{
			ID:               uuid.New().String(),
			FullName:         fieldOr(parts, 0, "Unknown"),
			ParentName:       fieldOr(parts, 1, "Unknown"),
			Phone:            fieldOr(parts, 2, ""),
			Grade:            grade,
			Gender:           fieldOr(parts, 4, defaultGender),
			Address:          fieldOr(parts, 5, defaultAddress),
			DOB:              defaultDOB,
			EnrollmentDate:   enrollmentDate,
			ParentAccessCode: NewParentAccessCode(),
			LibraryClearance: true,
		}
		students = append(students, student)
	}
	return students
}

func fieldOr(parts []string, i int, fallback string) string {
	if i < len(parts) {
		if v := strings.TrimSpace(parts[i]); v != "" {
			return v
		}
	}
	return fallback
}
