package school

// Upsert-by-key merge rules. A new batch supersedes existing records sharing
// its natural composite key; everything else is kept untouched, so a partial
// submission (e.g. one grade cohort) never erases records outside it.

// MergeAttendance keeps every existing record whose (studentId, date) pair
// does not appear in batch, then appends batch.
func MergeAttendance(existing, batch []AttendanceRecord) []AttendanceRecord {
	type key struct {
		studentID string
		date      string
	}
	superseded := make(map[key]struct{}, len(batch))
	for _, r := range batch {
		superseded[key{r.StudentID, r.Date}] = struct{}{}
	}

	merged := make([]AttendanceRecord, 0, len(existing)+len(batch))
	for _, r := range existing {
		if _, ok := superseded[key{r.StudentID, r.Date}]; !ok {
			merged = append(merged, r)
		}
	}
	return append(merged, batch...)
}

// MergeExamResults is the same rule keyed on (studentId, subject, date, term).
func MergeExamResults(existing, batch []ExamResult) []ExamResult {
	type key struct {
		studentID string
		subject   string
		date      string
		term      Term
	}
	superseded := make(map[key]struct{}, len(batch))
	for _, r := range batch {
		superseded[key{r.StudentID, r.Subject, r.Date, r.Term}] = struct{}{}
	}

	merged := make([]ExamResult, 0, len(existing)+len(batch))
	for _, r := range existing {
		if _, ok := superseded[key{r.StudentID, r.Subject, r.Date, r.Term}]; !ok {
			merged = append(merged, r)
		}
	}
	return append(merged, batch...)
}
