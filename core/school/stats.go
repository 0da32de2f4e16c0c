package school

import (
	"math"
	"sort"
)

// Aggregation engine. Every function is pure: it takes full collection
// snapshots plus any reference date explicitly and recomputes from scratch.
// Division by zero yields 0, missing foreign-key joins yield sentinel
// labels or exclusion, never an error.

const (
	// UnknownStudent is substituted when a studentId join finds no Student.
	UnknownStudent = "Unknown Student"

	trendBuckets = 7
	topRankSize  = 3
)

type (
	FinancialSummary struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Net      float64 `json:"net"`
	}

	OverdueFee struct {
		Fee         FeeRecord `json:"fee"`
		StudentName string    `json:"studentName"`
	}

	ClassAnalytics struct {
		Avg   int `json:"avg"`
		Max   int `json:"max"`
		Count int `json:"count"`
	}

	RankedStudent struct {
		StudentID string `json:"studentId"`
		Name      string `json:"name"`
		Avg       int    `json:"avg"`
	}

	GradeCount struct {
		Grade GradeLevel `json:"grade"`
		Count int        `json:"count"`
	}

	TrendPoint struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}

	AttendanceDay struct {
		Date       string `json:"date"`
		Present    int    `json:"present"`
		Late       int    `json:"late"`
		Total      int    `json:"total"`
		Percentage int    `json:"percentage"`
	}

	StudentStats struct {
		AttendanceRate   int                `json:"attendanceRate"`
		PendingBalance   float64            `json:"pendingBalance"`
		RecentAttendance []AttendanceRecord `json:"recentAttendance"`
	}
)

func round(x float64) int { return int(math.Round(x)) }

// AttendanceRate computes the weighted attendance percentage over records:
// a Late counts as half a Present. Empty input yields 0.
func AttendanceRate(records []AttendanceRecord) int {
	if len(records) == 0 {
		return 0
	}
	var present, late int
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			present++
		case StatusLate:
			late++
		case StatusAbsent:
		}
	}
	return round((float64(present) + float64(late)*0.5) / float64(len(records)) * 100)
}

// TodayAttendanceRate is the dashboard-wide rate for the given reference
// date. Unlike AttendanceRate it counts Present only, no Late half-credit.
func TodayAttendanceRate(records []AttendanceRecord, today string) int {
	var total, present int
	for _, r := range records {
		if r.Date != today {
			continue
		}
		total++
		if r.Status == StatusPresent {
			present++
		}
	}
	if total == 0 {
		return 0
	}
	return round(float64(present) / float64(total) * 100)
}

// SummarizeFinances totals Paid fees against all expenses. Negative amounts
// are summed as-is.
func SummarizeFinances(fees []FeeRecord, expenses []ExpenseRecord) FinancialSummary {
	var income, spent float64
	for _, f := range fees {
		if f.Status == PaymentPaid {
			income += f.Amount
		}
	}
	for _, e := range expenses {
		spent += e.Amount
	}
	return FinancialSummary{Income: income, Expenses: spent, Net: income - spent}
}

// OverdueFees lists every Overdue fee joined to the owning student's name.
func OverdueFees(fees []FeeRecord, students []Student) []OverdueFee {
	overdue := make([]OverdueFee, 0)
	for _, f := range fees {
		if f.Status != PaymentOverdue {
			continue
		}
		overdue = append(overdue, OverdueFee{Fee: f, StudentName: studentName(students, f.StudentID, UnknownStudent)})
	}
	return overdue
}

// AnalyzeClass computes average/maximum/count over exam results matching the
// (grade, subject, date, term) selection. A result counts only if its owning
// student currently has the selected grade level; orphaned results never match.
func AnalyzeClass(results []ExamResult, students []Student, grade GradeLevel, subject, date string, term Term) ClassAnalytics {
	var total, count, max int
	for _, res := range results {
		if res.Date != date || res.Subject != subject || res.Term != term {
			continue
		}
		student, ok := findStudent(students, res.StudentID)
		if !ok || student.Grade != grade {
			continue
		}
		total += res.Score
		count++
		if res.Score > max {
			max = res.Score
		}
	}
	if count == 0 {
		return ClassAnalytics{}
	}
	return ClassAnalytics{Avg: round(float64(total) / float64(count)), Max: max, Count: count}
}

// TopStudents ranks students by their average score across all their exam
// results (never filtered by any current selection) and returns the top 3.
func TopStudents(results []ExamResult, students []Student) []RankedStudent {
	type acc struct {
		total int
		count int
	}
	totals := make(map[string]*acc)
	order := make([]string, 0) // first-appearance order, for deterministic ties
	for _, res := range results {
		a, ok := totals[res.StudentID]
		if !ok {
			a = &acc{}
			totals[res.StudentID] = a
			order = append(order, res.StudentID)
		}
		a.total += res.Score
		a.count++
	}

	ranked := make([]RankedStudent, 0, len(order))
	for _, id := range order {
		a := totals[id]
		ranked = append(ranked, RankedStudent{
			StudentID: id,
			Name:      studentName(students, id, "Unknown"),
			Avg:       round(float64(a.total) / float64(a.count)),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Avg > ranked[j].Avg })
	if len(ranked) > topRankSize {
		ranked = ranked[:topRankSize]
	}
	return ranked
}

// GradeDistribution counts students per grade level, in first-appearance order.
func GradeDistribution(students []Student) []GradeCount {
	counts := make(map[GradeLevel]int)
	order := make([]GradeLevel, 0)
	for _, s := range students {
		if _, ok := counts[s.Grade]; !ok {
			order = append(order, s.Grade)
		}
		counts[s.Grade]++
	}
	dist := make([]GradeCount, 0, len(order))
	for _, g := range order {
		dist = append(dist, GradeCount{Grade: g, Count: counts[g]})
	}
	return dist
}

// IncomeTrend sums Paid fees per date, ascending by date, truncated to the
// most recent 7 buckets for trend display.
func IncomeTrend(fees []FeeRecord) []TrendPoint {
	sums := make(map[string]float64)
	for _, f := range fees {
		if f.Status == PaymentPaid {
			sums[f.Date] += f.Amount
		}
	}
	trend := make([]TrendPoint, 0, len(sums))
	for date, amount := range sums {
		trend = append(trend, TrendPoint{Date: date, Amount: amount})
	}
	// ISO dates sort chronologically as strings
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	if len(trend) > trendBuckets {
		trend = trend[len(trend)-trendBuckets:]
	}
	return trend
}

// AttendanceHistory rolls attendance up by date with the weighted percentage,
// descending by date for display. An empty grade includes every cohort.
// Records whose student no longer exists are excluded.
func AttendanceHistory(records []AttendanceRecord, students []Student, grade GradeLevel) []AttendanceDay {
	type acc struct {
		present int
		late    int
		total   int
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		student, ok := findStudent(students, r.StudentID)
		if !ok {
			continue
		}
		if grade != "" && student.Grade != grade {
			continue
		}
		a, ok := groups[r.Date]
		if !ok {
			a = &acc{}
			groups[r.Date] = a
		}
		a.total++
		switch r.Status {
		case StatusPresent:
			a.present++
		case StatusLate:
			a.late++
		case StatusAbsent:
		}
	}

	days := make([]AttendanceDay, 0, len(groups))
	for date, a := range groups {
		var pct int
		if a.total > 0 {
			pct = round((float64(a.present) + float64(a.late)*0.5) / float64(a.total) * 100)
		}
		days = append(days, AttendanceDay{Date: date, Present: a.present, Late: a.late, Total: a.total, Percentage: pct})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// ComputeStudentStats builds the parent-portal summary for one student:
// weighted attendance rate, outstanding (Pending + Overdue) balance and the
// 5 most recent attendance records in storage order.
func ComputeStudentStats(studentID string, records []AttendanceRecord, fees []FeeRecord) StudentStats {
	own := make([]AttendanceRecord, 0)
	for _, r := range records {
		if r.StudentID == studentID {
			own = append(own, r)
		}
	}

	var pending float64
	for _, f := range fees {
		if f.StudentID != studentID {
			continue
		}
		if f.Status == PaymentPending || f.Status == PaymentOverdue {
			pending += f.Amount
		}
	}

	recent := own
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return StudentStats{AttendanceRate: AttendanceRate(own), PendingBalance: pending, RecentAttendance: recent}
}

func findStudent(students []Student, id string) (Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func studentName(students []Student, id, fallback string) string {
	if s, ok := findStudent(students, id); ok {
		return s.FullName
	}
	return fallback
}
