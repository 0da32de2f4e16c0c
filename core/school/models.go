package school

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// GradeLevel is the closed set of grade levels a Student can be enrolled in.
type GradeLevel string

const (
	Grade1    GradeLevel = "Grade 1"
	Grade2    GradeLevel = "Grade 2"
	Grade3    GradeLevel = "Grade 3"
	Grade4    GradeLevel = "Grade 4"
	Grade5    GradeLevel = "Grade 5"
	Grade6    GradeLevel = "Grade 6"
	Grade7    GradeLevel = "Grade 7"
	Grade8    GradeLevel = "Grade 8"
	Grade9    GradeLevel = "Grade 9"
	Grade10   GradeLevel = "Grade 10"
	Grade11   GradeLevel = "Grade 11"
	Grade12   GradeLevel = "Grade 12"
	Graduated GradeLevel = "Graduated"
)

var GradeLevels = []GradeLevel{
	Grade1, Grade2, Grade3, Grade4, Grade5, Grade6,
	Grade7, Grade8, Grade9, Grade10, Grade11, Grade12,
	Graduated,
}

func (g GradeLevel) Valid() bool {
	for _, gl := range GradeLevels {
		if g == gl {
			return true
		}
	}
	return false
}

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusLate    AttendanceStatus = "Late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentOverdue PaymentStatus = "Overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue:
		return true
	}
	return false
}

type ExpenseCategory string

const (
	ExpenseSalary      ExpenseCategory = "Salary"
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseUtilities   ExpenseCategory = "Utilities"
	ExpenseSupplies    ExpenseCategory = "Supplies"
	ExpenseOther       ExpenseCategory = "Other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseSalary, ExpenseMaintenance, ExpenseUtilities, ExpenseSupplies, ExpenseOther:
		return true
	}
	return false
}

type Term string

const (
	Term1      Term = "Term 1"
	Term2      Term = "Term 2"
	Term3      Term = "Term 3"
	TermSummer Term = "Summer"
)

func (t Term) Valid() bool {
	switch t {
	case Term1, Term2, Term3, TermSummer:
		return true
	}
	return false
}

// ActivitySeverity classifies entries in the activity feed.
type ActivitySeverity string

const (
	SeverityInfo    ActivitySeverity = "info"
	SeveritySuccess ActivitySeverity = "success"
	SeverityWarning ActivitySeverity = "warning"
	SeverityError   ActivitySeverity = "error"
)

type NoteCategory string

const (
	NoteBehavior NoteCategory = "Behavior"
	NoteMedical  NoteCategory = "Medical"
	NoteAcademic NoteCategory = "Academic"
	NoteOther    NoteCategory = "Other"
)

func (c NoteCategory) Valid() bool {
	switch c {
	case NoteBehavior, NoteMedical, NoteAcademic, NoteOther:
		return true
	}
	return false
}

type Theme string

const (
	ThemeOcean    Theme = "Ocean"
	ThemeForest   Theme = "Forest"
	ThemeSunset   Theme = "Sunset"
	ThemeMidnight Theme = "Midnight"
)

// Note is an append-only remark attached to a Student's file.
type Note struct {
	ID       string       `json:"id"`
	Date     string       `json:"date"` // ISO calendar date
	Text     string       `json:"text"`
	Category NoteCategory `json:"category"`
}

type Student struct {
	ID               string     `json:"id"`
	FullName         string     `json:"fullName"`
	ParentName       string     `json:"parentName"`
	Phone            string     `json:"phone"`
	Grade            GradeLevel `json:"grade"`
	EnrollmentDate   string     `json:"enrollmentDate"`
	Photo            string     `json:"photo,omitempty"`
	Gender           string     `json:"gender"`
	DOB              string     `json:"dob"`
	Address          string     `json:"address"`
	MedicalInfo      string     `json:"medicalInfo,omitempty"`
	LibraryClearance bool       `json:"libraryClearance"`
	// ParentAccessCode grants the read-only parent view. Not guaranteed
	// unique across students; login resolves to the first match.
	ParentAccessCode string `json:"parentAccessCode,omitempty"`
	Notes            []Note `json:"notes,omitempty"`
}

type Teacher struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Phone    string   `json:"phone"`
	Subjects []string `json:"subjects"`
	JoinDate string   `json:"joinDate"`
}

// AttendanceRecord is one student's attendance on one calendar day.
// The id is conventionally "date-studentId" but uniqueness of the
// (studentId, date) pair is enforced by the merge logic, not the id.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

type ExamResult struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Subject   string `json:"subject"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"maxScore"` // fixed at 100
	Date      string `json:"date"`
	Term      Term   `json:"term"`
}

type FeeRecord struct {
	ID          string        `json:"id"`
	StudentID   string        `json:"studentId"`
	Amount      float64       `json:"amount"`
	Date        string        `json:"date"`
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description"`
}

type ExpenseRecord struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    ExpenseCategory `json:"category"`
	Amount      float64         `json:"amount"`
	Date        string          `json:"date"`
}

type ActivityLog struct {
	ID        string           `json:"id"`
	Action    string           `json:"action"`
	Details   string           `json:"details"`
	Date      string           `json:"date"` // RFC3339
	Timestamp int64            `json:"timestamp"`
	Type      ActivitySeverity `json:"type"`
}

// SchoolSettings is a singleton record.
type SchoolSettings struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Theme    Theme    `json:"theme"`
	FeeTypes []string `json:"feeTypes"`
	Subjects []string `json:"subjects"`
	Currency string   `json:"currency"`
	// AdminPINHash overrides the configured admin PIN when set (bcrypt).
	AdminPINHash string `json:"adminPinHash,omitempty"`
}

// Input payloads

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	FullName   string     `json:"fullName" validate:"required"`
	ParentName string     `json:"parentName" validate:"required"`
	Phone      string     `json:"phone" validate:"required"`
	Grade      GradeLevel `json:"grade" validate:"required,gradelevel"`
	Gender     string     `json:"gender" validate:"omitempty,oneof=Male Female"`
	DOB        string     `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address    string     `json:"address"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Address = core.CleanString(ns.Address)
	return validate.Struct(ns)
}

type NewTeacher struct {
	FullName string   `json:"fullName" validate:"required"`
	Phone    string   `json:"phone" validate:"required"`
	Subjects []string `json:"subjects" validate:"required,min=1"`
	JoinDate string   `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.FullName = core.CleanString(nt.FullName)
	nt.Phone = core.CleanString(nt.Phone)
	return validate.Struct(nt)
}

type NewFee struct {
	StudentID   string        `json:"studentId" validate:"required"`
	Amount      float64       `json:"amount" validate:"min=0"`
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Status      PaymentStatus `json:"status" validate:"required,oneof=Paid Pending Overdue"`
	Description string        `json:"description" validate:"required"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.Description = core.CleanString(nf.Description)
	return validate.Struct(nf)
}

type NewExpense struct {
	Description string          `json:"description" validate:"required"`
	Category    ExpenseCategory `json:"category" validate:"required,oneof=Salary Maintenance Utilities Supplies Other"`
	Amount      float64         `json:"amount" validate:"min=0"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
}

func (ne *NewExpense) Validate(validate *validator.Validate) error {
	ne.Description = core.CleanString(ne.Description)
	return validate.Struct(ne)
}

// BulkFee describes one invoice to generate for every student of a grade cohort.
type BulkFee struct {
	Grade       GradeLevel `json:"grade" validate:"required,gradelevel"`
	Amount      float64    `json:"amount" validate:"min=0"`
	Date        string     `json:"date" validate:"required,datetime=2006-01-02"`
	Description string     `json:"description" validate:"required"`
}

func (bf *BulkFee) Validate(validate *validator.Validate) error {
	bf.Description = core.CleanString(bf.Description)
	return validate.Struct(bf)
}

type NewNote struct {
	Text     string       `json:"text" validate:"required"`
	Category NoteCategory `json:"category" validate:"required,oneof=Behavior Medical Academic Other"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Text = core.CleanString(nn.Text)
	return validate.Struct(nn)
}

type Promotion struct {
	FromGrade GradeLevel `json:"fromGrade" validate:"required,gradelevel"`
	ToGrade   GradeLevel `json:"toGrade" validate:"required,gradelevel"`
}

func (p *Promotion) Validate(validate *validator.Validate) error { return validate.Struct(p) }
