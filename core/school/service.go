package school

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound    = errors.New("record not found")
	ErrEmptyCohort = errors.New("no students in the target grade")
)

// Service wires the repository to the aggregation and bulk-mutation layers
// and records an activity feed entry for every notable mutation.
type Service struct {
	conf    *core.Config
	repo    *Repository
	logger  core.Logger
	mailSvc core.EmailService
}

func NewService(conf *core.Config, repo *Repository, logger core.Logger, mailSvc core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, logger: logger, mailSvc: mailSvc}
}

func (svc *Service) Repo() *Repository { return svc.repo }

// logActivity records a feed entry; a failing feed never fails the mutation
// that triggered it.
func (svc *Service) logActivity(action, details string, severity ActivitySeverity) {
	if _, err := svc.repo.LogActivity(action, details, severity); err != nil {
		svc.logger.Error("logging activity", err)
	}
}

// Students

func (svc *Service) AddStudent(ns NewStudent) (Student, error) {
	gender := ns.Gender
	if gender == "" {
		gender = defaultGender
	}
	student := Student{
		ID:               uuid.New().String(),
		FullName:         ns.FullName,
		ParentName:       ns.ParentName,
		Phone:            ns.Phone,
		Grade:            ns.Grade,
		EnrollmentDate:   nowFunc().Format(dateLayout),
		Gender:           gender,
		DOB:              ns.DOB,
		Address:          ns.Address,
		ParentAccessCode: NewParentAccessCode(),
		LibraryClearance: true,
	}
	if _, err := svc.repo.UpdateStudents(func(students []Student) []Student {
		return append(students, student)
	}); err != nil {
		return Student{}, err
	}
	svc.logActivity("Student Added", fmt.Sprintf("Added %s to %s", student.FullName, student.Grade), SeveritySuccess)
	return student, nil
}

func (svc *Service) UpdateStudent(student Student) (Student, error) {
	var found bool
	if _, err := svc.repo.UpdateStudents(func(students []Student) []Student {
		for i := range students {
			if students[i].ID == student.ID {
				students[i] = student
				found = true
			}
		}
		return students
	}); err != nil {
		return Student{}, err
	}
	if !found {
		return Student{}, ErrNotFound
	}
	svc.logActivity("Student Updated", fmt.Sprintf("Updated details for %s", student.FullName), SeverityInfo)
	return student, nil
}

// DeleteStudent removes the student record only. Attendance, fee and exam
// records are deliberately left behind; aggregations exclude the orphans.
func (svc *Service) DeleteStudent(id string) error {
	var name string
	if _, err := svc.repo.UpdateStudents(func(students []Student) []Student {
		kept := students[:0]
		for _, s := range students {
			if s.ID == id {
				name = s.FullName
				continue
			}
			kept = append(kept, s)
		}
		return kept
	}); err != nil {
		return err
	}
	if name == "" {
		return ErrNotFound
	}
	svc.logActivity("Student Deleted", fmt.Sprintf("Removed %s from database", name), SeverityWarning)
	return nil
}

// AddStudentNote appends a note to the student's file; notes are append-only.
func (svc *Service) AddStudentNote(studentID string, nn NewNote) (Student, error) {
	var updated Student
	var found bool
	if _, err := svc.repo.UpdateStudents(func(students []Student) []Student {
		for i := range students {
			if students[i].ID == studentID {
				note := Note{
					ID:       uuid.New().String(),
					Date:     nowFunc().Format(dateLayout),
					Text:     nn.Text,
					Category: nn.Category,
				}
				students[i].Notes = append(students[i].Notes, note)
				updated = students[i]
				found = true
			}
		}
		return students
	}); err != nil {
		return Student{}, err
	}
	if !found {
		return Student{}, ErrNotFound
	}
	return updated, nil
}

// FindStudentByAccessCode resolves a parent access code to its student:
// the stored code must equal the trimmed input or its uppercase form.
// First match wins; uniqueness across students is never validated.
func (svc *Service) FindStudentByAccessCode(code string) (Student, error) {
	students, err := svc.repo.Students()
	if err != nil {
		return Student{}, err
	}
	for _, s := range students {
		if MatchAccessCode(s.ParentAccessCode, code) {
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

// Teachers

func (svc *Service) AddTeacher(nt NewTeacher) (Teacher, error) {
	teacher := Teacher{
		ID:       uuid.New().String(),
		FullName: nt.FullName,
		Phone:    nt.Phone,
		Subjects: nt.Subjects,
		JoinDate: nt.JoinDate,
	}
	if teacher.JoinDate == "" {
		teacher.JoinDate = nowFunc().Format(dateLayout)
	}
	_, err := svc.repo.UpdateTeachers(func(teachers []Teacher) []Teacher {
		return append(teachers, teacher)
	})
	return teacher, err
}

func (svc *Service) UpdateTeacher(teacher Teacher) (Teacher, error) {
	var found bool
	if _, err := svc.repo.UpdateTeachers(func(teachers []Teacher) []Teacher {
		for i := range teachers {
			if teachers[i].ID == teacher.ID {
				teachers[i] = teacher
				found = true
			}
		}
		return teachers
	}); err != nil {
		return Teacher{}, err
	}
	if !found {
		return Teacher{}, ErrNotFound
	}
	return teacher, nil
}

func (svc *Service) DeleteTeacher(id string) error {
	var found bool
	_, err := svc.repo.UpdateTeachers(func(teachers []Teacher) []Teacher {
		kept := teachers[:0]
		for _, t := range teachers {
			if t.ID == id {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		return kept
	})
	if err == nil && !found {
		return ErrNotFound
	}
	return err
}

// Attendance & exam results

// SaveAttendance upserts a batch of records by (studentId, date): records for
// pairs outside the batch survive untouched, so a filtered submission never
// erases attendance for students outside the filter.
func (svc *Service) SaveAttendance(batch []AttendanceRecord) ([]AttendanceRecord, error) {
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = batch[i].Date + "-" + batch[i].StudentID
		}
	}
	merged, err := svc.repo.UpdateAttendance(func(existing []AttendanceRecord) []AttendanceRecord {
		return MergeAttendance(existing, batch)
	})
	if err != nil {
		return nil, err
	}
	svc.logActivity("Attendance Marked", fmt.Sprintf("Updated attendance for %d students", len(batch)), SeveritySuccess)
	return merged, nil
}

// SaveExamResults upserts a batch keyed on (studentId, subject, date, term).
func (svc *Service) SaveExamResults(batch []ExamResult) ([]ExamResult, error) {
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = batch[i].Date + "-" + batch[i].StudentID + "-" + batch[i].Subject
		}
		batch[i].MaxScore = 100
	}
	merged, err := svc.repo.UpdateExamResults(func(existing []ExamResult) []ExamResult {
		return MergeExamResults(existing, batch)
	})
	if err != nil {
		return nil, err
	}
	svc.logActivity("Grades Updated", fmt.Sprintf("Entered %d exam scores", len(batch)), SeveritySuccess)
	return merged, nil
}

// Fees & expenses

func (svc *Service) AddFee(nf NewFee) (FeeRecord, error) {
	fee := FeeRecord{
		ID:          uuid.New().String(),
		StudentID:   nf.StudentID,
		Amount:      nf.Amount,
		Date:        nf.Date,
		Status:      nf.Status,
		Description: nf.Description,
	}
	// newest first is the display convention
	_, err := svc.repo.UpdateFees(func(fees []FeeRecord) []FeeRecord {
		return append([]FeeRecord{fee}, fees...)
	})
	return fee, err
}

func (svc *Service) UpdateFee(fee FeeRecord) (FeeRecord, error) {
	var found bool
	if _, err := svc.repo.UpdateFees(func(fees []FeeRecord) []FeeRecord {
		for i := range fees {
			if fees[i].ID == fee.ID {
				fees[i] = fee
				found = true
			}
		}
		return fees
	}); err != nil {
		return FeeRecord{}, err
	}
	if !found {
		return FeeRecord{}, ErrNotFound
	}
	return fee, nil
}

func (svc *Service) DeleteFee(id string) error {
	var found bool
	_, err := svc.repo.UpdateFees(func(fees []FeeRecord) []FeeRecord {
		kept := fees[:0]
		for _, f := range fees {
			if f.ID == id {
				found = true
				continue
			}
			kept = append(kept, f)
		}
		return kept
	})
	if err == nil && !found {
		return ErrNotFound
	}
	return err
}

// GenerateFees creates one Pending fee per student currently in the target
// grade. An empty cohort is a no-op: no records are created and the fee
// collection is left untouched.
func (svc *Service) GenerateFees(bf BulkFee) ([]FeeRecord, error) {
	students, err := svc.repo.Students()
	if err != nil {
		return nil, err
	}
	newFees := make([]FeeRecord, 0)
	for _, s := range students {
		if s.Grade != bf.Grade {
			continue
		}
		newFees = append(newFees, FeeRecord{
			ID:          uuid.New().String(),
			StudentID:   s.ID,
			Amount:      bf.Amount,
			Date:        bf.Date,
			Status:      PaymentPending,
			Description: bf.Description,
		})
	}
	if len(newFees) == 0 {
		return nil, ErrEmptyCohort
	}
	if _, err := svc.repo.UpdateFees(func(fees []FeeRecord) []FeeRecord {
		return append(newFees, fees...)
	}); err != nil {
		return nil, err
	}
	svc.logActivity("Bulk Invoicing", fmt.Sprintf("Generated %d invoices", len(newFees)), SeveritySuccess)
	return newFees, nil
}

func (svc *Service) AddExpense(ne NewExpense) (ExpenseRecord, error) {
	expense := ExpenseRecord{
		ID:          uuid.New().String(),
		Description: ne.Description,
		Category:    ne.Category,
		Amount:      ne.Amount,
		Date:        ne.Date,
	}
	if _, err := svc.repo.UpdateExpenses(func(expenses []ExpenseRecord) []ExpenseRecord {
		return append([]ExpenseRecord{expense}, expenses...)
	}); err != nil {
		return ExpenseRecord{}, err
	}
	svc.logActivity("Expense Recorded", fmt.Sprintf("Spent $%v for %s", expense.Amount, expense.Category), SeverityWarning)
	return expense, nil
}

// Promotion & import

// PromoteStudents rewrites the grade of every student currently at fromGrade.
// Unconditional bulk rewrite; reversible only via backup restore.
func (svc *Service) PromoteStudents(p Promotion) (int, error) {
	var promoted int
	if _, err := svc.repo.UpdateStudents(func(students []Student) []Student {
		for i := range students {
			if students[i].Grade == p.FromGrade {
				students[i].Grade = p.ToGrade
				promoted++
			}
		}
		return students
	}); err != nil {
		return 0, err
	}
	return promoted, nil
}

// ImportStudentsCSV appends students parsed from csvText to the roster; no
// dedup against existing students. Returns the number imported.
func (svc *Service) ImportStudentsCSV(csvText string) (int, error) {
	imported := ParseStudentsCSV(csvText, nowFunc().Format(dateLayout))
	if len(imported) == 0 {
		return 0, nil
	}
	if _, err := svc.repo.UpdateStudents(func(students []Student) []Student {
		return append(students, imported...)
	}); err != nil {
		return 0, err
	}
	svc.logActivity("Students Imported", fmt.Sprintf("Imported %d students from CSV", len(imported)), SeveritySuccess)
	return len(imported), nil
}

// Backup & reset

func (svc *Service) ExportBackup() (Backup, error) {
	return svc.repo.ExportBackup(svc.conf.AppVersion)
}

func (svc *Service) RestoreBackup(raw []byte) error {
	return svc.repo.RestoreBackup(raw)
}

// FactoryReset wipes the entire store; collections re-seed on next access.
func (svc *Service) FactoryReset() error {
	return svc.repo.ClearAll()
}

// Reminders

// SendOverdueReport emails the overdue-payments roll-up to the school admin.
func (svc *Service) SendOverdueReport(adminEmail string) (int, error) {
	fees, err := svc.repo.Fees()
	if err != nil {
		return 0, err
	}
	students, err := svc.repo.Students()
	if err != nil {
		return 0, err
	}
	overdue := OverdueFees(fees, students)
	if len(overdue) == 0 {
		return 0, nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%d overdue payment(s):\n\n", len(overdue))
	for _, o := range overdue {
		fmt.Fprintf(&body, "- %s: %.2f (%s, due %s)\n", o.StudentName, o.Fee.Amount, o.Fee.Description, o.Fee.Date)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: adminEmail}},
		Subject: "Overdue payments report",
		BodyStr: body.String(),
	})
	return len(overdue), nil
}
