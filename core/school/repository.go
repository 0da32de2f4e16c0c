package school

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Storage keys. One logical record per collection, serialized as JSON.
const (
	keyStudents     = "cim_students"
	keyTeachers     = "cim_teachers"
	keyAttendance   = "cim_attendance"
	keyFees         = "cim_fees"
	keyExpenses     = "cim_expenses"
	keyGrades       = "cim_grades"
	keyActivities   = "cim_activities"
	keySettings     = "cim_settings"
	keyAnnouncement = "cim_announcement"
)

const (
	dateLayout    = "2006-01-02"
	maxActivities = 50
)

var nowFunc = time.Now // mockable

// Repository owns the raw collections. All access goes through one mutex:
// every mutation is a read-modify-write of a whole collection, so concurrent
// writers must never observe a stale base snapshot.
type Repository struct {
	mu    sync.Mutex
	store core.Store
}

func NewRepository(store core.Store) *Repository {
	return &Repository{store: store}
}

// load reads the collection at key into dst. First access of a missing key
// persists the seed and returns it; the seed is written exactly once.
func (r *Repository) load(key string, dst, seed interface{}) error {
	raw, ok, err := r.store.Get(key)
	if err != nil {
		return errors.Wrapf(err, "reading %s", key)
	}
	if !ok {
		if raw, err = json.Marshal(seed); err != nil {
			return errors.Wrapf(err, "marshaling %s seed", key)
		}
		if err = r.store.Set(key, raw); err != nil {
			return errors.Wrapf(err, "seeding %s", key)
		}
	}
	return errors.Wrapf(json.Unmarshal(raw, dst), "unmarshaling %s", key)
}

func (r *Repository) save(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshaling %s", key)
	}
	return errors.Wrapf(r.store.Set(key, raw), "writing %s", key)
}

// Students

func (r *Repository) Students() ([]Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var students []Student
	err := r.load(keyStudents, &students, seedStudents())
	return students, err
}

func (r *Repository) SaveStudents(students []Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(keyStudents, students)
}

// UpdateStudents applies fn to the current snapshot and persists the result,
// all under the repository lock.
func (r *Repository) UpdateStudents(fn func([]Student) []Student) ([]Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var students []Student
	if err := r.load(keyStudents, &students, seedStudents()); err != nil {
		return nil, err
	}
	students = fn(students)
	return students, r.save(keyStudents, students)
}

// Teachers

func (r *Repository) Teachers() ([]Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var teachers []Teacher
	err := r.load(keyTeachers, &teachers, seedTeachers())
	return teachers, err
}

func (r *Repository) UpdateTeachers(fn func([]Teacher) []Teacher) ([]Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var teachers []Teacher
	if err := r.load(keyTeachers, &teachers, seedTeachers()); err != nil {
		return nil, err
	}
	teachers = fn(teachers)
	return teachers, r.save(keyTeachers, teachers)
}

// Attendance

func (r *Repository) Attendance() ([]AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []AttendanceRecord
	err := r.load(keyAttendance, &records, seedAttendance(nowFunc()))
	return records, err
}

func (r *Repository) UpdateAttendance(fn func([]AttendanceRecord) []AttendanceRecord) ([]AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []AttendanceRecord
	if err := r.load(keyAttendance, &records, seedAttendance(nowFunc())); err != nil {
		return nil, err
	}
	records = fn(records)
	return records, r.save(keyAttendance, records)
}

// Fees

func (r *Repository) Fees() ([]FeeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fees []FeeRecord
	err := r.load(keyFees, &fees, seedFees())
	return fees, err
}

func (r *Repository) UpdateFees(fn func([]FeeRecord) []FeeRecord) ([]FeeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fees []FeeRecord
	if err := r.load(keyFees, &fees, seedFees()); err != nil {
		return nil, err
	}
	fees = fn(fees)
	return fees, r.save(keyFees, fees)
}

// Expenses

func (r *Repository) Expenses() ([]ExpenseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expenses []ExpenseRecord
	err := r.load(keyExpenses, &expenses, seedExpenses())
	return expenses, err
}

func (r *Repository) UpdateExpenses(fn func([]ExpenseRecord) []ExpenseRecord) ([]ExpenseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expenses []ExpenseRecord
	if err := r.load(keyExpenses, &expenses, seedExpenses()); err != nil {
		return nil, err
	}
	expenses = fn(expenses)
	return expenses, r.save(keyExpenses, expenses)
}

// Exam results

func (r *Repository) ExamResults() ([]ExamResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []ExamResult
	err := r.load(keyGrades, &results, seedExamResults())
	return results, err
}

func (r *Repository) UpdateExamResults(fn func([]ExamResult) []ExamResult) ([]ExamResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []ExamResult
	if err := r.load(keyGrades, &results, seedExamResults()); err != nil {
		return nil, err
	}
	results = fn(results)
	return results, r.save(keyGrades, results)
}

// Activity log

func (r *Repository) Activities() ([]ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var activities []ActivityLog
	err := r.load(keyActivities, &activities, seedActivities(nowFunc()))
	return activities, err
}

// LogActivity prepends a new entry, truncates the feed to the 50 most recent
// entries, persists and returns the updated feed.
func (r *Repository) LogActivity(action, details string, severity ActivitySeverity) ([]ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var activities []ActivityLog
	now := nowFunc()
	if err := r.load(keyActivities, &activities, seedActivities(now)); err != nil {
		return nil, err
	}
	entry := ActivityLog{
		ID:        uuid.New().String(),
		Action:    action,
		Details:   details,
		Date:      now.Format(time.RFC3339),
		Timestamp: now.UnixNano() / int64(time.Millisecond),
		Type:      severity,
	}
	activities = append([]ActivityLog{entry}, activities...)
	if len(activities) > maxActivities {
		activities = activities[:maxActivities]
	}
	return activities, r.save(keyActivities, activities)
}

// Settings

func (r *Repository) Settings() (SchoolSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var settings SchoolSettings
	err := r.load(keySettings, &settings, seedSettings())
	return settings, err
}

func (r *Repository) SaveSettings(settings SchoolSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(keySettings, settings)
}

// Announcement. Stored as a raw string, not JSON; kept that way for backup
// compatibility with the original storage layout.

func (r *Repository) Announcement() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.announcement()
}

func (r *Repository) announcement() (string, error) {
	raw, ok, err := r.store.Get(keyAnnouncement)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", keyAnnouncement)
	}
	if !ok {
		return seedAnnouncement, nil
	}
	return string(raw), nil
}

func (r *Repository) SaveAnnouncement(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Wrapf(r.store.Set(keyAnnouncement, []byte(text)), "writing %s", keyAnnouncement)
}

// ClearAll wipes every key the system owns. The only irreversible operation.
func (r *Repository) ClearAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Wrap(r.store.Clear(), "clearing store")
}
