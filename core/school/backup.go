package school

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidBackup reports a restore payload that is not a JSON object at all.
// Anything parseable restores whatever keys it carries.
var ErrInvalidBackup = errors.New("invalid backup file")

// Backup is the full-state snapshot produced by export and consumed by restore.
type Backup struct {
	Students     []Student          `json:"students"`
	Teachers     []Teacher          `json:"teachers"`
	Fees         []FeeRecord        `json:"fees"`
	Expenses     []ExpenseRecord    `json:"expenses"`
	Attendance   []AttendanceRecord `json:"attendance"`
	Grades       []ExamResult       `json:"grades"`
	Activities   []ActivityLog      `json:"activities"`
	Settings     SchoolSettings     `json:"settings"`
	Announcement string             `json:"announcement"`
	Timestamp    string             `json:"timestamp"`
	AppVersion   string             `json:"appVersion"`
}

// ExportBackup snapshots every owned collection, seeding any collection not
// yet persisted, under a single lock.
func (r *Repository) ExportBackup(appVersion string) (Backup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := nowFunc()
	b := Backup{
		Timestamp:  now.Format(time.RFC3339),
		AppVersion: appVersion,
	}
	if err := r.load(keyStudents, &b.Students, seedStudents()); err != nil {
		return Backup{}, err
	}
	if err := r.load(keyTeachers, &b.Teachers, seedTeachers()); err != nil {
		return Backup{}, err
	}
	if err := r.load(keyFees, &b.Fees, seedFees()); err != nil {
		return Backup{}, err
	}
	if err := r.load(keyExpenses, &b.Expenses, seedExpenses()); err != nil {
		return Backup{}, err
	}
	if err := r.load(keyAttendance, &b.Attendance, seedAttendance(now)); err != nil {
		return Backup{}, err
	}
	if err := r.load(keyGrades, &b.Grades, seedExamResults()); err != nil {
		return Backup{}, err
	}
	if err := r.load(keyActivities, &b.Activities, seedActivities(now)); err != nil {
		return Backup{}, err
	}
	if err := r.load(keySettings, &b.Settings, seedSettings()); err != nil {
		return Backup{}, err
	}
	announcement, err := r.announcement()
	if err != nil {
		return Backup{}, err
	}
	b.Announcement = announcement
	return b, nil
}

// RestoreBackup applies a snapshot as a sparse merge at the collection level:
// each top-level key present overwrites that one collection, absent keys leave
// the current collection untouched. Only a structurally invalid document fails.
func (r *Repository) RestoreBackup(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ErrInvalidBackup
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	restoreKey := func(field, key string, dst interface{}) error {
		val, ok := doc[field]
		if !ok || string(val) == "null" {
			return nil
		}
		// a key of the wrong shape is skipped, not fatal
		if err := json.Unmarshal(val, dst); err != nil {
			return nil
		}
		return r.save(key, dst)
	}

	var (
		students   []Student
		teachers   []Teacher
		fees       []FeeRecord
		expenses   []ExpenseRecord
		attendance []AttendanceRecord
		grades     []ExamResult
		activities []ActivityLog
		settings   SchoolSettings
	)
	if err := restoreKey("students", keyStudents, &students); err != nil {
		return err
	}
	if err := restoreKey("teachers", keyTeachers, &teachers); err != nil {
		return err
	}
	if err := restoreKey("fees", keyFees, &fees); err != nil {
		return err
	}
	if err := restoreKey("expenses", keyExpenses, &expenses); err != nil {
		return err
	}
	if err := restoreKey("attendance", keyAttendance, &attendance); err != nil {
		return err
	}
	if err := restoreKey("grades", keyGrades, &grades); err != nil {
		return err
	}
	if err := restoreKey("activities", keyActivities, &activities); err != nil {
		return err
	}
	if err := restoreKey("settings", keySettings, &settings); err != nil {
		return err
	}

	if val, ok := doc["announcement"]; ok {
		var announcement string
		if err := json.Unmarshal(val, &announcement); err == nil && announcement != "" {
			if err := r.store.Set(keyAnnouncement, []byte(announcement)); err != nil {
				return errors.Wrapf(err, "writing %s", keyAnnouncement)
			}
		}
	}
	return nil
}
