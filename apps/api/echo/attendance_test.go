package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/school"
)

func Test_attendanceApi_save(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var records []school.AttendanceRecord
	unmarshalBody(t, rec, &records)
	if len(records) != 3 {
		t.Fatalf("listed %d records, want 3 seeds", len(records))
	}

	batch := []school.AttendanceRecord{
		{StudentID: "4", Date: "2024-06-11", Status: school.StatusPresent},
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/attendance", token, marshallObj(t, batch))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var merged []school.AttendanceRecord
	unmarshalBody(t, rec, &merged)
	if len(merged) != 4 {
		t.Fatalf("merged %d records, want 4", len(merged))
	}

	// resubmitting the same (studentId, date) pair replaces, not duplicates
	batch[0].Status = school.StatusLate
	req, rec = newAuthRequest(http.MethodPost, "/v1/attendance", token, marshallObj(t, batch))
	app.ServeHTTP(rec, req)
	unmarshalBody(t, rec, &merged)
	if len(merged) != 4 {
		t.Fatalf("merged %d records after resubmit, want 4", len(merged))
	}
	var found bool
	for _, r := range merged {
		if r.StudentID == "4" && r.Date == "2024-06-11" {
			found = true
			if r.Status != school.StatusLate {
				t.Errorf("resubmitted status = %q, want Late", r.Status)
			}
			if r.ID != "2024-06-11-4" {
				t.Errorf("record id = %q, want 2024-06-11-4", r.ID)
			}
		}
	}
	if !found {
		t.Error("resubmitted record not found in merge result")
	}
}

func Test_attendanceApi_saveValidation(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	tests := []httpTest{
		{
			name: "missing date",
			body: marshallObj(t, []school.AttendanceRecord{{StudentID: "1", Status: school.StatusPresent}}),
		},
		{
			name: "missing student",
			body: marshallObj(t, []school.AttendanceRecord{{Date: "2024-06-11", Status: school.StatusPresent}}),
		},
		{
			name: "bad status",
			body: marshallObj(t, []school.AttendanceRecord{{StudentID: "1", Date: "2024-06-11", Status: "Sleeping"}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_attendanceApi_history(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/history", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var days []school.AttendanceDay
	unmarshalBody(t, rec, &days)
	if len(days) != 1 {
		t.Fatalf("history has %d days, want 1 (the seeded day)", len(days))
	}
	// seeds: one Present, one Absent, one Late
	if days[0].Present != 1 || days[0].Late != 1 || days[0].Total != 3 || days[0].Percentage != 50 {
		t.Errorf("day = %+v, want 1 present, 1 late of 3 (50%%)", days[0])
	}

	// students "1" and "5" are in Grade 5 but only "1" has a record
	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/history?grade=Grade+5", token)
	app.ServeHTTP(rec, req)
	unmarshalBody(t, rec, &days)
	if len(days) != 1 || days[0].Total != 1 || days[0].Present != 1 {
		t.Errorf("filtered history = %+v, want one all-present day of 1", days)
	}
}
