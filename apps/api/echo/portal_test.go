package echoapi

import (
	"net/http"
	"testing"
)

func Test_portalApi_get(t *testing.T) {
	app, svc := setup(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/portal", parentToken(t, "2"))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("portal code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var resp PortalResponse
	unmarshalBody(t, rec, &resp)

	if resp.Student.FullName != "Khadija Omar" {
		t.Errorf("student = %q, want Khadija Omar", resp.Student.FullName)
	}
	if resp.Student.ParentAccessCode != "" {
		t.Error("portal leaked the parent access code")
	}
	if len(resp.Fees) != 1 || resp.Fees[0].StudentID != "2" {
		t.Errorf("fees = %+v, want only student 2's fee", resp.Fees)
	}
	for _, g := range resp.Grades {
		if g.StudentID != "2" {
			t.Errorf("grades contain another student's result: %+v", g)
		}
	}
	if resp.SchoolName != "Cabdullahi ibnu Mubarak" || resp.Currency != "USD" {
		t.Errorf("school = %q %q", resp.SchoolName, resp.Currency)
	}
	if resp.Announcement == "" {
		t.Error("no announcement in portal view")
	}
	// student 2 has one seeded Absent record
	if resp.Stats.AttendanceRate != 0 || resp.Stats.PendingBalance != 45 {
		t.Errorf("stats = %+v, want rate 0 and pending 45", resp.Stats)
	}

	// admins have no business here
	req, rec = newAuthRequest(http.MethodGet, "/v1/portal", adminToken(t))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin portal code = %d, want 403", rec.Code)
	}

	// the token outlives the student record
	if err := svc.DeleteStudent("2"); err != nil {
		t.Fatalf("DeleteStudent() failed: %v", err)
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/portal", parentToken(t, "2"))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("portal code after deletion = %d, want 404", rec.Code)
	}
}
