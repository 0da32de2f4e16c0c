package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/school"
)

func Test_gradesApi_save(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/grades", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var results []school.ExamResult
	unmarshalBody(t, rec, &results)
	if len(results) != 3 {
		t.Fatalf("listed %d results, want 3 seeds", len(results))
	}

	batch := []school.ExamResult{
		{StudentID: "2", Subject: "Math", Date: "2024-06-11", Term: school.Term1, Score: 88},
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/grades", token, marshallObj(t, batch))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var merged []school.ExamResult
	unmarshalBody(t, rec, &merged)
	if len(merged) != 4 {
		t.Fatalf("merged %d results, want 4", len(merged))
	}
	var found bool
	for _, r := range merged {
		if r.StudentID == "2" && r.Subject == "Math" {
			found = true
			if r.ID != "2024-06-11-2-Math" {
				t.Errorf("result id = %q, want 2024-06-11-2-Math", r.ID)
			}
			if r.MaxScore != 100 {
				t.Errorf("maxScore = %d, want 100", r.MaxScore)
			}
		}
	}
	if !found {
		t.Error("saved result not found in merge result")
	}
}

func Test_gradesApi_saveValidation(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	tests := []httpTest{
		{
			name: "missing subject",
			body: marshallObj(t, []school.ExamResult{{StudentID: "1", Date: "2024-06-11", Term: school.Term1, Score: 50}}),
		},
		{
			name: "bad term",
			body: marshallObj(t, []school.ExamResult{{StudentID: "1", Subject: "Math", Date: "2024-06-11", Term: "Term 9", Score: 50}}),
		},
		{
			name: "score above max",
			body: marshallObj(t, []school.ExamResult{{StudentID: "1", Subject: "Math", Date: "2024-06-11", Term: school.Term1, Score: 101}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/grades", token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_gradesApi_analytics(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	// seeded Grade 5 Math Term 1 scores: 85 and 78
	path := "/v1/grades/analytics?grade=Grade+5&subject=Math&date=2024-04-15&term=Term+1"
	req, rec := newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var analytics school.ClassAnalytics
	unmarshalBody(t, rec, &analytics)
	want := school.ClassAnalytics{Avg: 82, Max: 85, Count: 2}
	if analytics != want {
		t.Errorf("analytics = %+v, want %+v", analytics, want)
	}
}

func Test_gradesApi_topStudents(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/grades/top", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("top code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var top []school.RankedStudent
	unmarshalBody(t, rec, &top)
	// "1" averages (85+92)/2, "5" has 78
	if len(top) != 2 || top[0].StudentID != "1" || top[1].StudentID != "5" {
		t.Errorf("top = %+v, want student 1 then student 5", top)
	}
}
