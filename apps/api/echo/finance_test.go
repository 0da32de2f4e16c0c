package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/school"
)

func Test_financeApi_feeCrud(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/fees", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var fees []school.FeeRecord
	unmarshalBody(t, rec, &fees)
	if len(fees) != 3 {
		t.Fatalf("listed %d fees, want 3 seeds", len(fees))
	}

	body := marshallObj(t, school.NewFee{
		StudentID: "1", Amount: 25, Date: "2024-06-01", Status: school.PaymentPending, Description: "Exam Fee",
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/fees", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var created school.FeeRecord
	unmarshalBody(t, rec, &created)

	// new fees come first
	req, rec = newAuthRequest(http.MethodGet, "/v1/fees", token)
	app.ServeHTTP(rec, req)
	unmarshalBody(t, rec, &fees)
	if len(fees) != 4 || fees[0].ID != created.ID {
		t.Errorf("fees after create = %d records, first id %q; want 4 with %q first", len(fees), fees[0].ID, created.ID)
	}

	created.Status = school.PaymentPaid
	req, rec = newAuthRequest(http.MethodPut, "/v1/fees/"+created.ID, token, marshallObj(t, created))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var updated school.FeeRecord
	unmarshalBody(t, rec, &updated)
	if updated.Status != school.PaymentPaid {
		t.Errorf("updated status = %q, want Paid", updated.Status)
	}

	req, rec = newAuthRequest(http.MethodDelete, "/v1/fees/"+created.ID, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %d", rec.Code)
	}
	req, rec = newAuthRequest(http.MethodDelete, "/v1/fees/"+created.ID, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete code = %d, want 404", rec.Code)
	}
}

func Test_financeApi_generateFees(t *testing.T) {
	app, svc := setup(t)
	token := adminToken(t)

	// students "1" and "5" are in Grade 5
	body := marshallObj(t, school.BulkFee{
		Grade: school.Grade5, Amount: 30, Date: "2024-06-01", Description: "Term 3 Tuition",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/fees/bulk", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("bulk code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var created []school.FeeRecord
	unmarshalBody(t, rec, &created)
	if len(created) != 2 {
		t.Errorf("bulk created %d fees, want 2", len(created))
	}
	for _, f := range created {
		if f.Status != school.PaymentPending {
			t.Errorf("bulk fee %q status = %q, want Pending", f.ID, f.Status)
		}
	}

	fees, _ := svc.Repo().Fees()
	if len(fees) != 5 {
		t.Errorf("repo has %d fees, want 5", len(fees))
	}

	// nobody is in Grade 12
	body = marshallObj(t, school.BulkFee{
		Grade: school.Grade12, Amount: 30, Date: "2024-06-01", Description: "Term 3 Tuition",
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/fees/bulk", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty cohort code = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
	}
	fees, _ = svc.Repo().Fees()
	if len(fees) != 5 {
		t.Errorf("empty cohort changed the ledger: %d fees", len(fees))
	}
}

func Test_financeApi_summaryAndOverdue(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/fees/summary", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var summary school.FinancialSummary
	unmarshalBody(t, rec, &summary)
	want := school.FinancialSummary{Income: 50, Expenses: 1350, Net: -1300}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/fees/overdue", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("overdue code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var overdue []school.OverdueFee
	unmarshalBody(t, rec, &overdue)
	if len(overdue) != 1 || overdue[0].StudentName != "Liban Farah" {
		t.Errorf("overdue = %+v, want one record for Liban Farah", overdue)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/fees/overdue/report", token,
		marshallObj(t, OverdueReportRequest{Email: "head@school.test"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("report code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var report OverdueReportResponse
	unmarshalBody(t, rec, &report)
	if report.Overdue != 1 {
		t.Errorf("report overdue = %d, want 1", report.Overdue)
	}
}

func Test_financeApi_expenses(t *testing.T) {
	app, _ := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/expenses", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var expenses []school.ExpenseRecord
	unmarshalBody(t, rec, &expenses)
	if len(expenses) != 2 {
		t.Fatalf("listed %d expenses, want 2 seeds", len(expenses))
	}

	body := marshallObj(t, school.NewExpense{
		Description: "Chalk and markers", Category: school.ExpenseSupplies, Amount: 15, Date: "2024-06-01",
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/expenses", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %d\nbody: %s", rec.Code, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/expenses", token)
	app.ServeHTTP(rec, req)
	unmarshalBody(t, rec, &expenses)
	if len(expenses) != 3 || expenses[0].Description != "Chalk and markers" {
		t.Errorf("expenses after create = %+v", expenses)
	}

	// bad category
	body = marshallObj(t, school.NewExpense{
		Description: "X", Category: "Bribes", Amount: 1, Date: "2024-06-01",
	})
	req, rec = newAuthRequest(http.MethodPost, "/v1/expenses", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad category code = %d, want 400", rec.Code)
	}
}
