package echoapi

import (
	"net/http"
	"testing"
)

func Test_authApi_login(t *testing.T) {
	app, _ := setup(t)

	tests := []httpTest{
		{
			name: "empty payload", body: marshallObj(t, LoginRequest{}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong PIN", body: marshallObj(t, LoginRequest{PIN: "0000"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "default PIN", body: marshallObj(t, LoginRequest{PIN: "1234"}),
			wantCode: http.StatusOK,
		},
		{
			name: "unknown access code", body: marshallObj(t, LoginRequest{AccessCode: "ZZZZZZ"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "seeded access code", body: marshallObj(t, LoginRequest{AccessCode: "AHM-101"}),
			wantCode: http.StatusOK,
		},
		{
			name: "lowercased access code", body: marshallObj(t, LoginRequest{AccessCode: "ahm-101"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d\nbody: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				unmarshalBody(t, rec, &resp)
				if resp.Token == "" {
					t.Error("no token in response")
				}
			}
		})
	}
}

func Test_authApi_loginRoles(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/auth/login", marshallObj(t, LoginRequest{PIN: "1234"}))
	app.ServeHTTP(rec, req)
	var resp LoginResponse
	unmarshalBody(t, rec, &resp)
	if resp.Role != "admin" || resp.StudentID != "" {
		t.Errorf("admin login resp = %+v", resp)
	}

	req, rec = newRequest(http.MethodPost, "/v1/auth/login", marshallObj(t, LoginRequest{AccessCode: "KHA-102"}))
	app.ServeHTTP(rec, req)
	unmarshalBody(t, rec, &resp)
	if resp.Role != "parent" || resp.StudentID != "2" {
		t.Errorf("parent login resp = %+v", resp)
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/auth/token-refresh")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated refresh code = %d, want 401", rec.Code)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", adminToken(t))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh code = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	unmarshalBody(t, rec, &resp)
	if resp.Token == "" {
		t.Error("no token in refresh response")
	}
}

func Test_adminEndpointsRequireAdmin(t *testing.T) {
	app, _ := setup(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/students"},
		{http.MethodGet, "/v1/teachers"},
		{http.MethodGet, "/v1/attendance"},
		{http.MethodGet, "/v1/grades"},
		{http.MethodGet, "/v1/fees"},
		{http.MethodGet, "/v1/expenses"},
		{http.MethodGet, "/v1/dashboard"},
		{http.MethodGet, "/v1/settings"},
	}
	parent := parentToken(t, "1")
	for _, p := range paths {
		req, rec := newRequest(p.method, p.path)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", p.method, p.path, rec.Code)
		}

		req, rec = newAuthRequest(p.method, p.path, parent)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s with parent token = %d, want 403", p.method, p.path, rec.Code)
		}
	}
}
