package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/dashboard"
)

func Test_dashboardApi(t *testing.T) {
	staff := createUser(t, "dashstaff", s3cr3t, []string{access.RoleStaff})
	student := createUser(t, "dashstud", s3cr3t, []string{access.RoleStudent})
	createClass(t, "Dash Class", "dashstaff", "dashstud")

	t.Run("requires auth", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		req, rec := newRequest(http.MethodGet, "/v1/dashboard")
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("student view", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", getToken(t, student))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body: %s", rec.Code, rec.Body.String())
		}
		var sum dashboard.Summary
		if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
			t.Fatal(err)
		}
		if sum.Student == nil || sum.Supervisor != nil {
			t.Fatalf("summary = %+v, want a student view only", sum)
		}
		if len(sum.Student.Classes) != 1 {
			t.Errorf("len(Classes) = %d, want 1", len(sum.Student.Classes))
		}
	})

	t.Run("supervisor view", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", getToken(t, staff))
		server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; body: %s", rec.Code, rec.Body.String())
		}
		var sum dashboard.Summary
		if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
			t.Fatal(err)
		}
		if sum.Supervisor == nil || sum.Student != nil {
			t.Fatalf("summary = %+v, want a supervisor view only", sum)
		}
		var found bool
		for _, s := range sum.Supervisor.StudentStats {
			if s.Username == "dashstud" {
				found = true
			}
		}
		if !found {
			t.Error("supervised student missing from stats")
		}
	})
}
