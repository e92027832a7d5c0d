package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/hudhuria/core/absence"
	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/rollcall"
)

func Test_absenceApi(t *testing.T) {
	checker := createUser(t, "abschk", s3cr3t, []string{access.RoleAbsenceChecker})
	staff := createUser(t, "absstaff", s3cr3t, []string{access.RoleStaff})
	checkerToken := getToken(t, checker)
	staffToken := getToken(t, staff)

	// a roll-call with entries needing adjudication, dated today so it falls
	// in the default reporting window
	today := time.Now().Format("2006-01-02")
	rec, err := rcRepo.CreateRollCall(rollcall.Record{
		ID:        uuid.New().String(),
		ClassID:   "abscls",
		Date:      today,
		Time:      "08:00",
		Timestamp: time.Now().UTC(),
		Status: map[string]rollcall.Status{
			"alice": rollcall.StatusLate,
			"bob":   rollcall.StatusAbsent,
			"carol": rollcall.StatusHere,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	save := absence.SaveAbsence{
		Username:   "alice",
		Date:       today,
		Time:       "08:00",
		Status:     rollcall.StatusLate,
		RollcallID: rec.ID,
		Reason:     "overslept",
	}

	t.Run("save denied to plain staff", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}
		req, rc := newAuthRequest(http.MethodPost, "/v1/absences", staffToken, marchallObj(t, save))
		server.ServeHTTP(rc, req)
		checkCodeAndData(t, tt, rc)
	})

	var saved absence.Absence
	t.Run("save upserts on the roll-call and member", func(t *testing.T) {
		req, rc := newAuthRequest(http.MethodPost, "/v1/absences", checkerToken, marchallObj(t, save))
		server.ServeHTTP(rc, req)
		if rc.Code != http.StatusOK {
			t.Fatalf("save code = %d; body: %s", rc.Code, rc.Body.String())
		}
		if err := json.Unmarshal(rc.Body.Bytes(), &saved); err != nil {
			t.Fatal(err)
		}
		if saved.ID == "" || saved.Reason != "overslept" {
			t.Errorf("saved = %+v", saved)
		}

		// amending the same entry keeps its identity
		save.Reason = "traffic"
		req, rc = newAuthRequest(http.MethodPost, "/v1/absences", checkerToken, marchallObj(t, save))
		server.ServeHTTP(rc, req)
		if rc.Code != http.StatusOK {
			t.Fatalf("amend code = %d; body: %s", rc.Code, rc.Body.String())
		}
		var amended absence.Absence
		if err := json.Unmarshal(rc.Body.Bytes(), &amended); err != nil {
			t.Fatal(err)
		}
		if amended.ID != saved.ID || amended.Reason != "traffic" {
			t.Errorf("amended = %+v, want id %s", amended, saved.ID)
		}
	})

	t.Run("pending lists entries needing review", func(t *testing.T) {
		req, rc := newAuthRequest(http.MethodGet, "/v1/absences/pending", checkerToken)
		server.ServeHTTP(rc, req)
		if rc.Code != http.StatusOK {
			t.Fatalf("pending code = %d; body: %s", rc.Code, rc.Body.String())
		}
		var items []absence.Item
		if err := json.Unmarshal(rc.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}

		mine := make(map[string]absence.Item)
		for _, it := range items {
			if it.RollcallID == rec.ID {
				mine[it.Username] = it
			}
		}
		if len(mine) != 2 {
			t.Fatalf("pending items for the record = %d, want 2 (alice, bob)", len(mine))
		}
		if _, ok := mine["carol"]; ok {
			t.Error("a present member must not be pending")
		}
		if it := mine["alice"]; it.Absence == nil || it.Absence.ID != saved.ID {
			t.Errorf("alice item not paired with her ledger entry: %+v", it)
		}
		if it := mine["bob"]; it.Absence != nil {
			t.Errorf("bob has no ledger entry yet: %+v", it)
		}
	})

	t.Run("update amends by id", func(t *testing.T) {
		save.Excused = true
		req, rc := newAuthRequest(http.MethodPut, "/v1/absences/"+saved.ID, checkerToken, marchallObj(t, save))
		server.ServeHTTP(rc, req)
		if rc.Code != http.StatusOK {
			t.Fatalf("update code = %d; body: %s", rc.Code, rc.Body.String())
		}
		var updated absence.Absence
		if err := json.Unmarshal(rc.Body.Bytes(), &updated); err != nil {
			t.Fatal(err)
		}
		if !updated.Excused {
			t.Error("entry not excused")
		}

		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "absence record not found"})}
		req, rc = newAuthRequest(http.MethodPut, "/v1/absences/nope", checkerToken, marchallObj(t, save))
		server.ServeHTTP(rc, req)
		checkCodeAndData(t, tt, rc)
	})

	t.Run("query open to any authenticated user", func(t *testing.T) {
		req, rc := newAuthRequest(http.MethodGet, "/v1/absences", staffToken)
		server.ServeHTTP(rc, req)
		if rc.Code != http.StatusOK {
			t.Fatalf("query code = %d; body: %s", rc.Code, rc.Body.String())
		}
	})
}
