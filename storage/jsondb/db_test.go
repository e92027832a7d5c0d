package jsondb

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/absence"
	"github.com/trezcool/hudhuria/core/class"
	"github.com/trezcool/hudhuria/core/rollcall"
	"github.com/trezcool/hudhuria/core/user"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return db
}

func TestOpen_initAndSeed(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// every collection file exists and holds an empty list (except users)
	for _, col := range collections {
		if _, err := os.Stat(filepath.Join(dir, col+".json")); err != nil {
			t.Errorf("collection %s not initialized: %v", col, err)
		}
	}

	// the default admin is seeded
	repo := NewUserRepository(db)
	admin, err := repo.GetUserByUsername(user.ReservedAdminUsername)
	if err != nil {
		t.Fatalf("GetUserByUsername(admin) error = %v", err)
	}
	if !admin.IsAdmin() {
		t.Error("seeded admin lacks the admin role")
	}
	if err := admin.CheckPassword("admin"); err != nil {
		t.Error("seeded admin password does not verify")
	}

	// reopening does not reseed or duplicate
	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	users, err := NewUserRepository(db2).QueryAllUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("len(users) after reopen = %d, want 1", len(users))
	}
}

func TestOpen_noReseedWhenUsersExist(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	repo := NewUserRepository(db)

	usr := user.User{ID: "u1", Username: "alice"}
	if _, err := repo.CreateUser(usr); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteUserByUsername(user.ReservedAdminUsername); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(dir); err != nil {
		t.Fatal(err)
	}
	users, err := repo.QueryAllUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("users = %v, want alice only", users)
	}
}

func TestUserRepository_roundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	usr := user.User{ID: "u1", Username: "alice", Email: "alice@test.cd"}
	if err := usr.SetPassword("pwd"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateUser(usr); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// the password hash survives storage despite being hidden from JSON output
	got, err := repo.GetUserByUsername("alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := got.CheckPassword("pwd"); err != nil {
		t.Error("stored password hash does not verify")
	}

	// uniqueness
	if _, err := repo.CreateUser(usr); errors.Cause(err) != user.ErrUsernameExists {
		t.Errorf("duplicate CreateUser() error = %v, want %v", err, user.ErrUsernameExists)
	}
	if err := repo.CheckUsernameUniqueness("alice"); errors.Cause(err) != user.ErrUsernameExists {
		t.Errorf("CheckUsernameUniqueness() error = %v, want %v", err, user.ErrUsernameExists)
	}
	if err := repo.CheckUsernameUniqueness("alice", usr); err != nil {
		t.Errorf("CheckUsernameUniqueness() with exclusion error = %v", err)
	}

	// update
	got.Email = "new@test.cd"
	if _, err := repo.UpdateUser(got); err != nil {
		t.Fatal(err)
	}
	if got, err = repo.GetUserByUsername("alice"); err != nil || got.Email != "new@test.cd" {
		t.Errorf("UpdateUser() not persisted: %+v, %v", got, err)
	}

	// delete
	if err := repo.DeleteUserByUsername("alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetUserByUsername("alice"); errors.Cause(err) != user.ErrNotFound {
		t.Errorf("GetUserByUsername() after delete error = %v, want %v", err, user.ErrNotFound)
	}
}

func TestClassRepository_roundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewClassRepository(db)

	cls := class.Class{ID: "cls1", Name: "Woodwork", StudentLimit: 5, Supervisor: "brother"}
	if _, err := repo.CreateClass(cls); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetClassByID("cls1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Woodwork" {
		t.Errorf("got.Name = %s", got.Name)
	}

	got.Roster = []string{"alice"}
	if _, err = repo.UpdateClass(got); err != nil {
		t.Fatal(err)
	}
	if err = repo.DeleteClassByID("cls1"); err != nil {
		t.Fatal(err)
	}
	if _, err = repo.GetClassByID("cls1"); errors.Cause(err) != class.ErrNotFound {
		t.Errorf("GetClassByID() after delete error = %v, want %v", err, class.ErrNotFound)
	}
}

func TestRollCallRepository_roundtrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRollCallRepository(db)

	rec := rollcall.Record{
		ID:      "rc1",
		ClassID: "cls1",
		Date:    "2026-08-24",
		Time:    "08:00",
		Status:  map[string]rollcall.Status{"alice": rollcall.StatusLate},
	}
	if _, err := repo.CreateRollCall(rec); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetRollCallByID("rc1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status["alice"] != rollcall.StatusLate {
		t.Errorf("got.Status = %v", got.Status)
	}

	got.Status["alice"] = rollcall.StatusExcused
	if _, err = repo.UpdateRollCall(got); err != nil {
		t.Fatal(err)
	}
	got, err = repo.GetRollCallByID("rc1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status["alice"] != rollcall.StatusExcused {
		t.Errorf("update not persisted: %v", got.Status)
	}
}

func TestAbsenceRepository_find(t *testing.T) {
	db := openTestDB(t)
	repo := NewAbsenceRepository(db)

	ab := absence.Absence{ID: "ab1", Username: "bob", RollcallID: "rc1", Reason: "sick"}
	if _, err := repo.CreateAbsence(ab); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindAbsence("rc1", "bob")
	if err != nil {
		t.Fatalf("FindAbsence() error = %v", err)
	}
	if got.Reason != "sick" {
		t.Errorf("got.Reason = %s", got.Reason)
	}
	if _, err = repo.FindAbsence("rc1", "eve"); errors.Cause(err) != absence.ErrNotFound {
		t.Errorf("FindAbsence(miss) error = %v, want %v", err, absence.ErrNotFound)
	}
}

func TestDB_corruptCollectionDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, classesCollection+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	classes, err := NewClassRepository(db).QueryAllClasses()
	if err != nil {
		t.Fatalf("QueryAllClasses() error = %v", err)
	}
	if len(classes) != 0 {
		t.Errorf("len(classes) = %d, want 0", len(classes))
	}

	// a corrupt collection is only repaired by the next successful write
	if _, err := NewClassRepository(db).CreateClass(class.Class{ID: "cls1"}); err != nil {
		t.Fatal(err)
	}
	classes, err = NewClassRepository(db).QueryAllClasses()
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 1 {
		t.Errorf("len(classes) = %d, want 1", len(classes))
	}
}
