package rollcall

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/hudhuria/core/class"
)

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// Monday
var testDay = time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)

func testClass() class.Class {
	return class.Class{
		ID:           "cls1",
		Name:         "Woodwork",
		StudentLimit: 5,
		Supervisor:   "brother",
		Schedule: []class.DaySchedule{
			{Day: "Monday", Times: []string{"08:00", "14:00"}},
			{Day: "Wednesday", Times: []string{"08:00"}},
		},
		Roster: []string{"alice", "bob", "eve"},
	}
}

func newTestSession(opts ...SessionOption) (*Session, *time.Time) {
	now := testDay
	opts = append([]SessionOption{
		WithClock(func() time.Time { return now }),
		WithEscalationDelay(15 * time.Minute),
	}, opts...)
	s := NewSession(testClass(), opts...)
	return s, &now
}

func Test_Session_slotSelection(t *testing.T) {
	s, _ := newTestSession()

	if got := s.TodaySlots(); len(got) != 2 {
		t.Fatalf("TodaySlots() = %v, want 2 slots", got)
	}
	if err := s.SelectSlot("09:30"); err != ErrInvalidSlot {
		t.Errorf("SelectSlot(09:30) error = %v, want %v", err, ErrInvalidSlot)
	}
	if err := s.SelectSlot("08:00"); err != nil {
		t.Fatalf("SelectSlot(08:00) error = %v", err)
	}
	if s.State() != StateSlotSelected {
		t.Errorf("State() = %v, want %v", s.State(), StateSlotSelected)
	}
	// re-selection before start is allowed
	if err := s.SelectSlot("14:00"); err != nil {
		t.Errorf("SelectSlot(14:00) error = %v", err)
	}
	if s.Slot() != "14:00" {
		t.Errorf("Slot() = %s, want 14:00", s.Slot())
	}
}

func Test_Session_noSlotToday(t *testing.T) {
	cls := testClass()
	cls.Schedule = nil
	s := NewSession(cls, WithClock(func() time.Time { return testDay }))

	if err := s.SelectSlot("08:00"); err != ErrNoSlotToday {
		t.Errorf("SelectSlot() error = %v, want %v", err, ErrNoSlotToday)
	}
}

func Test_Session_startDefaultsToLate(t *testing.T) {
	s, _ := newTestSession()

	if err := s.Start(); err == nil {
		t.Fatal("Start() before slot selection should fail")
	}
	if err := s.SelectSlot("08:00"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateActive {
		t.Fatalf("State() = %v, want %v", s.State(), StateActive)
	}
	for uname, st := range s.Statuses() {
		if st != StatusLate {
			t.Errorf("Statuses()[%s] = %s, want %s", uname, st, StatusLate)
		}
	}
}

func Test_Session_escalation(t *testing.T) {
	s, now := newTestSession()
	if err := s.SelectSlot("08:00"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	// manual overrides before the threshold
	if err := s.SetStatus("alice", StatusHere); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStatus("bob", StatusExcused); err != nil {
		t.Fatal(err)
	}

	// before the threshold: no-op
	*now = testDay.Add(14 * time.Minute)
	if changed := s.Escalate(); changed {
		t.Error("Escalate() before the threshold should not change anything")
	}

	// past the threshold: only the remaining late member flips
	*now = testDay.Add(15 * time.Minute)
	if changed := s.Escalate(); !changed {
		t.Error("Escalate() past the threshold should flip late members")
	}
	want := map[string]Status{"alice": StatusHere, "bob": StatusExcused, "eve": StatusAbsent}
	got := s.Statuses()
	for uname, st := range want {
		if got[uname] != st {
			t.Errorf("Statuses()[%s] = %s, want %s", uname, got[uname], st)
		}
	}

	// idempotent
	if changed := s.Escalate(); changed {
		t.Error("second Escalate() should be a no-op")
	}

	// a member can still be corrected after escalation
	if err := s.SetStatus("eve", StatusArrived); err != nil {
		t.Fatal(err)
	}
	if changed := s.Escalate(); changed {
		t.Error("Escalate() must never touch a manual correction")
	}
	if st := s.Statuses()["eve"]; st != StatusArrived {
		t.Errorf("Statuses()[eve] = %s, want %s", st, StatusArrived)
	}
}

func Test_Session_setStatus(t *testing.T) {
	s, _ := newTestSession()
	if err := s.SetStatus("alice", StatusHere); err != ErrNotActive {
		t.Errorf("SetStatus() before start error = %v, want %v", err, ErrNotActive)
	}

	if err := s.SelectSlot("08:00"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStatus("mallory", StatusHere); err != ErrNotOnRoster {
		t.Errorf("SetStatus(mallory) error = %v, want %v", err, ErrNotOnRoster)
	}
	if err := s.SetStatus("alice", Status("lol")); err != ErrInvalidStatus {
		t.Errorf("SetStatus(lol) error = %v, want %v", err, ErrInvalidStatus)
	}
}

func Test_Session_abandon(t *testing.T) {
	s, _ := newTestSession()
	if err := s.SelectSlot("08:00"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	s.Abandon()
	if s.State() != StateAbandoned {
		t.Errorf("State() = %v, want %v", s.State(), StateAbandoned)
	}
	if got := s.Statuses(); len(got) != 0 {
		t.Errorf("Statuses() after abandon = %v, want empty", got)
	}
}

func Test_Escalate(t *testing.T) {
	status := map[string]Status{
		"alice": StatusHere,
		"bob":   StatusLate,
		"eve":   StatusExcused,
		"dan":   StatusAbsent,
	}

	next, changed := Escalate(status, 10*time.Minute, 15*time.Minute)
	if changed {
		t.Error("Escalate() below the delay should report no change")
	}
	if next["bob"] != StatusLate {
		t.Errorf("next[bob] = %s, want %s", next["bob"], StatusLate)
	}

	next, changed = Escalate(status, 15*time.Minute, 15*time.Minute)
	if !changed {
		t.Error("Escalate() at the delay should report a change")
	}
	want := map[string]Status{
		"alice": StatusHere,
		"bob":   StatusAbsent,
		"eve":   StatusExcused,
		"dan":   StatusAbsent,
	}
	for uname, st := range want {
		if next[uname] != st {
			t.Errorf("next[%s] = %s, want %s", uname, next[uname], st)
		}
	}

	// input not modified
	if status["bob"] != StatusLate {
		t.Error("Escalate() must not modify its input")
	}

	// re-running on the output is a no-op
	if _, changed = Escalate(next, 20*time.Minute, 15*time.Minute); changed {
		t.Error("Escalate() must be idempotent")
	}
}

func Test_Session_watch(t *testing.T) {
	s, now := newTestSession()
	if err := s.SelectSlot("08:00"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	*now = testDay.Add(16 * time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Watch(testContext(t), time.Millisecond)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if st := s.Statuses()["eve"]; st == StatusAbsent {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Watch() never escalated")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Abandon()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not stop after the session ended")
	}
}
