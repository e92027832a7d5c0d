package rollcall

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/class"
)

// State is a Session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateSlotSelected
	StateActive
	StateSubmitted // terminal
	StateAbandoned // terminal, nothing persisted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSlotSelected:
		return "slot-selected"
	case StateActive:
		return "active"
	case StateSubmitted:
		return "submitted"
	case StateAbandoned:
		return "abandoned"
	}
	return "unknown"
}

var (
	ErrNoSlotToday      = errors.New("no sessions scheduled for today")
	ErrInvalidSlot      = errors.New("not one of today's scheduled slots")
	ErrNotActive        = errors.New("roll-call session is not active")
	ErrNotOnRoster      = errors.New("not a member of this class")
	ErrInvalidStatus    = errors.New("unknown attendance status")
	ErrAlreadySubmitted = errors.New("roll-call session already submitted")
)

// Escalate applies the auto-escalation rule to a status map: once elapsed
// reaches the delay, every member still late becomes absent. Members set to
// here, arrived, excused or already absent are never touched, so re-running
// the check is a no-op. The input map is not modified.
func Escalate(status map[string]Status, elapsed, delay time.Duration) (map[string]Status, bool) {
	next := make(map[string]Status, len(status))
	var changed bool
	for uname, st := range status {
		if elapsed >= delay && st == StatusLate {
			st = StatusAbsent
			changed = true
		}
		next[uname] = st
	}
	return next, changed
}

type (
	// Session drives one roll-call occurrence for a class, from slot
	// selection to submission. It is a transient, in-memory projection:
	// nothing is persisted until Service.Submit.
	Session struct {
		mu        sync.Mutex
		cls       class.Class
		state     State
		slot      string
		startedAt time.Time
		status    map[string]Status

		nowFn func() time.Time
		delay time.Duration
	}

	SessionOption func(*Session)
)

// WithClock injects the session's time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.nowFn = now }
}

// WithEscalationDelay overrides the configured late->absent threshold.
func WithEscalationDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.delay = d }
}

func NewSession(cls class.Class, opts ...SessionOption) *Session {
	s := &Session{
		cls:   cls,
		state: StateIdle,
		nowFn: time.Now,
		delay: core.Conf.RollCall.EscalationDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Class() class.Class { return s.cls }

func (s *Session) Slot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot
}

// TodaySlots returns the class slots available for selection today.
func (s *Session) TodaySlots() []string {
	return s.cls.TimesOn(s.nowFn().Weekday())
}

// SelectSlot picks one of today's configured time slots.
func (s *Session) SelectSlot(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle && s.state != StateSlotSelected {
		return errors.Wrapf(ErrInvalidSlot, "session is %s", s.state)
	}
	slots := s.TodaySlots()
	if len(slots) == 0 {
		return ErrNoSlotToday
	}
	for _, t := range slots {
		if t == slot {
			s.slot = slot
			s.state = StateSlotSelected
			return nil
		}
	}
	return ErrInvalidSlot
}

// Start initializes every roster member to late (the default assumption is
// tardiness, not presence) and records the session start time.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSlotSelected {
		return errors.Wrapf(ErrNotActive, "session is %s", s.state)
	}
	s.status = make(map[string]Status, len(s.cls.Roster))
	for _, uname := range s.cls.Roster {
		s.status[uname] = StatusLate
	}
	s.startedAt = s.nowFn()
	s.state = StateActive
	return nil
}

// Elapsed is the time since the session started.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

func (s *Session) elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.nowFn().Sub(s.startedAt)
}

// Escalate runs the timed late->absent check; idempotent.
func (s *Session) Escalate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false
	}
	next, changed := Escalate(s.status, s.elapsed(), s.delay)
	s.status = next
	return changed
}

// SetStatus records a manual override. Manual values take precedence over
// the timer: escalation only ever moves late members.
func (s *Session) SetStatus(username string, st Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}
	if !st.Valid() {
		return ErrInvalidStatus
	}
	if _, ok := s.status[username]; !ok {
		return ErrNotOnRoster
	}
	s.status[username] = st
	return nil
}

// Statuses returns a copy of the current attendance map.
func (s *Session) Statuses() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status, len(s.status))
	for uname, st := range s.status {
		out[uname] = st
	}
	return out
}

// Abandon discards the in-memory map; nothing is persisted.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitted {
		return
	}
	s.status = nil
	s.state = StateAbandoned
}

// markSubmitted transitions to the terminal submitted state; called by the
// Service once the record has been persisted.
func (s *Session) markSubmitted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSubmitted:
		return ErrAlreadySubmitted
	case StateActive:
		s.state = StateSubmitted
		s.status = nil
		return nil
	default:
		return ErrNotActive
	}
}

// Watch runs the escalation check on a fixed cadence until the context is
// cancelled or the session leaves the active state. It is a cooperative
// helper for interactive callers; the rule itself lives in Escalate.
func (s *Session) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.State() != StateActive {
				return
			}
			s.Escalate()
		}
	}
}
