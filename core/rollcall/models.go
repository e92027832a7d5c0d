package rollcall

import (
	"time"

	"github.com/trezcool/hudhuria/core"
)

// Status is one roster member's attendance state within a roll-call.
type Status string

const (
	StatusHere    Status = "here"
	StatusLate    Status = "late"    // provisional; escalates to absent
	StatusArrived Status = "arrived" // showed up after being late
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusHere, StatusLate, StatusArrived, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// NeedsReview reports whether the status requires adjudication in the
// absence ledger (a reason and/or excusal).
func (s Status) NeedsReview() bool {
	switch s {
	case StatusLate, StatusAbsent, StatusArrived:
		return true
	}
	return false
}

// Record is one submitted roll-call occurrence. Immutable once submitted
// except for supervisor/admin corrections via update.
type Record struct {
	ID        string            `json:"id"`
	ClassID   string            `json:"classId"`
	Date      string            `json:"date"` // "2006-01-02"
	Time      string            `json:"time"` // schedule slot, "HH:MM"
	Timestamp time.Time         `json:"timestamp"` // submission instant, UTC
	Status    map[string]Status `json:"status"`    // username -> status
}

// NewRecord contains information needed to record a roll-call directly
// (the transport-facing equivalent of submitting a Session).
type NewRecord struct {
	ClassID string            `json:"classId" validate:"required"`
	Date    string            `json:"date" validate:"required,dateymd"`
	Time    string            `json:"time" validate:"required,timehhmm"`
	Status  map[string]Status `json:"status" validate:"required"`
}

func (nr *NewRecord) Validate() error {
	if err := core.Validate.Struct(nr); err != nil {
		return err
	}
	return validateStatuses(nr.Status)
}

// UpdateRecord defines the only correction allowed on a submitted record:
// replacing entries of the status map.
type UpdateRecord struct {
	Status map[string]Status `json:"status" validate:"required"`
}

func (ur *UpdateRecord) Validate() error {
	if err := core.Validate.Struct(ur); err != nil {
		return err
	}
	return validateStatuses(ur.Status)
}

func validateStatuses(status map[string]Status) error {
	for uname, st := range status {
		if !st.Valid() {
			return core.NewValidationError(nil, core.FieldError{
				Field: "status." + uname,
				Error: "unknown attendance status",
			})
		}
	}
	return nil
}
