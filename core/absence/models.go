package absence

import (
	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/rollcall"
)

// Absence is one adjudicated absence/lateness entry in the ledger. The
// logical key is (RollcallID, Username): the reconciler upserts on that
// pair, storage enforces nothing.
type Absence struct {
	ID         string          `json:"id"`
	Username   string          `json:"username"`
	Date       string          `json:"date"` // "2006-01-02"
	Time       string          `json:"time"` // "HH:MM"
	Status     rollcall.Status `json:"status"` // copied from the triggering roll-call entry
	RollcallID string          `json:"rollcallId"`
	Reason     string          `json:"reason"`
	Excused    bool            `json:"excused"`
}

// Item is one roll-call entry needing attention within a reporting window.
// Absence is nil when no ledger record exists yet (a draft).
type Item struct {
	Username   string          `json:"username"`
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Status     rollcall.Status `json:"status"`
	RollcallID string          `json:"rollcallId"`
	Absence    *Absence        `json:"absence,omitempty"`
}

// SaveAbsence contains information needed to create or amend a ledger entry.
type SaveAbsence struct {
	Username   string          `json:"username" validate:"required"`
	Date       string          `json:"date" validate:"required,dateymd"`
	Time       string          `json:"time" validate:"required,timehhmm"`
	Status     rollcall.Status `json:"status" validate:"required"`
	RollcallID string          `json:"rollcallId" validate:"required"`
	Reason     string          `json:"reason"`
	Excused    bool            `json:"excused"`
}

func (sa *SaveAbsence) Validate() error {
	sa.Username = core.CleanString(sa.Username, true /* lower */)
	sa.Reason = core.CleanString(sa.Reason)
	if err := core.Validate.Struct(sa); err != nil {
		return err
	}
	if !sa.Status.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "unknown attendance status"})
	}
	return nil
}
