package points

import "github.com/trezcool/hudhuria/core"

// Slip is one append-only points entry for a user.
type Slip struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"` // username reference
	Date   string  `json:"date"` // "2006-01-02"
	Points float64 `json:"points"`
	Hours  float64 `json:"hours"`
}

// NewSlip contains information needed to enter points.
type NewSlip struct {
	Name   string  `json:"name" validate:"required"`
	Date   string  `json:"date" validate:"required,dateymd"`
	Points float64 `json:"points" validate:"min=0"`
	Hours  float64 `json:"hours" validate:"min=0"`
}

func (ns *NewSlip) Validate() error {
	ns.Name = core.CleanString(ns.Name, true /* lower */)
	return core.Validate.Struct(ns)
}
