package class

import (
	"time"

	"github.com/trezcool/hudhuria/core"
)

type (
	// DaySchedule lists the roll-call time slots configured for one weekday.
	DaySchedule struct {
		Day   string   `json:"day" validate:"required,weekday"`       // "Monday", ...
		Times []string `json:"times" validate:"dive,required,timehhmm"` // "09:00", ...
	}

	Class struct {
		ID           string        `json:"id"`
		Name         string        `json:"name"`
		StudentLimit int           `json:"studentLimit"`
		Supervisor   string        `json:"supervisor"` // username reference
		Schedule     []DaySchedule `json:"schedule"`
		Roster       []string      `json:"roster"` // student usernames, len <= StudentLimit
		CreatedAt    time.Time     `json:"created_at"` // UTC
		UpdatedAt    time.Time     `json:"updated_at"` // UTC
	}
)

// TimesOn returns the configured slots for the given weekday, in order.
func (c Class) TimesOn(day time.Weekday) []string {
	name := day.String()
	for _, ds := range c.Schedule {
		if ds.Day == name {
			return ds.Times
		}
	}
	return nil
}

// HasStudent reports whether the given username is on the roster.
func (c Class) HasStudent(username string) bool {
	for _, s := range c.Roster {
		if s == username {
			return true
		}
	}
	return false
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name         string        `json:"name" validate:"required"`
	StudentLimit int           `json:"studentLimit" validate:"required,min=1"`
	Supervisor   string        `json:"supervisor" validate:"required"`
	Schedule     []DaySchedule `json:"schedule" validate:"dive"`
	Roster       []string      `json:"roster"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Supervisor = core.CleanString(nc.Supervisor, true /* lower */)
	return core.Validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
// Zero-valued fields are left unchanged; Roster and Schedule replace wholesale.
type UpdateClass struct {
	Name         string        `json:"name"`
	StudentLimit *int          `json:"studentLimit" validate:"omitempty,min=1"`
	Supervisor   string        `json:"supervisor"`
	Schedule     []DaySchedule `json:"schedule" validate:"omitempty,dive"`
	Roster       []string      `json:"roster"`
}

func (uc *UpdateClass) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	uc.Supervisor = core.CleanString(uc.Supervisor, true /* lower */)
	return core.Validate.Struct(uc)
}
