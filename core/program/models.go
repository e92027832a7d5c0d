package program

import (
	"time"

	"github.com/trezcool/hudhuria/core"
)

// CourseStatus is a student's progress on one course of an assignment.
// Transitions are strictly forward: not-started -> in-progress -> completed.
type CourseStatus string

const (
	CourseNotStarted CourseStatus = "not-started"
	CourseInProgress CourseStatus = "in-progress"
	CourseCompleted  CourseStatus = "completed"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseNotStarted, CourseInProgress, CourseCompleted:
		return true
	}
	return false
}

func (s CourseStatus) rank() int {
	switch s {
	case CourseInProgress:
		return 1
	case CourseCompleted:
		return 2
	}
	return 0
}

// CanAdvanceTo reports whether moving to next is a forward transition.
func (s CourseStatus) CanAdvanceTo(next CourseStatus) bool {
	return next.rank() >= s.rank()
}

type (
	// Template is an admin-owned program blueprint.
	Template struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		SchoolDays  int      `json:"schoolDays"`
		Courses     []string `json:"courses"`
	}

	Course struct {
		Name      string       `json:"name"`
		Status    CourseStatus `json:"status"`
		StartDate *time.Time   `json:"startDate,omitempty"`
	}

	// Assignment is a Template instantiated for one student.
	Assignment struct {
		ID              string   `json:"id"`
		StudentUsername string   `json:"studentUsername"`
		TemplateID      string   `json:"templateId"`
		ProgramName     string   `json:"programName"`
		SchoolDays      int      `json:"schoolDays"`
		Courses         []Course `json:"courses"`
	}
)

// CompletionRatio is completed courses over total courses; 0 when empty.
func (a Assignment) CompletionRatio() float64 {
	if len(a.Courses) == 0 {
		return 0
	}
	var done int
	for _, c := range a.Courses {
		if c.Status == CourseCompleted {
			done++
		}
	}
	return float64(done) / float64(len(a.Courses))
}

// NewTemplate contains information needed to create a new Template.
type NewTemplate struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	SchoolDays  int      `json:"schoolDays" validate:"min=0"`
	Courses     []string `json:"courses" validate:"dive,required"`
}

func (nt *NewTemplate) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Description = core.CleanString(nt.Description)
	return core.Validate.Struct(nt)
}

// UpdateTemplate defines what may change on an existing Template.
type UpdateTemplate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SchoolDays  *int     `json:"schoolDays" validate:"omitempty,min=0"`
	Courses     []string `json:"courses" validate:"omitempty,dive,required"`
}

func (ut *UpdateTemplate) Validate() error {
	ut.Name = core.CleanString(ut.Name)
	ut.Description = core.CleanString(ut.Description)
	return core.Validate.Struct(ut)
}

// NewAssignment assigns a template to a student.
type NewAssignment struct {
	StudentUsername string `json:"studentUsername" validate:"required"`
	TemplateID      string `json:"templateId" validate:"required"`
}

func (na *NewAssignment) Validate() error {
	na.StudentUsername = core.CleanString(na.StudentUsername, true /* lower */)
	return core.Validate.Struct(na)
}

// UpdateAssignment defines what may change on an existing Assignment.
// Students are restricted to Courses; the service enforces that.
type UpdateAssignment struct {
	ProgramName string   `json:"programName"`
	SchoolDays  *int     `json:"schoolDays" validate:"omitempty,min=0"`
	Courses     []Course `json:"courses"`
}

func (ua *UpdateAssignment) Validate() error {
	ua.ProgramName = core.CleanString(ua.ProgramName)
	if err := core.Validate.Struct(ua); err != nil {
		return err
	}
	for _, c := range ua.Courses {
		if !c.Status.Valid() {
			return core.NewValidationError(nil, core.FieldError{
				Field: "courses." + c.Name,
				Error: "unknown course status",
			})
		}
	}
	return nil
}
