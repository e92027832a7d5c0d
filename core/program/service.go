package program

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/access"
)

var (
	// errors
	ErrTemplateNotFound   = errors.New("program template not found")
	ErrAssignmentNotFound = errors.New("student program not found")

	errBackwardTransition = "course status cannot move backwards"
)

type (
	TemplateRepository interface {
		CreateTemplate(t Template) (Template, error)
		QueryAllTemplates() ([]Template, error)
		GetTemplateByID(id string) (Template, error)
		UpdateTemplate(t Template) (Template, error)
		DeleteTemplateByID(id string) error
	}

	AssignmentRepository interface {
		CreateAssignment(a Assignment) (Assignment, error)
		QueryAllAssignments() ([]Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		UpdateAssignment(a Assignment) (Assignment, error)
		DeleteAssignmentByID(id string) error
	}

	Service struct {
		templates   TemplateRepository
		assignments AssignmentRepository
	}
)

func NewService(templates TemplateRepository, assignments AssignmentRepository) *Service {
	return &Service{templates: templates, assignments: assignments}
}

// Templates

func (svc *Service) CreateTemplate(actor access.Actor, nt NewTemplate) (Template, error) {
	if !access.Can(actor, access.ResourceProgramTemplate, access.OpCreate) {
		return Template{}, access.ErrForbidden
	}
	if err := nt.Validate(); err != nil {
		return Template{}, err
	}
	return svc.templates.CreateTemplate(Template{
		ID:          uuid.New().String(),
		Name:        nt.Name,
		Description: nt.Description,
		SchoolDays:  nt.SchoolDays,
		Courses:     nt.Courses,
	})
}

func (svc *Service) QueryAllTemplates(actor access.Actor) ([]Template, error) {
	if !access.Can(actor, access.ResourceProgramTemplate, access.OpRead) {
		return nil, access.ErrForbidden
	}
	return svc.templates.QueryAllTemplates()
}

func (svc *Service) UpdateTemplate(actor access.Actor, id string, ut UpdateTemplate) (Template, error) {
	if !access.Can(actor, access.ResourceProgramTemplate, access.OpUpdate) {
		return Template{}, access.ErrForbidden
	}
	if err := ut.Validate(); err != nil {
		return Template{}, err
	}
	t, err := svc.templates.GetTemplateByID(id)
	if err != nil {
		return Template{}, err
	}
	if ut.Name != "" {
		t.Name = ut.Name
	}
	if ut.Description != "" {
		t.Description = ut.Description
	}
	if ut.SchoolDays != nil {
		t.SchoolDays = *ut.SchoolDays
	}
	if ut.Courses != nil {
		t.Courses = ut.Courses
	}
	return svc.templates.UpdateTemplate(t)
}

func (svc *Service) DeleteTemplate(actor access.Actor, id string) error {
	if !access.Can(actor, access.ResourceProgramTemplate, access.OpDelete) {
		return access.ErrForbidden
	}
	return svc.templates.DeleteTemplateByID(id)
}

// Assignments

// Assign instantiates a template for a student, with every course not-started.
func (svc *Service) Assign(actor access.Actor, na NewAssignment) (Assignment, error) {
	if !access.Can(actor, access.ResourceAssignment, access.OpCreate) {
		return Assignment{}, access.ErrForbidden
	}
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}
	tmpl, err := svc.templates.GetTemplateByID(na.TemplateID)
	if err != nil {
		return Assignment{}, err
	}

	courses := make([]Course, 0, len(tmpl.Courses))
	for _, name := range tmpl.Courses {
		courses = append(courses, Course{Name: name, Status: CourseNotStarted})
	}
	return svc.assignments.CreateAssignment(Assignment{
		ID:              uuid.New().String(),
		StudentUsername: na.StudentUsername,
		TemplateID:      tmpl.ID,
		ProgramName:     tmpl.Name,
		SchoolDays:      tmpl.SchoolDays,
		Courses:         courses,
	})
}

// QueryAssignments lists assignments; students only ever see their own.
func (svc *Service) QueryAssignments(actor access.Actor) ([]Assignment, error) {
	if !access.Can(actor, access.ResourceAssignment, access.OpRead) {
		return nil, access.ErrForbidden
	}
	all, err := svc.assignments.QueryAllAssignments()
	if err != nil {
		return nil, err
	}
	if actor.HasAnyRole(access.RoleAdmin, access.RoleCourseSupervisor) {
		return all, nil
	}
	if actor.HasRole(access.RoleStudent) {
		own := make([]Assignment, 0, len(all))
		for _, a := range all {
			if a.StudentUsername == actor.Username {
				own = append(own, a)
			}
		}
		return own, nil
	}
	return all, nil
}

// QueryAssignmentsFor lists one student's assignments.
func (svc *Service) QueryAssignmentsFor(username string) ([]Assignment, error) {
	all, err := svc.assignments.QueryAllAssignments()
	if err != nil {
		return nil, err
	}
	own := make([]Assignment, 0, len(all))
	for _, a := range all {
		if a.StudentUsername == username {
			own = append(own, a)
		}
	}
	return own, nil
}

// UpdateAssignment applies changes to an assignment. Supervisors and admins
// may change any field; a student may only advance the course statuses of
// their own assignment, never move them backwards.
func (svc *Service) UpdateAssignment(actor access.Actor, id string, ua UpdateAssignment) (Assignment, error) {
	// role-only gate first: existence is not revealed to actors with no
	// possible claim on the resource
	if !access.Can(actor, access.ResourceAssignment, access.OpUpdate, access.ResourceContext{Owner: actor.Username}) {
		return Assignment{}, access.ErrForbidden
	}
	if err := ua.Validate(); err != nil {
		return Assignment{}, err
	}

	a, err := svc.assignments.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}
	if !access.Can(actor, access.ResourceAssignment, access.OpUpdate, access.ResourceContext{Owner: a.StudentUsername}) {
		return Assignment{}, access.ErrForbidden
	}

	studentOnly := !actor.HasAnyRole(access.RoleAdmin, access.RoleCourseSupervisor)
	if !studentOnly {
		if ua.ProgramName != "" {
			a.ProgramName = ua.ProgramName
		}
		if ua.SchoolDays != nil {
			a.SchoolDays = *ua.SchoolDays
		}
	}
	if ua.Courses != nil {
		merged, err := mergeCourses(a.Courses, ua.Courses)
		if err != nil {
			return Assignment{}, err
		}
		a.Courses = merged
	}
	return svc.assignments.UpdateAssignment(a)
}

func (svc *Service) DeleteAssignment(actor access.Actor, id string) error {
	if !access.Can(actor, access.ResourceAssignment, access.OpDelete) {
		return access.ErrForbidden
	}
	return svc.assignments.DeleteAssignmentByID(id)
}

// mergeCourses applies submitted course states onto the stored list. Only
// Status and StartDate are ever taken from the submission, so student
// callers cannot smuggle other changes in. Unknown course names are
// ignored; backward transitions are rejected.
func mergeCourses(current, submitted []Course) ([]Course, error) {
	byName := make(map[string]Course, len(submitted))
	for _, c := range submitted {
		byName[c.Name] = c
	}

	merged := make([]Course, len(current))
	for i, c := range current {
		sub, ok := byName[c.Name]
		if !ok {
			merged[i] = c
			continue
		}
		if !c.Status.CanAdvanceTo(sub.Status) {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: "courses." + c.Name,
				Error: errBackwardTransition,
			})
		}
		next := c
		next.Status = sub.Status
		switch {
		case sub.StartDate != nil:
			next.StartDate = sub.StartDate
		case c.StartDate == nil && sub.Status == CourseInProgress:
			now := time.Now().UTC()
			next.StartDate = &now
		}
		merged[i] = next
	}
	return merged, nil
}
