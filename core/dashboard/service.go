// Package dashboard computes the read-only, role-partitioned rollups shown
// on landing screens. No mutation happens here; every input comes from the
// record store via the entity repositories.
package dashboard

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/absence"
	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/class"
	"github.com/trezcool/hudhuria/core/points"
	"github.com/trezcool/hudhuria/core/program"
	"github.com/trezcool/hudhuria/core/rollcall"
)

// recentRollCallLimit caps the supervisor view's roll-call history.
const recentRollCallLimit = 10

type (
	// ProgramProgress pairs an assignment with its completion ratio.
	ProgramProgress struct {
		program.Assignment
		Completion float64 `json:"completion"`
	}

	// StudentView is the rollup for actors holding the student role.
	StudentView struct {
		Slips        []points.Slip     `json:"slips"`
		Programs     []ProgramProgress `json:"programs"`
		Absences     []absence.Absence `json:"absences"`
		AbsenceCount int               `json:"absenceCount"`
		Classes      []class.Class     `json:"classes"`
	}

	// StudentStat is one supervised student's aggregate line.
	StudentStat struct {
		Username      string  `json:"username"`
		TotalPoints   float64 `json:"totalPoints"`
		ProgramsCount int     `json:"programsCount"`
		AbsencesCount int     `json:"absencesCount"`
	}

	// SupervisorView is the rollup for staff/supervisor/admin actors.
	SupervisorView struct {
		StudentStats []StudentStat     `json:"studentStats"`
		Classes      []class.Class     `json:"classes"`
		RollCalls    []rollcall.Record `json:"rollcalls"`
	}

	// Summary is the role-partitioned dashboard payload; exactly one of
	// the views is set.
	Summary struct {
		Student    *StudentView    `json:"student,omitempty"`
		Supervisor *SupervisorView `json:"supervisor,omitempty"`
	}

	Service struct {
		classes     class.Repository
		rollcalls   rollcall.Repository
		absences    absence.Repository
		assignments program.AssignmentRepository
		slips       points.Repository
	}
)

func NewService(
	classes class.Repository,
	rollcalls rollcall.Repository,
	absences absence.Repository,
	assignments program.AssignmentRepository,
	slips points.Repository,
) *Service {
	return &Service{
		classes:     classes,
		rollcalls:   rollcalls,
		absences:    absences,
		assignments: assignments,
		slips:       slips,
	}
}

// Summarize builds the dashboard for the acting identity, branching by its
// role set: students get their own data, everyone else a supervisor view.
func (svc *Service) Summarize(actor access.Actor) (Summary, error) {
	if !actor.IsAuthenticated() {
		return Summary{}, access.ErrUnauthenticated
	}
	if actor.HasRole(access.RoleStudent) {
		view, err := svc.studentView(actor.Username)
		if err != nil {
			return Summary{}, err
		}
		return Summary{Student: view}, nil
	}
	view, err := svc.supervisorView(actor)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Supervisor: view}, nil
}

func (svc *Service) studentView(username string) (*StudentView, error) {
	slips, err := svc.slips.QueryAllSlips()
	if err != nil {
		return nil, errors.Wrap(err, "querying slips")
	}
	assignments, err := svc.assignments.QueryAllAssignments()
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	absences, err := svc.absences.QueryAllAbsences()
	if err != nil {
		return nil, errors.Wrap(err, "querying absences")
	}
	classes, err := svc.classes.QueryAllClasses()
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	view := &StudentView{
		Slips:    make([]points.Slip, 0),
		Programs: make([]ProgramProgress, 0),
		Absences: make([]absence.Absence, 0),
		Classes:  make([]class.Class, 0),
	}
	for _, s := range slips {
		if s.Name == username {
			view.Slips = append(view.Slips, s)
		}
	}
	for _, a := range assignments {
		if a.StudentUsername == username {
			view.Programs = append(view.Programs, ProgramProgress{Assignment: a, Completion: a.CompletionRatio()})
		}
	}
	for _, ab := range absences {
		if ab.Username == username {
			view.Absences = append(view.Absences, ab)
		}
	}
	view.AbsenceCount = len(view.Absences)
	for _, cls := range classes {
		if cls.HasStudent(username) {
			view.Classes = append(view.Classes, cls)
		}
	}
	return view, nil
}

func (svc *Service) supervisorView(actor access.Actor) (*SupervisorView, error) {
	classes, err := svc.classes.QueryAllClasses()
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	assignments, err := svc.assignments.QueryAllAssignments()
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	slips, err := svc.slips.QueryAllSlips()
	if err != nil {
		return nil, errors.Wrap(err, "querying slips")
	}
	absences, err := svc.absences.QueryAllAbsences()
	if err != nil {
		return nil, errors.Wrap(err, "querying absences")
	}
	records, err := svc.rollcalls.QueryAllRollCalls()
	if err != nil {
		return nil, errors.Wrap(err, "querying roll-calls")
	}

	supervised := make([]class.Class, 0)
	supervisedIDs := make(map[string]struct{})
	students := make(map[string]struct{})
	for _, cls := range classes {
		if cls.Supervisor != actor.Username {
			continue
		}
		supervised = append(supervised, cls)
		supervisedIDs[cls.ID] = struct{}{}
		for _, s := range cls.Roster {
			students[s] = struct{}{}
		}
	}

	// courseroom supervisors (and admins) also oversee every student they
	// could assign a program to
	if actor.HasAnyRole(access.RoleAdmin, access.RoleCourseSupervisor) {
		for _, a := range assignments {
			students[a.StudentUsername] = struct{}{}
		}
	}

	stats := make([]StudentStat, 0, len(students))
	for uname := range students {
		stat := StudentStat{Username: uname}
		for _, s := range slips {
			if s.Name == uname {
				stat.TotalPoints += s.Points
			}
		}
		for _, a := range assignments {
			if a.StudentUsername == uname {
				stat.ProgramsCount++
			}
		}
		for _, ab := range absences {
			if ab.Username == uname {
				stat.AbsencesCount++
			}
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Username < stats[j].Username })

	recent := make([]rollcall.Record, 0)
	for _, rec := range records {
		if _, ok := supervisedIDs[rec.ClassID]; ok {
			recent = append(recent, rec)
		}
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].Timestamp.After(recent[j].Timestamp) })
	if len(recent) > recentRollCallLimit {
		recent = recent[:recentRollCallLimit]
	}

	return &SupervisorView{
		StudentStats: stats,
		Classes:      supervised,
		RollCalls:    recent,
	}, nil
}
