// Package access implements the role permission matrix gating every
// resource operation. Decisions are pure: callers thread the acting
// identity explicitly, there is no ambient "current user".
package access

import "github.com/pkg/errors"

// Roles
const (
	RoleStudent          = "student"
	RoleStaff            = "staff"
	RoleAdmin            = "admin"
	RoleCourseSupervisor = "courseroom-supervisor"
	RoleAbsenceChecker   = "absence-checker"
)

var AllRoles = []string{RoleStudent, RoleStaff, RoleAdmin, RoleCourseSupervisor, RoleAbsenceChecker}

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrForbidden       = errors.New("permission denied")
)

// Actor is the authenticated identity performing an operation.
// The zero value is unauthenticated and is denied everything.
type Actor struct {
	Username string
	Roles    []string
}

func (a Actor) IsAuthenticated() bool { return a.Username != "" }

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if a.HasRole(r) {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool { return a.HasRole(RoleAdmin) }

type Resource string

const (
	ResourceUser            Resource = "user"
	ResourceClass           Resource = "class"
	ResourceRollCall        Resource = "rollcall"
	ResourceAbsence         Resource = "absence"
	ResourceProgramTemplate Resource = "program-template"
	ResourceAssignment      Resource = "student-program"
	ResourcePointSlip       Resource = "point-slip"
)

type Op string

const (
	OpRead   Op = "read"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ResourceContext carries the instance data some rules depend on.
type ResourceContext struct {
	// ClassSupervisor is the supervising username of the roll-call's class.
	ClassSupervisor string
	// Owner is the owning student's username (assignments, point slips).
	Owner string
}

// Can reports whether actor may perform op on the given resource kind.
// Rules are evaluated as OR across the actor's roles, most specific first;
// role-only checks never depend on resource existence.
func Can(actor Actor, res Resource, op Op, rctx ...ResourceContext) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	var ctx ResourceContext
	if len(rctx) > 0 {
		ctx = rctx[0]
	}

	switch res {
	case ResourceUser:
		if op == OpRead {
			return actor.HasAnyRole(RoleAdmin, RoleCourseSupervisor)
		}
		return actor.IsAdmin()

	case ResourceClass, ResourceProgramTemplate:
		if op == OpRead {
			return true
		}
		return actor.IsAdmin()

	case ResourceRollCall:
		switch op {
		case OpRead:
			return true
		case OpCreate, OpUpdate:
			return actor.IsAdmin() || (ctx.ClassSupervisor != "" && actor.Username == ctx.ClassSupervisor)
		default:
			return actor.IsAdmin()
		}

	case ResourceAbsence:
		if op == OpRead {
			return true
		}
		return actor.HasAnyRole(RoleAdmin, RoleAbsenceChecker)

	case ResourceAssignment:
		switch op {
		case OpRead:
			return true
		case OpUpdate:
			if actor.HasAnyRole(RoleAdmin, RoleCourseSupervisor) {
				return true
			}
			// students may only touch their own assignment; the program
			// service further restricts them to course statuses.
			return actor.HasRole(RoleStudent) && ctx.Owner != "" && actor.Username == ctx.Owner
		default:
			return actor.HasAnyRole(RoleAdmin, RoleCourseSupervisor)
		}

	case ResourcePointSlip:
		if op == OpRead {
			return true
		}
		if op != OpCreate {
			return actor.IsAdmin()
		}
		// staff may never enter points, even when holding other roles
		if actor.HasRole(RoleStaff) {
			return false
		}
		if actor.HasRole(RoleStudent) {
			return ctx.Owner != "" && actor.Username == ctx.Owner
		}
		return true
	}
	return false
}
