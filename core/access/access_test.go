package access

import "testing"

func TestCan(t *testing.T) {
	var (
		anon    = Actor{}
		admin   = Actor{Username: "root", Roles: []string{RoleAdmin}}
		staff   = Actor{Username: "john", Roles: []string{RoleStaff}}
		student = Actor{Username: "alice", Roles: []string{RoleStudent}}
		checker = Actor{Username: "carol", Roles: []string{RoleStaff, RoleAbsenceChecker}}
		csup    = Actor{Username: "dave", Roles: []string{RoleStaff, RoleCourseSupervisor}}
		// holds both student and staff; the staff point-slip denial wins
		hybrid = Actor{Username: "frank", Roles: []string{RoleStudent, RoleStaff}}
	)

	tests := []struct {
		name  string
		actor Actor
		res   Resource
		op    Op
		ctx   []ResourceContext
		want  bool
	}{
		{name: "anon denied everything", actor: anon, res: ResourceClass, op: OpRead, want: false},

		// users
		{name: "admin reads users", actor: admin, res: ResourceUser, op: OpRead, want: true},
		{name: "course supervisor reads users", actor: csup, res: ResourceUser, op: OpRead, want: true},
		{name: "staff cannot read users", actor: staff, res: ResourceUser, op: OpRead, want: false},
		{name: "only admin creates users", actor: csup, res: ResourceUser, op: OpCreate, want: false},
		{name: "admin creates users", actor: admin, res: ResourceUser, op: OpCreate, want: true},

		// classes & templates
		{name: "any authed reads classes", actor: student, res: ResourceClass, op: OpRead, want: true},
		{name: "student cannot mutate classes", actor: student, res: ResourceClass, op: OpUpdate, want: false},
		{name: "admin mutates classes", actor: admin, res: ResourceClass, op: OpDelete, want: true},
		{name: "any authed reads templates", actor: staff, res: ResourceProgramTemplate, op: OpRead, want: true},
		{name: "staff cannot mutate templates", actor: staff, res: ResourceProgramTemplate, op: OpCreate, want: false},

		// roll-calls
		{name: "any authed reads roll-calls", actor: student, res: ResourceRollCall, op: OpRead, want: true},
		{name: "supervisor of the class records", actor: staff, res: ResourceRollCall, op: OpCreate,
			ctx: []ResourceContext{{ClassSupervisor: "john"}}, want: true},
		{name: "non-supervisor cannot record", actor: staff, res: ResourceRollCall, op: OpCreate,
			ctx: []ResourceContext{{ClassSupervisor: "someone-else"}}, want: false},
		{name: "supervising student records their class", actor: student, res: ResourceRollCall, op: OpCreate,
			ctx: []ResourceContext{{ClassSupervisor: "alice"}}, want: true},
		{name: "admin records any class", actor: admin, res: ResourceRollCall, op: OpCreate, want: true},
		{name: "supervisor corrects the record", actor: staff, res: ResourceRollCall, op: OpUpdate,
			ctx: []ResourceContext{{ClassSupervisor: "john"}}, want: true},

		// absences
		{name: "any authed reads absences", actor: student, res: ResourceAbsence, op: OpRead, want: true},
		{name: "absence checker adjudicates", actor: checker, res: ResourceAbsence, op: OpCreate, want: true},
		{name: "plain staff cannot adjudicate", actor: staff, res: ResourceAbsence, op: OpUpdate, want: false},
		{name: "admin adjudicates", actor: admin, res: ResourceAbsence, op: OpCreate, want: true},

		// assignments
		{name: "course supervisor assigns", actor: csup, res: ResourceAssignment, op: OpCreate, want: true},
		{name: "staff cannot assign", actor: staff, res: ResourceAssignment, op: OpCreate, want: false},
		{name: "student updates own assignment", actor: student, res: ResourceAssignment, op: OpUpdate,
			ctx: []ResourceContext{{Owner: "alice"}}, want: true},
		{name: "student cannot update another's", actor: student, res: ResourceAssignment, op: OpUpdate,
			ctx: []ResourceContext{{Owner: "bob"}}, want: false},
		{name: "course supervisor deletes assignments", actor: csup, res: ResourceAssignment, op: OpDelete, want: true},

		// point slips
		{name: "any authed reads slips", actor: staff, res: ResourcePointSlip, op: OpRead, want: true},
		{name: "staff never enters points", actor: staff, res: ResourcePointSlip, op: OpCreate,
			ctx: []ResourceContext{{Owner: "john"}}, want: false},
		{name: "staff denial wins over student role", actor: hybrid, res: ResourcePointSlip, op: OpCreate,
			ctx: []ResourceContext{{Owner: "frank"}}, want: false},
		{name: "student enters own points", actor: student, res: ResourcePointSlip, op: OpCreate,
			ctx: []ResourceContext{{Owner: "alice"}}, want: true},
		{name: "student cannot enter another's points", actor: student, res: ResourcePointSlip, op: OpCreate,
			ctx: []ResourceContext{{Owner: "bob"}}, want: false},
		{name: "admin enters points for anyone", actor: admin, res: ResourcePointSlip, op: OpCreate,
			ctx: []ResourceContext{{Owner: "bob"}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.actor, tt.res, tt.op, tt.ctx...); got != tt.want {
				t.Errorf("Can(%s, %s, %s) = %v, want %v", tt.actor.Username, tt.res, tt.op, got, tt.want)
			}
		})
	}
}

func TestActor(t *testing.T) {
	a := Actor{Username: "alice", Roles: []string{RoleStudent, RoleAbsenceChecker}}
	if !a.IsAuthenticated() {
		t.Error("IsAuthenticated() = false, want true")
	}
	if a.IsAdmin() {
		t.Error("IsAdmin() = true, want false")
	}
	if !a.HasAnyRole(RoleAdmin, RoleAbsenceChecker) {
		t.Error("HasAnyRole() = false, want true")
	}
	if (Actor{}).IsAuthenticated() {
		t.Error("zero Actor must be unauthenticated")
	}
}
