package rollcall

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/class"
)

var (
	// errors
	ErrNotFound = errors.New("roll-call not found")
)

type (
	Repository interface {
		CreateRollCall(rec Record) (Record, error)
		QueryAllRollCalls() ([]Record, error)
		GetRollCallByID(id string) (Record, error)
		UpdateRollCall(rec Record) (Record, error)
	}

	Service struct {
		repo    Repository
		classes class.Repository
	}
)

func NewService(repo Repository, classes class.Repository) *Service {
	return &Service{repo: repo, classes: classes}
}

// Create records a roll-call directly from a transport payload.
// Only the class's supervisor or an admin may do this.
func (svc *Service) Create(actor access.Actor, nr NewRecord) (Record, error) {
	if err := nr.Validate(); err != nil {
		return Record{}, err
	}
	cls, err := svc.classes.GetClassByID(nr.ClassID)
	if err != nil {
		return Record{}, err
	}
	if !access.Can(actor, access.ResourceRollCall, access.OpCreate, access.ResourceContext{ClassSupervisor: cls.Supervisor}) {
		return Record{}, access.ErrForbidden
	}

	rec := Record{
		ID:        uuid.New().String(),
		ClassID:   nr.ClassID,
		Date:      nr.Date,
		Time:      nr.Time,
		Timestamp: time.Now().UTC(),
		Status:    nr.Status,
	}
	return svc.repo.CreateRollCall(rec)
}

// Submit persists an active session's status map as one Record; the
// timestamp is set at submission time, not at session start. A Forbidden
// outcome leaves the session active so the caller can retry after
// correcting rights.
func (svc *Service) Submit(actor access.Actor, s *Session) (Record, error) {
	switch s.State() {
	case StateSubmitted:
		return Record{}, ErrAlreadySubmitted
	case StateActive:
	default:
		return Record{}, ErrNotActive
	}
	cls := s.Class()
	if !access.Can(actor, access.ResourceRollCall, access.OpCreate, access.ResourceContext{ClassSupervisor: cls.Supervisor}) {
		return Record{}, access.ErrForbidden
	}

	now := s.nowFn()
	rec := Record{
		ID:        uuid.New().String(),
		ClassID:   cls.ID,
		Date:      now.Format("2006-01-02"),
		Time:      s.Slot(),
		Timestamp: now.UTC(),
		Status:    s.Statuses(),
	}
	rec, err := svc.repo.CreateRollCall(rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "persisting roll-call")
	}
	if err := s.markSubmitted(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (svc *Service) QueryAll(actor access.Actor) ([]Record, error) {
	if !access.Can(actor, access.ResourceRollCall, access.OpRead) {
		return nil, access.ErrForbidden
	}
	return svc.repo.QueryAllRollCalls()
}

func (svc *Service) GetByID(actor access.Actor, id string) (Record, error) {
	if !access.Can(actor, access.ResourceRollCall, access.OpRead) {
		return Record{}, access.ErrForbidden
	}
	return svc.repo.GetRollCallByID(id)
}

// Update applies a supervisor/admin correction to a submitted record.
func (svc *Service) Update(actor access.Actor, id string, ur UpdateRecord) (Record, error) {
	if err := ur.Validate(); err != nil {
		return Record{}, err
	}
	rec, err := svc.repo.GetRollCallByID(id)
	if err != nil {
		return Record{}, err
	}
	cls, err := svc.classes.GetClassByID(rec.ClassID)
	if err != nil {
		return Record{}, err
	}
	if !access.Can(actor, access.ResourceRollCall, access.OpUpdate, access.ResourceContext{ClassSupervisor: cls.Supervisor}) {
		return Record{}, access.ErrForbidden
	}

	rec.Status = ur.Status
	return svc.repo.UpdateRollCall(rec)
}
