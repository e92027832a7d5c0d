package class

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/access"
)

var (
	// errors
	ErrNotFound   = errors.New("class not found")
	ErrRosterFull = errors.New("roster exceeds the student limit")
)

type (
	Repository interface {
		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		UpdateClass(cls Class) (Class, error)
		DeleteClassByID(id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(actor access.Actor, nc NewClass) (Class, error) {
	if !access.Can(actor, access.ResourceClass, access.OpCreate) {
		return Class{}, access.ErrForbidden
	}
	if err := nc.Validate(); err != nil {
		return Class{}, err
	}
	if len(nc.Roster) > nc.StudentLimit {
		return Class{}, ErrRosterFull
	}

	now := time.Now().UTC()
	cls := Class{
		ID:           uuid.New().String(),
		Name:         nc.Name,
		StudentLimit: nc.StudentLimit,
		Supervisor:   nc.Supervisor,
		Schedule:     nc.Schedule,
		Roster:       nc.Roster,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateClass(cls)
}

func (svc *Service) QueryAll(actor access.Actor) ([]Class, error) {
	if !access.Can(actor, access.ResourceClass, access.OpRead) {
		return nil, access.ErrForbidden
	}
	return svc.repo.QueryAllClasses()
}

func (svc *Service) GetByID(actor access.Actor, id string) (Class, error) {
	if !access.Can(actor, access.ResourceClass, access.OpRead) {
		return Class{}, access.ErrForbidden
	}
	return svc.repo.GetClassByID(id)
}

// SupervisedBy returns the classes the given username supervises.
func (svc *Service) SupervisedBy(actor access.Actor, username string) ([]Class, error) {
	all, err := svc.QueryAll(actor)
	if err != nil {
		return nil, err
	}
	classes := make([]Class, 0, len(all))
	for _, cls := range all {
		if cls.Supervisor == username {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (svc *Service) Update(actor access.Actor, id string, uc UpdateClass) (Class, error) {
	if !access.Can(actor, access.ResourceClass, access.OpUpdate) {
		return Class{}, access.ErrForbidden
	}
	if err := uc.Validate(); err != nil {
		return Class{}, err
	}

	cls, err := svc.repo.GetClassByID(id)
	if err != nil {
		return Class{}, err
	}
	if uc.Name != "" {
		cls.Name = uc.Name
	}
	if uc.StudentLimit != nil {
		cls.StudentLimit = *uc.StudentLimit
	}
	if uc.Supervisor != "" {
		cls.Supervisor = uc.Supervisor
	}
	if uc.Schedule != nil {
		cls.Schedule = uc.Schedule
	}
	if uc.Roster != nil {
		cls.Roster = uc.Roster
	}
	if len(cls.Roster) > cls.StudentLimit {
		return Class{}, ErrRosterFull
	}
	cls.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(cls)
}

func (svc *Service) Delete(actor access.Actor, id string) error {
	if !access.Can(actor, access.ResourceClass, access.OpDelete) {
		return access.ErrForbidden
	}
	return svc.repo.DeleteClassByID(id)
}
