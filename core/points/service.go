package points

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/user"
)

var errUnknownUser = "no user with this name"

type (
	Repository interface {
		CreateSlip(s Slip) (Slip, error)
		QueryAllSlips() ([]Slip, error)
	}

	Service struct {
		repo  Repository
		users user.Repository
	}
)

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Create appends a slip. Staff may never enter points; students only for
// themselves. The name must belong to a known user.
func (svc *Service) Create(actor access.Actor, ns NewSlip) (Slip, error) {
	if err := ns.Validate(); err != nil {
		return Slip{}, err
	}
	if !access.Can(actor, access.ResourcePointSlip, access.OpCreate, access.ResourceContext{Owner: ns.Name}) {
		return Slip{}, access.ErrForbidden
	}
	if _, err := svc.users.GetUserByUsername(ns.Name); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Slip{}, core.NewValidationError(nil, core.FieldError{Field: "name", Error: errUnknownUser})
		}
		return Slip{}, err
	}

	return svc.repo.CreateSlip(Slip{
		ID:     uuid.New().String(),
		Name:   ns.Name,
		Date:   ns.Date,
		Points: ns.Points,
		Hours:  ns.Hours,
	})
}

func (svc *Service) QueryAll(actor access.Actor) ([]Slip, error) {
	if !access.Can(actor, access.ResourcePointSlip, access.OpRead) {
		return nil, access.ErrForbidden
	}
	return svc.repo.QueryAllSlips()
}
