package user

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/access"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrAdminReserved  = errors.New("the default admin cannot be deleted")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByUsername(username string) (User, error)
		UpdateUser(usr User) (User, error)
		DeleteUserByUsername(username string) error
		UpdateOrCreateUser(usr User) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Create(actor access.Actor, nu NewUser) (User, error) {
	if !access.Can(actor, access.ResourceUser, access.OpCreate) {
		return User{}, access.ErrForbidden
	}
	if err := nu.Validate(); err != nil {
		return User{}, err
	}
	if err := svc.repo.CheckUsernameUniqueness(nu.Username); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Roles:     nu.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) QueryAll(actor access.Actor) ([]User, error) {
	if !access.Can(actor, access.ResourceUser, access.OpRead) {
		return nil, access.ErrForbidden
	}
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByUsername(actor access.Actor, uname string) (User, error) {
	if !access.Can(actor, access.ResourceUser, access.OpRead) {
		return User{}, access.ErrForbidden
	}
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(actor access.Actor, uname string, uu UpdateUser) (User, error) {
	if !access.Can(actor, access.ResourceUser, access.OpUpdate) {
		return User{}, access.ErrForbidden
	}
	if err := uu.Validate(); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if uu.Name != "" {
		usr.Name = uu.Name
	}
	if uu.Email != "" {
		usr.Email = uu.Email
	}
	if uu.Roles != nil {
		usr.Roles = uu.Roles
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}

func (svc *Service) Delete(actor access.Actor, uname string) error {
	if !access.Can(actor, access.ResourceUser, access.OpDelete) {
		return access.ErrForbidden
	}
	uname = core.CleanString(uname, true /* lower */)
	if uname == ReservedAdminUsername {
		return ErrAdminReserved
	}
	return svc.repo.DeleteUserByUsername(uname)
}

// Authenticate checks the given credentials and returns the matching user.
// It is the one lookup that requires no acting identity.
func (svc *Service) Authenticate(uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

// Refresh reloads the user behind an already-verified token; like
// Authenticate it requires no acting identity.
func (svc *Service) Refresh(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if usr.Email == "" || svc.mailSvc == nil {
		return
	}
	name := usr.Name
	if name == "" {
		name = usr.Username
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: name, Address: usr.Email}},
		Subject:      "Welcome to " + core.Conf.AppName,
		TemplateName: "welcome",
		TemplateData: struct {
			Name     string
			Username string
			AppName  string
		}{name, usr.Username, core.Conf.AppName},
	})
}
