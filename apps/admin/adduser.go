package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core"
	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsername(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			CreatedAt: time.Now().UTC(),
		}
	}
	if email != "" {
		usr.Email = email
	}
	if isAdmin {
		usr.Roles = access.AllRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err := cli.usrRepo.UpdateOrCreateUser(usr); err != nil {
		return err
	}
	return nil
}
