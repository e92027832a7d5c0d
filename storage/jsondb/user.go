package jsondb

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/user"
)

// userRecord is the stored shape of a user. The core model hides the
// password hash from JSON output, but the store must persist it.
type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newUserRecord(usr user.User) userRecord {
	return userRecord{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		Roles:        usr.Roles,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
}

func (rec userRecord) toCore() user.User {
	return user.User{
		ID:           rec.ID,
		Name:         rec.Name,
		Username:     rec.Username,
		Email:        rec.Email,
		Roles:        rec.Roles,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func newID() string { return uuid.New().String() }

// UserRepository persists users in the "users" collection,
// keyed by username.
type UserRepository struct {
	db *DB
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (repo *UserRepository) load() ([]userRecord, error) {
	var recs []userRecord
	err := repo.db.readAll(usersCollection, &recs)
	return recs, err
}

func (repo *UserRepository) CheckUsernameUniqueness(username string, excludedUsers ...user.User) error {
	mu := repo.db.guard(usersCollection)
	mu.RLock()
	defer mu.RUnlock()

	recs, err := repo.load()
	if err != nil {
		return err
	}
outer:
	for _, rec := range recs {
		if rec.Username != username {
			continue
		}
		for _, ex := range excludedUsers {
			if ex.Username == rec.Username {
				continue outer
			}
		}
		return user.ErrUsernameExists
	}
	return nil
}

func (repo *UserRepository) CreateUser(usr user.User) (user.User, error) {
	mu := repo.db.guard(usersCollection)
	mu.Lock()
	defer mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for _, rec := range recs {
		if rec.Username == usr.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}
	recs = append(recs, newUserRecord(usr))
	if err := repo.db.writeAll(usersCollection, recs); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *UserRepository) QueryAllUsers() ([]user.User, error) {
	mu := repo.db.guard(usersCollection)
	mu.RLock()
	defer mu.RUnlock()

	recs, err := repo.load()
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(recs))
	for _, rec := range recs {
		users = append(users, rec.toCore())
	}
	return users, nil
}

func (repo *UserRepository) GetUserByUsername(username string) (user.User, error) {
	mu := repo.db.guard(usersCollection)
	mu.RLock()
	defer mu.RUnlock()

	recs, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for _, rec := range recs {
		if rec.Username == username {
			return rec.toCore(), nil
		}
	}
	return user.User{}, errors.Wrapf(user.ErrNotFound, "username %s", username)
}

func (repo *UserRepository) UpdateUser(usr user.User) (user.User, error) {
	mu := repo.db.guard(usersCollection)
	mu.Lock()
	defer mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for i, rec := range recs {
		if rec.Username == usr.Username {
			recs[i] = newUserRecord(usr)
			if err := repo.db.writeAll(usersCollection, recs); err != nil {
				return user.User{}, err
			}
			return usr, nil
		}
	}
	return user.User{}, errors.Wrapf(user.ErrNotFound, "username %s", usr.Username)
}

func (repo *UserRepository) DeleteUserByUsername(username string) error {
	mu := repo.db.guard(usersCollection)
	mu.Lock()
	defer mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.Username == username {
			recs = append(recs[:i], recs[i+1:]...)
			return repo.db.writeAll(usersCollection, recs)
		}
	}
	return errors.Wrapf(user.ErrNotFound, "username %s", username)
}

func (repo *UserRepository) UpdateOrCreateUser(usr user.User) (user.User, error) {
	mu := repo.db.guard(usersCollection)
	mu.Lock()
	defer mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return user.User{}, err
	}
	for i, rec := range recs {
		if rec.Username == usr.Username {
			if usr.ID == "" {
				usr.ID = rec.ID
			}
			recs[i] = newUserRecord(usr)
			if err := repo.db.writeAll(usersCollection, recs); err != nil {
				return user.User{}, err
			}
			return usr, nil
		}
	}
	if usr.ID == "" {
		usr.ID = newID()
	}
	recs = append(recs, newUserRecord(usr))
	if err := repo.db.writeAll(usersCollection, recs); err != nil {
		return user.User{}, err
	}
	return usr, nil
}
