package jsondb

import (
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/absence"
)

// AbsenceRepository persists adjudicated absences in the "absences"
// collection. (RollcallID, Username) is the upsert key the reconciler
// matches on.
type AbsenceRepository struct {
	db *DB
}

var _ absence.Repository = (*AbsenceRepository)(nil)

func NewAbsenceRepository(db *DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

func (repo *AbsenceRepository) load() ([]absence.Absence, error) {
	var abs []absence.Absence
	err := repo.db.readAll(absencesCollection, &abs)
	return abs, err
}

func (repo *AbsenceRepository) CreateAbsence(ab absence.Absence) (absence.Absence, error) {
	mu := repo.db.guard(absencesCollection)
	mu.Lock()
	defer mu.Unlock()

	abs, err := repo.load()
	if err != nil {
		return absence.Absence{}, err
	}
	abs = append(abs, ab)
	if err := repo.db.writeAll(absencesCollection, abs); err != nil {
		return absence.Absence{}, err
	}
	return ab, nil
}

func (repo *AbsenceRepository) QueryAllAbsences() ([]absence.Absence, error) {
	mu := repo.db.guard(absencesCollection)
	mu.RLock()
	defer mu.RUnlock()

	return repo.load()
}

func (repo *AbsenceRepository) GetAbsenceByID(id string) (absence.Absence, error) {
	mu := repo.db.guard(absencesCollection)
	mu.RLock()
	defer mu.RUnlock()

	abs, err := repo.load()
	if err != nil {
		return absence.Absence{}, err
	}
	for _, ab := range abs {
		if ab.ID == id {
			return ab, nil
		}
	}
	return absence.Absence{}, errors.Wrapf(absence.ErrNotFound, "id %s", id)
}

func (repo *AbsenceRepository) FindAbsence(rollcallID, username string) (absence.Absence, error) {
	mu := repo.db.guard(absencesCollection)
	mu.RLock()
	defer mu.RUnlock()

	abs, err := repo.load()
	if err != nil {
		return absence.Absence{}, err
	}
	for _, ab := range abs {
		if ab.RollcallID == rollcallID && ab.Username == username {
			return ab, nil
		}
	}
	return absence.Absence{}, errors.Wrapf(absence.ErrNotFound, "rollcall %s, username %s", rollcallID, username)
}

func (repo *AbsenceRepository) UpdateAbsence(ab absence.Absence) (absence.Absence, error) {
	mu := repo.db.guard(absencesCollection)
	mu.Lock()
	defer mu.Unlock()

	abs, err := repo.load()
	if err != nil {
		return absence.Absence{}, err
	}
	for i, a := range abs {
		if a.ID == ab.ID {
			abs[i] = ab
			if err := repo.db.writeAll(absencesCollection, abs); err != nil {
				return absence.Absence{}, err
			}
			return ab, nil
		}
	}
	return absence.Absence{}, errors.Wrapf(absence.ErrNotFound, "id %s", ab.ID)
}
