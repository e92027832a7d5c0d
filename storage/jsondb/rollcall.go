package jsondb

import (
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/rollcall"
)

// RollCallRepository persists submitted roll-calls in the "rollcalls"
// collection. The ledger is append-and-amend: records are never deleted.
type RollCallRepository struct {
	db *DB
}

var _ rollcall.Repository = (*RollCallRepository)(nil)

func NewRollCallRepository(db *DB) *RollCallRepository {
	return &RollCallRepository{db: db}
}

func (repo *RollCallRepository) load() ([]rollcall.Record, error) {
	var recs []rollcall.Record
	err := repo.db.readAll(rollcallsCollection, &recs)
	return recs, err
}

func (repo *RollCallRepository) CreateRollCall(rec rollcall.Record) (rollcall.Record, error) {
	mu := repo.db.guard(rollcallsCollection)
	mu.Lock()
	defer mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return rollcall.Record{}, err
	}
	recs = append(recs, rec)
	if err := repo.db.writeAll(rollcallsCollection, recs); err != nil {
		return rollcall.Record{}, err
	}
	return rec, nil
}

func (repo *RollCallRepository) QueryAllRollCalls() ([]rollcall.Record, error) {
	mu := repo.db.guard(rollcallsCollection)
	mu.RLock()
	defer mu.RUnlock()

	return repo.load()
}

func (repo *RollCallRepository) GetRollCallByID(id string) (rollcall.Record, error) {
	mu := repo.db.guard(rollcallsCollection)
	mu.RLock()
	defer mu.RUnlock()

	recs, err := repo.load()
	if err != nil {
		return rollcall.Record{}, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return rollcall.Record{}, errors.Wrapf(rollcall.ErrNotFound, "id %s", id)
}

func (repo *RollCallRepository) UpdateRollCall(rec rollcall.Record) (rollcall.Record, error) {
	mu := repo.db.guard(rollcallsCollection)
	mu.Lock()
	defer mu.Unlock()

	recs, err := repo.load()
	if err != nil {
		return rollcall.Record{}, err
	}
	for i, r := range recs {
		if r.ID == rec.ID {
			recs[i] = rec
			if err := repo.db.writeAll(rollcallsCollection, recs); err != nil {
				return rollcall.Record{}, err
			}
			return rec, nil
		}
	}
	return rollcall.Record{}, errors.Wrapf(rollcall.ErrNotFound, "id %s", rec.ID)
}
