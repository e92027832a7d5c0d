package jsondb

import (
	"github.com/trezcool/hudhuria/core/points"
)

// SlipRepository persists point slips in the "slips" collection.
// Slips are append-only.
type SlipRepository struct {
	db *DB
}

var _ points.Repository = (*SlipRepository)(nil)

func NewSlipRepository(db *DB) *SlipRepository {
	return &SlipRepository{db: db}
}

func (repo *SlipRepository) CreateSlip(s points.Slip) (points.Slip, error) {
	mu := repo.db.guard(slipsCollection)
	mu.Lock()
	defer mu.Unlock()

	var slips []points.Slip
	if err := repo.db.readAll(slipsCollection, &slips); err != nil {
		return points.Slip{}, err
	}
	slips = append(slips, s)
	if err := repo.db.writeAll(slipsCollection, slips); err != nil {
		return points.Slip{}, err
	}
	return s, nil
}

func (repo *SlipRepository) QueryAllSlips() ([]points.Slip, error) {
	mu := repo.db.guard(slipsCollection)
	mu.RLock()
	defer mu.RUnlock()

	var slips []points.Slip
	err := repo.db.readAll(slipsCollection, &slips)
	return slips, err
}
