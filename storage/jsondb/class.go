package jsondb

import (
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/class"
)

// ClassRepository persists classes in the "classes" collection, keyed by id.
type ClassRepository struct {
	db *DB
}

var _ class.Repository = (*ClassRepository)(nil)

func NewClassRepository(db *DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (repo *ClassRepository) load() ([]class.Class, error) {
	var classes []class.Class
	err := repo.db.readAll(classesCollection, &classes)
	return classes, err
}

func (repo *ClassRepository) CreateClass(cls class.Class) (class.Class, error) {
	mu := repo.db.guard(classesCollection)
	mu.Lock()
	defer mu.Unlock()

	classes, err := repo.load()
	if err != nil {
		return class.Class{}, err
	}
	classes = append(classes, cls)
	if err := repo.db.writeAll(classesCollection, classes); err != nil {
		return class.Class{}, err
	}
	return cls, nil
}

func (repo *ClassRepository) QueryAllClasses() ([]class.Class, error) {
	mu := repo.db.guard(classesCollection)
	mu.RLock()
	defer mu.RUnlock()

	return repo.load()
}

func (repo *ClassRepository) GetClassByID(id string) (class.Class, error) {
	mu := repo.db.guard(classesCollection)
	mu.RLock()
	defer mu.RUnlock()

	classes, err := repo.load()
	if err != nil {
		return class.Class{}, err
	}
	for _, cls := range classes {
		if cls.ID == id {
			return cls, nil
		}
	}
	return class.Class{}, errors.Wrapf(class.ErrNotFound, "id %s", id)
}

func (repo *ClassRepository) UpdateClass(cls class.Class) (class.Class, error) {
	mu := repo.db.guard(classesCollection)
	mu.Lock()
	defer mu.Unlock()

	classes, err := repo.load()
	if err != nil {
		return class.Class{}, err
	}
	for i, c := range classes {
		if c.ID == cls.ID {
			classes[i] = cls
			if err := repo.db.writeAll(classesCollection, classes); err != nil {
				return class.Class{}, err
			}
			return cls, nil
		}
	}
	return class.Class{}, errors.Wrapf(class.ErrNotFound, "id %s", cls.ID)
}

func (repo *ClassRepository) DeleteClassByID(id string) error {
	mu := repo.db.guard(classesCollection)
	mu.Lock()
	defer mu.Unlock()

	classes, err := repo.load()
	if err != nil {
		return err
	}
	for i, cls := range classes {
		if cls.ID == id {
			classes = append(classes[:i], classes[i+1:]...)
			return repo.db.writeAll(classesCollection, classes)
		}
	}
	return errors.Wrapf(class.ErrNotFound, "id %s", id)
}
