package jsondb

import (
	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/program"
)

// TemplateRepository persists program templates in the "program_templates"
// collection.
type TemplateRepository struct {
	db *DB
}

var _ program.TemplateRepository = (*TemplateRepository)(nil)

func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (repo *TemplateRepository) load() ([]program.Template, error) {
	var tmpls []program.Template
	err := repo.db.readAll(templatesCollection, &tmpls)
	return tmpls, err
}

func (repo *TemplateRepository) CreateTemplate(t program.Template) (program.Template, error) {
	mu := repo.db.guard(templatesCollection)
	mu.Lock()
	defer mu.Unlock()

	tmpls, err := repo.load()
	if err != nil {
		return program.Template{}, err
	}
	tmpls = append(tmpls, t)
	if err := repo.db.writeAll(templatesCollection, tmpls); err != nil {
		return program.Template{}, err
	}
	return t, nil
}

func (repo *TemplateRepository) QueryAllTemplates() ([]program.Template, error) {
	mu := repo.db.guard(templatesCollection)
	mu.RLock()
	defer mu.RUnlock()

	return repo.load()
}

func (repo *TemplateRepository) GetTemplateByID(id string) (program.Template, error) {
	mu := repo.db.guard(templatesCollection)
	mu.RLock()
	defer mu.RUnlock()

	tmpls, err := repo.load()
	if err != nil {
		return program.Template{}, err
	}
	for _, t := range tmpls {
		if t.ID == id {
			return t, nil
		}
	}
	return program.Template{}, errors.Wrapf(program.ErrTemplateNotFound, "id %s", id)
}

func (repo *TemplateRepository) UpdateTemplate(t program.Template) (program.Template, error) {
	mu := repo.db.guard(templatesCollection)
	mu.Lock()
	defer mu.Unlock()

	tmpls, err := repo.load()
	if err != nil {
		return program.Template{}, err
	}
	for i, cur := range tmpls {
		if cur.ID == t.ID {
			tmpls[i] = t
			if err := repo.db.writeAll(templatesCollection, tmpls); err != nil {
				return program.Template{}, err
			}
			return t, nil
		}
	}
	return program.Template{}, errors.Wrapf(program.ErrTemplateNotFound, "id %s", t.ID)
}

func (repo *TemplateRepository) DeleteTemplateByID(id string) error {
	mu := repo.db.guard(templatesCollection)
	mu.Lock()
	defer mu.Unlock()

	tmpls, err := repo.load()
	if err != nil {
		return err
	}
	for i, t := range tmpls {
		if t.ID == id {
			tmpls = append(tmpls[:i], tmpls[i+1:]...)
			return repo.db.writeAll(templatesCollection, tmpls)
		}
	}
	return errors.Wrapf(program.ErrTemplateNotFound, "id %s", id)
}

// AssignmentRepository persists instantiated student programs in the
// "student_programs" collection.
type AssignmentRepository struct {
	db *DB
}

var _ program.AssignmentRepository = (*AssignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (repo *AssignmentRepository) load() ([]program.Assignment, error) {
	var as []program.Assignment
	err := repo.db.readAll(assignmentsCollection, &as)
	return as, err
}

func (repo *AssignmentRepository) CreateAssignment(a program.Assignment) (program.Assignment, error) {
	mu := repo.db.guard(assignmentsCollection)
	mu.Lock()
	defer mu.Unlock()

	as, err := repo.load()
	if err != nil {
		return program.Assignment{}, err
	}
	as = append(as, a)
	if err := repo.db.writeAll(assignmentsCollection, as); err != nil {
		return program.Assignment{}, err
	}
	return a, nil
}

func (repo *AssignmentRepository) QueryAllAssignments() ([]program.Assignment, error) {
	mu := repo.db.guard(assignmentsCollection)
	mu.RLock()
	defer mu.RUnlock()

	return repo.load()
}

func (repo *AssignmentRepository) GetAssignmentByID(id string) (program.Assignment, error) {
	mu := repo.db.guard(assignmentsCollection)
	mu.RLock()
	defer mu.RUnlock()

	as, err := repo.load()
	if err != nil {
		return program.Assignment{}, err
	}
	for _, a := range as {
		if a.ID == id {
			return a, nil
		}
	}
	return program.Assignment{}, errors.Wrapf(program.ErrAssignmentNotFound, "id %s", id)
}

func (repo *AssignmentRepository) UpdateAssignment(a program.Assignment) (program.Assignment, error) {
	mu := repo.db.guard(assignmentsCollection)
	mu.Lock()
	defer mu.Unlock()

	as, err := repo.load()
	if err != nil {
		return program.Assignment{}, err
	}
	for i, cur := range as {
		if cur.ID == a.ID {
			as[i] = a
			if err := repo.db.writeAll(assignmentsCollection, as); err != nil {
				return program.Assignment{}, err
			}
			return a, nil
		}
	}
	return program.Assignment{}, errors.Wrapf(program.ErrAssignmentNotFound, "id %s", a.ID)
}

func (repo *AssignmentRepository) DeleteAssignmentByID(id string) error {
	mu := repo.db.guard(assignmentsCollection)
	mu.Lock()
	defer mu.Unlock()

	as, err := repo.load()
	if err != nil {
		return err
	}
	for i, a := range as {
		if a.ID == id {
			as = append(as[:i], as[i+1:]...)
			return repo.db.writeAll(assignmentsCollection, as)
		}
	}
	return errors.Wrapf(program.ErrAssignmentNotFound, "id %s", id)
}
