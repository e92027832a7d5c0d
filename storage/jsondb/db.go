// Package jsondb is the record store: named collections of records held as
// JSON arrays on disk, one file per collection. Reads return records in
// stored order; writes are idempotent full replaces. A per-collection mutex
// serializes read-modify-write cycles — the model is single-process,
// single-writer, no cross-collection transactions.
package jsondb

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hudhuria/core/access"
	"github.com/trezcool/hudhuria/core/user"
)

// collection names (file basenames)
const (
	usersCollection       = "users"
	classesCollection     = "classes"
	rollcallsCollection   = "rollcalls"
	absencesCollection    = "absences"
	templatesCollection   = "program_templates"
	assignmentsCollection = "student_programs"
	slipsCollection       = "slips"
)

var collections = []string{
	usersCollection,
	classesCollection,
	rollcallsCollection,
	absencesCollection,
	templatesCollection,
	assignmentsCollection,
	slipsCollection,
}

type DB struct {
	dir    string
	guards map[string]*sync.RWMutex
}

// Open prepares the data directory: every collection is initialized to an
// empty list when absent, and a default admin identity is seeded into the
// user collection on first run.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}

	db := &DB{
		dir:    dir,
		guards: make(map[string]*sync.RWMutex, len(collections)),
	}
	for _, col := range collections {
		db.guards[col] = &sync.RWMutex{}
		if _, err := os.Stat(db.path(col)); os.IsNotExist(err) {
			if err := db.writeAll(col, []struct{}{}); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, errors.Wrapf(err, "checking collection %s", col)
		}
	}

	if err := db.seedAdmin(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) path(collection string) string {
	return filepath.Join(db.dir, collection+".json")
}

func (db *DB) guard(collection string) *sync.RWMutex {
	return db.guards[collection]
}

// readAll loads a collection into out ([]T pointer) in stored order.
// Transient read faults degrade to an empty result to keep callers
// available; writes never degrade. The caller must hold the guard.
func (db *DB) readAll(collection string, out interface{}) error {
	data, err := ioutil.ReadFile(db.path(collection))
	if err != nil {
		data = []byte("[]")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return json.Unmarshal([]byte("[]"), out)
	}
	return nil
}

// writeAll replaces a collection wholesale, via temp file + rename so a
// crashed write never leaves a truncated collection behind. The caller
// must hold the guard.
func (db *DB) writeAll(collection string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshalling collection %s", collection)
	}

	tmp, err := ioutil.TempFile(db.dir, collection+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "writing collection %s", collection)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing collection %s", collection)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing collection %s", collection)
	}
	if err = os.Rename(tmp.Name(), db.path(collection)); err != nil {
		return errors.Wrapf(err, "replacing collection %s", collection)
	}
	return nil
}

// seedAdmin guarantees the reserved admin identity exists on first run.
func (db *DB) seedAdmin() error {
	mu := db.guard(usersCollection)
	mu.Lock()
	defer mu.Unlock()

	var users []userRecord
	if err := db.readAll(usersCollection, &users); err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	now := time.Now().UTC()
	admin := user.User{
		Username:  user.ReservedAdminUsername,
		Roles:     []string{access.RoleAdmin},
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin.ID = newID()
	if err := admin.SetPassword("admin"); err != nil {
		return errors.Wrap(err, "seeding admin")
	}
	return db.writeAll(usersCollection, []userRecord{newUserRecord(admin)})
}
