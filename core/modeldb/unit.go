// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"github.com/juju/errors"
)

// ApplyUnit upserts or removes a unit record, keeping the owning
// application's unit list in sync. The record's annotations are left
// untouched.
func (db *DB) ApplyUnit(action Action, u Unit) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch action {
	case Add, Change:
		u = u.copy()
		u.Ghost = false
		if existing, ok := db.units[u.Name]; ok {
			u.Annotations = existing.Annotations
			if existing.Application != u.Application {
				db.unindexUnit(existing.Application, u.Name)
			}
		}
		db.units[u.Name] = &u
		db.indexUnit(u.Application, u.Name)
		db.publish(KindUnit, action, u.copy())
	case Remove:
		existing, ok := db.units[u.Name]
		if !ok {
			return
		}
		delete(db.units, u.Name)
		db.unindexUnit(existing.Application, u.Name)
		db.publish(KindUnit, action, existing.copy())
	default:
		logger.Warningf("ignoring unit delta for %q with unknown action %q", u.Name, action)
	}
}

// AddGhostUnit adds a placeholder for a unit the controller has not
// yet reported.
func (db *DB) AddGhostUnit(u Unit) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.units[u.Name]; ok {
		return errors.AlreadyExistsf("unit %q", u.Name)
	}
	u = u.copy()
	u.Ghost = true
	db.units[u.Name] = &u
	db.indexUnit(u.Application, u.Name)
	db.publish(KindUnit, Add, u.copy())
	return nil
}

// RemoveGhostUnit removes a placeholder unit. Confirmed units are not
// removed.
func (db *DB) RemoveGhostUnit(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.units[name]
	if !ok || !u.Ghost {
		return errors.NotFoundf("ghost unit %q", name)
	}
	delete(db.units, name)
	db.unindexUnit(u.Application, name)
	db.publish(KindUnit, Remove, u.copy())
	return nil
}

// Unit returns a copy of the named unit.
func (db *DB) Unit(name string) (Unit, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.units[name]
	if !ok {
		return Unit{}, errors.NotFoundf("unit %q", name)
	}
	return u.copy(), nil
}

// Units returns copies of all units sorted by name.
func (db *DB) Units() []Unit {
	db.mu.RLock()
	defer db.mu.RUnlock()
	result := make([]Unit, 0, len(db.units))
	for _, name := range sortedKeys(db.units) {
		result = append(result, db.units[name].copy())
	}
	return result
}
