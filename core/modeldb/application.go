// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// ApplyApplication upserts or removes an application record. The
// record's annotations are left untouched. Inserting an application
// applies the relations that were waiting for it.
func (db *DB) ApplyApplication(action Action, app Application) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch action {
	case Add, Change:
		app = app.copy()
		app.Ghost = false
		if existing, ok := db.applications[app.Name]; ok {
			app.Annotations = existing.Annotations
		}
		db.applications[app.Name] = &app
		db.publish(KindApplication, action, db.applicationCopy(app.Name))
		db.drainPending(app.Name)
	case Remove:
		if _, ok := db.applications[app.Name]; !ok {
			return
		}
		removed := db.applicationCopy(app.Name)
		delete(db.applications, app.Name)
		db.publish(KindApplication, action, removed)
	default:
		logger.Warningf("ignoring application delta for %q with unknown action %q", app.Name, action)
	}
}

// AddGhostApplication adds a placeholder for an application the
// controller has not yet reported.
func (db *DB) AddGhostApplication(app Application) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.applications[app.Name]; ok {
		return errors.AlreadyExistsf("application %q", app.Name)
	}
	app = app.copy()
	app.Ghost = true
	db.applications[app.Name] = &app
	db.publish(KindApplication, Add, db.applicationCopy(app.Name))
	return nil
}

// RemoveGhostApplication removes a placeholder application. Confirmed
// applications are not removed.
func (db *DB) RemoveGhostApplication(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	app, ok := db.applications[name]
	if !ok || !app.Ghost {
		return errors.NotFoundf("ghost application %q", name)
	}
	delete(db.applications, name)
	db.publish(KindApplication, Remove, app.copy())
	return nil
}

// Application returns a copy of the named application together with
// its units.
func (db *DB) Application(name string) (Application, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if _, ok := db.applications[name]; !ok {
		return Application{}, errors.NotFoundf("application %q", name)
	}
	return db.applicationCopy(name), nil
}

// Applications returns copies of all applications sorted by name.
func (db *DB) Applications() []Application {
	db.mu.RLock()
	defer db.mu.RUnlock()
	result := make([]Application, 0, len(db.applications))
	for _, name := range sortedKeys(db.applications) {
		result = append(result, db.applicationCopy(name))
	}
	return result
}

// applicationCopy must be called with the lock held.
func (db *DB) applicationCopy(name string) Application {
	app := db.applications[name].copy()
	for _, unitName := range db.appUnits[name].SortedValues() {
		if u, ok := db.units[unitName]; ok {
			app.Units = append(app.Units, u.copy())
		}
	}
	return app
}

// hasApplication reports whether a confirmed application exists.
func (db *DB) hasApplication(name string) bool {
	app, ok := db.applications[name]
	return ok && !app.Ghost
}

func (db *DB) indexUnit(appName, unitName string) {
	names, ok := db.appUnits[appName]
	if !ok {
		names = set.NewStrings()
		db.appUnits[appName] = names
	}
	names.Add(unitName)
}

func (db *DB) unindexUnit(appName, unitName string) {
	names, ok := db.appUnits[appName]
	if !ok {
		return
	}
	names.Remove(unitName)
	if names.IsEmpty() {
		delete(db.appUnits, appName)
	}
}
