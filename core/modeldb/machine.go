// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"github.com/juju/errors"
)

// ApplyMachine upserts or removes a machine record. The record's
// annotations are left untouched.
func (db *DB) ApplyMachine(action Action, m Machine) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch action {
	case Add, Change:
		m = m.copy()
		if existing, ok := db.machines[m.Id]; ok {
			m.Annotations = existing.Annotations
		}
		db.machines[m.Id] = &m
		db.publish(KindMachine, action, m.copy())
	case Remove:
		existing, ok := db.machines[m.Id]
		if !ok {
			return
		}
		delete(db.machines, m.Id)
		db.publish(KindMachine, action, existing.copy())
	default:
		logger.Warningf("ignoring machine delta for %q with unknown action %q", m.Id, action)
	}
}

// Machine returns a copy of the machine with the given id.
func (db *DB) Machine(id string) (Machine, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	m, ok := db.machines[id]
	if !ok {
		return Machine{}, errors.NotFoundf("machine %q", id)
	}
	return m.copy(), nil
}

// Machines returns copies of all machines sorted by id.
func (db *DB) Machines() []Machine {
	db.mu.RLock()
	defer db.mu.RUnlock()
	result := make([]Machine, 0, len(db.machines))
	for _, id := range sortedKeys(db.machines) {
		result = append(result, db.machines[id].copy())
	}
	return result
}
