// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"github.com/juju/errors"
)

// ApplyRelation upserts or removes a relation record. A relation not
// yet applied that joins an application missing from the database is
// held until that application is inserted; a later delta for the same key replaces the
// held one, and a remove drops it.
func (db *DB) ApplyRelation(action Action, rel Relation) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch action {
	case Add, Change:
		rel = rel.copy()
		// An applied relation is updated in place even if one of its
		// applications has since gone.
		if _, applied := db.relations[rel.Key]; applied {
			db.pending.remove(rel.Key)
			db.upsertRelation(action, rel)
			return
		}
		if missing := db.missingApplication(rel); missing != "" {
			logger.Debugf("relation %q waiting for application %q", rel.Key, missing)
			db.pending.enqueue(missing, rel)
			return
		}
		// A relation now applicable must not linger in the queue.
		db.pending.remove(rel.Key)
		db.upsertRelation(action, rel)
	case Remove:
		if db.pending.remove(rel.Key) {
			logger.Debugf("dropped pending relation %q", rel.Key)
		}
		existing, ok := db.relations[rel.Key]
		if !ok {
			return
		}
		delete(db.relations, rel.Key)
		db.publish(KindRelation, action, existing.copy())
	default:
		logger.Warningf("ignoring relation delta for %q with unknown action %q", rel.Key, action)
	}
}

// upsertRelation must be called with the lock held.
func (db *DB) upsertRelation(action Action, rel Relation) {
	if existing, ok := db.relations[rel.Key]; ok {
		rel.Annotations = existing.Annotations
	}
	db.relations[rel.Key] = &rel
	db.publish(KindRelation, action, rel.copy())
}

// missingApplication returns the first endpoint application that is not
// in the database, or "" if all are present.
func (db *DB) missingApplication(rel Relation) string {
	for _, name := range rel.Applications() {
		if !db.hasApplication(name) {
			return name
		}
	}
	return ""
}

// drainPending applies the relations waiting for appName. Relations
// still missing another application are queued under it. It must be
// called with the lock held.
func (db *DB) drainPending(appName string) {
	for _, rel := range db.pending.take(appName) {
		if missing := db.missingApplication(rel); missing != "" {
			logger.Debugf("relation %q now waiting for application %q", rel.Key, missing)
			db.pending.enqueue(missing, rel)
			continue
		}
		logger.Debugf("applying pending relation %q", rel.Key)
		action := Add
		if _, ok := db.relations[rel.Key]; ok {
			action = Change
		}
		db.upsertRelation(action, rel)
	}
}

// Relation returns a copy of the relation with the given key.
func (db *DB) Relation(key string) (Relation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	r, ok := db.relations[key]
	if !ok {
		return Relation{}, errors.NotFoundf("relation %q", key)
	}
	return r.copy(), nil
}

// Relations returns copies of all relations sorted by key.
func (db *DB) Relations() []Relation {
	db.mu.RLock()
	defer db.mu.RUnlock()
	result := make([]Relation, 0, len(db.relations))
	for _, key := range sortedKeys(db.relations) {
		result = append(result, db.relations[key].copy())
	}
	return result
}

// PendingRelations returns the keys of relations waiting for the named
// application, in arrival order.
func (db *DB) PendingRelations(appName string) []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]string(nil), db.pending.queues[appName]...)
}
