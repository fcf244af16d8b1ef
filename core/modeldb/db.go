// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"sort"
	"sync"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/pubsub/v2"
)

var logger = loggo.GetLogger("juju.gui.modeldb")

// Action is the operation carried by a delta.
type Action string

const (
	Add    Action = "add"
	Change Action = "change"
	Remove Action = "remove"
)

// Validate returns an error if the action is not known.
func (a Action) Validate() error {
	switch a {
	case Add, Change, Remove:
		return nil
	}
	return errors.NotValidf("action %q", a)
}

// Kind names a collection of the database.
type Kind string

const (
	KindApplication Kind = "application"
	KindUnit        Kind = "unit"
	KindMachine     Kind = "machine"
	KindRelation    Kind = "relation"
	KindModel       Kind = "model"
	KindAnnotation  Kind = "annotation"
)

// Topic returns the hub topic on which changes of the given kind and
// action are published.
func Topic(kind Kind, action Action) string {
	return string(kind) + "." + string(action)
}

// AnnotationChange is published when the annotations of an entity
// change.
type AnnotationChange struct {
	Kind        Kind
	Id          string
	Annotations map[string]string
}

// DB is the in-memory object database. It is safe for concurrent use.
type DB struct {
	hub *pubsub.SimpleHub

	mu           sync.RWMutex
	model        Model
	applications map[string]*Application
	units        map[string]*Unit
	machines     map[string]*Machine
	relations    map[string]*Relation

	// appUnits indexes unit names by application name. Units may be
	// indexed under an application that has not arrived yet.
	appUnits map[string]set.Strings

	pending *pendingRelations
}

// New returns an empty database publishing changes on hub. A nil hub
// means a private hub is created.
func New(hub *pubsub.SimpleHub) *DB {
	if hub == nil {
		hub = pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{
			Logger: loggo.GetLogger("juju.gui.modeldb.hub"),
		})
	}
	db := &DB{hub: hub}
	db.reset()
	return db
}

// Hub returns the hub changes are published on.
func (db *DB) Hub() *pubsub.SimpleHub {
	return db.hub
}

// Reset empties every collection and the pending relation queue. It is
// used before the model is rebuilt from a fresh watcher.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reset()
	logger.Debugf("database reset")
}

func (db *DB) reset() {
	db.model = Model{}
	db.applications = make(map[string]*Application)
	db.units = make(map[string]*Unit)
	db.machines = make(map[string]*Machine)
	db.relations = make(map[string]*Relation)
	db.appUnits = make(map[string]set.Strings)
	db.pending = newPendingRelations()
}

func (db *DB) publish(kind Kind, action Action, data interface{}) {
	_ = db.hub.Publish(Topic(kind, action), data)
}

// Model returns a copy of the model record.
func (db *DB) Model() Model {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.model.copy()
}

// ApplyModel sets the model record. Remove clears it.
func (db *DB) ApplyModel(action Action, m Model) {
	db.mu.Lock()
	defer db.mu.Unlock()
	switch action {
	case Add, Change:
		m = m.copy()
		m.Annotations = db.model.Annotations
		db.model = m
	case Remove:
		db.model = Model{Annotations: db.model.Annotations}
	default:
		logger.Warningf("ignoring model delta with unknown action %q", action)
		return
	}
	db.publish(KindModel, action, db.model.copy())
}

// Snapshot returns a deep copy of the database.
func (db *DB) Snapshot() Snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	snap := Snapshot{
		Model:        db.model.copy(),
		Applications: make(map[string]Application, len(db.applications)),
		Units:        make(map[string]Unit, len(db.units)),
		Machines:     make(map[string]Machine, len(db.machines)),
		Relations:    make(map[string]Relation, len(db.relations)),
		Pending:      db.pending.snapshot(),
	}
	for name := range db.applications {
		snap.Applications[name] = db.applicationCopy(name)
	}
	for name, u := range db.units {
		snap.Units[name] = u.copy()
	}
	for id, m := range db.machines {
		snap.Machines[id] = m.copy()
	}
	for key, r := range db.relations {
		snap.Relations[key] = r.copy()
	}
	return snap
}

// Counts holds the size of each collection.
type Counts struct {
	Applications int
	Units        int
	Machines     int
	Relations    int
	Pending      int
}

// Counts returns the size of each collection.
func (db *DB) Counts() Counts {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return Counts{
		Applications: len(db.applications),
		Units:        len(db.units),
		Machines:     len(db.machines),
		Relations:    len(db.relations),
		Pending:      db.pending.len(),
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
