// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

// ApplyAnnotations merges annotations into the entity of the given kind
// and id. Existing keys not mentioned are kept, so applying the same
// update twice has the same effect as applying it once. Remove clears
// the entity's annotations. Updates for entities not in the database
// are ignored.
func (db *DB) ApplyAnnotations(action Action, kind Kind, id string, annotations map[string]string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := action.Validate(); err != nil {
		logger.Warningf("ignoring annotations for %s %q: %v", kind, id, err)
		return
	}
	target := db.annotationsFor(kind, id)
	if target == nil {
		logger.Debugf("ignoring annotations for missing %s %q", kind, id)
		return
	}

	changed := false
	switch action {
	case Add, Change:
		if *target == nil && len(annotations) > 0 {
			*target = make(map[string]string, len(annotations))
		}
		for k, v := range annotations {
			if old, ok := (*target)[k]; ok && old == v {
				continue
			}
			(*target)[k] = v
			changed = true
		}
	case Remove:
		changed = len(*target) > 0
		*target = nil
	}
	if !changed {
		return
	}
	db.publish(KindAnnotation, action, AnnotationChange{
		Kind:        kind,
		Id:          id,
		Annotations: copyStringMap(*target),
	})
}

// annotationsFor returns a pointer to the annotation map of the given
// entity, or nil if the entity does not exist. Unit annotations are
// held once on the unit record, which both the unit collection and
// the application's unit list read from.
func (db *DB) annotationsFor(kind Kind, id string) *map[string]string {
	switch kind {
	case KindApplication:
		if app, ok := db.applications[id]; ok {
			return &app.Annotations
		}
	case KindUnit:
		if u, ok := db.units[id]; ok {
			return &u.Annotations
		}
	case KindMachine:
		if m, ok := db.machines[id]; ok {
			return &m.Annotations
		}
	case KindRelation:
		if r, ok := db.relations[id]; ok {
			return &r.Annotations
		}
	case KindModel:
		return &db.model.Annotations
	}
	return nil
}
