// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

// pendingRelations holds relations waiting for an application to be
// inserted. Each relation key is queued under at most one application.
type pendingRelations struct {
	// queues maps an application name to relation keys in arrival
	// order.
	queues map[string][]string
	// relations maps a relation key to the latest relation record.
	relations map[string]Relation
	// waiting maps a relation key to the application it is queued
	// under.
	waiting map[string]string
}

func newPendingRelations() *pendingRelations {
	return &pendingRelations{
		queues:    make(map[string][]string),
		relations: make(map[string]Relation),
		waiting:   make(map[string]string),
	}
}

// enqueue queues rel under appName. A relation already queued under
// the same key is replaced.
func (p *pendingRelations) enqueue(appName string, rel Relation) {
	if current, ok := p.waiting[rel.Key]; ok {
		if current == appName {
			p.relations[rel.Key] = rel
			return
		}
		p.remove(rel.Key)
	}
	p.queues[appName] = append(p.queues[appName], rel.Key)
	p.relations[rel.Key] = rel
	p.waiting[rel.Key] = appName
}

// remove drops the relation with the given key, reporting whether it
// was queued.
func (p *pendingRelations) remove(key string) bool {
	appName, ok := p.waiting[key]
	if !ok {
		return false
	}
	queue := p.queues[appName]
	for i, k := range queue {
		if k == key {
			queue = append(queue[:i:i], queue[i+1:]...)
			break
		}
	}
	if len(queue) == 0 {
		delete(p.queues, appName)
	} else {
		p.queues[appName] = queue
	}
	delete(p.relations, key)
	delete(p.waiting, key)
	return true
}

// take removes and returns the relations queued under appName in
// arrival order.
func (p *pendingRelations) take(appName string) []Relation {
	keys := p.queues[appName]
	if len(keys) == 0 {
		return nil
	}
	delete(p.queues, appName)
	result := make([]Relation, 0, len(keys))
	for _, key := range keys {
		result = append(result, p.relations[key])
		delete(p.relations, key)
		delete(p.waiting, key)
	}
	return result
}

func (p *pendingRelations) len() int {
	return len(p.relations)
}

func (p *pendingRelations) snapshot() map[string][]string {
	result := make(map[string][]string, len(p.queues))
	for appName, keys := range p.queues {
		result[appName] = append([]string(nil), keys...)
	}
	return result
}
