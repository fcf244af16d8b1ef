// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package delta decodes AllWatcher deltas and applies them to a
// modeldb.DB. Controllers of different generations send differently
// shaped payloads, so decoding is done by a set of handlers chosen for
// the controller.
package delta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/version/v2"

	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/rpc/params"
)

var logger = loggo.GetLogger("juju.gui.delta")

// Handler decodes a delta payload and applies it to db.
type Handler func(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error

// Handlers maps delta kinds to the handler for that kind.
type Handlers map[string]Handler

// Kinds returns the kinds handled.
func (h Handlers) Kinds() []string {
	kinds := make([]string, 0, len(h))
	for kind := range h {
		kinds = append(kinds, kind)
	}
	return kinds
}

// ForServerVersion returns the handlers for a controller of the given
// version. Juju 1.x controllers get the legacy handlers.
func ForServerVersion(v version.Number) Handlers {
	if v.Major == 1 {
		return Legacy()
	}
	return Modern()
}

// ForFormat returns the handlers for a named payload format: "modern",
// "legacy" or "python".
func ForFormat(format string) (Handlers, error) {
	switch format {
	case "modern":
		return Modern(), nil
	case "legacy":
		return Legacy(), nil
	case "python":
		return Python(), nil
	}
	return nil, errors.NotValidf("delta format %q", format)
}

// Dispatcher applies deltas to a database.
type Dispatcher struct {
	db       *modeldb.DB
	handlers Handlers
}

// NewDispatcher returns a Dispatcher applying deltas to db with the
// given handlers.
func NewDispatcher(db *modeldb.DB, handlers Handlers) *Dispatcher {
	return &Dispatcher{db: db, handlers: handlers}
}

// normaliseKind accepts the "<kind>Info" spelling used by some
// clients.
func normaliseKind(kind string) string {
	return strings.TrimSuffix(kind, "Info")
}

// Dispatch applies a single delta. Deltas of kinds with no handler are
// skipped.
func (d *Dispatcher) Dispatch(delta params.Delta) error {
	kind := normaliseKind(delta.Kind)
	handler, ok := d.handlers[kind]
	if !ok {
		logger.Debugf("skipping delta of unhandled kind %q", delta.Kind)
		return nil
	}
	action := modeldb.Action(delta.Action)
	if err := action.Validate(); err != nil {
		return errors.Trace(err)
	}
	if err := handler(d.db, action, delta.Change); err != nil {
		return errors.Annotatef(err, "%s %s", kind, action)
	}
	return nil
}

// DispatchAll applies deltas in order. A delta that fails is logged and
// the remaining deltas are still applied; the failures are returned as
// a *BatchError.
func (d *Dispatcher) DispatchAll(deltas []params.Delta) error {
	var failures []Failure
	for i, delta := range deltas {
		if err := d.Dispatch(delta); err != nil {
			logger.Warningf("cannot apply delta %d: %v", i, err)
			failures = append(failures, Failure{Index: i, Delta: delta, Err: err})
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &BatchError{Total: len(deltas), Failures: failures}
}

// Failure records a delta that could not be applied.
type Failure struct {
	Index int
	Delta params.Delta
	Err   error
}

// BatchError is returned by DispatchAll when some deltas could not be
// applied.
type BatchError struct {
	Total    int
	Failures []Failure
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Err.Error()
	}
	return fmt.Sprintf("%d of %d deltas failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

// IsBatchError reports whether err is a *BatchError.
func IsBatchError(err error) bool {
	_, ok := errors.Cause(err).(*BatchError)
	return ok
}
