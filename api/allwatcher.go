// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"

	"github.com/juju/juju-gui/api/base"
	"github.com/juju/juju-gui/rpc/params"
)

// AllWatcher holds information allowing us to get Deltas describing
// changes to the entire model.
type AllWatcher struct {
	objType string
	caller  base.APICaller
	id      string
}

// NewAllWatcher returns an AllWatcher instance which interacts with a
// watcher created by the WatchAll API call.
func NewAllWatcher(caller base.APICaller, id string) *AllWatcher {
	return &AllWatcher{
		objType: "AllWatcher",
		caller:  caller,
		id:      id,
	}
}

// Id returns the server side id of the watcher.
func (watcher *AllWatcher) Id() string {
	return watcher.id
}

// Next returns a new set of deltas from a watcher previously created
// by the WatchAll API call. It will block until there are deltas to
// return.
//
// Deltas are decoded one at a time; a malformed delta is logged and
// skipped so the rest of the batch is still returned.
func (watcher *AllWatcher) Next(ctx context.Context) ([]params.Delta, error) {
	var info struct {
		Deltas []json.RawMessage `json:"deltas"`
	}
	err := watcher.caller.APICall(
		ctx,
		watcher.objType,
		watcher.caller.BestFacadeVersion(watcher.objType),
		watcher.id,
		"Next",
		nil, &info,
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	deltas := make([]params.Delta, 0, len(info.Deltas))
	for i, data := range info.Deltas {
		var d params.Delta
		if err := json.Unmarshal(data, &d); err != nil {
			logger.Warningf("skipping malformed delta %d from watcher %s: %v", i, watcher.id, err)
			continue
		}
		deltas = append(deltas, d)
	}
	return deltas, nil
}

// Stop shuts down a watcher previously created by the WatchAll API
// call.
func (watcher *AllWatcher) Stop(ctx context.Context) error {
	return watcher.caller.APICall(
		ctx,
		watcher.objType,
		watcher.caller.BestFacadeVersion(watcher.objType),
		watcher.id,
		"Stop",
		nil, nil,
	)
}
