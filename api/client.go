// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/juju-gui/api/base"
	"github.com/juju/juju-gui/rpc/params"
)

// Client represents the client-accessible part of the state.
type Client struct {
	caller     base.APICaller
	facadeName string
}

// NewClient returns a Client talking over the given caller.
func NewClient(caller base.APICaller) *Client {
	return &Client{caller: caller, facadeName: "Client"}
}

// WatchAll returns an AllWatcher, from which you can request the Next
// collection of Deltas.
func (c *Client) WatchAll(ctx context.Context) (*AllWatcher, error) {
	var info params.AllWatcherId
	err := c.caller.APICall(ctx, c.facadeName, c.caller.BestFacadeVersion(c.facadeName), "", "WatchAll", nil, &info)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if info.Id() == "" {
		return nil, errors.New("WatchAll returned no watcher id")
	}
	return NewAllWatcher(c.caller, info.Id()), nil
}
