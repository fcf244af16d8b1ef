// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"time"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/juju-gui/cmd/output"
	"github.com/juju/juju-gui/core/delta"
	"github.com/juju/juju-gui/core/modeldb"
)

const statusDoc = `
Connects to the controller named in the configuration file, applies the
first batch of deltas from a new watcher and prints the resulting model.
The first batch of a new watcher describes the whole model.
`

func newStatusCommand() cmd.Command {
	return &statusCommand{}
}

type statusCommand struct {
	configCommandBase
	out     cmd.Output
	timeout time.Duration
}

// Info implements cmd.Command.
func (c *statusCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "status",
		Purpose: "Print the current state of the model.",
		Doc:     statusDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *statusCommand) SetFlags(f *gnuflag.FlagSet) {
	c.configCommandBase.SetFlags(f)
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "how long to wait for the controller")
	c.out.AddFlags(f, output.DefaultFormat, map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatTabular,
	})
}

// Init implements cmd.Command.
func (c *statusCommand) Init(args []string) error {
	if c.timeout <= 0 {
		return errors.NotValidf("non-positive timeout")
	}
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *statusCommand) Run(ctx *cmd.Context) error {
	cfg, err := c.readConfig(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	stdCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	watcher, handlers, err := openWatcher(stdCtx, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := watcher.Stop(stopCtx); err != nil {
			logger.Debugf("stopping watcher: %v", err)
		}
	}()

	deltas, err := watcher.Next(stdCtx)
	if err != nil {
		return errors.Annotate(err, "reading deltas")
	}
	db := modeldb.New(nil)
	if err := reportFailures(ctx, delta.NewDispatcher(db, handlers).DispatchAll(deltas)); err != nil {
		return errors.Trace(err)
	}
	snap := db.Snapshot()
	if snap.Model.UUID == "" {
		snap.Model.UUID = cfg.ModelUUID
	}
	return c.out.Write(ctx, formatModel(snap))
}
