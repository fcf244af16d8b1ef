// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"context"
	"fmt"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/juju/juju-gui/api"
	"github.com/juju/juju-gui/config"
	"github.com/juju/juju-gui/core/delta"
	"github.com/juju/juju-gui/worker/deltasync"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "juju-gui-sync.yaml"

// dialOpts is patched by tests.
var dialOpts = api.DefaultDialOpts

// configCommandBase is embedded by commands that read the
// configuration file.
type configCommandBase struct {
	cmd.CommandBase
	configPath string
}

// SetFlags implements cmd.Command.
func (c *configCommandBase) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.configPath, "config", DefaultConfigPath, "path to the configuration file")
}

func (c *configCommandBase) readConfig(ctx *cmd.Context) (*config.Config, error) {
	cfg, err := config.ReadFile(ctx.AbsPath(c.configPath))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

func apiInfo(cfg *config.Config) *api.Info {
	return &api.Info{
		Addrs:              cfg.ControllerAddresses,
		ModelUUID:          cfg.ModelUUID,
		Tag:                cfg.UserTag(),
		Password:           cfg.Password,
		CACert:             cfg.CACert,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
}

// protocolFor returns the wire dialect implied by an api-format value.
// Python deltas are not spoken by any controller, so the dialect is
// detected for them.
func protocolFor(format string) api.Protocol {
	switch format {
	case config.FormatModern:
		return api.ProtocolModern
	case config.FormatLegacy:
		return api.ProtocolLegacy
	}
	return api.ProtocolAuto
}

// handlersFor returns the delta handlers for the api-format value,
// choosing by controller version for auto.
func handlersFor(format string, conn api.Connection) (delta.Handlers, error) {
	if format == config.FormatAuto {
		return delta.ForServerVersion(conn.ServerVersion()), nil
	}
	return delta.ForFormat(format)
}

func openConnection(ctx context.Context, cfg *config.Config) (api.Connection, error) {
	opts := dialOpts()
	opts.Protocol = protocolFor(cfg.APIFormat)
	conn, err := api.Open(ctx, apiInfo(cfg), opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("connected to %v (version %s)", conn, conn.ServerVersion())
	return conn, nil
}

// connWatcher is an AllWatcher owning its connection.
type connWatcher struct {
	*api.AllWatcher
	conn api.Connection
}

// Stop stops the watcher and closes the connection.
func (w *connWatcher) Stop(ctx context.Context) error {
	err := w.AllWatcher.Stop(ctx)
	if closeErr := w.conn.Close(); closeErr != nil {
		logger.Debugf("closing connection: %v", closeErr)
	}
	return errors.Trace(err)
}

// openWatcher connects to the controller and starts watching the
// model. On success the caller owns the returned watcher.
func openWatcher(ctx context.Context, cfg *config.Config) (*connWatcher, delta.Handlers, error) {
	conn, err := openConnection(ctx, cfg)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	handlers, err := handlersFor(cfg.APIFormat, conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, errors.Trace(err)
	}
	watcher, err := api.NewClient(conn).WatchAll(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, nil, errors.Trace(err)
	}
	return &connWatcher{AllWatcher: watcher, conn: conn}, handlers, nil
}

func newWatcherFunc(cfg *config.Config) deltasync.NewWatcherFunc {
	return func(ctx context.Context) (deltasync.Watcher, delta.Handlers, error) {
		w, handlers, err := openWatcher(ctx, cfg)
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		return w, handlers, nil
	}
}

// reportFailures writes the failures of a batch as warnings and
// returns any other error.
func reportFailures(ctx *cmd.Context, err error) error {
	if err == nil {
		return nil
	}
	batch, ok := errors.Cause(err).(*delta.BatchError)
	if !ok {
		return errors.Trace(err)
	}
	for _, f := range batch.Failures {
		fmt.Fprintf(ctx.Stderr, "WARNING delta %d (%s %s): %v\n", f.Index, f.Delta.Kind, f.Delta.Action, f.Err)
	}
	return nil
}
