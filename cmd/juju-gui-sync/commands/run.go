// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"net"
	"os"
	"time"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/worker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/worker/deltasync"
	"github.com/juju/juju-gui/worker/httpserver"
)

const runDoc = `
Watches the model named in the configuration file and keeps an in-memory
copy of it, served on the configured listen address:

    GET /model                 the whole model
    GET /applications[/NAME]   applications and their units
    GET /units[/NAME]          units
    GET /machines[/ID]         machines and containers
    GET /relations             relations
    GET /events                websocket stream of changes
    GET /metrics               prometheus metrics

The command runs until interrupted.
`

const (
	pingPeriod      = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newRunCommand() cmd.Command {
	return &runCommand{}
}

type runCommand struct {
	configCommandBase

	// stop and started are set by tests.
	stop    <-chan struct{}
	started func(net.Addr)
}

// Info implements cmd.Command.
func (c *runCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "run",
		Purpose: "Mirror the model and serve it over HTTP.",
		Doc:     runDoc,
	}
}

// Init implements cmd.Command.
func (c *runCommand) Init(args []string) error {
	return cmd.CheckEmpty(args)
}

// Run implements cmd.Command.
func (c *runCommand) Run(ctx *cmd.Context) error {
	cfg, err := c.readConfig(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	if err := loggo.ConfigureLoggers(cfg.LoggingConfig); err != nil {
		return errors.Annotate(err, "configuring logging")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	db := modeldb.New(nil)
	registry.MustRegister(modeldb.NewMetricsCollector(db))

	syncWorker, err := deltasync.NewWorker(deltasync.Config{
		Clock:                clock.WallClock,
		Logger:               loggo.GetLogger("juju.gui.worker.deltasync"),
		NewWatcher:           newWatcherFunc(cfg),
		DB:                   db,
		NewDispatcher:        deltasync.NewDispatcher,
		RetryDelay:           cfg.RetryDelay,
		MaxRetryDelay:        cfg.MaxRetryDelay,
		PrometheusRegisterer: registry,
	})
	if err != nil {
		return errors.Annotate(err, "starting delta sync")
	}
	defer func() { _ = worker.Stop(syncWorker) }()

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return errors.Annotatef(err, "listening on %q", cfg.ListenAddress)
	}
	server, err := httpserver.NewWorker(httpserver.Config{
		Listener:        listener,
		DB:              db,
		Gatherer:        registry,
		Logger:          loggo.GetLogger("juju.gui.worker.httpserver"),
		Clock:           clock.WallClock,
		PingPeriod:      pingPeriod,
		ShutdownTimeout: shutdownTimeout,
	})
	if err != nil {
		_ = listener.Close()
		return errors.Annotate(err, "starting HTTP server")
	}
	defer func() { _ = worker.Stop(server) }()

	ctx.Infof("serving model %s on %s", cfg.ModelUUID, server.Addr())
	if c.started != nil {
		c.started(server.Addr())
	}

	interrupted := make(chan os.Signal, 1)
	ctx.InterruptNotify(interrupted)
	defer ctx.StopInterruptNotify(interrupted)

	failed := make(chan error, 2)
	for _, w := range []worker.Worker{syncWorker, server} {
		go func(w worker.Worker) {
			failed <- w.Wait()
		}(w)
	}

	select {
	case <-interrupted:
		ctx.Infof("interrupted, stopping")
	case <-c.stop:
	case err := <-failed:
		return errors.Annotate(err, "worker stopped")
	}
	if err := worker.Stop(server); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(worker.Stop(syncWorker))
}
