// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package httpserver provides a worker that serves the contents of a
// modeldb.DB over HTTP, along with a websocket stream of its changes
// and the process metrics.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/tomb.v2"

	"github.com/juju/juju-gui/core/modeldb"
)

// Logger represents the methods used by the worker to log details.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})
}

// Config holds the configuration for the HTTP server worker.
type Config struct {
	// Listener is the listener the server accepts connections on. It
	// is closed when the worker stops.
	Listener net.Listener

	DB       *modeldb.DB
	Gatherer prometheus.Gatherer
	Logger   Logger
	Clock    clock.Clock

	// PingPeriod is the interval between pings sent on event streams.
	PingPeriod time.Duration

	// ShutdownTimeout bounds the time spent waiting for in-flight
	// requests when the worker is killed.
	ShutdownTimeout time.Duration
}

// Validate ensures that the config values are valid.
func (config Config) Validate() error {
	if config.Listener == nil {
		return errors.NotValidf("missing Listener")
	}
	if config.DB == nil {
		return errors.NotValidf("missing DB")
	}
	if config.Gatherer == nil {
		return errors.NotValidf("missing Gatherer")
	}
	if config.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	if config.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if config.PingPeriod <= 0 {
		return errors.NotValidf("non-positive PingPeriod")
	}
	if config.ShutdownTimeout <= 0 {
		return errors.NotValidf("non-positive ShutdownTimeout")
	}
	return nil
}

// Server is a worker serving the database over HTTP.
type Server struct {
	tomb   tomb.Tomb
	config Config
	server *http.Server
}

// NewWorker starts serving on config.Listener.
func NewWorker(config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	w := &Server{config: config}
	events := &eventsHandler{
		hub:        config.DB.Hub(),
		db:         config.DB,
		logger:     config.Logger,
		clock:      config.Clock,
		pingPeriod: config.PingPeriod,
		stop:       w.tomb.Dying(),
	}
	w.server = &http.Server{
		Handler:           newRouter(config.DB, config.Gatherer, events, config.Logger),
		ReadHeaderTimeout: 30 * time.Second,
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Addr returns the address the server is listening on.
func (w *Server) Addr() net.Addr {
	return w.config.Listener.Addr()
}

// Kill is part of the worker.Worker interface.
func (w *Server) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Server) Wait() error {
	return w.tomb.Wait()
}

func (w *Server) loop() error {
	w.config.Logger.Infof("serving on %s", w.config.Listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- w.server.Serve(w.config.Listener)
	}()

	select {
	case <-w.tomb.Dying():
	case err := <-serveErr:
		return errors.Annotate(err, "serving HTTP")
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
	defer cancel()
	if err := w.server.Shutdown(ctx); err != nil {
		w.config.Logger.Warningf("shutting down HTTP server: %v", err)
		_ = w.server.Close()
	}
	if err := <-serveErr; err != nil && err != http.ErrServerClosed {
		w.config.Logger.Debugf("HTTP server stopped: %v", err)
	}
	return tomb.ErrDying
}
