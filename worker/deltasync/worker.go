// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package deltasync provides a worker that keeps a modeldb.DB in step
// with a controller's AllWatcher. When the watcher fails the database
// is emptied and rebuilt from a new watcher, since a fresh AllWatcher
// replays the whole model as add deltas.
package deltasync

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/juju/juju-gui/core/delta"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/rpc/params"
)

// stopTimeout bounds the time spent stopping a watcher on the server.
const stopTimeout = 5 * time.Second

// Logger represents the methods used by the worker to log details.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
	Tracef(string, ...interface{})
}

// Watcher is the part of an AllWatcher the worker uses.
type Watcher interface {
	Next(ctx context.Context) ([]params.Delta, error)
	Stop(ctx context.Context) error
}

// Dispatcher applies batches of deltas.
type Dispatcher interface {
	DispatchAll(deltas []params.Delta) error
}

// NewWatcherFunc opens a watcher and returns the handlers suited to the
// controller it is connected to.
type NewWatcherFunc func(ctx context.Context) (Watcher, delta.Handlers, error)

// NewDispatcherFunc returns a Dispatcher applying deltas to db.
type NewDispatcherFunc func(db *modeldb.DB, handlers delta.Handlers) Dispatcher

// NewDispatcher is the default NewDispatcherFunc.
func NewDispatcher(db *modeldb.DB, handlers delta.Handlers) Dispatcher {
	return delta.NewDispatcher(db, handlers)
}

// Config holds the dependencies and configuration for the worker.
type Config struct {
	Clock                clock.Clock
	Logger               Logger
	NewWatcher           NewWatcherFunc
	DB                   *modeldb.DB
	NewDispatcher        NewDispatcherFunc
	RetryDelay           time.Duration
	MaxRetryDelay        time.Duration
	PrometheusRegisterer prometheus.Registerer
}

// Validate ensures that the config values are valid.
func (config Config) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if config.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	if config.NewWatcher == nil {
		return errors.NotValidf("missing NewWatcher")
	}
	if config.DB == nil {
		return errors.NotValidf("missing DB")
	}
	if config.NewDispatcher == nil {
		return errors.NotValidf("missing NewDispatcher")
	}
	if config.RetryDelay <= 0 {
		return errors.NotValidf("non-positive RetryDelay")
	}
	if config.MaxRetryDelay < config.RetryDelay {
		return errors.NotValidf("MaxRetryDelay less than RetryDelay")
	}
	if config.PrometheusRegisterer == nil {
		return errors.NotValidf("missing PrometheusRegisterer")
	}
	return nil
}

type syncWorker struct {
	catacomb catacomb.Catacomb
	config   Config
	metrics  *Collector
}

// NewWorker returns a worker that applies the deltas of successive
// watchers to config.DB until it is killed.
func NewWorker(config Config) (worker.Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	metrics := NewMetricsCollector()
	if err := config.PrometheusRegisterer.Register(metrics); err != nil {
		return nil, errors.Annotate(err, "registering metrics")
	}
	w := &syncWorker{
		config:  config,
		metrics: metrics,
	}
	if err := catacomb.Invoke(catacomb.Plan{
		Name: "delta-sync",
		Site: &w.catacomb,
		Work: w.loop,
	}); err != nil {
		config.PrometheusRegisterer.Unregister(metrics)
		return nil, errors.Trace(err)
	}
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *syncWorker) Kill() {
	w.catacomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *syncWorker) Wait() error {
	return w.catacomb.Wait()
}

func (w *syncWorker) scopedContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(w.catacomb.Context(context.Background()))
}

func (w *syncWorker) loop() error {
	defer w.config.PrometheusRegisterer.Unregister(w.metrics)

	ctx, cancel := w.scopedContext()
	defer cancel()

	for {
		watcher, handlers, err := w.connect(ctx)
		if err != nil {
			if w.isDying() {
				return w.catacomb.ErrDying()
			}
			return errors.Trace(err)
		}
		w.config.Logger.Debugf("watcher started")

		err = w.consume(ctx, watcher, handlers)
		w.stopWatcher(watcher)
		if w.isDying() {
			return w.catacomb.ErrDying()
		}
		if err != nil && !isRecoverable(err) {
			return errors.Trace(err)
		}
		w.config.Logger.Warningf("watcher failed, rebuilding model: %v", err)
		w.config.DB.Reset()
		w.metrics.reconnects.Inc()

		select {
		case <-w.catacomb.Dying():
			return w.catacomb.ErrDying()
		case <-w.config.Clock.After(w.config.RetryDelay):
		}
	}
}

// isRecoverable reports whether a watcher error should lead to a
// reconnect rather than the worker stopping.
func isRecoverable(err error) bool {
	return !errors.Is(err, errors.Unauthorized)
}

func (w *syncWorker) isDying() bool {
	select {
	case <-w.catacomb.Dying():
		return true
	default:
		return false
	}
}

// connect opens a watcher, retrying with exponential backoff.
func (w *syncWorker) connect(ctx context.Context) (Watcher, delta.Handlers, error) {
	var (
		watcher  Watcher
		handlers delta.Handlers
	)
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			watcher, handlers, err = w.config.NewWatcher(ctx)
			return err
		},
		IsFatalError: func(err error) bool {
			return !isRecoverable(err)
		},
		NotifyFunc: func(err error, attempt int) {
			w.config.Logger.Warningf("cannot start watcher (attempt %d): %v", attempt, err)
		},
		Attempts:    retry.UnlimitedAttempts,
		Delay:       w.config.RetryDelay,
		MaxDelay:    w.config.MaxRetryDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       w.config.Clock,
		Stop:        w.catacomb.Dying(),
	})
	if err != nil {
		return nil, nil, errors.Trace(retry.LastError(err))
	}
	return watcher, handlers, nil
}

// consume applies batches from watcher until it fails.
func (w *syncWorker) consume(ctx context.Context, watcher Watcher, handlers delta.Handlers) error {
	dispatcher := w.config.NewDispatcher(w.config.DB, handlers)
	for {
		deltas, err := watcher.Next(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		w.config.Logger.Tracef("received %d deltas", len(deltas))
		w.metrics.batches.Inc()

		err = dispatcher.DispatchAll(deltas)
		failed := map[int]bool{}
		if batch, ok := errors.Cause(err).(*delta.BatchError); ok {
			for _, f := range batch.Failures {
				failed[f.Index] = true
			}
			w.metrics.failures.Add(float64(len(batch.Failures)))
			w.config.Logger.Warningf("%v", err)
		} else if err != nil {
			return errors.Trace(err)
		}
		for i, d := range deltas {
			if !failed[i] {
				w.metrics.deltas.WithLabelValues(d.Kind, d.Action).Inc()
			}
		}
	}
}

func (w *syncWorker) stopWatcher(watcher Watcher) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := watcher.Stop(ctx); err != nil {
		w.config.Logger.Debugf("stopping watcher: %v", err)
	}
}
