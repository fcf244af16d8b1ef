// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package deltasync_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/workertest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-gui/core/delta"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/rpc/params"
	"github.com/juju/juju-gui/worker/deltasync"
)

const retryDelay = time.Second

type workerSuite struct {
	testing.IsolationSuite

	clock    *testclock.Clock
	db       *modeldb.DB
	registry *prometheus.Registry

	mu       sync.Mutex
	watchers []watcherResult
	opened   int
}

type watcherResult struct {
	watcher deltasync.Watcher
	err     error
}

var _ = gc.Suite(&workerSuite{})

func (s *workerSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.clock = testclock.NewClock(time.Now())
	s.db = modeldb.New(nil)
	s.registry = prometheus.NewPedanticRegistry()
	s.watchers = nil
	s.opened = 0
}

func (s *workerSuite) newWatcher(ctx context.Context) (deltasync.Watcher, delta.Handlers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.watchers) == 0 {
		return nil, nil, errors.New("no more watchers")
	}
	next := s.watchers[0]
	s.watchers = s.watchers[1:]
	s.opened++
	if next.err != nil {
		return nil, nil, next.err
	}
	return next.watcher, delta.Modern(), nil
}

func (s *workerSuite) config() deltasync.Config {
	return deltasync.Config{
		Clock:                s.clock,
		Logger:               loggo.GetLogger("test"),
		NewWatcher:           s.newWatcher,
		DB:                   s.db,
		NewDispatcher:        deltasync.NewDispatcher,
		RetryDelay:           retryDelay,
		MaxRetryDelay:        time.Minute,
		PrometheusRegisterer: s.registry,
	}
}

func (s *workerSuite) startWorker(c *gc.C) worker.Worker {
	w, err := deltasync.NewWorker(s.config())
	c.Assert(err, jc.ErrorIsNil)
	return w
}

func deltas(c *gc.C, data string) []params.Delta {
	var result []params.Delta
	err := json.Unmarshal([]byte(data), &result)
	c.Assert(err, jc.ErrorIsNil)
	return result
}

// blockUntilDone is a Next implementation that waits for the worker to
// give up on the call.
func blockUntilDone(ctx context.Context) ([]params.Delta, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func waitFor(c *gc.C, what string, cond func() bool) {
	timeout := time.After(testing.LongWait)
	for !cond() {
		select {
		case <-timeout:
			c.Fatalf("timed out waiting for %s", what)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (s *workerSuite) hasApplication(name string) func() bool {
	return func() bool {
		_, err := s.db.Application(name)
		return err == nil
	}
}

func (s *workerSuite) TestValidate(c *gc.C) {
	for i, test := range []struct {
		mutate func(*deltasync.Config)
		err    string
	}{{
		mutate: func(cfg *deltasync.Config) { cfg.Clock = nil },
		err:    "missing Clock not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.Logger = nil },
		err:    "missing Logger not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.NewWatcher = nil },
		err:    "missing NewWatcher not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.DB = nil },
		err:    "missing DB not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.NewDispatcher = nil },
		err:    "missing NewDispatcher not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.RetryDelay = 0 },
		err:    "non-positive RetryDelay not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.MaxRetryDelay = time.Millisecond },
		err:    "MaxRetryDelay less than RetryDelay not valid",
	}, {
		mutate: func(cfg *deltasync.Config) { cfg.PrometheusRegisterer = nil },
		err:    "missing PrometheusRegisterer not valid",
	}} {
		c.Logf("test %d: %s", i, test.err)
		cfg := s.config()
		test.mutate(&cfg)
		c.Check(cfg.Validate(), gc.ErrorMatches, test.err)
		_, err := deltasync.NewWorker(cfg)
		c.Check(err, jc.ErrorIs, errors.NotValid)
	}
}

func (s *workerSuite) TestAppliesDeltas(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	watcher := NewMockWatcher(ctrl)
	gomock.InOrder(
		watcher.EXPECT().Next(gomock.Any()).Return(deltas(c, `[
			["application", "add", {"name": "mysql"}],
			["unit", "add", {"name": "mysql/0", "application": "mysql"}]
		]`), nil),
		watcher.EXPECT().Next(gomock.Any()).DoAndReturn(blockUntilDone),
	)
	watcher.EXPECT().Stop(gomock.Any()).Return(nil)
	s.watchers = []watcherResult{{watcher: watcher}}

	w := s.startWorker(c)
	defer workertest.DirtyKill(c, w)

	waitFor(c, "unit", func() bool {
		_, err := s.db.Unit("mysql/0")
		return err == nil
	})
	waitFor(c, "metrics", func() bool {
		n, _ := testutil.GatherAndCount(s.registry, "juju_gui_deltasync_deltas_total")
		return n == 2
	})
	expected := `
# HELP juju_gui_deltasync_deltas_total The number of deltas applied by kind and action.
# TYPE juju_gui_deltasync_deltas_total counter
juju_gui_deltasync_deltas_total{action="add",kind="application"} 1
juju_gui_deltasync_deltas_total{action="add",kind="unit"} 1
`
	err := testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "juju_gui_deltasync_deltas_total")
	c.Check(err, jc.ErrorIsNil)

	workertest.CleanKill(c, w)
}

func (s *workerSuite) TestKillStopsWatcher(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	watcher := NewMockWatcher(ctrl)
	nextCalled := make(chan struct{})
	watcher.EXPECT().Next(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]params.Delta, error) {
		close(nextCalled)
		return blockUntilDone(ctx)
	})
	watcher.EXPECT().Stop(gomock.Any()).Return(nil)
	s.watchers = []watcherResult{{watcher: watcher}}

	w := s.startWorker(c)
	select {
	case <-nextCalled:
	case <-time.After(testing.LongWait):
		c.Fatalf("Next not called")
	}
	workertest.CleanKill(c, w)

	count, err := testutil.GatherAndCount(s.registry)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(count, gc.Equals, 0)
}

func (s *workerSuite) TestReconnectRebuildsModel(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	first := NewMockWatcher(ctrl)
	gomock.InOrder(
		first.EXPECT().Next(gomock.Any()).Return(deltas(c, `[
			["application", "add", {"name": "mysql"}]
		]`), nil),
		first.EXPECT().Next(gomock.Any()).Return(nil, errors.New("connection lost")),
	)
	first.EXPECT().Stop(gomock.Any()).Return(nil)

	second := NewMockWatcher(ctrl)
	gomock.InOrder(
		second.EXPECT().Next(gomock.Any()).Return(deltas(c, `[
			["application", "add", {"name": "wordpress"}]
		]`), nil),
		second.EXPECT().Next(gomock.Any()).DoAndReturn(blockUntilDone),
	)
	second.EXPECT().Stop(gomock.Any()).Return(nil)
	s.watchers = []watcherResult{{watcher: first}, {watcher: second}}

	w := s.startWorker(c)
	defer workertest.DirtyKill(c, w)

	err := s.clock.WaitAdvance(retryDelay, testing.LongWait, 1)
	c.Assert(err, jc.ErrorIsNil)

	waitFor(c, "wordpress", s.hasApplication("wordpress"))
	_, err = s.db.Application("mysql")
	c.Check(err, jc.ErrorIs, errors.NotFound)

	s.mu.Lock()
	c.Check(s.opened, gc.Equals, 2)
	s.mu.Unlock()

	workertest.CleanKill(c, w)
}

func (s *workerSuite) TestNewWatcherRetried(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	watcher := NewMockWatcher(ctrl)
	gomock.InOrder(
		watcher.EXPECT().Next(gomock.Any()).Return(deltas(c, `[
			["machine", "add", {"id": "0"}]
		]`), nil),
		watcher.EXPECT().Next(gomock.Any()).DoAndReturn(blockUntilDone),
	)
	watcher.EXPECT().Stop(gomock.Any()).Return(nil)
	s.watchers = []watcherResult{
		{err: errors.New("connection refused")},
		{watcher: watcher},
	}

	w := s.startWorker(c)
	defer workertest.DirtyKill(c, w)

	err := s.clock.WaitAdvance(retryDelay, testing.LongWait, 1)
	c.Assert(err, jc.ErrorIsNil)
	waitFor(c, "machine", func() bool {
		_, err := s.db.Machine("0")
		return err == nil
	})
	workertest.CleanKill(c, w)
}

func (s *workerSuite) TestUnauthorizedIsFatal(c *gc.C) {
	s.watchers = []watcherResult{{err: errors.Unauthorizedf("invalid entity name or password")}}

	w := s.startWorker(c)
	err := workertest.CheckKilled(c, w)
	c.Check(err, jc.ErrorIs, errors.Unauthorized)
}

func (s *workerSuite) TestBadDeltasCountedAndSkipped(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	watcher := NewMockWatcher(ctrl)
	gomock.InOrder(
		watcher.EXPECT().Next(gomock.Any()).Return(deltas(c, `[
			["unit", "add", {"name": 7}],
			["application", "add", {"name": "mysql"}]
		]`), nil),
		watcher.EXPECT().Next(gomock.Any()).DoAndReturn(blockUntilDone),
	)
	watcher.EXPECT().Stop(gomock.Any()).Return(nil)
	s.watchers = []watcherResult{{watcher: watcher}}

	w := s.startWorker(c)
	defer workertest.DirtyKill(c, w)

	waitFor(c, "mysql", s.hasApplication("mysql"))
	waitFor(c, "failure metric", func() bool {
		err := testutil.GatherAndCompare(s.registry, strings.NewReader(`
# HELP juju_gui_deltasync_delta_failures_total The number of deltas that could not be applied.
# TYPE juju_gui_deltasync_delta_failures_total counter
juju_gui_deltasync_delta_failures_total 1
`), "juju_gui_deltasync_delta_failures_total")
		return err == nil
	})
	workertest.CleanKill(c, w)
}
