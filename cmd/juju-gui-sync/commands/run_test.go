// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands_test

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/juju/cmd/v3/cmdtesting"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	apitesting "github.com/juju/juju-gui/api/testing"
	"github.com/juju/juju-gui/cmd/juju-gui-sync/commands"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/rpc/params"
)

type runSuite struct {
	baseSuite
}

var _ = gc.Suite(&runSuite{})

func (s *runSuite) TestRunServesModel(c *gc.C) {
	ctrl := apitesting.NewController(modelUUID, false)
	defer ctrl.Close()
	ctrl.Send(mustDelta(c, params.KindApplication, "add", params.ApplicationInfo{
		Name:     "wordpress",
		CharmURL: "cs:wordpress-5",
	}))
	path := s.writeConfig(c, ctrl, "listen-address: 127.0.0.1:0", "logging-config: <root>=WARNING")

	stop := make(chan struct{})
	addrs := make(chan net.Addr, 1)
	command := commands.NewRunCommandForTest(stop, func(addr net.Addr) {
		addrs <- addr
	})
	done := make(chan error, 1)
	go func() {
		_, err := cmdtesting.RunCommand(c, command, "--config", path)
		done <- err
	}()

	var baseURL string
	select {
	case addr := <-addrs:
		baseURL = "http://" + addr.String()
	case err := <-done:
		c.Fatalf("run exited early: %v", err)
	case <-time.After(testing.LongWait):
		c.Fatalf("timed out waiting for server")
	}

	var app modeldb.Application
	deadline := time.Now().Add(testing.LongWait)
	for app.Name == "" {
		if time.Now().After(deadline) {
			c.Fatalf("application never appeared")
		}
		resp, err := http.Get(baseURL + "/applications/wordpress")
		c.Assert(err, jc.ErrorIsNil)
		if resp.StatusCode == http.StatusOK {
			err = json.NewDecoder(resp.Body).Decode(&app)
			c.Assert(err, jc.ErrorIsNil)
		} else {
			time.Sleep(testing.ShortWait)
		}
		resp.Body.Close()
	}
	c.Check(app.CharmURL, gc.Equals, "cs:wordpress-5")

	close(stop)
	select {
	case err := <-done:
		c.Assert(err, jc.ErrorIsNil)
	case <-time.After(testing.LongWait):
		c.Fatalf("timed out waiting for run to finish")
	}
	c.Check(ctrl.Stopped(), gc.Equals, 1)
}

func (s *runSuite) TestRunBadListenAddress(c *gc.C) {
	ctrl := apitesting.NewController(modelUUID, false)
	defer ctrl.Close()
	path := s.writeConfig(c, ctrl, "listen-address: 256.0.0.1:bad")

	_, err := cmdtesting.RunCommand(c, commands.NewRunCommandForTest(nil, nil), "--config", path)
	c.Assert(err, gc.ErrorMatches, `listening on "256.0.0.1:bad": .*`)
}
