// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package delta_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-gui/core/delta"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/core/status"
)

type pythonSuite struct {
	testing.IsolationSuite
	db         *modeldb.DB
	dispatcher *delta.Dispatcher
}

var _ = gc.Suite(&pythonSuite{})

func (s *pythonSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.db = modeldb.New(nil)
	s.dispatcher = delta.NewDispatcher(s.db, delta.Python())
}

func (s *pythonSuite) apply(c *gc.C, data string) {
	err := s.dispatcher.DispatchAll(parseDeltas(c, data))
	c.Assert(err, jc.ErrorIsNil)
}

func (s *pythonSuite) TestServiceWithAnnotations(c *gc.C) {
	s.apply(c, `[["service", "add", {
		"id": "wordpress",
		"charm": "cs:precise/wordpress-15",
		"exposed": "true",
		"annotations": {"gui-x": "1"}
	}]]`)
	app, err := s.db.Application("wordpress")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(app.CharmURL, gc.Equals, "cs:precise/wordpress-15")
	c.Check(app.Exposed, jc.IsTrue)
	c.Check(app.Annotations, jc.DeepEquals, map[string]string{"gui-x": "1"})

	s.apply(c, `[["service", "change", {"id": "wordpress", "annotations": {"gui-y": "2"}}]]`)
	app, err = s.db.Application("wordpress")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(app.Annotations, jc.DeepEquals, map[string]string{"gui-x": "1", "gui-y": "2"})
}

func (s *pythonSuite) TestUnit(c *gc.C) {
	s.apply(c, `[["unit", "add", {
		"id": "mysql/0",
		"machine": "1",
		"agent_state": "started",
		"public_address": "example.com",
		"open_ports": ["3306/tcp", 80]
	}]]`)
	u, err := s.db.Unit("mysql/0")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(u.Application, gc.Equals, "mysql")
	c.Check(u.MachineId, gc.Equals, "1")
	c.Check(u.AgentState, gc.Equals, status.Started)
	c.Check(u.OpenPorts, jc.DeepEquals, []string{"3306/tcp", "80/tcp"})
}

func (s *pythonSuite) TestMachine(c *gc.C) {
	s.apply(c, `[["machine", "add", {"id": 2, "instance_id": "i-2", "public_address": "1.2.3.4"}]]`)
	m, err := s.db.Machine("2")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(m.InstanceId, gc.Equals, "i-2")
	c.Check(m.Addresses, jc.DeepEquals, []modeldb.Address{{Value: "1.2.3.4", Scope: "public"}})
}

func (s *pythonSuite) TestRelation(c *gc.C) {
	s.apply(c, `[
		["service", "add", {"id": "wordpress"}],
		["relation", "add", {
			"id": "relation-0000000001",
			"interface": "mysql",
			"scope": "global",
			"endpoints": [["wordpress", {"name": "db", "role": "client"}], ["mysql", {"name": "db", "role": "server"}]]
		}]
	]`)
	c.Check(s.db.Relations(), gc.HasLen, 0)
	s.apply(c, `[["service", "add", {"id": "mysql"}]]`)
	rel, err := s.db.Relation("relation-0000000001")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(rel.Endpoints, jc.DeepEquals, []modeldb.Endpoint{
		{Application: "wordpress", Name: "db", Role: "client"},
		{Application: "mysql", Name: "db", Role: "server"},
	})
}

func (s *pythonSuite) TestBadEndpoint(c *gc.C) {
	err := s.dispatcher.DispatchAll(parseDeltas(c, `[["relation", "add", {"id": "r", "endpoints": ["nope"]}]]`))
	c.Check(err, gc.ErrorMatches, `1 of 1 deltas failed: relation add: relation endpoint nope not valid`)
}
