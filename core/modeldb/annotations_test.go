// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-gui/core/modeldb"
)

type annotationsSuite struct {
	testing.IsolationSuite
	db *modeldb.DB
}

var _ = gc.Suite(&annotationsSuite{})

func (s *annotationsSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.db = modeldb.New(nil)
	s.db.ApplyApplication(modeldb.Add, modeldb.Application{Name: "mysql"})
	s.db.ApplyMachine(modeldb.Add, modeldb.Machine{Id: "0"})
}

func (s *annotationsSuite) annotations(c *gc.C) map[string]string {
	app, err := s.db.Application("mysql")
	c.Assert(err, jc.ErrorIsNil)
	return app.Annotations
}

func (s *annotationsSuite) TestMerge(c *gc.C) {
	s.db.ApplyAnnotations(modeldb.Add, modeldb.KindApplication, "mysql", map[string]string{"gui-x": "1", "gui-y": "2"})
	s.db.ApplyAnnotations(modeldb.Change, modeldb.KindApplication, "mysql", map[string]string{"gui-x": "5", "note": "db"})
	c.Check(s.annotations(c), jc.DeepEquals, map[string]string{
		"gui-x": "5",
		"gui-y": "2",
		"note":  "db",
	})
}

func (s *annotationsSuite) TestIdempotent(c *gc.C) {
	update := map[string]string{"gui-x": "1", "gui-y": "2"}
	s.db.ApplyAnnotations(modeldb.Change, modeldb.KindApplication, "mysql", update)
	once := s.annotations(c)
	s.db.ApplyAnnotations(modeldb.Change, modeldb.KindApplication, "mysql", update)
	c.Check(s.annotations(c), jc.DeepEquals, once)
}

func (s *annotationsSuite) TestMissingTargetIsNoop(c *gc.C) {
	s.db.ApplyAnnotations(modeldb.Change, modeldb.KindApplication, "wordpress", map[string]string{"a": "b"})
	s.db.ApplyAnnotations(modeldb.Change, modeldb.KindUnit, "wordpress/0", map[string]string{"a": "b"})
	s.db.ApplyAnnotations(modeldb.Change, modeldb.Kind("widget"), "x", map[string]string{"a": "b"})
	_, err := s.db.Application("wordpress")
	c.Check(err, gc.NotNil)
	c.Check(s.annotations(c), gc.HasLen, 0)
}

func (s *annotationsSuite) TestMachine(c *gc.C) {
	s.db.ApplyAnnotations(modeldb.Add, modeldb.KindMachine, "0", map[string]string{"a": "b"})
	m, err := s.db.Machine("0")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(m.Annotations, jc.DeepEquals, map[string]string{"a": "b"})
}

func (s *annotationsSuite) TestRemoveClears(c *gc.C) {
	s.db.ApplyAnnotations(modeldb.Add, modeldb.KindApplication, "mysql", map[string]string{"a": "b"})
	s.db.ApplyAnnotations(modeldb.Remove, modeldb.KindApplication, "mysql", nil)
	c.Check(s.annotations(c), gc.HasLen, 0)
}

func (s *annotationsSuite) TestSurvivesRemoveAndReAddOfOtherRecords(c *gc.C) {
	s.db.ApplyAnnotations(modeldb.Add, modeldb.KindApplication, "mysql", map[string]string{"a": "b"})
	s.db.ApplyMachine(modeldb.Remove, modeldb.Machine{Id: "0"})
	s.db.ApplyApplication(modeldb.Change, modeldb.Application{Name: "mysql", Exposed: true})
	c.Check(s.annotations(c), jc.DeepEquals, map[string]string{"a": "b"})
}

func (s *annotationsSuite) TestInputMapNotRetained(c *gc.C) {
	update := map[string]string{"a": "b"}
	s.db.ApplyAnnotations(modeldb.Add, modeldb.KindApplication, "mysql", update)
	update["a"] = "mutated"
	c.Check(s.annotations(c), jc.DeepEquals, map[string]string{"a": "b"})
}
