// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd_test

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/cmd/v3/cmdtesting"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	jujuguicmd "github.com/juju/juju-gui/cmd"
)

type fileVarSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&fileVarSuite{})

func (s *fileVarSuite) TestReadRelativeToContext(c *gc.C) {
	ctx := cmdtesting.Context(c)
	err := os.WriteFile(filepath.Join(ctx.Dir, "deltas.json"), []byte("[]"), 0644)
	c.Assert(err, jc.ErrorIsNil)

	var f jujuguicmd.FileVar
	c.Assert(f.Set("deltas.json"), jc.ErrorIsNil)
	c.Check(f.String(), gc.Equals, "deltas.json")
	data, err := f.Read(ctx)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, "[]")
}

func (s *fileVarSuite) TestReadStdin(c *gc.C) {
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader("hello")

	var f jujuguicmd.FileVar
	c.Assert(f.Set(jujuguicmd.StdinPath), jc.ErrorIsNil)
	data, err := f.Read(ctx)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), gc.Equals, "hello")
}

func (s *fileVarSuite) TestErrors(c *gc.C) {
	var f jujuguicmd.FileVar
	c.Check(f.Set(""), gc.ErrorMatches, "empty path not valid")
	_, err := f.Read(cmdtesting.Context(c))
	c.Check(err, gc.ErrorMatches, "path not set")

	c.Assert(f.Set("missing.json"), jc.ErrorIsNil)
	_, err = f.Read(cmdtesting.Context(c))
	c.Check(err, jc.ErrorIs, os.ErrNotExist)
}
