// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands_test

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/cmd/v3/cmdtesting"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-gui/cmd/juju-gui-sync/commands"
)

type replaySuite struct {
	baseSuite
}

var _ = gc.Suite(&replaySuite{})

const modernDeltas = `
# A model with one application waiting for wordpress.
["application","add",{"name":"mysql","charm-url":"cs:mysql-1","status":{"current":"active"}}]
["unit","add",{"name":"mysql/0","application":"mysql","machine-id":"0","public-address":"10.0.0.1","ports":[{"protocol":"tcp","number":3306}],"agent-status":{"current":"idle"},"workload-status":{"current":"active","message":"ready"}}]
["machine","add",{"id":"0","instance-id":"i-0","series":"xenial","agent-status":{"current":"started"},"addresses":[{"value":"10.0.0.1","type":"ipv4","scope":"public"}],"hardware-characteristics":{"arch":"amd64","cpu-cores":2,"mem":2048}}]

["relation","add",{"key":"wordpress:db mysql:server","id":1,"endpoints":[{"application-name":"wordpress","relation":{"name":"db","role":"requirer","interface":"mysql","scope":"global"}},{"application-name":"mysql","relation":{"name":"server","role":"provider","interface":"mysql","scope":"global"}}]}]
`

var expectedModel = map[string]interface{}{
	"model": map[string]interface{}{},
	"machines": map[string]interface{}{
		"0": map[string]interface{}{
			"agent-state": "started",
			"dns-name":    "10.0.0.1",
			"instance-id": "i-0",
			"series":      "xenial",
			"hardware":    "arch=amd64 cores=2 mem=2.0GiB",
		},
	},
	"applications": map[string]interface{}{
		"mysql": map[string]interface{}{
			"charm":              "cs:mysql-1",
			"exposed":            false,
			"application-status": "active",
			"units": map[string]interface{}{
				"mysql/0": map[string]interface{}{
					"agent-state":      "active",
					"agent-state-info": "ready",
					"machine":          "0",
					"public-address":   "10.0.0.1",
					"open-ports":       []interface{}{"3306/tcp"},
				},
			},
		},
	},
	"pending-relations": map[string]interface{}{
		"wordpress": []interface{}{"wordpress:db mysql:server"},
	},
}

func (s *replaySuite) writeDeltas(c *gc.C, data string) string {
	path := filepath.Join(c.MkDir(), "deltas.json")
	err := os.WriteFile(path, []byte(data), 0644)
	c.Assert(err, jc.ErrorIsNil)
	return path
}

func (s *replaySuite) TestReplayLines(c *gc.C) {
	path := s.writeDeltas(c, modernDeltas)
	ctx, err := cmdtesting.RunCommand(c, commands.NewReplayCommand(), "--format", "json", path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), jc.JSONEquals, expectedModel)
	c.Check(cmdtesting.Stderr(ctx), gc.Equals, "")
}

func (s *replaySuite) TestReplayArrayFromStdin(c *gc.C) {
	var lines []string
	for _, line := range strings.Split(modernDeltas, "\n") {
		if strings.HasPrefix(line, "[") {
			lines = append(lines, line)
		}
	}
	ctx := cmdtesting.Context(c)
	ctx.Stdin = strings.NewReader("[" + strings.Join(lines, ",\n") + "]")

	command := commands.NewReplayCommand()
	err := cmdtesting.InitCommand(command, []string{"--format", "json", "-"})
	c.Assert(err, jc.ErrorIsNil)
	err = command.Run(ctx)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), jc.JSONEquals, expectedModel)
}

func (s *replaySuite) TestReplayTabular(c *gc.C) {
	path := s.writeDeltas(c, modernDeltas)
	ctx, err := cmdtesting.RunCommand(c, commands.NewReplayCommand(), path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(normalise(cmdtesting.Stdout(ctx)), jc.DeepEquals, []string{
		"Model Name Owner Status",
		"",
		"",
		"App Charm Status Exposed Units",
		"mysql cs:mysql-1 active false 1",
		"",
		"Unit Agent Machine Public address Ports Message",
		"mysql/0 active 0 10.0.0.1 3306/tcp ready",
		"",
		"Machine State DNS Instance Series Hardware",
		"0 started 10.0.0.1 i-0 xenial arch=amd64 cores=2 mem=2.0GiB",
		"",
		"Pending relation Waiting for",
		"wordpress:db mysql:server wordpress",
	})
}

func (s *replaySuite) TestReplayLegacy(c *gc.C) {
	path := s.writeDeltas(c, `
["service","add",{"Name":"mysql","CharmURL":"cs:trusty/mysql-1","Exposed":true}]
["unit","add",{"Name":"mysql/0","Service":"mysql","MachineId":"1","Status":"started"}]
`)
	ctx, err := cmdtesting.RunCommand(c, commands.NewReplayCommand(), "--api-format", "legacy", "--format", "json", path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stdout(ctx), jc.JSONEquals, map[string]interface{}{
		"model":    map[string]interface{}{},
		"machines": map[string]interface{}{},
		"applications": map[string]interface{}{
			"mysql": map[string]interface{}{
				"charm":   "cs:trusty/mysql-1",
				"exposed": true,
				"units": map[string]interface{}{
					"mysql/0": map[string]interface{}{
						"agent-state": "started",
						"machine":     "1",
					},
				},
			},
		},
	})
}

func (s *replaySuite) TestReplayReportsFailures(c *gc.C) {
	path := s.writeDeltas(c, `
["unit","add",{"name":42}]
["application","add",{"name":"mysql"}]
`)
	ctx, err := cmdtesting.RunCommand(c, commands.NewReplayCommand(), "--format", "json", path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), gc.Matches, `WARNING delta 0 \(unit add\): .*\n`)
	c.Check(cmdtesting.Stdout(ctx), jc.Contains, `"mysql"`)
}

func (s *replaySuite) TestInitErrors(c *gc.C) {
	for i, test := range []struct {
		args []string
		err  string
	}{{
		args: nil,
		err:  "no delta file specified",
	}, {
		args: []string{"a.json", "b.json"},
		err:  `unrecognized args: \["b.json"\]`,
	}, {
		args: []string{"--api-format", "xml", "a.json"},
		err:  `delta format "xml" not valid`,
	}} {
		c.Logf("test %d: %v", i, test.args)
		err := cmdtesting.InitCommand(commands.NewReplayCommand(), test.args)
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *replaySuite) TestParseDeltasBadLine(c *gc.C) {
	_, err := commands.ParseDeltas([]byte("[\"unit\",\"add\",{}]\nnot json\n"))
	c.Check(err, gc.ErrorMatches, "line 2: .*")
}

func (s *replaySuite) TestReplayArrayReportsUnknownAction(c *gc.C) {
	path := s.writeDeltas(c, `[
		["application", "add", {"name": "mysql"}],
		["unit", "upgrade", {"name": "mysql/0", "application": "mysql"}],
		["application", "add", {"name": "wordpress"}]
	]`)
	ctx, err := cmdtesting.RunCommand(c, commands.NewReplayCommand(), "--format", "json", path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cmdtesting.Stderr(ctx), gc.Matches, `WARNING delta 1 \(unit upgrade\): .*not valid\n`)
	c.Check(cmdtesting.Stdout(ctx), jc.Contains, `"mysql"`)
	c.Check(cmdtesting.Stdout(ctx), jc.Contains, `"wordpress"`)
}

func (s *replaySuite) TestParseDeltasBadArrayElement(c *gc.C) {
	_, err := commands.ParseDeltas([]byte(`[["unit", "add", {}], ["unit", "add"]]`))
	c.Check(err, gc.ErrorMatches, "delta 1: delta with 2 elements not valid")
}
