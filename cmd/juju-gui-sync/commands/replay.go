// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"bufio"
	"bytes"
	"encoding/json"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	jujuguicmd "github.com/juju/juju-gui/cmd"
	"github.com/juju/juju-gui/cmd/output"
	"github.com/juju/juju-gui/config"
	"github.com/juju/juju-gui/core/delta"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/rpc/params"
)

const replayDoc = `
Applies a recorded stream of deltas to an empty model and prints the
result. The file holds either a JSON array of deltas or one delta per
line; each delta is a [kind, action, entity] array. Blank lines and
lines starting with # are ignored. Use - to read standard input.

Examples:

    juju-gui-sync replay deltas.json
    juju-gui-sync replay --api-format legacy --format yaml - < deltas.json
`

func newReplayCommand() cmd.Command {
	return &replayCommand{}
}

type replayCommand struct {
	cmd.CommandBase
	out       cmd.Output
	file      jujuguicmd.FileVar
	apiFormat string
}

// Info implements cmd.Command.
func (c *replayCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "replay",
		Args:    "<file>",
		Purpose: "Apply recorded deltas and print the resulting model.",
		Doc:     replayDoc,
	}
}

// SetFlags implements cmd.Command.
func (c *replayCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.apiFormat, "api-format", config.FormatModern, "delta format (modern|legacy|python)")
	c.out.AddFlags(f, output.DefaultFormat, map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": formatTabular,
	})
}

// Init implements cmd.Command.
func (c *replayCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("no delta file specified")
	}
	if err := c.file.Set(args[0]); err != nil {
		return errors.Trace(err)
	}
	if _, err := delta.ForFormat(c.apiFormat); err != nil {
		return errors.Trace(err)
	}
	return cmd.CheckEmpty(args[1:])
}

// Run implements cmd.Command.
func (c *replayCommand) Run(ctx *cmd.Context) error {
	data, err := c.file.Read(ctx)
	if err != nil {
		return errors.Annotate(err, "reading deltas")
	}
	deltas, err := parseDeltas(data)
	if err != nil {
		return errors.Trace(err)
	}
	handlers, err := delta.ForFormat(c.apiFormat)
	if err != nil {
		return errors.Trace(err)
	}
	db := modeldb.New(nil)
	if err := reportFailures(ctx, delta.NewDispatcher(db, handlers).DispatchAll(deltas)); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("replayed %d deltas", len(deltas))
	return c.out.Write(ctx, formatModel(db.Snapshot()))
}

// parseDeltas reads a JSON array of deltas, or one delta per line.
func parseDeltas(data []byte) ([]params.Delta, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err == nil && isDeltaArray(elements) {
		deltas := make([]params.Delta, len(elements))
		for i, element := range elements {
			if err := json.Unmarshal(element, &deltas[i]); err != nil {
				return nil, errors.Annotatef(err, "delta %d", i)
			}
		}
		return deltas, nil
	}
	var deltas []params.Delta
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(nil, 4*1024*1024)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		var d params.Delta
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, errors.Annotatef(err, "line %d", lineNum)
		}
		deltas = append(deltas, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return deltas, nil
}

// isDeltaArray reports whether elements are the entries of an array of
// deltas rather than the fields of a single delta.
func isDeltaArray(elements []json.RawMessage) bool {
	for _, element := range elements {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || element[0] != '[' {
			return false
		}
	}
	return true
}
