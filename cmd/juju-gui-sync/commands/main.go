// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package commands implements the juju-gui-sync command line.
package commands

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"
	"github.com/juju/loggo"

	jujuguicmd "github.com/juju/juju-gui/cmd"
)

var logger = loggo.GetLogger("juju.gui.cmd.sync")

const syncDoc = `
juju-gui-sync keeps an in-memory copy of a Juju model up to date by
applying the deltas streamed from the controller, and serves it over HTTP.
`

// Main registers subcommands for the juju-gui-sync executable, and
// hands over control to the cmd package. It returns the exit code.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return cmd.Main(NewSuperCommand(), ctx, args[1:])
}

// NewSuperCommand returns the juju-gui-sync super command with all
// subcommands registered.
func NewSuperCommand() *cmd.SuperCommand {
	super := jujuguicmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "juju-gui-sync",
		Doc:     syncDoc,
		Purpose: "Mirror a Juju model from its delta stream.",
	})
	super.Register(newRunCommand())
	super.Register(newStatusCommand())
	super.Register(newReplayCommand())
	return super
}
