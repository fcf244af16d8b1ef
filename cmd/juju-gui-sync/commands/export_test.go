// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"net"

	"github.com/juju/cmd/v3"
)

var (
	DialOpts    = &dialOpts
	ParseDeltas = parseDeltas
)

func NewStatusCommand() cmd.Command {
	return newStatusCommand()
}

func NewReplayCommand() cmd.Command {
	return newReplayCommand()
}

// NewRunCommandForTest returns a run command that stops when stop is
// closed and reports its listen address to started.
func NewRunCommandForTest(stop <-chan struct{}, started func(net.Addr)) cmd.Command {
	return &runCommand{stop: stop, started: started}
}
