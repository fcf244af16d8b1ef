// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"

	"github.com/juju/juju-gui/cmd/juju-gui-sync/commands"
)

func main() {
	os.Exit(commands.Main(os.Args))
}
