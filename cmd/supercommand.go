// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"
	"github.com/juju/loggo"

	"github.com/juju/juju-gui/version"
)

const (
	// LoggingConfigEnvKey holds the logging configuration used when
	// --logging-config is not given.
	LoggingConfigEnvKey = "JUJU_GUI_LOGGING_CONFIG"

	// StartupLoggingConfigEnvKey configures logging before command
	// line flags are parsed.
	StartupLoggingConfigEnvKey = "JUJU_GUI_STARTUP_LOGGING_CONFIG"
)

func init() {
	// If the environment key is empty, ConfigureLoggers returns nil and does
	// nothing.
	err := loggo.ConfigureLoggers(os.Getenv(StartupLoggingConfigEnvKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR parsing %s: %s\n\n", StartupLoggingConfigEnvKey, err)
	}
}

var logger = loggo.GetLogger("juju.gui.cmd")

// NewSuperCommand is like cmd.NewSuperCommand but
// it adds juju-gui specific functionality:
// - The default logging configuration is taken from the environment;
// - The version is configured to the current version;
// - The command emits a log message when a command runs.
func NewSuperCommand(p cmd.SuperCommandParams) *cmd.SuperCommand {
	p.Log = &cmd.Log{
		DefaultConfig: os.Getenv(LoggingConfigEnvKey),
	}
	p.Version = version.Current.String()
	p.NotifyRun = runNotifier
	return cmd.NewSuperCommand(p)
}

func runNotifier(name string) {
	logger.Infof("running %s %s", name, version.Summary())
}
