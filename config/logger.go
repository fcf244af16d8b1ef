// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package config

import "github.com/juju/loggo"

var logger = loggo.GetLogger("juju.gui.config")
