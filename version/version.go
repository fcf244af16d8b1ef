// Copyright 2012, 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the version of the juju-gui-sync binaries.
package version

import (
	"fmt"
	"runtime"

	semversion "github.com/juju/version/v2"
)

// The presence and format of this constant is very important.
// The debian/rules build recipe uses this value for the version
// number of the release package.
const currentVersion = "1.0.0"

// Current gives the current version of the binaries.
var Current = semversion.MustParse(currentVersion)

// Summary returns the version together with the Go toolchain and
// platform, as logged when a command starts.
func Summary() string {
	return fmt.Sprintf("%s [%s %s %s/%s]", Current, runtime.Compiler, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
