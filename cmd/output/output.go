// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package output holds helpers for writing tabular command output.
package output

import (
	"fmt"
	"io"

	"github.com/juju/ansiterm"

	"github.com/juju/juju-gui/core/status"
)

// DefaultFormat is the format used when --format is not given.
const DefaultFormat = "tabular"

// TabWriter returns a new tab writer with common layout definition.
func TabWriter(writer io.Writer) *ansiterm.TabWriter {
	const (
		// To format things into columns.
		minwidth = 0
		tabwidth = 1
		padding  = 2
		padchar  = ' '
		flags    = 0
	)
	return ansiterm.NewTabWriter(writer, minwidth, tabwidth, padding, padchar, flags)
}

// Wrapper provides some helper functions for writing values out tab
// separated.
type Wrapper struct {
	*ansiterm.TabWriter
}

// Print writes each value followed by a tab.
func (w *Wrapper) Print(values ...interface{}) {
	for _, v := range values {
		fmt.Fprintf(w, "%v\t", v)
	}
}

// Println writes many tab separated values finished with a new line.
func (w *Wrapper) Println(values ...interface{}) {
	for i, v := range values {
		if i != len(values)-1 {
			fmt.Fprintf(w, "%v\t", v)
		} else {
			fmt.Fprintf(w, "%v", v)
		}
	}
	fmt.Fprintln(w)
}

// PrintColor writes the value out in the color context specified.
func (w *Wrapper) PrintColor(ctx *ansiterm.Context, value interface{}) {
	if ctx != nil {
		ctx.Fprintf(w.TabWriter, "%v\t", value)
	} else {
		fmt.Fprintf(w, "%v\t", value)
	}
}

// PrintStatus writes out the status value in the standard color.
func (w *Wrapper) PrintStatus(value status.Status) {
	w.PrintColor(StatusColor(value), value)
}

// StatusColor returns the color context used for a status value, or
// nil for the default.
func StatusColor(value status.Status) *ansiterm.Context {
	switch value {
	case status.Active, status.Idle, status.Started, status.Running:
		return GoodHighlight
	case status.Pending, status.Maintenance, status.Executing:
		return WarningHighlight
	case status.Error, status.ProvisioningError:
		return ErrorHighlight
	}
	return nil
}

// Colors used for status values.
var (
	GoodHighlight    = ansiterm.Foreground(ansiterm.Green)
	WarningHighlight = ansiterm.Foreground(ansiterm.Yellow)
	ErrorHighlight   = ansiterm.Foreground(ansiterm.Red)
)
