// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"io"
	"os"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
)

// StdinPath is the path that names standard input.
const StdinPath = "-"

// FileVar represents a path to a file, or StdinPath. It implements
// gnuflag.Value.
type FileVar struct {
	Path string
}

// Set stores the path.
func (f *FileVar) Set(v string) error {
	if v == "" {
		return errors.NotValidf("empty path")
	}
	f.Path = v
	return nil
}

// Open returns an io.ReadCloser to the file relative to the context.
func (f *FileVar) Open(ctx *cmd.Context) (io.ReadCloser, error) {
	switch f.Path {
	case "":
		return nil, errors.New("path not set")
	case StdinPath:
		return io.NopCloser(ctx.Stdin), nil
	}
	return os.Open(ctx.AbsPath(f.Path))
}

// Read returns the contents of the file.
func (f *FileVar) Read(ctx *cmd.Context) ([]byte, error) {
	r, err := f.Open(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// String returns the path to the file.
func (f *FileVar) String() string {
	return f.Path
}
