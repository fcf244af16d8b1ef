// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"net"
	"runtime/debug"
	"sync/atomic"

	"github.com/juju/loggo"
)

var (
	connCount int64
	openConns int64
)

var diagnosticLogger = loggo.GetLogger("juju.gui.api.diagnostic")

// trackedConn wraps a [net.Conn] so that we can track its creation and closure.
type trackedConn struct {
	net.Conn

	createdStack []byte
	closed       int32
	id           int64
}

func newTrackedConn(c net.Conn, addr string) *trackedConn {
	tc := &trackedConn{
		Conn:         c,
		createdStack: debug.Stack(),
		id:           atomic.AddInt64(&connCount, 1),
	}
	atomic.AddInt64(&openConns, 1)
	diagnosticLogger.Tracef("opened conn id=%d to %s; created by:\n%s", tc.id, addr, tc.createdStack)
	return tc
}

func (t *trackedConn) Close() error {
	if atomic.CompareAndSwapInt32(&t.closed, 0, 1) {
		atomic.AddInt64(&openConns, -1)
		diagnosticLogger.Tracef("closing conn id=%d", t.id)
	} else {
		diagnosticLogger.Debugf("close called again on conn id=%d created by:\n%s", t.id, t.createdStack)
	}
	return t.Conn.Close()
}

// OpenTrackedConnections returns the number of connections dialled with
// DialOpts.TrackConnections that have not been closed.
func OpenTrackedConnections() int64 {
	return atomic.LoadInt64(&openConns)
}

// wrapDialContext wraps each dialled [net.Conn] with a trackedConn.
func wrapDialContext(
	dial func(ctx context.Context, network, addr string) (net.Conn, error),
) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		c, err := dial(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return newTrackedConn(c, addr), nil
	}
}
