// Copyright 2012, 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jsoncodec

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
)

// closeTimeout bounds how long Close waits to deliver the close frame.
const closeTimeout = time.Second

// NewWebsocket returns an rpc codec that uses the given websocket
// connection to send and receive messages.
func NewWebsocket(conn *websocket.Conn, legacy bool) *Codec {
	return New(NewWebsocketConn(conn), legacy)
}

type wsJSONConn struct {
	conn *websocket.Conn
	// gorilla websockets can have at most one concurrent writer, and
	// one concurrent reader.
	writeMutex sync.Mutex
	readMutex  sync.Mutex
}

// NewWebsocketConn returns a JSONConn implementation using the
// gorilla websocket connection.
func NewWebsocketConn(conn *websocket.Conn) JSONConn {
	return &wsJSONConn{conn: conn}
}

// Send implements JSONConn.
func (conn *wsJSONConn) Send(msg interface{}) error {
	conn.writeMutex.Lock()
	defer conn.writeMutex.Unlock()
	return conn.conn.WriteJSON(msg)
}

// Receive implements JSONConn.
func (conn *wsJSONConn) Receive(msg interface{}) error {
	conn.readMutex.Lock()
	defer conn.readMutex.Unlock()
	return conn.conn.ReadJSON(msg)
}

// Close implements JSONConn.
func (conn *wsJSONConn) Close() error {
	conn.writeMutex.Lock()
	defer conn.writeMutex.Unlock()
	// Tell the other end we are closing, best effort.
	_ = conn.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeTimeout),
	)
	return errors.Trace(conn.conn.Close())
}
