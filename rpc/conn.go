// Copyright 2012, 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("juju.gui.rpc")

// A Codec implements reading and writing of messages in an RPC
// session. The RPC code calls WriteMessage to write a message to the
// connection and calls ReadHeader and ReadBody in pairs to read
// messages.
type Codec interface {
	// ReadHeader reads a message header into hdr.
	ReadHeader(hdr *Header) error

	// ReadBody reads a message body into the given body value. The
	// body value will be a non-nil struct pointer, or nil to signify
	// that the body should be read and discarded.
	ReadBody(body interface{}) error

	// WriteMessage writes a message with the given header and body.
	WriteMessage(hdr *Header, body interface{}) error

	// Close closes the codec. It may be called concurrently
	// and should cause the Read methods to unblock.
	Close() error
}

// Request identifies the action to invoke on a remote object.
type Request struct {
	// Type holds the type of object to act on (the facade name).
	Type string

	// Version holds the version of Type we will be acting on.
	Version int

	// Id holds the id of the object to act on.
	Id string

	// Action holds the action to invoke on the remote object.
	Action string
}

// Header is a header written before every RPC call. The controller only
// ever sends responses to a client connection.
type Header struct {
	// RequestId holds the sequence number of the request.
	RequestId uint64

	// Request holds the action to invoke.
	Request Request

	// Error holds the error, if any.
	Error string

	// ErrorCode holds the code of the error, if any.
	ErrorCode string
}

// IsRequest returns whether the header represents an RPC request. If
// it is not a request, it is a response.
func (hdr *Header) IsRequest() bool {
	return hdr.Request.Type != "" || hdr.Request.Action != ""
}

// Conn represents the client end of an RPC connection. There may be
// multiple outstanding Calls associated with a single Conn, and a Conn
// may be used by multiple goroutines simultaneously.
type Conn struct {
	// codec holds the underlying RPC connection.
	codec Codec

	// sending guards the write side of the codec - it ensures
	// that codec.WriteMessage is not called concurrently.
	sending sync.Mutex

	// mutex guards the following values.
	mutex sync.Mutex

	// reqId holds the latest client request id.
	reqId uint64

	// clientPending holds all pending client requests.
	clientPending map[uint64]*Call

	// tombstones records requests abandoned by their callers, so that
	// late responses can be dropped quietly.
	tombstones map[uint64]struct{}

	// closing is set when the connection is shutting down via
	// Close. When this is set, no more client requests will be
	// initiated.
	closing bool

	// shutdown is set when the input loop terminates.
	shutdown bool

	// dead is closed when the input loop terminates.
	dead chan struct{}

	// inputLoopError holds the error that caused the input loop to
	// terminate prematurely. It is set before dead is closed.
	inputLoopError error
}

// NewConn creates a new connection that uses the given codec for
// transport, but it does not start it. Conn.Start must be called before
// any requests are sent.
func NewConn(codec Codec) *Conn {
	return &Conn{
		codec:         codec,
		clientPending: make(map[uint64]*Call),
		tombstones:    make(map[uint64]struct{}),
	}
}

// Start starts the RPC connection running. It has no effect if it has
// already been called.
func (conn *Conn) Start() {
	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	if conn.dead == nil {
		conn.dead = make(chan struct{})
		go conn.input()
	}
}

// Dead returns a channel that is closed when the connection
// has been closed or the underlying transport has received
// an error. There may still be outstanding requests.
func (conn *Conn) Dead() <-chan struct{} {
	return conn.dead
}

// Close closes the connection and its underlying codec; it returns when
// all requests have been terminated.
func (conn *Conn) Close() error {
	conn.mutex.Lock()
	if conn.closing {
		conn.mutex.Unlock()
		return errors.New("already closed")
	}
	conn.closing = true
	dead := conn.dead
	conn.mutex.Unlock()

	// Closing the codec should cause the input loop to terminate.
	if err := conn.codec.Close(); err != nil {
		logger.Infof("rpc: error closing codec: %v", err)
	}
	if dead != nil {
		<-dead
	}
	return conn.inputLoopError
}

// ErrorCoder represents an any error that has an associated
// error code. An error code is a short string that represents the
// kind of an error.
type ErrorCoder interface {
	ErrorCode() string
}

// input reads messages from the connection and handles them
// appropriately.
func (conn *Conn) input() {
	err := conn.loop()
	conn.sending.Lock()
	defer conn.sending.Unlock()
	conn.mutex.Lock()
	defer conn.mutex.Unlock()

	if conn.closing || errors.Cause(err) == io.EOF {
		err = ErrShutdown
	} else {
		// Make the error available for Conn.Close to see.
		conn.inputLoopError = err
	}
	// Terminate all client requests.
	for _, call := range conn.clientPending {
		call.Error = err
		call.done()
	}
	conn.clientPending = nil
	conn.shutdown = true
	close(conn.dead)
}

// loop implements the looping part of Conn.input.
func (conn *Conn) loop() error {
	for {
		var hdr Header
		if err := conn.codec.ReadHeader(&hdr); err != nil {
			return err
		}
		var err error
		if hdr.IsRequest() {
			// A client connection serves no methods.
			logger.Debugf("rpc: discarding unexpected request %q on %q", hdr.Request.Action, hdr.Request.Type)
			err = conn.codec.ReadBody(nil)
		} else {
			err = conn.handleResponse(&hdr)
		}
		if err != nil {
			return err
		}
	}
}
