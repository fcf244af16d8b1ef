// Copyright 2012, 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"
	"strings"

	"github.com/juju/errors"
)

// ErrShutdown is returned when a request is made on a connection that is
// shutting down.
const ErrShutdown = errors.ConstError("connection is shut down")

// IsShutdownErr returns true if the error is ErrShutdown.
func IsShutdownErr(err error) bool {
	return errors.Is(err, ErrShutdown)
}

const codeNotImplemented = "not implemented"

// Call represents an active RPC.
type Call struct {
	Request
	Params   interface{}
	Response interface{}
	Error    error
	Done     chan *Call
}

// RequestError represents an error returned from an RPC request.
type RequestError struct {
	Message string
	Code    string
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

// ErrorCode returns the error code associated with the error.
func (e *RequestError) ErrorCode() string {
	return e.Code
}

func (conn *Conn) send(call *Call) uint64 {
	conn.sending.Lock()
	defer conn.sending.Unlock()

	// Register this call.
	conn.mutex.Lock()
	if conn.dead == nil {
		call.Error = errors.New("rpc: call made when connection not started")
		conn.mutex.Unlock()
		call.done()
		return 0
	}
	if conn.closing || conn.shutdown {
		call.Error = ErrShutdown
		conn.mutex.Unlock()
		call.done()
		return 0
	}
	conn.reqId++
	reqId := conn.reqId
	conn.clientPending[reqId] = call
	conn.mutex.Unlock()

	// Encode and send the request.
	hdr := &Header{
		RequestId: reqId,
		Request:   call.Request,
	}
	params := call.Params
	if params == nil {
		params = struct{}{}
	}

	if err := conn.codec.WriteMessage(hdr, params); err != nil {
		conn.mutex.Lock()
		call = conn.clientPending[reqId]
		delete(conn.clientPending, reqId)
		conn.mutex.Unlock()
		if call != nil {
			call.Error = errors.Trace(err)
			call.done()
		}
	}
	return reqId
}

// cancel forgets a pending call. A call whose response has already
// been handled leaves no tombstone behind.
func (conn *Conn) cancel(reqID uint64) {
	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	if _, ok := conn.clientPending[reqID]; !ok {
		return
	}
	conn.tombstones[reqID] = struct{}{}
	delete(conn.clientPending, reqID)
}

func (conn *Conn) handleResponse(hdr *Header) error {
	reqId := hdr.RequestId
	conn.mutex.Lock()
	call := conn.clientPending[reqId]
	delete(conn.clientPending, reqId)
	_, cancelled := conn.tombstones[reqId]
	// Always remove the tombstone after a response to prevent
	// unbounded growth.
	delete(conn.tombstones, reqId)
	conn.mutex.Unlock()

	var err error
	switch {
	case call == nil:
		// We've got no pending call. Either the caller gave up
		// waiting or the write partially failed; read and discard
		// the body.
		err = conn.readBody(nil)
		if cancelled {
			return nil
		}
	case hdr.Error != "":
		// Report unknown requests with CodeNotImplemented.
		if strings.HasPrefix(hdr.Error, "no such request ") && hdr.ErrorCode == "" {
			hdr.ErrorCode = codeNotImplemented
		}
		call.Error = &RequestError{
			Message: hdr.Error,
			Code:    hdr.ErrorCode,
		}
		err = conn.readBody(nil)
		call.done()
	default:
		err = conn.readBody(call.Response)
		call.done()
	}
	return errors.Annotate(err, "error handling response")
}

func (conn *Conn) readBody(resp interface{}) error {
	if resp == nil {
		resp = &struct{}{}
	}
	return conn.codec.ReadBody(resp)
}

func (call *Call) done() {
	select {
	case call.Done <- call:
		// ok
	default:
		// We don't want to block here. The Done channel always has
		// room for a single reply.
		logger.Errorf("discarding Call reply due to insufficient Done chan capacity")
	}
}

// Call invokes the named action on the object of the given type with the given
// id. The returned values will be stored in response, which should be a pointer.
// If the action fails remotely, the error will have a cause of type RequestError.
// The params value may be nil if no parameters are provided; the response value
// may be nil to indicate that any result should be discarded.
func (conn *Conn) Call(ctx context.Context, req Request, params, response interface{}) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	call := &Call{
		Request:  req,
		Params:   params,
		Response: response,
		Done:     make(chan *Call, 1),
	}
	reqID := conn.send(call)
	if reqID == 0 {
		if call.Error != nil {
			return call.Error
		}
		return ErrShutdown
	}

	select {
	case <-ctx.Done():
		conn.cancel(reqID)
		return errors.Trace(ctx.Err())
	case result := <-call.Done:
		return result.Error
	}
}
