// Copyright 2012, 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package jsoncodec implements an rpc.Codec that exchanges JSON
// envelopes with a Juju controller. Controllers from 2.0 onwards use
// hyphenated keys ("request-id"); 1.x controllers use PascalCase keys
// ("RequestId"). Both forms are accepted on read; the form written is
// chosen when the codec is created.
package jsoncodec

import (
	"encoding/json"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/juju/juju-gui/rpc"
)

var logger = loggo.GetLogger("juju.gui.rpc.jsoncodec")

// JSONConn sends and receives messages to an underlying connection
// in JSON format.
type JSONConn interface {
	// Send sends a message.
	Send(msg interface{}) error
	// Receive receives a message into msg.
	Receive(msg interface{}) error
	Close() error
}

// Codec implements rpc.Codec for a connection.
type Codec struct {
	// msg holds the message that's just been read by ReadHeader, so
	// that the body can be read by ReadBody.
	msg         inMsg
	conn        JSONConn
	legacy      bool
	mu          sync.Mutex
	closing     bool
	logMessages bool
}

// New returns an rpc codec that uses conn to send and receive
// messages. When legacy is true requests are written with 1.x keys.
func New(conn JSONConn, legacy bool) *Codec {
	return &Codec{
		conn:        conn,
		legacy:      legacy,
		logMessages: logger.IsTraceEnabled(),
	}
}

// inMsg is the union of both envelope forms once decoded.
type inMsg struct {
	RequestId uint64
	Type      string
	Version   int
	Id        string
	Request   string
	Params    json.RawMessage
	Error     string
	ErrorCode string
	Response  json.RawMessage
}

type inMsgV1 struct {
	RequestId uint64          `json:"request-id"`
	Type      string          `json:"type"`
	Version   int             `json:"version"`
	Id        string          `json:"id"`
	Request   string          `json:"request"`
	Params    json.RawMessage `json:"params"`
	Error     string          `json:"error"`
	ErrorCode string          `json:"error-code"`
	Response  json.RawMessage `json:"response"`
}

type inMsgV0 struct {
	RequestId uint64          `json:"RequestId"`
	Type      string          `json:"Type"`
	Version   int             `json:"Version"`
	Id        string          `json:"Id"`
	Request   string          `json:"Request"`
	Params    json.RawMessage `json:"Params"`
	Error     string          `json:"Error"`
	ErrorCode string          `json:"ErrorCode"`
	Response  json.RawMessage `json:"Response"`
}

type outMsgV1 struct {
	RequestId uint64      `json:"request-id,omitempty"`
	Type      string      `json:"type,omitempty"`
	Version   int         `json:"version,omitempty"`
	Id        string      `json:"id,omitempty"`
	Request   string      `json:"request,omitempty"`
	Params    interface{} `json:"params,omitempty"`
}

type outMsgV0 struct {
	RequestId uint64      `json:"RequestId,omitempty"`
	Type      string      `json:"Type,omitempty"`
	Version   int         `json:"Version,omitempty"`
	Id        string      `json:"Id,omitempty"`
	Request   string      `json:"Request,omitempty"`
	Params    interface{} `json:"Params,omitempty"`
}

// Close implements rpc.Codec.
func (c *Codec) Close() error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Codec) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

// ReadHeader implements rpc.Codec.
func (c *Codec) ReadHeader(hdr *rpc.Header) error {
	var raw json.RawMessage
	if err := c.conn.Receive(&raw); err != nil {
		if c.isClosing() {
			// If we're closing, the error is almost certainly caused
			// by the connection being closed underneath us.
			return errors.Trace(rpc.ErrShutdown)
		}
		return errors.Annotate(err, "error receiving message")
	}
	if c.logMessages {
		logger.Tracef("<- %s", raw)
	}
	msg, err := decodeMessage(raw)
	if err != nil {
		return errors.Trace(err)
	}
	c.msg = msg
	hdr.RequestId = msg.RequestId
	hdr.Request = rpc.Request{
		Type:    msg.Type,
		Version: msg.Version,
		Id:      msg.Id,
		Action:  msg.Request,
	}
	hdr.Error = msg.Error
	hdr.ErrorCode = msg.ErrorCode
	return nil
}

func decodeMessage(raw json.RawMessage) (inMsg, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return inMsg{}, errors.Annotate(err, "cannot decode message envelope")
	}
	if _, ok := keys["request-id"]; ok {
		var m inMsgV1
		if err := json.Unmarshal(raw, &m); err != nil {
			return inMsg{}, errors.Trace(err)
		}
		return inMsg(m), nil
	}
	var m inMsgV0
	if err := json.Unmarshal(raw, &m); err != nil {
		return inMsg{}, errors.Trace(err)
	}
	return inMsg(m), nil
}

// ReadBody implements rpc.Codec.
func (c *Codec) ReadBody(body interface{}) error {
	var raw json.RawMessage
	if c.msg.Request != "" {
		raw = c.msg.Params
	} else {
		raw = c.msg.Response
	}
	if body == nil || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return errors.Trace(json.Unmarshal(raw, body))
}

// WriteMessage implements rpc.Codec.
func (c *Codec) WriteMessage(hdr *rpc.Header, body interface{}) error {
	var msg interface{}
	if c.legacy {
		msg = &outMsgV0{
			RequestId: hdr.RequestId,
			Type:      hdr.Request.Type,
			Version:   hdr.Request.Version,
			Id:        hdr.Request.Id,
			Request:   hdr.Request.Action,
			Params:    body,
		}
	} else {
		msg = &outMsgV1{
			RequestId: hdr.RequestId,
			Type:      hdr.Request.Type,
			Version:   hdr.Request.Version,
			Id:        hdr.Request.Id,
			Request:   hdr.Request.Action,
			Params:    body,
		}
	}
	if c.logMessages {
		data, err := json.Marshal(msg)
		if err != nil {
			logger.Tracef("-> marshal error: %v", err)
			return errors.Trace(err)
		}
		logger.Tracef("-> %s", data)
	}
	return errors.Trace(c.conn.Send(msg))
}
