// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"bytes"
	"encoding/json"

	"github.com/juju/errors"
)

// Delta actions as they appear on the wire.
const (
	DeltaAdd    = "add"
	DeltaChange = "change"
	DeltaRemove = "remove"
)

// Delta holds a single change notification from the controller's
// AllWatcher. On the wire it is a three element array:
//
//	[kind, action, change]
//
// The change payload is kept raw; its shape depends on the kind and on
// the version of the controller that sent it. The action is not checked
// here; the dispatcher rejects unknown actions one delta at a time.
type Delta struct {
	Kind   string
	Action string
	Change json.RawMessage
}

// NewDelta returns a delta whose change is the JSON encoding of entity.
func NewDelta(kind, action string, entity interface{}) (Delta, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return Delta{}, errors.Trace(err)
	}
	return Delta{Kind: kind, Action: action, Change: data}, nil
}

// MarshalJSON implements json.Marshaler.
func (d Delta) MarshalJSON() ([]byte, error) {
	change := d.Change
	if len(change) == 0 {
		change = json.RawMessage("null")
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	kind, err := json.Marshal(d.Kind)
	if err != nil {
		return nil, err
	}
	action, err := json.Marshal(d.Action)
	if err != nil {
		return nil, err
	}
	buf.Write(kind)
	buf.WriteByte(',')
	buf.Write(action)
	buf.WriteByte(',')
	buf.Write(change)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return errors.Trace(err)
	}
	if len(elements) != 3 {
		return errors.NotValidf("delta with %d elements", len(elements))
	}
	var kind, action string
	if err := json.Unmarshal(elements[0], &kind); err != nil {
		return errors.Annotate(err, "delta kind")
	}
	if err := json.Unmarshal(elements[1], &action); err != nil {
		return errors.Annotate(err, "delta action")
	}
	d.Kind = kind
	d.Action = action
	d.Change = append(json.RawMessage(nil), elements[2]...)
	return nil
}
