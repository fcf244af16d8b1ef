// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package delta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"

	"github.com/juju/juju-gui/core/life"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/core/status"
	"github.com/juju/juju-gui/rpc/params"
)

// Python returns the handlers for deltas sent by the Python era
// environments. Their payloads are already in client shape: snake_case
// keys, an "id" key, and annotations carried on the entity itself.
func Python() Handlers {
	return Handlers{
		params.KindService:    pyServiceHandler,
		params.KindUnit:       pyUnitHandler,
		params.KindMachine:    pyMachineHandler,
		params.KindRelation:   pyRelationHandler,
		params.KindAnnotation: pyAnnotationHandler,
	}
}

type pyService struct {
	Id          string                 `mapstructure:"id"`
	Charm       string                 `mapstructure:"charm"`
	Exposed     bool                   `mapstructure:"exposed"`
	Life        string                 `mapstructure:"life"`
	Subordinate bool                   `mapstructure:"subordinate"`
	Constraints map[string]interface{} `mapstructure:"constraints"`
	Config      map[string]interface{} `mapstructure:"config"`
	Annotations map[string]string      `mapstructure:"annotations"`
}

type pyUnit struct {
	Id             string                 `mapstructure:"id"`
	Service        string                 `mapstructure:"service"`
	Machine        string                 `mapstructure:"machine"`
	AgentState     string                 `mapstructure:"agent_state"`
	AgentStateInfo string                 `mapstructure:"agent_state_info"`
	AgentStateData map[string]interface{} `mapstructure:"agent_state_data"`
	PublicAddress  string                 `mapstructure:"public_address"`
	PrivateAddress string                 `mapstructure:"private_address"`
	OpenPorts      []interface{}          `mapstructure:"open_ports"`
	Subordinate    bool                   `mapstructure:"subordinate"`
	Annotations    map[string]string      `mapstructure:"annotations"`
}

type pyMachine struct {
	Id             string            `mapstructure:"id"`
	InstanceId     string            `mapstructure:"instance_id"`
	AgentState     string            `mapstructure:"agent_state"`
	AgentStateInfo string            `mapstructure:"agent_state_info"`
	PublicAddress  string            `mapstructure:"public_address"`
	Annotations    map[string]string `mapstructure:"annotations"`
}

type pyRelation struct {
	Id        string        `mapstructure:"id"`
	Interface string        `mapstructure:"interface"`
	Scope     string        `mapstructure:"scope"`
	Endpoints []interface{} `mapstructure:"endpoints"`
}

type pyEndpoint struct {
	Name string `mapstructure:"name"`
	Role string `mapstructure:"role"`
}

type pyAnnotation struct {
	Id          string            `mapstructure:"id"`
	Annotations map[string]string `mapstructure:"annotations"`
}

// decodePython decodes a client shaped payload into out, accepting
// loosely typed values such as numbers sent as strings.
func decodePython(change json.RawMessage, out interface{}) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(change, &raw); err != nil {
		return errors.Trace(err)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(decoder.Decode(raw))
}

func pyServiceHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info pyService
	if err := decodePython(change, &info); err != nil {
		return errors.Annotate(err, "decoding service")
	}
	if info.Id == "" {
		return errors.NotValidf("service without id")
	}
	db.ApplyApplication(action, modeldb.Application{
		Name:        info.Id,
		CharmURL:    info.Charm,
		Exposed:     info.Exposed,
		Life:        life.Normalise(info.Life),
		Subordinate: info.Subordinate,
		Constraints: info.Constraints,
		Config:      info.Config,
	})
	if action != modeldb.Remove && len(info.Annotations) > 0 {
		db.ApplyAnnotations(action, modeldb.KindApplication, info.Id, info.Annotations)
	}
	return nil
}

func pyUnitHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info pyUnit
	if err := decodePython(change, &info); err != nil {
		return errors.Annotate(err, "decoding unit")
	}
	if info.Id == "" {
		return errors.NotValidf("unit without id")
	}
	appName := info.Service
	if appName == "" {
		appName, _, _ = strings.Cut(info.Id, "/")
	}
	var ports []string
	for _, p := range info.OpenPorts {
		switch p := p.(type) {
		case string:
			ports = append(ports, p)
		case float64:
			ports = append(ports, formatPort(int(p), "tcp"))
		default:
			ports = append(ports, fmt.Sprint(p))
		}
	}
	db.ApplyUnit(action, modeldb.Unit{
		Name:           info.Id,
		Application:    appName,
		MachineId:      info.Machine,
		PublicAddress:  info.PublicAddress,
		PrivateAddress: info.PrivateAddress,
		OpenPorts:      ports,
		Subordinate:    info.Subordinate,
		AgentState:     status.Status(info.AgentState),
		AgentStateInfo: info.AgentStateInfo,
		AgentStateData: info.AgentStateData,
	})
	if action != modeldb.Remove && len(info.Annotations) > 0 {
		db.ApplyAnnotations(action, modeldb.KindUnit, info.Id, info.Annotations)
	}
	return nil
}

func pyMachineHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info pyMachine
	if err := decodePython(change, &info); err != nil {
		return errors.Annotate(err, "decoding machine")
	}
	if info.Id == "" {
		return errors.NotValidf("machine without id")
	}
	m := modeldb.Machine{
		Id:             info.Id,
		InstanceId:     info.InstanceId,
		AgentState:     status.Status(info.AgentState),
		AgentStateInfo: info.AgentStateInfo,
	}
	if info.PublicAddress != "" {
		m.Addresses = []modeldb.Address{{Value: info.PublicAddress, Scope: "public"}}
	}
	db.ApplyMachine(action, m)
	if action != modeldb.Remove && len(info.Annotations) > 0 {
		db.ApplyAnnotations(action, modeldb.KindMachine, info.Id, info.Annotations)
	}
	return nil
}

// pyRelationHandler decodes endpoints sent as
// [["wordpress", {"name": "db", "role": "client"}], ...].
func pyRelationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info pyRelation
	if err := decodePython(change, &info); err != nil {
		return errors.Annotate(err, "decoding relation")
	}
	if info.Id == "" {
		return errors.NotValidf("relation without id")
	}
	rel := modeldb.Relation{
		Key:       info.Id,
		Interface: info.Interface,
		Scope:     info.Scope,
	}
	for _, raw := range info.Endpoints {
		pair, ok := raw.([]interface{})
		if !ok || len(pair) != 2 {
			return errors.NotValidf("relation endpoint %v", raw)
		}
		appName, ok := pair[0].(string)
		if !ok {
			return errors.NotValidf("relation endpoint application %v", pair[0])
		}
		var ep pyEndpoint
		if err := mapstructure.Decode(pair[1], &ep); err != nil {
			return errors.Annotate(err, "decoding relation endpoint")
		}
		rel.Endpoints = append(rel.Endpoints, modeldb.Endpoint{
			Application: appName,
			Name:        ep.Name,
			Role:        ep.Role,
		})
	}
	db.ApplyRelation(action, rel)
	return nil
}

func pyAnnotationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info pyAnnotation
	if err := decodePython(change, &info); err != nil {
		return errors.Annotate(err, "decoding annotation")
	}
	return applyAnnotations(db, action, info.Id, info.Annotations)
}
