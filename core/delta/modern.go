// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package delta

import (
	"encoding/json"

	"github.com/juju/errors"

	"github.com/juju/juju-gui/core/life"
	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/core/status"
	"github.com/juju/juju-gui/rpc/params"
)

// Modern returns the handlers for Juju 2.x and later controllers.
func Modern() Handlers {
	return Handlers{
		params.KindApplication: applicationHandler,
		params.KindService:     applicationHandler,
		params.KindUnit:        unitHandler,
		params.KindMachine:     machineHandler,
		params.KindRelation:    relationHandler,
		params.KindAnnotation:  annotationHandler,
		params.KindModel:       modelHandler,
	}
}

func applicationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.ApplicationInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding application")
	}
	if info.Name == "" {
		return errors.NotValidf("application without name")
	}
	db.ApplyApplication(action, modeldb.Application{
		Name:            info.Name,
		CharmURL:        info.CharmURL,
		Exposed:         info.Exposed,
		Life:            life.Normalise(info.Life),
		MinUnits:        info.MinUnits,
		Subordinate:     info.Subordinate,
		Constraints:     info.Constraints,
		Config:          info.Config,
		Status:          statusInfo(info.Status),
		WorkloadVersion: info.WorkloadVersion,
	})
	return nil
}

func unitHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.UnitInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding unit")
	}
	if info.Name == "" {
		return errors.NotValidf("unit without name")
	}
	agent := statusInfo(info.AgentStatus)
	workload := statusInfo(info.WorkloadStatus)
	display := status.UnitDisplayStatus(agent, workload)
	db.ApplyUnit(action, modeldb.Unit{
		Name:           info.Name,
		Application:    info.Application,
		Series:         info.Series,
		CharmURL:       info.CharmURL,
		Life:           life.Normalise(info.Life),
		MachineId:      info.MachineId,
		PublicAddress:  info.PublicAddress,
		PrivateAddress: info.PrivateAddress,
		OpenPorts:      openPorts(info.Ports, info.PortRanges),
		Subordinate:    info.Subordinate,
		Principal:      info.Principal,
		AgentState:     display.Status,
		AgentStateInfo: display.Message,
		AgentStateData: display.Data,
		WorkloadStatus: workload,
		AgentStatus:    agent,
	})
	return nil
}

func machineHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.MachineInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding machine")
	}
	if info.Id == "" {
		return errors.NotValidf("machine without id")
	}
	var addrs []modeldb.Address
	for _, a := range info.Addresses {
		addrs = append(addrs, modeldb.Address{Value: a.Value, Type: a.Type, Scope: a.Scope})
	}
	db.ApplyMachine(action, modeldb.Machine{
		Id:                  info.Id,
		InstanceId:          info.InstanceId,
		Series:              info.Series,
		Life:                life.Normalise(info.Life),
		Addresses:           addrs,
		AgentState:          status.Status(info.AgentStatus.Current),
		AgentStateInfo:      info.AgentStatus.Message,
		AgentStateData:      info.AgentStatus.Data,
		InstanceStatus:      statusInfo(info.InstanceStatus),
		Hardware:            hardware(info.HardwareCharacteristics),
		Jobs:                info.Jobs,
		SupportedContainers: info.SupportedContainers,
		HasVote:             info.HasVote,
		WantsVote:           info.WantsVote,
	})
	return nil
}

func relationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.RelationInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding relation")
	}
	if info.Key == "" {
		return errors.NotValidf("relation without key")
	}
	rel := modeldb.Relation{Key: info.Key, Id: info.Id}
	for i, ep := range info.Endpoints {
		if i == 0 {
			rel.Interface = ep.Relation.Interface
			rel.Scope = ep.Relation.Scope
		}
		rel.Endpoints = append(rel.Endpoints, modeldb.Endpoint{
			Application: ep.ApplicationName,
			Name:        ep.Relation.Name,
			Role:        ep.Relation.Role,
		})
	}
	db.ApplyRelation(action, rel)
	return nil
}

func annotationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.AnnotationInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding annotation")
	}
	return applyAnnotations(db, action, info.Tag, info.Annotations)
}

func applyAnnotations(db *modeldb.DB, action modeldb.Action, tag string, annotations map[string]string) error {
	if tag == "" {
		return errors.NotValidf("annotation without tag")
	}
	kind, id, err := ParseEntityTag(tag)
	if err != nil {
		return errors.Trace(err)
	}
	db.ApplyAnnotations(action, kind, id, annotations)
	return nil
}

func modelHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.ModelUpdate
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding model")
	}
	db.ApplyModel(action, modeldb.Model{
		UUID:   info.ModelUUID,
		Name:   info.Name,
		Owner:  info.Owner,
		Life:   life.Normalise(info.Life),
		Config: info.Config,
		Status: statusInfo(info.Status),
	})
	return nil
}
