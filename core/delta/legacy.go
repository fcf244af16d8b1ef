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

// Legacy returns the handlers for Juju 1.x controllers.
func Legacy() Handlers {
	return Handlers{
		params.KindService:    legacyServiceHandler,
		params.KindUnit:       legacyUnitHandler,
		params.KindMachine:    legacyMachineHandler,
		params.KindRelation:   legacyRelationHandler,
		params.KindAnnotation: legacyAnnotationHandler,
	}
}

func legacyServiceHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.LegacyServiceInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding service")
	}
	if info.Name == "" {
		return errors.NotValidf("service without name")
	}
	db.ApplyApplication(action, modeldb.Application{
		Name:        info.Name,
		CharmURL:    info.CharmURL,
		Exposed:     info.Exposed,
		Life:        life.Normalise(info.Life),
		MinUnits:    info.MinUnits,
		Subordinate: info.Subordinate,
		Constraints: info.Constraints,
		Config:      info.Config,
		Status:      legacyStatusInfo(info.Status),
	})
	return nil
}

func legacyUnitHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.LegacyUnitInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding unit")
	}
	if info.Name == "" {
		return errors.NotValidf("unit without name")
	}
	// Controllers before 1.24 only send the flat status fields.
	display := status.StatusInfo{
		Status:  status.Status(info.Status),
		Message: info.StatusInfo,
		Data:    info.StatusData,
	}
	agent := legacyStatusInfo(info.AgentStatus)
	workload := legacyStatusInfo(info.WorkloadStatus)
	if agent.Status != "" || workload.Status != "" {
		display = status.UnitDisplayStatus(agent, workload)
	}
	db.ApplyUnit(action, modeldb.Unit{
		Name:           info.Name,
		Application:    info.Service,
		Series:         info.Series,
		CharmURL:       info.CharmURL,
		MachineId:      info.MachineId,
		PublicAddress:  info.PublicAddress,
		PrivateAddress: info.PrivateAddress,
		OpenPorts:      legacyOpenPorts(info.Ports),
		Subordinate:    info.Subordinate,
		AgentState:     display.Status,
		AgentStateInfo: display.Message,
		AgentStateData: display.Data,
		WorkloadStatus: workload,
		AgentStatus:    agent,
	})
	return nil
}

func legacyMachineHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.LegacyMachineInfo
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
		AgentState:          status.Status(info.Status),
		AgentStateInfo:      info.StatusInfo,
		AgentStateData:      info.StatusData,
		Hardware:            legacyHardware(info.HardwareCharacteristics),
		Jobs:                info.Jobs,
		SupportedContainers: info.SupportedContainers,
		HasVote:             info.HasVote,
		WantsVote:           info.WantsVote,
	})
	return nil
}

func legacyRelationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.LegacyRelationInfo
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
			Application: ep.ServiceName,
			Name:        ep.Relation.Name,
			Role:        ep.Relation.Role,
		})
	}
	db.ApplyRelation(action, rel)
	return nil
}

func legacyAnnotationHandler(db *modeldb.DB, action modeldb.Action, change json.RawMessage) error {
	var info params.LegacyAnnotationInfo
	if err := json.Unmarshal(change, &info); err != nil {
		return errors.Annotate(err, "decoding annotation")
	}
	return applyAnnotations(db, action, info.Tag, info.Annotations)
}
