// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modeldb

import (
	"time"

	"github.com/juju/juju-gui/core/life"
	"github.com/juju/juju-gui/core/status"
)

// Application is the record of an application (a service in Juju 1.x).
type Application struct {
	Name            string
	CharmURL        string
	Exposed         bool
	Life            life.Value
	MinUnits        int
	Subordinate     bool
	Constraints     map[string]interface{}
	Config          map[string]interface{}
	Status          status.StatusInfo
	WorkloadVersion string

	// Ghost marks a placeholder created by the client that the
	// controller has not yet confirmed.
	Ghost bool

	Annotations map[string]string

	// Units holds copies of the application's units. It is filled in
	// on the copies returned by the database and ignored on input.
	Units []Unit
}

// Unit is the record of a unit.
type Unit struct {
	Name           string
	Application    string
	Series         string
	CharmURL       string
	Life           life.Value
	MachineId      string
	PublicAddress  string
	PrivateAddress string
	// OpenPorts holds ports in "<number>/<protocol>" form.
	OpenPorts   []string
	Subordinate bool
	Principal   string

	// AgentState, AgentStateInfo and AgentStateData hold the agent
	// status as shown to users.
	AgentState     status.Status
	AgentStateInfo string
	AgentStateData map[string]interface{}

	WorkloadStatus status.StatusInfo
	AgentStatus    status.StatusInfo

	Ghost       bool
	Annotations map[string]string
}

// Address is a network address of a machine.
type Address struct {
	Value string
	Type  string
	Scope string
}

// Hardware describes the hardware of a machine instance. Zero values
// mean unknown.
type Hardware struct {
	Arch             string
	Mem              uint64
	RootDisk         uint64
	CPUCores         uint64
	CPUPower         uint64
	Tags             []string
	AvailabilityZone string
}

// Machine is the record of a machine or container.
type Machine struct {
	Id         string
	InstanceId string
	Series     string
	Life       life.Value
	Addresses  []Address

	AgentState     status.Status
	AgentStateInfo string
	AgentStateData map[string]interface{}
	InstanceStatus status.StatusInfo

	Hardware            *Hardware
	Jobs                []string
	SupportedContainers []string
	HasVote             bool
	WantsVote           bool

	Annotations map[string]string
}

// Endpoint is one side of a relation.
type Endpoint struct {
	Application string
	Name        string
	Role        string
}

// Relation is the record of a relation between applications. It is
// identified by its key, for example "wordpress:db mysql:server".
type Relation struct {
	Key       string
	Id        int
	Interface string
	Scope     string
	Endpoints []Endpoint

	Annotations map[string]string
}

// Applications returns the names of the applications joined by the
// relation, in endpoint order.
func (r Relation) Applications() []string {
	names := make([]string, 0, len(r.Endpoints))
	for _, ep := range r.Endpoints {
		names = append(names, ep.Application)
	}
	return names
}

// Model is the record of the model itself.
type Model struct {
	UUID        string
	Name        string
	Owner       string
	Life        life.Value
	Config      map[string]interface{}
	Status      status.StatusInfo
	Annotations map[string]string
}

// Snapshot is a deep copy of the whole database.
type Snapshot struct {
	Model        Model
	Applications map[string]Application
	Units        map[string]Unit
	Machines     map[string]Machine
	Relations    map[string]Relation
	// Pending maps application names to the keys of relations waiting
	// for them.
	Pending map[string][]string
}

func (a Application) copy() Application {
	a.Constraints = copyDataMap(a.Constraints)
	a.Config = copyDataMap(a.Config)
	a.Status = copyStatusInfo(a.Status)
	a.Annotations = copyStringMap(a.Annotations)
	a.Units = nil
	return a
}

func (u Unit) copy() Unit {
	u.OpenPorts = copyStrings(u.OpenPorts)
	u.AgentStateData = copyDataMap(u.AgentStateData)
	u.WorkloadStatus = copyStatusInfo(u.WorkloadStatus)
	u.AgentStatus = copyStatusInfo(u.AgentStatus)
	u.Annotations = copyStringMap(u.Annotations)
	return u
}

func (m Machine) copy() Machine {
	if m.Addresses != nil {
		m.Addresses = append([]Address(nil), m.Addresses...)
	}
	m.AgentStateData = copyDataMap(m.AgentStateData)
	m.InstanceStatus = copyStatusInfo(m.InstanceStatus)
	if m.Hardware != nil {
		hw := *m.Hardware
		hw.Tags = copyStrings(hw.Tags)
		m.Hardware = &hw
	}
	m.Jobs = copyStrings(m.Jobs)
	m.SupportedContainers = copyStrings(m.SupportedContainers)
	m.Annotations = copyStringMap(m.Annotations)
	return m
}

func (r Relation) copy() Relation {
	if r.Endpoints != nil {
		r.Endpoints = append([]Endpoint(nil), r.Endpoints...)
	}
	r.Annotations = copyStringMap(r.Annotations)
	return r
}

func (m Model) copy() Model {
	m.Config = copyDataMap(m.Config)
	m.Status = copyStatusInfo(m.Status)
	m.Annotations = copyStringMap(m.Annotations)
	return m
}

func copyStatusInfo(info status.StatusInfo) status.StatusInfo {
	var cSince *time.Time
	if info.Since != nil {
		s := *info.Since
		cSince = &s
	}
	return status.StatusInfo{
		Status:  info.Status,
		Message: info.Message,
		Data:    copyDataMap(info.Data),
		Since:   cSince,
	}
}

func copyDataMap(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	cData := make(map[string]interface{}, len(data))
	for k, v := range data {
		cData[k] = v
	}
	return cData
}

func copyStringMap(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	cData := make(map[string]string, len(data))
	for k, v := range data {
		cData[k] = v
	}
	return cData
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
