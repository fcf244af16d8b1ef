// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"time"
)

// Entity kinds sent by Juju 2.x and later controllers.
const (
	KindApplication = "application"
	KindService     = "service"
	KindUnit        = "unit"
	KindMachine     = "machine"
	KindRelation    = "relation"
	KindAnnotation  = "annotation"
	KindModel       = "model"
)

// StatusInfo holds the status of an entity as reported in a delta.
type StatusInfo struct {
	Err     *Error                 `json:"err,omitempty"`
	Current string                 `json:"current"`
	Message string                 `json:"message"`
	Since   *time.Time             `json:"since,omitempty"`
	Version string                 `json:"version"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// ApplicationInfo holds the information about an application that is
// tracked by the controller's AllWatcher.
type ApplicationInfo struct {
	ModelUUID       string                 `json:"model-uuid"`
	Name            string                 `json:"name"`
	Exposed         bool                   `json:"exposed"`
	CharmURL        string                 `json:"charm-url"`
	OwnerTag        string                 `json:"owner-tag"`
	Life            string                 `json:"life"`
	MinUnits        int                    `json:"min-units"`
	Constraints     map[string]interface{} `json:"constraints"`
	Config          map[string]interface{} `json:"config,omitempty"`
	Subordinate     bool                   `json:"subordinate"`
	Status          StatusInfo             `json:"status"`
	WorkloadVersion string                 `json:"workload-version"`
}

// Port identifies a network port number for a particular protocol.
type Port struct {
	Protocol string `json:"protocol"`
	Number   int    `json:"number"`
}

// PortRange represents a single range of ports.
type PortRange struct {
	FromPort int    `json:"from-port"`
	ToPort   int    `json:"to-port"`
	Protocol string `json:"protocol"`
}

// UnitInfo holds the information about a unit that is tracked by the
// controller's AllWatcher.
type UnitInfo struct {
	ModelUUID      string      `json:"model-uuid"`
	Name           string      `json:"name"`
	Application    string      `json:"application"`
	Series         string      `json:"series"`
	CharmURL       string      `json:"charm-url"`
	Life           string      `json:"life"`
	PublicAddress  string      `json:"public-address"`
	PrivateAddress string      `json:"private-address"`
	MachineId      string      `json:"machine-id"`
	Ports          []Port      `json:"ports"`
	PortRanges     []PortRange `json:"port-ranges"`
	Principal      string      `json:"principal"`
	Subordinate    bool        `json:"subordinate"`
	// Workload and agent state are modelled separately.
	WorkloadStatus StatusInfo `json:"workload-status"`
	AgentStatus    StatusInfo `json:"agent-status"`
}

// Address describes a network address.
type Address struct {
	Value     string `json:"value"`
	Type      string `json:"type"`
	Scope     string `json:"scope"`
	SpaceName string `json:"space-name,omitempty"`
}

// HardwareCharacteristics describes the hardware of a machine instance.
type HardwareCharacteristics struct {
	Arch             *string   `json:"arch,omitempty"`
	Mem              *uint64   `json:"mem,omitempty"`
	RootDisk         *uint64   `json:"root-disk,omitempty"`
	CpuCores         *uint64   `json:"cpu-cores,omitempty"`
	CpuPower         *uint64   `json:"cpu-power,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	AvailabilityZone *string   `json:"availability-zone,omitempty"`
}

// MachineInfo holds the information about a machine that is tracked by
// the controller's AllWatcher.
type MachineInfo struct {
	ModelUUID                string                   `json:"model-uuid"`
	Id                       string                   `json:"id"`
	InstanceId               string                   `json:"instance-id"`
	AgentStatus              StatusInfo               `json:"agent-status"`
	InstanceStatus           StatusInfo               `json:"instance-status"`
	Life                     string                   `json:"life"`
	Config                   map[string]interface{}   `json:"config,omitempty"`
	Series                   string                   `json:"series"`
	SupportedContainers      []string                 `json:"supported-containers"`
	SupportedContainersKnown bool                     `json:"supported-containers-known"`
	HardwareCharacteristics  *HardwareCharacteristics `json:"hardware-characteristics,omitempty"`
	Jobs                     []string                 `json:"jobs"`
	Addresses                []Address                `json:"addresses"`
	HasVote                  bool                     `json:"has-vote"`
	WantsVote                bool                     `json:"wants-vote"`
}

// CharmRelation describes one side of a relation as declared by a charm.
type CharmRelation struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Interface string `json:"interface"`
	Optional  bool   `json:"optional"`
	Limit     int    `json:"limit"`
	Scope     string `json:"scope"`
}

// Endpoint holds an application-relation pair.
type Endpoint struct {
	ApplicationName string        `json:"application-name"`
	Relation        CharmRelation `json:"relation"`
}

// RelationInfo holds the information about a relation that is tracked
// by the controller's AllWatcher.
type RelationInfo struct {
	ModelUUID string     `json:"model-uuid"`
	Key       string     `json:"key"`
	Id        int        `json:"id"`
	Endpoints []Endpoint `json:"endpoints"`
}

// AnnotationInfo holds the annotations set on an entity identified by tag.
type AnnotationInfo struct {
	ModelUUID   string            `json:"model-uuid"`
	Tag         string            `json:"tag"`
	Annotations map[string]string `json:"annotations"`
}

// ModelUpdate holds the information about the model itself.
type ModelUpdate struct {
	ModelUUID      string                 `json:"model-uuid"`
	Name           string                 `json:"name"`
	Life           string                 `json:"life"`
	Owner          string                 `json:"owner"`
	ControllerUUID string                 `json:"controller-uuid"`
	IsController   bool                   `json:"is-controller"`
	Config         map[string]interface{} `json:"config,omitempty"`
	Status         StatusInfo             `json:"status"`
	Constraints    map[string]interface{} `json:"constraints"`
}
