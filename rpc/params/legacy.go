// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"time"
)

// The types in this file describe delta payloads sent by Juju 1.x
// controllers, which use PascalCase keys and call applications
// "services".

// LegacyStatusInfo is the 1.x shape of StatusInfo.
type LegacyStatusInfo struct {
	Err     *Error                 `json:"Err,omitempty"`
	Current string                 `json:"Current"`
	Message string                 `json:"Message"`
	Since   *time.Time             `json:"Since,omitempty"`
	Version string                 `json:"Version"`
	Data    map[string]interface{} `json:"Data,omitempty"`
}

// LegacyServiceInfo holds the information about a service.
type LegacyServiceInfo struct {
	EnvUUID     string                 `json:"EnvUUID"`
	Name        string                 `json:"Name"`
	Exposed     bool                   `json:"Exposed"`
	CharmURL    string                 `json:"CharmURL"`
	OwnerTag    string                 `json:"OwnerTag"`
	Life        string                 `json:"Life"`
	MinUnits    int                    `json:"MinUnits"`
	Constraints map[string]interface{} `json:"Constraints"`
	Config      map[string]interface{} `json:"Config,omitempty"`
	Subordinate bool                   `json:"Subordinate"`
	Status      LegacyStatusInfo       `json:"Status"`
}

// LegacyPort is the 1.x shape of Port.
type LegacyPort struct {
	Protocol string `json:"Protocol"`
	Number   int    `json:"Number"`
}

// LegacyUnitInfo holds the information about a unit. Controllers before
// 1.24 only send the flat Status, StatusInfo and StatusData fields.
type LegacyUnitInfo struct {
	EnvUUID        string                 `json:"EnvUUID"`
	Name           string                 `json:"Name"`
	Service        string                 `json:"Service"`
	Series         string                 `json:"Series"`
	CharmURL       string                 `json:"CharmURL"`
	PublicAddress  string                 `json:"PublicAddress"`
	PrivateAddress string                 `json:"PrivateAddress"`
	MachineId      string                 `json:"MachineId"`
	Ports          []LegacyPort           `json:"Ports"`
	Status         string                 `json:"Status"`
	StatusInfo     string                 `json:"StatusInfo"`
	StatusData     map[string]interface{} `json:"StatusData"`
	Subordinate    bool                   `json:"Subordinate"`
	WorkloadStatus LegacyStatusInfo       `json:"WorkloadStatus"`
	AgentStatus    LegacyStatusInfo       `json:"AgentStatus"`
}

// LegacyAddress is the 1.x shape of Address.
type LegacyAddress struct {
	Value       string `json:"Value"`
	Type        string `json:"Type"`
	NetworkName string `json:"NetworkName"`
	Scope       string `json:"Scope"`
}

// LegacyHardwareCharacteristics is the 1.x shape of
// HardwareCharacteristics.
type LegacyHardwareCharacteristics struct {
	Arch             *string   `json:"Arch,omitempty"`
	Mem              *uint64   `json:"Mem,omitempty"`
	RootDisk         *uint64   `json:"RootDisk,omitempty"`
	CpuCores         *uint64   `json:"CpuCores,omitempty"`
	CpuPower         *uint64   `json:"CpuPower,omitempty"`
	Tags             *[]string `json:"Tags,omitempty"`
	AvailabilityZone *string   `json:"AvailabilityZone,omitempty"`
}

// LegacyMachineInfo holds the information about a machine.
type LegacyMachineInfo struct {
	EnvUUID                  string                         `json:"EnvUUID"`
	Id                       string                         `json:"Id"`
	InstanceId               string                         `json:"InstanceId"`
	Status                   string                         `json:"Status"`
	StatusInfo               string                         `json:"StatusInfo"`
	StatusData               map[string]interface{}         `json:"StatusData"`
	Life                     string                         `json:"Life"`
	Series                   string                         `json:"Series"`
	SupportedContainers      []string                       `json:"SupportedContainers"`
	SupportedContainersKnown bool                           `json:"SupportedContainersKnown"`
	HardwareCharacteristics  *LegacyHardwareCharacteristics `json:"HardwareCharacteristics,omitempty"`
	Jobs                     []string                       `json:"Jobs"`
	Addresses                []LegacyAddress                `json:"Addresses"`
	HasVote                  bool                           `json:"HasVote"`
	WantsVote                bool                           `json:"WantsVote"`
}

// LegacyCharmRelation is the 1.x shape of CharmRelation.
type LegacyCharmRelation struct {
	Name      string `json:"Name"`
	Role      string `json:"Role"`
	Interface string `json:"Interface"`
	Optional  bool   `json:"Optional"`
	Limit     int    `json:"Limit"`
	Scope     string `json:"Scope"`
}

// LegacyEndpoint holds a service-relation pair.
type LegacyEndpoint struct {
	ServiceName string              `json:"ServiceName"`
	Relation    LegacyCharmRelation `json:"Relation"`
}

// LegacyRelationInfo holds the information about a relation.
type LegacyRelationInfo struct {
	EnvUUID   string           `json:"EnvUUID"`
	Key       string           `json:"Key"`
	Id        int              `json:"Id"`
	Endpoints []LegacyEndpoint `json:"Endpoints"`
}

// LegacyAnnotationInfo holds the annotations set on an entity.
type LegacyAnnotationInfo struct {
	EnvUUID     string            `json:"EnvUUID"`
	Tag         string            `json:"Tag"`
	Annotations map[string]string `json:"Annotations"`
}
