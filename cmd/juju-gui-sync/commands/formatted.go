// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/core/status"
)

type formattedModel struct {
	Model            modelStatus                  `json:"model" yaml:"model"`
	Machines         map[string]machineStatus     `json:"machines" yaml:"machines"`
	Applications     map[string]applicationStatus `json:"applications" yaml:"applications"`
	Relations        []relationStatus             `json:"relations,omitempty" yaml:"relations,omitempty"`
	PendingRelations map[string][]string          `json:"pending-relations,omitempty" yaml:"pending-relations,omitempty"`
}

type modelStatus struct {
	UUID        string            `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Owner       string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	Life        string            `json:"life,omitempty" yaml:"life,omitempty"`
	Status      status.Status     `json:"status,omitempty" yaml:"status,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

type machineStatus struct {
	AgentState     status.Status     `json:"agent-state,omitempty" yaml:"agent-state,omitempty"`
	AgentStateInfo string            `json:"agent-state-info,omitempty" yaml:"agent-state-info,omitempty"`
	DNSName        string            `json:"dns-name,omitempty" yaml:"dns-name,omitempty"`
	InstanceId     string            `json:"instance-id,omitempty" yaml:"instance-id,omitempty"`
	Series         string            `json:"series,omitempty" yaml:"series,omitempty"`
	Life           string            `json:"life,omitempty" yaml:"life,omitempty"`
	Hardware       string            `json:"hardware,omitempty" yaml:"hardware,omitempty"`
	Annotations    map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

type applicationStatus struct {
	Charm       string                `json:"charm,omitempty" yaml:"charm,omitempty"`
	Exposed     bool                  `json:"exposed" yaml:"exposed"`
	Life        string                `json:"life,omitempty" yaml:"life,omitempty"`
	Status      status.Status         `json:"application-status,omitempty" yaml:"application-status,omitempty"`
	Ghost       bool                  `json:"ghost,omitempty" yaml:"ghost,omitempty"`
	Units       map[string]unitStatus `json:"units,omitempty" yaml:"units,omitempty"`
	Annotations map[string]string     `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

type unitStatus struct {
	AgentState     status.Status     `json:"agent-state,omitempty" yaml:"agent-state,omitempty"`
	AgentStateInfo string            `json:"agent-state-info,omitempty" yaml:"agent-state-info,omitempty"`
	Machine        string            `json:"machine,omitempty" yaml:"machine,omitempty"`
	PublicAddress  string            `json:"public-address,omitempty" yaml:"public-address,omitempty"`
	OpenPorts      []string          `json:"open-ports,omitempty" yaml:"open-ports,omitempty"`
	Subordinate    bool              `json:"subordinate,omitempty" yaml:"subordinate,omitempty"`
	Annotations    map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

type relationStatus struct {
	Key       string   `json:"key" yaml:"key"`
	Interface string   `json:"interface,omitempty" yaml:"interface,omitempty"`
	Scope     string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Endpoints []string `json:"endpoints" yaml:"endpoints"`
}

func formatModel(snap modeldb.Snapshot) formattedModel {
	out := formattedModel{
		Model: modelStatus{
			UUID:        snap.Model.UUID,
			Name:        snap.Model.Name,
			Owner:       snap.Model.Owner,
			Life:        string(snap.Model.Life),
			Status:      snap.Model.Status.Status,
			Annotations: snap.Model.Annotations,
		},
		Machines:     make(map[string]machineStatus, len(snap.Machines)),
		Applications: make(map[string]applicationStatus, len(snap.Applications)),
	}
	for id, m := range snap.Machines {
		out.Machines[id] = machineStatus{
			AgentState:     m.AgentState,
			AgentStateInfo: m.AgentStateInfo,
			DNSName:        dnsName(m.Addresses),
			InstanceId:     m.InstanceId,
			Series:         m.Series,
			Life:           string(m.Life),
			Hardware:       hardwareSummary(m.Hardware),
			Annotations:    m.Annotations,
		}
	}
	for name, app := range snap.Applications {
		formatted := applicationStatus{
			Charm:       app.CharmURL,
			Exposed:     app.Exposed,
			Life:        string(app.Life),
			Status:      app.Status.Status,
			Ghost:       app.Ghost,
			Annotations: app.Annotations,
		}
		for _, u := range app.Units {
			if formatted.Units == nil {
				formatted.Units = make(map[string]unitStatus)
			}
			formatted.Units[u.Name] = unitStatus{
				AgentState:     u.AgentState,
				AgentStateInfo: u.AgentStateInfo,
				Machine:        u.MachineId,
				PublicAddress:  u.PublicAddress,
				OpenPorts:      u.OpenPorts,
				Subordinate:    u.Subordinate,
				Annotations:    u.Annotations,
			}
		}
		out.Applications[name] = formatted
	}
	for _, r := range snap.Relations {
		formatted := relationStatus{
			Key:       r.Key,
			Interface: r.Interface,
			Scope:     r.Scope,
		}
		for _, ep := range r.Endpoints {
			formatted.Endpoints = append(formatted.Endpoints, ep.Application+":"+ep.Name)
		}
		out.Relations = append(out.Relations, formatted)
	}
	sort.Slice(out.Relations, func(i, j int) bool {
		return out.Relations[i].Key < out.Relations[j].Key
	})
	if len(snap.Pending) > 0 {
		out.PendingRelations = snap.Pending
	}
	return out
}

// dnsName returns the first public address, or the first address if
// there is no public one.
func dnsName(addrs []modeldb.Address) string {
	for _, addr := range addrs {
		if addr.Scope == "public" {
			return addr.Value
		}
	}
	if len(addrs) > 0 {
		return addrs[0].Value
	}
	return ""
}

func hardwareSummary(hw *modeldb.Hardware) string {
	if hw == nil {
		return ""
	}
	var parts []string
	if hw.Arch != "" {
		parts = append(parts, "arch="+hw.Arch)
	}
	if hw.CPUCores > 0 {
		parts = append(parts, fmt.Sprintf("cores=%d", hw.CPUCores))
	}
	if hw.CPUPower > 0 {
		parts = append(parts, fmt.Sprintf("cpu-power=%d", hw.CPUPower))
	}
	// Sizes are reported in MiB.
	if hw.Mem > 0 {
		parts = append(parts, "mem="+compactBytes(hw.Mem))
	}
	if hw.RootDisk > 0 {
		parts = append(parts, "root-disk="+compactBytes(hw.RootDisk))
	}
	if hw.AvailabilityZone != "" {
		parts = append(parts, "availability-zone="+hw.AvailabilityZone)
	}
	return strings.Join(parts, " ")
}

func compactBytes(mib uint64) string {
	return strings.Replace(humanize.IBytes(mib*humanize.MiByte), " ", "", 1)
}
