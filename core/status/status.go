// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"time"
)

// Status represents the status of an entity as reported by the controller.
// Status values apply to machine agents, unit agents, unit workloads,
// applications and models.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status
	Message string
	Data    map[string]interface{}
	Since   *time.Time
}

const (
	// Status values common to machine and unit agents.

	// Error means the entity requires human intervention
	// in order to operate correctly.
	Error Status = "error"

	// Started is set when the entity is actively participating in the
	// model. Juju 1.x controllers report it for unit agents as well.
	Started Status = "started"
)

const (
	// Status values specific to machine agents.

	// Pending is set when the machine is not yet participating in the
	// model.
	Pending Status = "pending"

	// Stopped is set when the machine's agent will perform no further
	// action.
	Stopped Status = "stopped"

	// Down is set when the machine ought to be signalling activity, but
	// it cannot be detected.
	Down Status = "down"
)

const (
	// Status values specific to unit agents.

	// Allocating is set when the machine on which a unit is to be hosted
	// is still being spun up in the cloud.
	Allocating Status = "allocating"

	// Rebooting is set when the machine on which this agent is running is
	// being rebooted.
	Rebooting Status = "rebooting"

	// Executing is set when the agent is running a hook or action.
	Executing Status = "executing"

	// Idle is set when the agent is not running any hooks or actions.
	Idle Status = "idle"

	// Failed is set when the unit agent has failed in some way.
	Failed Status = "failed"

	// Lost is set when the juju agent cannot be contacted.
	Lost Status = "lost"
)

const (
	// Status values specific to workloads.

	// Maintenance is set when the unit is configuring software.
	Maintenance Status = "maintenance"

	// Terminated is set when the unit is being destroyed.
	Terminated Status = "terminated"

	// Unknown is set when the unit has not reported a workload status.
	Unknown Status = "unknown"

	// Waiting is set when the unit is waiting on another application.
	Waiting Status = "waiting"

	// Blocked is set when the unit requires operator intervention.
	Blocked Status = "blocked"

	// Active is set when the unit believes it is correctly offering all
	// the services it has been asked to offer.
	Active Status = "active"
)

const (
	// Status values specific to instances.

	// Running is set when the instance has been started.
	Running Status = "running"

	// ProvisioningError is set when the instance could not be provisioned.
	ProvisioningError Status = "provisioning error"
)

// KnownMachineStatus returns true if status has a known value for a machine.
func (s Status) KnownMachineStatus() bool {
	switch s {
	case
		Error,
		Started,
		Pending,
		Stopped,
		Down:
		return true
	}
	return false
}

// KnownAgentStatus returns true if status has a known value for an agent.
// It includes every status that has ever been valid for a unit or machine agent.
func (s Status) KnownAgentStatus() bool {
	switch s {
	case
		Allocating,
		Error,
		Failed,
		Rebooting,
		Executing,
		Idle,
		Lost:
		return true
	}
	return false
}

// ValidWorkloadStatus returns true if status has a valid value for units
// or applications.
func ValidWorkloadStatus(status Status) bool {
	switch status {
	case
		Blocked,
		Maintenance,
		Waiting,
		Active,
		Unknown,
		Terminated:
		return true
	default:
		return false
	}
}

// UnitDisplayStatus returns the status the console shows for a unit.
// An agent in error wins over the workload; otherwise the workload status
// is shown, falling back to the agent status when no workload status has
// been reported yet.
func UnitDisplayStatus(agent, workload StatusInfo) StatusInfo {
	if agent.Status == Error {
		return agent
	}
	if workload.Status == "" {
		return agent
	}
	return workload
}
