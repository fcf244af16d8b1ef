// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package delta

import (
	"fmt"

	"github.com/juju/juju-gui/core/modeldb"
	"github.com/juju/juju-gui/core/status"
	"github.com/juju/juju-gui/rpc/params"
)

func statusInfo(in params.StatusInfo) status.StatusInfo {
	return status.StatusInfo{
		Status:  status.Status(in.Current),
		Message: in.Message,
		Data:    in.Data,
		Since:   in.Since,
	}
}

func legacyStatusInfo(in params.LegacyStatusInfo) status.StatusInfo {
	return status.StatusInfo{
		Status:  status.Status(in.Current),
		Message: in.Message,
		Data:    in.Data,
		Since:   in.Since,
	}
}

// formatPort renders a port as "<number>/<protocol>".
func formatPort(number int, protocol string) string {
	return fmt.Sprintf("%d/%s", number, protocol)
}

func formatPortRange(r params.PortRange) string {
	if r.FromPort == r.ToPort {
		return formatPort(r.FromPort, r.Protocol)
	}
	return fmt.Sprintf("%d-%d/%s", r.FromPort, r.ToPort, r.Protocol)
}

func openPorts(ports []params.Port, ranges []params.PortRange) []string {
	var result []string
	if len(ranges) > 0 {
		for _, r := range ranges {
			result = append(result, formatPortRange(r))
		}
		return result
	}
	for _, p := range ports {
		result = append(result, formatPort(p.Number, p.Protocol))
	}
	return result
}

func legacyOpenPorts(ports []params.LegacyPort) []string {
	var result []string
	for _, p := range ports {
		result = append(result, formatPort(p.Number, p.Protocol))
	}
	return result
}

func hardware(hc *params.HardwareCharacteristics) *modeldb.Hardware {
	if hc == nil {
		return nil
	}
	return buildHardware(hc.Arch, hc.Mem, hc.RootDisk, hc.CpuCores, hc.CpuPower, hc.Tags, hc.AvailabilityZone)
}

func legacyHardware(hc *params.LegacyHardwareCharacteristics) *modeldb.Hardware {
	if hc == nil {
		return nil
	}
	return buildHardware(hc.Arch, hc.Mem, hc.RootDisk, hc.CpuCores, hc.CpuPower, hc.Tags, hc.AvailabilityZone)
}

func buildHardware(arch *string, mem, rootDisk, cores, power *uint64, tags *[]string, zone *string) *modeldb.Hardware {
	hw := &modeldb.Hardware{}
	if arch != nil {
		hw.Arch = *arch
	}
	if mem != nil {
		hw.Mem = *mem
	}
	if rootDisk != nil {
		hw.RootDisk = *rootDisk
	}
	if cores != nil {
		hw.CPUCores = *cores
	}
	if power != nil {
		hw.CPUPower = *power
	}
	if tags != nil {
		hw.Tags = append([]string(nil), (*tags)...)
	}
	if zone != nil {
		hw.AvailabilityZone = *zone
	}
	return hw
}
