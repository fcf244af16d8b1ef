// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"io"
	"sort"
	"strings"

	"github.com/juju/errors"

	"github.com/juju/juju-gui/cmd/output"
)

// formatTabular writes a tabular summary of a formattedModel.
func formatTabular(writer io.Writer, value interface{}) error {
	model, ok := value.(formattedModel)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", model, value)
	}
	tw := output.TabWriter(writer)
	w := output.Wrapper{TabWriter: tw}

	w.Println("Model", "Name", "Owner", "Status")
	w.Print(model.Model.UUID, model.Model.Name, model.Model.Owner)
	w.PrintStatus(model.Model.Status)
	w.Println()

	if len(model.Applications) > 0 {
		w.Println()
		w.Println("App", "Charm", "Status", "Exposed", "Units")
		for _, name := range sortedKeys(model.Applications) {
			app := model.Applications[name]
			if app.Ghost {
				name += "*"
			}
			w.Print(name, app.Charm)
			w.PrintStatus(app.Status)
			w.Println(app.Exposed, len(app.Units))
		}

		var units []string
		byName := make(map[string]unitStatus)
		for _, app := range model.Applications {
			for name, u := range app.Units {
				units = append(units, name)
				byName[name] = u
			}
		}
		sort.Strings(units)
		if len(units) > 0 {
			w.Println()
			w.Println("Unit", "Agent", "Machine", "Public address", "Ports", "Message")
			for _, name := range units {
				u := byName[name]
				w.Print(name)
				w.PrintStatus(u.AgentState)
				w.Println(u.Machine, u.PublicAddress, strings.Join(u.OpenPorts, ","), u.AgentStateInfo)
			}
		}
	}

	if len(model.Machines) > 0 {
		w.Println()
		w.Println("Machine", "State", "DNS", "Instance", "Series", "Hardware")
		for _, id := range sortedKeys(model.Machines) {
			m := model.Machines[id]
			w.Print(id)
			w.PrintStatus(m.AgentState)
			w.Println(m.DNSName, m.InstanceId, m.Series, m.Hardware)
		}
	}

	if len(model.Relations) > 0 {
		w.Println()
		w.Println("Relation", "Interface", "Scope")
		for _, r := range model.Relations {
			w.Println(r.Key, r.Interface, r.Scope)
		}
	}

	if len(model.PendingRelations) > 0 {
		w.Println()
		w.Println("Pending relation", "Waiting for")
		for _, app := range sortedKeys(model.PendingRelations) {
			for _, key := range model.PendingRelations[app] {
				w.Println(key, app)
			}
		}
	}
	return errors.Trace(tw.Flush())
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
