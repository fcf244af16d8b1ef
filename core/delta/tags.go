// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package delta

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/juju/juju-gui/core/modeldb"
)

// Juju 1.x called applications services and models environments.
var tagAliases = map[string]string{
	"service-":     names.ApplicationTagKind + "-",
	"environment-": names.ModelTagKind + "-",
}

// ParseEntityTag resolves an entity tag to the database kind and id it
// refers to. Unit tags resolve to unit names ("unit-mysql-42" to
// "mysql/42") and machine tags to machine ids ("machine-0-lxd-1" to
// "0/lxd/1").
func ParseEntityTag(tag string) (modeldb.Kind, string, error) {
	for alias, kind := range tagAliases {
		if strings.HasPrefix(tag, alias) {
			tag = kind + strings.TrimPrefix(tag, alias)
			break
		}
	}
	t, err := names.ParseTag(tag)
	if err != nil {
		return "", "", errors.Trace(err)
	}
	switch t.Kind() {
	case names.ApplicationTagKind:
		return modeldb.KindApplication, t.Id(), nil
	case names.UnitTagKind:
		return modeldb.KindUnit, t.Id(), nil
	case names.MachineTagKind:
		return modeldb.KindMachine, t.Id(), nil
	case names.RelationTagKind:
		return modeldb.KindRelation, t.Id(), nil
	case names.ModelTagKind:
		return modeldb.KindModel, t.Id(), nil
	}
	return "", "", errors.NotSupportedf("annotations on %s %q", t.Kind(), t.Id())
}
