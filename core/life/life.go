// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package life

import (
	"github.com/juju/errors"
)

// Value holds an entity's life state: "alive", "dying" or "dead".
type Value string

const (
	Alive Value = "alive"
	Dying Value = "dying"
	Dead  Value = "dead"
)

// Validate returns an error if the value is not known.
func (v Value) Validate() error {
	switch v {
	case Alive, Dying, Dead:
		return nil
	}
	return errors.NotValidf("life value %q", v)
}

// Normalise returns the value lower-cased into one of the known states.
// Juju 1.x controllers report "Alive", "Dying" and "Dead"; anything
// unrecognised is returned unchanged.
func Normalise(s string) Value {
	switch Value(s) {
	case "Alive":
		return Alive
	case "Dying":
		return Dying
	case "Dead":
		return Dead
	}
	return Value(s)
}

// IsAlive is a Predicate that returns true if the supplied value
// is Alive.
func IsAlive(v Value) bool {
	return v == Alive
}

// IsNotAlive is a Predicate that returns true if the supplied value
// is not Alive.
func IsNotAlive(v Value) bool {
	return v != Alive
}

// IsNotDead is a Predicate that returns true if the supplied value
// is not Dead.
func IsNotDead(v Value) bool {
	return v != Dead
}

// IsDead is a Predicate that returns true if the supplied value
// is Dead.
func IsDead(v Value) bool {
	return v == Dead
}
