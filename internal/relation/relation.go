// Package relation resolves which action/state pairs are legal for an
// element at a station. Table-backed stations read the relation table;
// the preparer station synthesizes its relations from preparer
// configuration.
package relation

import (
	"errors"
	"fmt"

	"github.com/zulandar/pressyard/internal/station"
)

// ErrDuplicateDefault is returned when more than one relation of an
// (element, action) pair is marked default.
var ErrDuplicateDefault = errors.New("relation: more than one default state")

// Relation declares that an element may be in StateID for ActionID.
type Relation struct {
	ID        uint            `json:"id"`
	ElementID station.Element `json:"elementId"`
	ActionID  uint            `json:"actionId"`
	StateID   uint            `json:"stateId"`
	IsDefault bool            `json:"isDefault"`
	IsFinal   bool            `json:"isFinal"`
}

// InProgress reports whether the relation is neither default nor final.
func (r Relation) InProgress() bool {
	return !r.IsDefault && !r.IsFinal
}

// Action is a localized station action.
type Action struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// State is a localized station state.
type State struct {
	ID   uint   `json:"id"`
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// ForAction returns the relations of one action, in input order.
func ForAction(rels []Relation, actionID uint) []Relation {
	var out []Relation
	for _, r := range rels {
		if r.ActionID == actionID {
			out = append(out, r)
		}
	}
	return out
}

func stateIDs(rels []Relation, actionID uint, keep func(Relation) bool) []uint {
	var out []uint
	for _, r := range rels {
		if r.ActionID == actionID && keep(r) {
			out = append(out, r.StateID)
		}
	}
	return out
}

func last(ids []uint) (uint, bool) {
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

func isDefault(r Relation) bool { return r.IsDefault }
func isFinal(r Relation) bool   { return r.IsFinal }

// UniqueStates returns the in-progress state ids of an action.
func UniqueStates(rels []Relation, actionID uint) []uint {
	return stateIDs(rels, actionID, Relation.InProgress)
}

// UniqueState returns the in-progress state of an action. When several
// exist the last one wins.
func UniqueState(rels []Relation, actionID uint) (uint, bool) {
	return last(UniqueStates(rels, actionID))
}

// DefaultState returns the default state of an action.
func DefaultState(rels []Relation, actionID uint) (uint, bool) {
	return last(stateIDs(rels, actionID, isDefault))
}

// FinalStates returns every final state of an action.
func FinalStates(rels []Relation, actionID uint) []uint {
	return stateIDs(rels, actionID, isFinal)
}

// FinalState returns the final state of an action; the last one wins when
// several are configured.
func FinalState(rels []Relation, actionID uint) (uint, bool) {
	return last(FinalStates(rels, actionID))
}

// Validate rejects relation sets with more than one default per
// (element, action).
func Validate(rels []Relation) error {
	type key struct {
		element station.Element
		action  uint
	}
	seen := make(map[key]uint)
	for _, r := range rels {
		if !r.IsDefault {
			continue
		}
		k := key{r.ElementID, r.ActionID}
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("%w: element %s action %d (states %d and %d)",
				ErrDuplicateDefault, r.ElementID, r.ActionID, prev, r.StateID)
		}
		seen[k] = r.StateID
	}
	return nil
}
