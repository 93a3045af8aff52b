package relation

import (
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// Resolver dispatches relation lookups to each station's capability. The
// capability is chosen once, when the resolver is built.
type Resolver struct {
	caps map[station.Station]Capability
}

// NewResolver builds a resolver for the registry's stations. Synthetic
// entries get a SyntheticSpineStation, enabled entries a
// TableBackedStation; disabled entries resolve to nothing.
func NewResolver(reg *station.Registry, tr locale.Translator) *Resolver {
	r := &Resolver{caps: make(map[station.Station]Capability)}
	for _, s := range reg.Stations() {
		e, _ := reg.Lookup(s)
		switch {
		case e.Synthetic:
			r.caps[s] = SyntheticSpineStation{Translator: tr}
		case e.Enabled:
			r.caps[s] = TableBackedStation{Station: s}
		}
	}
	return r
}

// Capability returns the capability serving st.
func (r *Resolver) Capability(st station.Station) (Capability, bool) {
	c, ok := r.caps[st]
	return c, ok
}

// Resolve returns the relations of el at st. Unknown or disabled stations
// yield an empty set.
func (r *Resolver) Resolve(db *gorm.DB, st station.Station, el station.Element) ([]Relation, error) {
	c, ok := r.caps[st]
	if !ok {
		return nil, nil
	}
	return c.Relations(db, el)
}

// Actions returns the localized actions of st.
func (r *Resolver) Actions(db *gorm.DB, st station.Station, lang locale.Lang) ([]Action, error) {
	c, ok := r.caps[st]
	if !ok {
		return nil, nil
	}
	return c.Actions(db, lang)
}

// States returns the localized states of st.
func (r *Resolver) States(db *gorm.DB, st station.Station, lang locale.Lang) ([]State, error) {
	c, ok := r.caps[st]
	if !ok {
		return nil, nil
	}
	return c.States(db, lang)
}

// UniqueStateForAction returns the in-progress state of an action.
func (r *Resolver) UniqueStateForAction(db *gorm.DB, st station.Station, el station.Element, action uint) (uint, bool, error) {
	rels, err := r.Resolve(db, st, el)
	if err != nil {
		return 0, false, err
	}
	id, ok := UniqueState(rels, action)
	return id, ok, nil
}

// UniqueStatesForAction returns every in-progress state of an action.
func (r *Resolver) UniqueStatesForAction(db *gorm.DB, st station.Station, el station.Element, action uint) ([]uint, error) {
	rels, err := r.Resolve(db, st, el)
	if err != nil {
		return nil, err
	}
	return UniqueStates(rels, action), nil
}

// DefaultStateForAction returns the default state of an action.
func (r *Resolver) DefaultStateForAction(db *gorm.DB, st station.Station, el station.Element, action uint) (uint, bool, error) {
	rels, err := r.Resolve(db, st, el)
	if err != nil {
		return 0, false, err
	}
	id, ok := DefaultState(rels, action)
	return id, ok, nil
}

// FinalStateForAction returns the final state of an action.
func (r *Resolver) FinalStateForAction(db *gorm.DB, st station.Station, el station.Element, action uint) (uint, bool, error) {
	rels, err := r.Resolve(db, st, el)
	if err != nil {
		return 0, false, err
	}
	id, ok := FinalState(rels, action)
	return id, ok, nil
}

// FinalStatesForAction returns every final state of an action.
func (r *Resolver) FinalStatesForAction(db *gorm.DB, st station.Station, el station.Element, action uint) ([]uint, error) {
	rels, err := r.Resolve(db, st, el)
	if err != nil {
		return nil, err
	}
	return FinalStates(rels, action), nil
}
