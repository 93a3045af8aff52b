package relation

import (
	"fmt"

	"github.com/zulandar/pressyard/internal/catalog"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// PreparerAction is the only action of the preparer station.
const PreparerAction uint = 1

// Capability serves the actions, states and relations of one station.
type Capability interface {
	Relations(db *gorm.DB, el station.Element) ([]Relation, error)
	Actions(db *gorm.DB, lang locale.Lang) ([]Action, error)
	States(db *gorm.DB, lang locale.Lang) ([]State, error)
}

// TableBackedStation reads configuration from the station tables.
type TableBackedStation struct {
	Station station.Station
}

// Relations returns the station's relations for el, ordered by id.
func (s TableBackedStation) Relations(db *gorm.DB, el station.Element) ([]Relation, error) {
	var rows []models.ElementActionStateRelation
	err := db.Where("station = ? AND element_id = ?", s.Station, el).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("relation: %s element %s: %w", s.Station, el, err)
	}
	out := make([]Relation, 0, len(rows))
	for _, r := range rows {
		out = append(out, Relation{
			ID:        r.ID,
			ElementID: r.ElementID,
			ActionID:  r.ActionID,
			StateID:   r.StateID,
			IsDefault: r.IsDefault,
			IsFinal:   r.IsFinal,
		})
	}
	return out, nil
}

// Actions returns the station's actions in display order.
func (s TableBackedStation) Actions(db *gorm.DB, lang locale.Lang) ([]Action, error) {
	var rows []models.StationAction
	if err := db.Where("station = ?", s.Station).Order("position, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("relation: %s actions: %w", s.Station, err)
	}
	names, err := catalog.Names(db, models.KindAction, s.Station)
	if err != nil {
		return nil, err
	}
	out := make([]Action, 0, len(rows))
	for _, r := range rows {
		out = append(out, Action{ID: r.ID, Name: names[r.ID].Pick(lang)})
	}
	return out, nil
}

// States returns the station's states in display order.
func (s TableBackedStation) States(db *gorm.DB, lang locale.Lang) ([]State, error) {
	var rows []models.StationState
	if err := db.Where("station = ?", s.Station).Order("position, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("relation: %s states: %w", s.Station, err)
	}
	names, err := catalog.Names(db, models.KindState, s.Station)
	if err != nil {
		return nil, err
	}
	out := make([]State, 0, len(rows))
	for _, r := range rows {
		out = append(out, State{ID: r.ID, Hex: r.Hex, Name: names[r.ID].Pick(lang)})
	}
	return out, nil
}

// SyntheticSpineStation serves the preparer: one action whose default and
// final states come from the preparer configuration.
type SyntheticSpineStation struct {
	Translator locale.Translator
}

// Relations returns exactly two relations for PreparerAction: the default
// spine state and the final spine state.
func (s SyntheticSpineStation) Relations(db *gorm.DB, el station.Element) ([]Relation, error) {
	def, err := PreparerDefaults(db)
	if err != nil {
		return nil, err
	}
	fin, err := PreparerFinals(db)
	if err != nil {
		return nil, err
	}
	return []Relation{
		{ID: def.State, ElementID: el, ActionID: PreparerAction, StateID: def.State, IsDefault: true},
		{ID: fin.State, ElementID: el, ActionID: PreparerAction, StateID: fin.State, IsFinal: true},
	}, nil
}

// Actions returns the single preparer action.
func (s SyntheticSpineStation) Actions(db *gorm.DB, lang locale.Lang) ([]Action, error) {
	return []Action{{ID: PreparerAction, Name: s.Translator.Translate(lang, locale.KeyActionDone)}}, nil
}

// States returns the default and final spine states, decorated from the
// preparer state table when rows exist.
func (s SyntheticSpineStation) States(db *gorm.DB, lang locale.Lang) ([]State, error) {
	def, err := PreparerDefaults(db)
	if err != nil {
		return nil, err
	}
	fin, err := PreparerFinals(db)
	if err != nil {
		return nil, err
	}
	names, err := catalog.Names(db, models.KindPreparerState, 0)
	if err != nil {
		return nil, err
	}
	build := func(id uint, key string) (State, error) {
		st := State{ID: id, Name: names[id].Pick(lang)}
		var row models.PreparerSpineState
		res := db.Where("id = ?", id).Limit(1).Find(&row)
		if res.Error != nil {
			return State{}, fmt.Errorf("relation: preparer state %d: %w", id, res.Error)
		}
		if res.RowsAffected > 0 {
			st.Hex = row.Hex
		}
		if st.Name == "" {
			st.Name = s.Translator.Translate(lang, key)
		}
		return st, nil
	}
	first, err := build(def.State, locale.KeyStateDefault)
	if err != nil {
		return nil, err
	}
	second, err := build(fin.State, locale.KeyStateFinal)
	if err != nil {
		return nil, err
	}
	return []State{first, second}, nil
}
