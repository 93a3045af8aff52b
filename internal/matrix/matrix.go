// Package matrix builds the action/state view of one element of a
// production order at one station.
package matrix

import (
	"fmt"

	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// Query selects the matrix to build.
type Query struct {
	ProdOrderID uint
	Station     station.Station
	Element     station.Element
	Lang        locale.Lang
}

// StateCell is one legal state of an action.
type StateCell struct {
	ID         uint   `json:"id"`
	Hex        string `json:"hex"`
	Name       string `json:"name"`
	Checked    bool   `json:"checked"`
	IsDefault  bool   `json:"isDefault"`
	IsFinal    bool   `json:"isFinal"`
	RelationID uint   `json:"relationId"`
}

// ActionView is one action of the matrix. IsFinalState is the current
// state id when it is a final state, else 0. FinalStateID is the configured
// final state of the action (the last one when several exist).
type ActionView struct {
	ID             uint                `json:"id"`
	Name           string              `json:"name"`
	Checked        bool                `json:"checked"`
	CurrentStateID uint                `json:"currentState"`
	CurrentRemarks string              `json:"currentRemarks"`
	IsFinalState   uint                `json:"isFinalState"`
	FinalStateID   uint                `json:"stateFinal"`
	States         map[uint]StateCell  `json:"states"`
	StateOrder     []uint              `json:"stateOrder"`
	Technologist   *TechnologistFields `json:"technologist,omitempty"`
	Workshop       *WorkshopFields     `json:"workshop,omitempty"`
}

// Matrix is the ordered list of applicable actions.
type Matrix struct {
	ProdOrderID          uint            `json:"prodOrderId"`
	Station              station.Station `json:"station"`
	Element              station.Element `json:"element"`
	Actions              []ActionView    `json:"actions"`
	CountBookmarkInserts int             `json:"countBookmarkInserts"`
}

// augmenter adds station-specific fields to an action. props is the live
// property row of the element and may be nil.
type augmenter func(db *gorm.DB, b *builder, view *ActionView, props *models.ProductionOrderProperty) error

var augmenters = map[station.Station]augmenter{
	station.Technologist: augmentTechnologist,
	station.Workshop:     augmentWorkshop,
}

type builder struct {
	res *relation.Resolver
	q   Query
}

// Build builds the matrix. Actions without any legal state for the element
// are left out.
func Build(db *gorm.DB, res *relation.Resolver, q Query) (*Matrix, error) {
	actions, err := res.Actions(db, q.Station, q.Lang)
	if err != nil {
		return nil, err
	}
	states, err := res.States(db, q.Station, q.Lang)
	if err != nil {
		return nil, err
	}
	return build(db, res, q, actions, states)
}

func build(db *gorm.DB, res *relation.Resolver, q Query, actions []relation.Action, states []relation.State) (*Matrix, error) {
	rels, err := res.Resolve(db, q.Station, q.Element)
	if err != nil {
		return nil, err
	}
	props, err := propstore.CurrentProperties(db, q.ProdOrderID, q.Station, q.Element)
	if err != nil {
		return nil, err
	}

	b := &builder{res: res, q: q}
	m := &Matrix{ProdOrderID: q.ProdOrderID, Station: q.Station, Element: q.Element, Actions: []ActionView{}}
	for _, a := range actions {
		actionRels := relation.ForAction(rels, a.ID)
		view := ActionView{ID: a.ID, Name: a.Name, States: make(map[uint]StateCell)}
		for _, s := range states {
			cell, ok := stateCell(actionRels, s)
			if !ok {
				continue
			}
			view.States[s.ID] = cell
			view.StateOrder = append(view.StateOrder, s.ID)
		}
		if len(view.StateOrder) == 0 {
			continue
		}
		view.Checked = true

		cur, err := propstore.CurrentAdditionalProperty(db, q.ProdOrderID, q.Station, q.Element, a.ID)
		if err != nil {
			return nil, err
		}
		if cur != nil {
			view.CurrentStateID = cur.StateID
			view.CurrentRemarks = cur.Remarks
		}
		view.FinalStateID, _ = relation.FinalState(actionRels, a.ID)
		for _, fin := range relation.FinalStates(actionRels, a.ID) {
			if fin == view.CurrentStateID {
				view.IsFinalState = fin
			}
		}

		if aug, ok := augmenters[q.Station]; ok {
			if err := aug(db, b, &view, props); err != nil {
				return nil, fmt.Errorf("matrix: augment %s action %d: %w", q.Station, a.ID, err)
			}
		}
		m.Actions = append(m.Actions, view)
	}

	for _, v := range m.Actions {
		if v.Technologist != nil && v.Technologist.BookmarkInsert > 0 {
			m.CountBookmarkInserts++
		}
	}
	return m, nil
}

// stateCell marks s checked when a relation of the action links to it. With
// duplicate relations the last one wins.
func stateCell(actionRels []relation.Relation, s relation.State) (StateCell, bool) {
	cell := StateCell{ID: s.ID, Hex: s.Hex, Name: s.Name}
	for _, r := range actionRels {
		if r.StateID != s.ID {
			continue
		}
		cell.Checked = true
		cell.IsDefault = r.IsDefault
		cell.IsFinal = r.IsFinal
		cell.RelationID = r.ID
	}
	return cell, cell.Checked
}
