package matrix

import (
	"errors"

	"github.com/zulandar/pressyard/internal/gate"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"gorm.io/gorm"
)

var (
	// ErrNoStates is returned when the station has no states configured.
	ErrNoStates = errors.New("matrix: station has no states")
	// ErrNoActions is returned when the station has no actions configured.
	ErrNoActions = errors.New("matrix: station has no actions")
)

// ActionStates is the matrix of an element filed under the group the
// classifier put the element in.
type ActionStates struct {
	Properties *models.ProductionOrderProperty `json:"properties"`
	Active     []ActionView                    `json:"active,omitempty"`
	StandBy    []ActionView                    `json:"standBy,omitempty"`
}

// BuildActionStates builds the matrix and files it under Active when the
// element is converted, or StandBy when it is held back. An element in
// neither set gets no actions.
func BuildActionStates(db *gorm.DB, res *relation.Resolver, q Query, cls gate.Result) (*ActionStates, error) {
	states, err := res.States(db, q.Station, q.Lang)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	actions, err := res.Actions(db, q.Station, q.Lang)
	if err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, ErrNoActions
	}

	props, err := propstore.CurrentProperties(db, q.ProdOrderID, q.Station, q.Element)
	if err != nil {
		return nil, err
	}
	m, err := build(db, res, q, actions, states)
	if err != nil {
		return nil, err
	}

	out := &ActionStates{Properties: props}
	switch {
	case cls.Converted != nil && cls.Converted.Contains(q.Element):
		out.Active = m.Actions
	case cls.StandBy != nil && cls.StandBy.Contains(q.Element):
		out.StandBy = m.Actions
	}
	return out, nil
}
