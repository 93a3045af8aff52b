package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/zulandar/pressyard/internal/gate"
	"github.com/zulandar/pressyard/internal/identity"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// Advance moves the converted elements of a production order from one
// station to the next. Elements live at the source that have relations at
// the target get their target action rows opened at the default state
// first, so a first entry can be classified. The target station starts
// editing; the source is done once nothing is held back there. When no
// element converts, nothing is written.
func (s *Service) Advance(prodOrderID uint, from, to station.Station, actorID uint) (gate.Result, error) {
	defer s.lock(prodOrderID)()

	var res gate.Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.openTarget(tx, prodOrderID, from, to); err != nil {
			return err
		}
		c := gate.Classifier{Resolver: s.Resolver, Observe: s.Observe}
		var err error
		res, err = c.Classify(tx, gate.Query{
			ProdOrderID: prodOrderID,
			From:        from,
			To:          to,
			Allowed:     s.allowed(from, to),
		})
		if err != nil {
			return err
		}
		if res.Converted.Cardinality() == 0 {
			return ErrNothingToAdvance
		}

		names := make([]string, 0, res.Converted.Cardinality())
		for _, el := range res.ConvertedElements() {
			names = append(names, el.String())
		}
		text := fmt.Sprintf("%s: %s -> %s (%s)", s.tr(locale.KeyOrderAdvanced), from, to, strings.Join(names, ", "))

		if err := setArrange(tx, prodOrderID, to, models.ArrangeEditing); err != nil {
			return err
		}
		if res.StandBy.Cardinality() == 0 {
			if err := setArrange(tx, prodOrderID, from, models.ArrangeDone); err != nil {
				return err
			}
		}
		return addHistory(tx, prodOrderID, to, actorID, text)
	})
	if errors.Is(err, ErrNothingToAdvance) {
		return res, ErrNothingToAdvance
	}
	if err != nil {
		return res, invalid("advance order", prodOrderID, err)
	}
	glog.Infof("workflow: production order %d %s -> %s: converted %v, stand-by %v",
		prodOrderID, from, to, res.ConvertedElements(), res.StandByElements())
	return res, nil
}

// openTarget creates the missing target action rows, at their default
// state, for every element live at the source. Actions without a default
// state at the target are skipped.
func (s *Service) openTarget(tx *gorm.DB, prodOrderID uint, from, to station.Station) error {
	els, err := propstore.DistinctElements(tx, prodOrderID, from)
	if err != nil {
		return err
	}
	for _, el := range els {
		rels, err := s.Resolver.Resolve(tx, to, el)
		if err != nil {
			return err
		}
		seen := make(map[uint]bool)
		for _, r := range rels {
			if seen[r.ActionID] {
				continue
			}
			seen[r.ActionID] = true
			def, ok := relation.DefaultState(rels, r.ActionID)
			if !ok {
				continue
			}
			cur, err := propstore.CurrentAdditionalProperty(tx, prodOrderID, to, el, r.ActionID)
			if err != nil {
				return err
			}
			if cur != nil {
				continue
			}
			if err := propstore.SetActionState(tx, prodOrderID, to, el, r.ActionID, def, 0, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetState records the state of one action of an element. The state must
// be legal for the action. At the preparer the element's spine state is
// kept in step.
func (s *Service) SetState(prodOrderID uint, st station.Station, el station.Element, action, state, actorID uint, remarks string) error {
	defer s.lock(prodOrderID)()

	rels, err := s.Resolver.Resolve(s.DB, st, el)
	if err != nil {
		return err
	}
	legal := false
	for _, r := range relation.ForAction(rels, action) {
		if r.StateID == state {
			legal = true
		}
	}
	if !legal {
		return fmt.Errorf("%w: %s %s action %d state %d", ErrIllegalState, st, el, action, state)
	}

	operatorID, err := identity.OperatorID(s.DB, actorID)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := propstore.SetActionState(tx, prodOrderID, st, el, action, state, operatorID, remarks); err != nil {
			return err
		}
		if st == station.Preparer {
			if err := setSpineState(tx, prodOrderID, el, state, operatorID, remarks); err != nil {
				return err
			}
		}
		return addHistory(tx, prodOrderID, st, actorID, fmt.Sprintf("%s: %s %d -> %d", s.tr(locale.KeyStateChanged), el, action, state))
	})
	if err != nil {
		return invalid("set state of order", prodOrderID, err)
	}
	return nil
}

func setSpineState(tx *gorm.DB, prodOrderID uint, el station.Element, state, operatorID uint, remarks string) error {
	cur, err := propstore.CurrentProperties(tx, prodOrderID, station.Preparer, el)
	if err != nil {
		return err
	}
	if cur == nil {
		return propstore.SaveProperties(tx, &models.ProductionOrderProperty{
			ProdOrderID:  prodOrderID,
			Station:      station.Preparer,
			ElementID:    el,
			OperatorID:   operatorID,
			SpineStateID: state,
			RemarksSpine: remarks,
		})
	}
	err = tx.Model(cur).Updates(map[string]interface{}{
		"spine_state_id": state,
		"remarks_spine":  remarks,
		"operator_id":    operatorID,
	}).Error
	if err != nil {
		return fmt.Errorf("workflow: spine state %d/%s: %w", prodOrderID, el, err)
	}
	return nil
}
