package workflow

import (
	"fmt"

	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// ProductionState tells which workflow button an order offers.
type ProductionState int

const (
	SendToPreparer       ProductionState = 1
	RevertFromPreparer   ProductionState = 2
	SendToProduction     ProductionState = 3
	RevertFromProduction ProductionState = 4
)

const (
	// Sales order states from this one on are past production.
	inProductionOrderState = 6
	inHousePrinting        = 1
)

func (p ProductionState) String() string {
	switch p {
	case SendToPreparer:
		return "send-to-preparer"
	case RevertFromPreparer:
		return "revert-from-preparer"
	case SendToProduction:
		return "send-to-production"
	case RevertFromProduction:
		return "revert-from-production"
	}
	return fmt.Sprintf("production-state(%d)", int(p))
}

// ProductionState computes the workflow position of an order. Orders that
// are printed elsewhere, already past production, or without a preparer
// row for the text block can only be sent to the preparer.
func (s *Service) ProductionState(orderID uint) (ProductionState, error) {
	var order models.Order
	res := s.DB.Where("id = ? AND order_state_id < ? AND printing_id = ?", orderID, inProductionOrderState, inHousePrinting).
		Limit(1).Find(&order)
	if res.Error != nil {
		return 0, fmt.Errorf("workflow: production state of %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return SendToPreparer, nil
	}
	_, po, err := loadOrder(s.DB, orderID)
	if err != nil {
		return 0, err
	}
	if po == nil {
		return SendToPreparer, nil
	}
	prep, err := propstore.CurrentProperties(s.DB, po.ID, station.Preparer, station.Text)
	if err != nil {
		return 0, err
	}
	fitter, err := arrange(s.DB, po.ID, station.Fitter)
	if err != nil {
		return 0, err
	}
	if prep == nil || fitter == nil {
		return SendToPreparer, nil
	}

	state := RevertFromPreparer
	fin, err := relation.PreparerFinals(s.DB)
	if err != nil {
		return 0, err
	}
	if prep.SpineStateID == fin.State {
		state = SendToProduction
	}

	active, err := stationsInProduction(s.DB, po.ID)
	if err != nil {
		return 0, err
	}
	for _, st := range active {
		if contains(station.ConvertibleStations(), st) {
			state = RevertFromProduction
		}
	}
	return state, nil
}

// noMeasureProducts never get a thickness measurement: flyer, depliant and
// affiches.
var noMeasureProducts = map[int]bool{5: true, 6: true, 7: true}

// Width is the workshop's spine measurement of an element.
type Width struct {
	Width          float64 `json:"width"`
	WidthRequested float64 `json:"widthRequested"`
	RealSpine      float64 `json:"realSpine"`
	ShowRequestBtn bool    `json:"showRequestBtn"`
}

// WorkshopWidth returns the measured width of an element at the workshop
// and whether a measurement can still be requested. Orders the workshop is
// not working on yield a zero Width.
func (s *Service) WorkshopWidth(prodOrderID uint, el station.Element) (Width, error) {
	var po models.ProductionOrder
	res := s.DB.Where("id = ? AND version = ?", prodOrderID, models.CurrentVersion).Limit(1).Find(&po)
	if res.Error != nil {
		return Width{}, fmt.Errorf("workflow: production order %d: %w", prodOrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return Width{}, nil
	}
	var order models.Order
	res = s.DB.Where("id = ?", po.OrderID).Limit(1).Find(&order)
	if res.Error != nil {
		return Width{}, fmt.Errorf("workflow: order of %d: %w", prodOrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return Width{}, nil
	}

	props, err := propstore.CurrentProperties(s.DB, prodOrderID, station.Workshop, el)
	if err != nil || props == nil {
		return Width{}, err
	}
	action, err := firstAction(s.DB, prodOrderID, station.Workshop, el)
	if err != nil || action == nil {
		return Width{}, err
	}
	ws, err := arrange(s.DB, prodOrderID, station.Workshop)
	if err != nil || ws == nil || ws.Flag == models.ArrangeInactive {
		return Width{}, err
	}

	w := Width{Width: props.Width, RealSpine: po.RealSpine}
	if noMeasureProducts[order.ProductID] {
		return w, nil
	}
	w.WidthRequested = props.WidthRequested
	if props.WidthRequested < 1 {
		rels, err := s.Resolver.Resolve(s.DB, station.Workshop, el)
		if err != nil {
			return Width{}, err
		}
		final := false
		for _, r := range rels {
			if r.IsFinal && r.StateID == action.StateID {
				final = true
			}
		}
		w.ShowRequestBtn = !final
	}
	return w, nil
}

func firstAction(db *gorm.DB, prodOrderID uint, st station.Station, el station.Element) (*models.ProductionOrderAdditionalProperty, error) {
	var row models.ProductionOrderAdditionalProperty
	res := db.Where("prod_order_id = ? AND station = ? AND element_id = ? AND version = ?", prodOrderID, st, el, models.CurrentVersion).
		Order("id").Limit(1).Find(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("workflow: actions of %d/%s/%s: %w", prodOrderID, st, el, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}
