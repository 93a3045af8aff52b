// Package workflow moves production orders between stations: reverting to
// the preparer, advancing, recording action states and deleting. Each
// mutation runs in one transaction and yields the notifications to send.
package workflow

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/golang/glog"
	"github.com/zulandar/pressyard/internal/gate"
	"github.com/zulandar/pressyard/internal/identity"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/notify"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidReference is returned when a transactional operation fails.
	ErrInvalidReference = errors.New("workflow: operation failed, invalid reference")
	// ErrStationActive is returned when reverting an order the fitter has
	// already picked up.
	ErrStationActive = errors.New("workflow: fitter station is active")
	// ErrNothingToAdvance is returned when no element is ready to move on.
	ErrNothingToAdvance = errors.New("workflow: no element ready to advance")
	// ErrIllegalState is returned when a state is not legal for the action.
	ErrIllegalState = errors.New("workflow: state not allowed for action")
)

// AllowListFunc returns the action allow-list of a station pair. ok is
// false when no list is configured.
type AllowListFunc func(from, to station.Station) (actions []uint, ok bool)

// Service runs workflow operations against the store.
type Service struct {
	DB          *gorm.DB
	Resolver    *relation.Resolver
	SystemEmail string
	Translator  locale.Translator
	// Lang is the language of history lines and notifications.
	Lang      locale.Lang
	AllowList AllowListFunc
	Locks     *OrderLocks
	// Observe, when set, sees every classification Advance makes.
	Observe gate.Observer
}

func (s *Service) lock(prodOrderID uint) func() {
	if s.Locks == nil {
		return func() {}
	}
	return s.Locks.Lock(prodOrderID)
}

func (s *Service) tr(key string) string {
	if s.Translator == nil {
		return key
	}
	return s.Translator.Translate(s.Lang, key)
}

func (s *Service) allowed(from, to station.Station) mapset.Set[uint] {
	if s.AllowList == nil {
		return nil
	}
	actions, ok := s.AllowList(from, to)
	if !ok {
		return nil
	}
	return mapset.NewThreadUnsafeSet(actions...)
}

func (s *Service) defaultState(tx *gorm.DB) propstore.DefaultStateFunc {
	return func(st station.Station, el station.Element, action uint) (uint, bool, error) {
		return s.Resolver.DefaultStateForAction(tx, st, el, action)
	}
}

func invalid(op string, id uint, err error) error {
	glog.Errorf("workflow: %s %d: %v", op, id, err)
	return fmt.Errorf("workflow: %s %d: %w: %w", op, id, ErrInvalidReference, err)
}

// loadOrder returns the order and its live production order, nil when
// either is missing.
func loadOrder(db *gorm.DB, orderID uint) (*models.Order, *models.ProductionOrder, error) {
	var order models.Order
	res := db.Where("id = ?", orderID).Limit(1).Find(&order)
	if res.Error != nil {
		return nil, nil, fmt.Errorf("workflow: get order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil, nil
	}
	var po models.ProductionOrder
	res = db.Where("order_id = ? AND version = ?", orderID, models.CurrentVersion).Limit(1).Find(&po)
	if res.Error != nil {
		return nil, nil, fmt.Errorf("workflow: production order of %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil, nil
	}
	return &order, &po, nil
}

// arrange returns the queue row of an order at a station, nil when none.
func arrange(db *gorm.DB, prodOrderID uint, st station.Station) (*models.ProductionOrderArrange, error) {
	var row models.ProductionOrderArrange
	res := db.Where("prod_order_id = ? AND station = ?", prodOrderID, st).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("workflow: arrange %d/%s: %w", prodOrderID, st, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// setArrange upserts the queue flag of an order at a station.
func setArrange(tx *gorm.DB, prodOrderID uint, st station.Station, flag models.ArrangeFlag) error {
	row := models.ProductionOrderArrange{ProdOrderID: prodOrderID, Station: st, Flag: flag}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prod_order_id"}, {Name: "station"}},
		DoUpdates: clause.AssignmentColumns([]string{"arrange_order", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("workflow: set arrange %d/%s: %w", prodOrderID, st, err)
	}
	return nil
}

func addHistory(tx *gorm.DB, prodOrderID uint, st station.Station, userID uint, text string) error {
	row := models.ProductionOrderHistory{ProdOrderID: prodOrderID, Station: st, UserID: userID, Text: text}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("workflow: history %d/%s: %w", prodOrderID, st, err)
	}
	return nil
}

// recipients returns the operators of the stations, each user once.
func (s *Service) recipients(db *gorm.DB, stations []station.Station) ([]identity.User, error) {
	seen := make(map[uint]bool)
	var out []identity.User
	for _, st := range stations {
		users, err := identity.Recipients(db, st, s.SystemEmail)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) subject(order *models.Order, key string) string {
	return fmt.Sprintf("ID: %d / %s: %s - %s", order.ID, s.tr(locale.KeyTitleLabel), order.Name, s.tr(key))
}

func records(from identity.User, tos []identity.User, subject, color string, logs ...string) []notify.Record {
	out := make([]notify.Record, 0, len(tos))
	for _, to := range tos {
		out = append(out, notify.Record{From: from, To: to, Subject: subject, Logs: logs, Color: color})
	}
	return out
}
