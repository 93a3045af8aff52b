package workflow

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/zulandar/pressyard/internal/identity"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/notify"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// revertStations are archived and reseeded when an order goes back to the
// preparer: the convertible stations plus the copy counters.
func revertStations() []station.Station {
	out := station.ConvertibleStations()
	for _, st := range station.CopyStations() {
		if !contains(out, st) {
			out = append(out, st)
		}
	}
	return out
}

func contains(list []station.Station, st station.Station) bool {
	for _, s := range list {
		if s == st {
			return true
		}
	}
	return false
}

// RevertToPreparer sends an order back to the preparer. Every production
// station goes inactive, the live generation of the production stations is
// archived and re-created at its entry states, and every operator of those
// stations is notified. A missing order yields no records.
func (s *Service) RevertToPreparer(orderID, actorID uint) ([]notify.Record, error) {
	order, po, err := loadOrder(s.DB, orderID)
	if err != nil || po == nil {
		return nil, err
	}
	defer s.lock(po.ID)()

	fitter, err := arrange(s.DB, po.ID, station.Fitter)
	if err != nil {
		return nil, err
	}
	if fitter != nil && fitter.Flag != models.ArrangeInactive {
		return nil, ErrStationActive
	}

	convertibles := station.ConvertibleStations()
	stations := revertStations()
	text := s.tr(locale.KeyOrderReverted)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, st := range convertibles {
			if err := setArrange(tx, po.ID, st, models.ArrangeInactive); err != nil {
				return err
			}
		}
		v, err := propstore.BumpVersion(tx, po.ID, stations)
		if err != nil {
			return err
		}
		if err := propstore.Reseed(tx, po.ID, stations, v, s.defaultState(tx)); err != nil {
			return err
		}
		for _, st := range convertibles {
			if err := addHistory(tx, po.ID, st, actorID, text); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, invalid("revert order", orderID, err)
	}
	glog.Infof("workflow: order %d reverted to preparer by user %d", orderID, actorID)

	from, err := identity.Lookup(s.DB, actorID, s.SystemEmail)
	if err != nil {
		return nil, err
	}
	tos, err := s.recipients(s.DB, convertibles)
	if err != nil {
		return nil, err
	}
	return records(from, tos, s.subject(order, locale.KeySubjectReverted), notify.ColorWarning, text), nil
}

// DeleteProductionOrder removes every production row of an order and
// notifies the operators of the stations that had started on it, from the
// order's creator.
func (s *Service) DeleteProductionOrder(orderID uint) ([]notify.Record, error) {
	order, po, err := loadOrder(s.DB, orderID)
	if err != nil || po == nil {
		return nil, err
	}
	defer s.lock(po.ID)()

	active, err := stationsInProduction(s.DB, po.ID)
	if err != nil {
		return nil, err
	}
	var tos []identity.User
	if len(active) > 0 {
		if tos, err = s.recipients(s.DB, active); err != nil {
			return nil, err
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.ProductionOrder{}).Error; err != nil {
			return fmt.Errorf("delete production orders: %w", err)
		}
		for _, model := range []interface{}{
			&models.ProductionOrderArrange{},
			&models.ProductionOrderHistory{},
			&models.ProductionOrderProperty{},
			&models.ProductionOrderReadyCopies{},
			&models.ProductionOrderAdditionalProperty{},
			&models.ProductionOrderGeneration{},
		} {
			if err := tx.Where("prod_order_id = ?", po.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete %T: %w", model, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, invalid("delete order", orderID, err)
	}
	glog.Infof("workflow: production order %d of order %d deleted", po.ID, orderID)

	if len(tos) == 0 {
		return nil, nil
	}
	from, err := identity.Lookup(s.DB, order.CreatedBy, s.SystemEmail)
	if err != nil {
		return nil, err
	}
	line := fmt.Sprintf("ID: %d / %s: %s %s: %s", order.ID, s.tr(locale.KeyTitleLabel), order.Name, s.tr(locale.KeyDeletedBy), from.Name)
	return records(from, tos, s.subject(order, locale.KeySubjectDeleted), notify.ColorDanger, line), nil
}

// stationsInProduction lists the stations whose queue entry is not
// inactive.
func stationsInProduction(db *gorm.DB, prodOrderID uint) ([]station.Station, error) {
	var out []station.Station
	err := db.Model(&models.ProductionOrderArrange{}).
		Where("prod_order_id = ? AND arrange_order <> ?", prodOrderID, models.ArrangeInactive).
		Order("station").Pluck("station", &out).Error
	if err != nil {
		return nil, fmt.Errorf("workflow: stations in production of %d: %w", prodOrderID, err)
	}
	return out, nil
}

// RevertProperties archives the live generation of every station of a
// production order and returns the operators of st to notify. An order
// without property or action rows is left alone.
func (s *Service) RevertProperties(prodOrderID uint, st station.Station) ([]identity.User, error) {
	defer s.lock(prodOrderID)()

	var props, actions int64
	if err := s.DB.Model(&models.ProductionOrderProperty{}).Where("prod_order_id = ?", prodOrderID).Count(&props).Error; err != nil {
		return nil, fmt.Errorf("workflow: count properties of %d: %w", prodOrderID, err)
	}
	if err := s.DB.Model(&models.ProductionOrderAdditionalProperty{}).Where("prod_order_id = ?", prodOrderID).Count(&actions).Error; err != nil {
		return nil, fmt.Errorf("workflow: count actions of %d: %w", prodOrderID, err)
	}
	if props == 0 || actions == 0 {
		return nil, nil
	}

	if _, err := propstore.BumpVersion(s.DB, prodOrderID, station.All); err != nil {
		return nil, invalid("revert properties", prodOrderID, err)
	}
	return identity.Recipients(s.DB, st, s.SystemEmail)
}

// PropertiesRevertedRecords builds the notices of a properties revert at st,
// sent from the system user to tos. A missing order yields no records.
func (s *Service) PropertiesRevertedRecords(prodOrderID uint, st station.Station, tos []identity.User) ([]notify.Record, error) {
	if len(tos) == 0 {
		return nil, nil
	}
	var po models.ProductionOrder
	res := s.DB.Where("id = ?", prodOrderID).Limit(1).Find(&po)
	if res.Error != nil {
		return nil, fmt.Errorf("workflow: get production order %d: %w", prodOrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var order models.Order
	res = s.DB.Where("id = ?", po.OrderID).Limit(1).Find(&order)
	if res.Error != nil {
		return nil, fmt.Errorf("workflow: get order %d: %w", po.OrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	text := fmt.Sprintf("%s: %s", s.tr(locale.KeyOrderReverted), st)
	return records(identity.System(s.SystemEmail), tos, s.subject(&order, locale.KeySubjectReverted), notify.ColorWarning, text), nil
}
