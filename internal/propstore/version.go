package propstore

import (
	"fmt"
	"time"

	"github.com/zulandar/pressyard/internal/db"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versioned lists the tables whose rows move together on a bump.
var versioned = []interface{}{
	&models.ProductionOrderProperty{},
	&models.ProductionOrderAdditionalProperty{},
	&models.ProductionOrderReadyCopies{},
}

// BumpVersion archives the live generation of an order at the given
// stations: every version-1 property, action and ready-copies row moves to
// a new version, one above anything the order has used so far (at least
// 2). It runs in its own transaction, or joins the caller's, and never
// deletes rows.
func BumpVersion(db *gorm.DB, prodOrderID uint, stations []station.Station) (int, error) {
	var newVersion int
	err := db.Transaction(func(tx *gorm.DB) error {
		v, err := nextVersion(tx, prodOrderID, stations)
		if err != nil {
			return err
		}
		for _, model := range versioned {
			res := tx.Model(model).
				Where("prod_order_id = ? AND station IN ? AND version = ?", prodOrderID, stations, models.CurrentVersion).
				Update("version", v)
			if res.Error != nil {
				return fmt.Errorf("propstore: bump %T of %d: %w", model, prodOrderID, res.Error)
			}
		}
		newVersion = v
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// nextVersion locks the order's generation row and advances it past every
// version in use.
func nextVersion(tx *gorm.DB, prodOrderID uint, stations []station.Station) (int, error) {
	gen := models.ProductionOrderGeneration{ProdOrderID: prodOrderID, Generation: models.CurrentVersion}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&gen).Error; err != nil {
		return 0, fmt.Errorf("propstore: init generation of %d: %w", prodOrderID, err)
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prod_order_id = ?", prodOrderID).First(&gen).Error; err != nil {
		return 0, fmt.Errorf("propstore: lock generation of %d: %w", prodOrderID, err)
	}

	next := gen.Generation + 1
	for _, model := range versioned {
		var top int
		err := tx.Model(model).
			Where("prod_order_id = ? AND station IN ?", prodOrderID, stations).
			Select("COALESCE(MAX(version), 0)").Scan(&top).Error
		if err != nil {
			return 0, fmt.Errorf("propstore: max version of %T for %d: %w", model, prodOrderID, err)
		}
		if top+1 > next {
			next = top + 1
		}
	}
	if next < models.CurrentVersion+1 {
		next = models.CurrentVersion + 1
	}

	if err := tx.Model(&models.ProductionOrderGeneration{}).
		Where("prod_order_id = ?", prodOrderID).Update("generation", next).Error; err != nil {
		return 0, fmt.Errorf("propstore: advance generation of %d: %w", prodOrderID, err)
	}
	return next, nil
}

// DefaultStateFunc returns the entry state of an action, ok=false when the
// action has none.
type DefaultStateFunc func(st station.Station, el station.Element, action uint) (uint, bool, error)

// Reseed re-creates live rows from the generation archived at version:
// property rows are copied, action rows restart at their default state.
// Actions without a default state are left out.
func Reseed(tx *gorm.DB, prodOrderID uint, stations []station.Station, version int, defaultState DefaultStateFunc) error {
	var props []models.ProductionOrderProperty
	if err := tx.Where("prod_order_id = ? AND station IN ? AND version = ?", prodOrderID, stations, version).
		Order("id").Find(&props).Error; err != nil {
		return fmt.Errorf("propstore: load generation %d of %d: %w", version, prodOrderID, err)
	}
	for _, p := range props {
		p.ID = 0
		p.Version = models.CurrentVersion
		p.CreatedAt, p.UpdatedAt = time.Time{}, time.Time{}
		if err := insert(tx, &p); err != nil {
			return fmt.Errorf("propstore: reseed properties %d/%s/%s: %w", prodOrderID, p.Station, p.ElementID, err)
		}
	}

	var actions []models.ProductionOrderAdditionalProperty
	if err := tx.Where("prod_order_id = ? AND station IN ? AND version = ?", prodOrderID, stations, version).
		Order("id").Find(&actions).Error; err != nil {
		return fmt.Errorf("propstore: load action generation %d of %d: %w", version, prodOrderID, err)
	}
	for _, a := range actions {
		state, ok, err := defaultState(a.Station, a.ElementID, a.ActionID)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		row := models.ProductionOrderAdditionalProperty{
			ProdOrderID: prodOrderID,
			Station:     a.Station,
			ElementID:   a.ElementID,
			ActionID:    a.ActionID,
			Version:     models.CurrentVersion,
			StateID:     state,
		}
		if err := insert(tx, &row); err != nil {
			return fmt.Errorf("propstore: reseed action %d of %d/%s/%s: %w", a.ActionID, prodOrderID, a.Station, a.ElementID, err)
		}
	}
	return nil
}

// insert creates row. A live row already holding its key is reported as
// db.ErrDuplicate.
func insert(tx *gorm.DB, row interface{}) error {
	err := tx.Create(row).Error
	if db.IsDuplicate(err) {
		return fmt.Errorf("%w: %w", db.ErrDuplicate, err)
	}
	return err
}
