// Package propstore reads and versions the per-station production order
// rows. The row with version models.CurrentVersion is the live one; older
// generations are kept with higher version numbers and never deleted.
package propstore

import (
	"errors"
	"fmt"

	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CurrentProperties returns the live property row, or nil when none exists.
func CurrentProperties(db *gorm.DB, prodOrderID uint, st station.Station, el station.Element) (*models.ProductionOrderProperty, error) {
	var row models.ProductionOrderProperty
	err := db.Where("prod_order_id = ? AND station = ? AND element_id = ? AND version = ?",
		prodOrderID, st, el, models.CurrentVersion).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("propstore: properties %d/%s/%s: %w", prodOrderID, st, el, err)
	}
	return &row, nil
}

// CurrentAdditionalProperty returns the live action row, or nil.
func CurrentAdditionalProperty(db *gorm.DB, prodOrderID uint, st station.Station, el station.Element, action uint) (*models.ProductionOrderAdditionalProperty, error) {
	var row models.ProductionOrderAdditionalProperty
	err := db.Where("prod_order_id = ? AND station = ? AND element_id = ? AND action_id = ? AND version = ?",
		prodOrderID, st, el, action, models.CurrentVersion).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("propstore: action %d of %d/%s/%s: %w", action, prodOrderID, st, el, err)
	}
	return &row, nil
}

// CurrentAdditionalProperties returns every live action row of an order at
// a station, ordered by element then action.
func CurrentAdditionalProperties(db *gorm.DB, prodOrderID uint, st station.Station) ([]models.ProductionOrderAdditionalProperty, error) {
	var rows []models.ProductionOrderAdditionalProperty
	err := db.Where("prod_order_id = ? AND station = ? AND version = ?", prodOrderID, st, models.CurrentVersion).
		Order("element_id, action_id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("propstore: actions of %d/%s: %w", prodOrderID, st, err)
	}
	return rows, nil
}

// DistinctElements returns the elements with a live action row at st.
func DistinctElements(db *gorm.DB, prodOrderID uint, st station.Station) ([]station.Element, error) {
	var ids []station.Element
	err := db.Model(&models.ProductionOrderAdditionalProperty{}).
		Where("prod_order_id = ? AND station = ? AND version = ?", prodOrderID, st, models.CurrentVersion).
		Distinct("element_id").Order("element_id").Pluck("element_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("propstore: elements of %d/%s: %w", prodOrderID, st, err)
	}
	return ids, nil
}

// SaveProperties inserts or replaces the live property row of its key.
func SaveProperties(db *gorm.DB, row *models.ProductionOrderProperty) error {
	row.Version = models.CurrentVersion
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "prod_order_id"}, {Name: "station"}, {Name: "element_id"}, {Name: "version"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("propstore: save properties %d/%s/%s: %w", row.ProdOrderID, row.Station, row.ElementID, err)
	}
	return nil
}

// SetActionState records the current state of an action, creating the live
// row when needed.
func SetActionState(db *gorm.DB, prodOrderID uint, st station.Station, el station.Element, action, state, operatorID uint, remarks string) error {
	row := models.ProductionOrderAdditionalProperty{
		ProdOrderID: prodOrderID,
		Station:     st,
		ElementID:   el,
		ActionID:    action,
		Version:     models.CurrentVersion,
		StateID:     state,
		OperatorID:  operatorID,
		Remarks:     remarks,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prod_order_id"}, {Name: "station"}, {Name: "element_id"}, {Name: "action_id"}, {Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"state_id", "operator_id", "remarks", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("propstore: set action %d of %d/%s/%s: %w", action, prodOrderID, st, el, err)
	}
	return nil
}

// ReadyCopies returns the live ready-copies count, 0 when none recorded.
func ReadyCopies(db *gorm.DB, prodOrderID uint, st station.Station) (int, error) {
	var row models.ProductionOrderReadyCopies
	res := db.Where("prod_order_id = ? AND station = ? AND version = ?", prodOrderID, st, models.CurrentVersion).
		Order("id DESC").Limit(1).Find(&row)
	if res.Error != nil {
		return 0, fmt.Errorf("propstore: ready copies %d/%s: %w", prodOrderID, st, res.Error)
	}
	return row.Copies, nil
}
