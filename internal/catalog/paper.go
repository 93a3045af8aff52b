package catalog

import (
	"errors"
	"fmt"

	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"gorm.io/gorm"
)

// PaperName returns the localized paper name.
func PaperName(db *gorm.DB, id uint, lang locale.Lang) (string, bool, error) {
	return Name(db, models.KindPaperName, 0, id, lang)
}

// PaperColor returns the localized paper color.
func PaperColor(db *gorm.DB, id uint, lang locale.Lang) (string, bool, error) {
	return Name(db, models.KindPaperColor, 0, id, lang)
}

// PaperDensity returns the paper weight in g/m2.
func PaperDensity(db *gorm.DB, id uint) (int, bool, error) {
	var row models.PaperDensity
	ok, err := first(db, &row, id)
	if err != nil || !ok {
		return 0, false, err
	}
	return row.Density, true, nil
}

// PaperSize returns the sheet format.
func PaperSize(db *gorm.DB, id uint) (models.PaperSize, bool, error) {
	var row models.PaperSize
	ok, err := first(db, &row, id)
	if err != nil || !ok {
		return models.PaperSize{}, false, err
	}
	return row, true, nil
}

// Machines lists printing machines.
func Machines(db *gorm.DB) ([]Entry, error) {
	return named(db, &models.Machine{})
}

// Colors lists print color schemes.
func Colors(db *gorm.DB) ([]Entry, error) {
	return named(db, &models.Color{})
}

// Suppliers lists paper suppliers.
func Suppliers(db *gorm.DB) ([]Entry, error) {
	return named(db, &models.Supplier{})
}

// Bindings lists binding types.
func Bindings(db *gorm.DB) ([]Entry, error) {
	return named(db, &models.Binding{})
}

func named(db *gorm.DB, model interface{}) ([]Entry, error) {
	var out []Entry
	if err := db.Model(model).Select("id, name").Order("id").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: list %T: %w", model, err)
	}
	return out, nil
}

func first(db *gorm.DB, dest interface{}, id uint) (bool, error) {
	err := db.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("catalog: get %T %d: %w", dest, id, err)
	}
	return true, nil
}
