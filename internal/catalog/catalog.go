// Package catalog serves the reference lists of the shop: elements, samples,
// second productions, folds, laces, bands and paper descriptors. Built-in
// lists can be overridden by database rows.
package catalog

import (
	"errors"
	"fmt"

	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// MissingName is returned for ids without a translated name.
const MissingName = "ERROR"

// Entry is a localized catalog row.
type Entry struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Band is a lace or a head and tail band.
type Band struct {
	ID    uint    `json:"id"`
	Code  string  `json:"code"`
	Price float64 `json:"price"`
	Name  string  `json:"name"`
}

// Names loads every translation of a kind, grouped by ref id.
func Names(db *gorm.DB, kind string, st station.Station) (map[uint]locale.Names, error) {
	var rows []models.Translation
	if err := db.Where("kind = ? AND station = ?", kind, int(st)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: load %s names: %w", kind, err)
	}
	out := make(map[uint]locale.Names)
	for _, r := range rows {
		if out[r.RefID] == nil {
			out[r.RefID] = locale.Names{}
		}
		out[r.RefID][locale.Lang(r.Language)] = r.Name
	}
	return out, nil
}

// Name returns the translated name of one row. ok is false when none exists
// in the requested language.
func Name(db *gorm.DB, kind string, st station.Station, id uint, lang locale.Lang) (string, bool, error) {
	var row models.Translation
	err := db.Where("kind = ? AND station = ? AND ref_id = ? AND language = ?", kind, int(st), id, string(lang)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("catalog: %s %d name: %w", kind, id, err)
	}
	return row.Name, true, nil
}

// Elements returns the production elements from the database, or the
// built-in list when the table is empty.
func Elements(db *gorm.DB) ([]ElementItem, error) {
	var rows []models.ProductionElement
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: list elements: %w", err)
	}
	if len(rows) == 0 {
		return StaticElements(), nil
	}
	names, err := Names(db, models.KindElement, 0)
	if err != nil {
		return nil, err
	}
	out := make([]ElementItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, ElementItem{ID: r.ID, Slug: r.Slug, Names: names[uint(r.ID)]})
	}
	return out, nil
}

// ElementName returns the element's name, or MissingName.
func ElementName(db *gorm.DB, id station.Element, lang locale.Lang) string {
	name, ok, err := Name(db, models.KindElement, 0, uint(id), lang)
	if err != nil || !ok {
		return MissingName
	}
	return name
}

// Samples returns the sample catalog keyed by id. With useDB, database rows
// replace built-in entries of the same id.
func Samples(db *gorm.DB, useDB bool) (map[uint]Item, error) {
	out := make(map[uint]Item)
	for _, s := range StaticSamples() {
		out[s.ID] = s
	}
	if !useDB {
		return out, nil
	}
	var rows []models.Sample
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: list samples: %w", err)
	}
	names, err := Names(db, models.KindSample, 0)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = Item{ID: r.ID, Hex: r.Hex, Names: names[r.ID]}
	}
	return out, nil
}

// Sample returns one localized sample.
func Sample(db *gorm.DB, id uint, useDB bool, lang locale.Lang) (Entry, bool, error) {
	all, err := Samples(db, useDB)
	if err != nil {
		return Entry{}, false, err
	}
	s, ok := all[id]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{ID: s.ID, Name: s.Names.Pick(lang)}, true, nil
}

// OrderHasSample reports whether a sample type needs preparer work.
func OrderHasSample(db *gorm.DB, sampleID uint, useDB bool) (bool, error) {
	for _, id := range EnabledSamples() {
		if id == sampleID {
			return true, nil
		}
	}
	if !useDB {
		return false, nil
	}
	var n int64
	if err := db.Model(&models.SampleStateRelation{}).Where("sample_id = ?", sampleID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("catalog: sample %d relations: %w", sampleID, err)
	}
	return n > 0, nil
}

// SecondProductions returns the second production catalog keyed by id.
func SecondProductions(db *gorm.DB, useDB bool) (map[uint]Item, error) {
	out := make(map[uint]Item)
	for _, p := range StaticSecondProductions() {
		out[p.ID] = p
	}
	if !useDB {
		return out, nil
	}
	var rows []models.SecondProduction
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: list second productions: %w", err)
	}
	names, err := Names(db, models.KindSecondProduction, 0)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = Item{ID: r.ID, Names: names[r.ID]}
	}
	return out, nil
}

// SecondProduction returns one localized second production.
func SecondProduction(db *gorm.DB, id uint, useDB bool, lang locale.Lang) (Entry, bool, error) {
	all, err := SecondProductions(db, useDB)
	if err != nil {
		return Entry{}, false, err
	}
	p, ok := all[id]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{ID: p.ID, Name: p.Names.Pick(lang)}, true, nil
}

// Bending returns one localized fold option.
func Bending(id uint, lang locale.Lang) (Entry, bool) {
	for _, b := range Bendings() {
		if b.ID == id {
			return Entry{ID: b.ID, Name: b.Names.Pick(lang)}, true
		}
	}
	return Entry{}, false
}

// Laces lists laces with names in lang. Laces without a name are skipped.
func Laces(db *gorm.DB, lang locale.Lang) ([]Band, error) {
	var rows []models.Lace
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: list laces: %w", err)
	}
	var bands []Band
	for _, r := range rows {
		bands = append(bands, Band{ID: r.ID, Code: r.Code, Price: r.Price})
	}
	return localizeBands(db, models.KindLace, bands, lang)
}

// Lace returns one lace, or the zero Band when it does not exist.
func Lace(db *gorm.DB, id uint, lang locale.Lang) (Band, error) {
	all, err := Laces(db, lang)
	if err != nil {
		return Band{}, err
	}
	return findBand(all, id), nil
}

// Bands lists head and tail bands with names in lang.
func Bands(db *gorm.DB, lang locale.Lang) ([]Band, error) {
	var rows []models.HeadTailBand
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: list bands: %w", err)
	}
	var bands []Band
	for _, r := range rows {
		bands = append(bands, Band{ID: r.ID, Code: r.Code, Price: r.Price})
	}
	return localizeBands(db, models.KindBand, bands, lang)
}

// HeadTailBand returns one band, or the zero Band when it does not exist.
func HeadTailBand(db *gorm.DB, id uint, lang locale.Lang) (Band, error) {
	all, err := Bands(db, lang)
	if err != nil {
		return Band{}, err
	}
	return findBand(all, id), nil
}

func localizeBands(db *gorm.DB, kind string, bands []Band, lang locale.Lang) ([]Band, error) {
	names, err := Names(db, kind, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Band, 0, len(bands))
	for _, b := range bands {
		n, ok := names[b.ID][lang]
		if !ok {
			continue
		}
		b.Name = n
		out = append(out, b)
	}
	return out, nil
}

func findBand(all []Band, id uint) Band {
	for _, b := range all {
		if b.ID == id {
			return b
		}
	}
	return Band{}
}
