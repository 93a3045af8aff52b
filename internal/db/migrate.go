package db

import (
	"fmt"

	"github.com/zulandar/pressyard/internal/catalog"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns every GORM model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.ProductionElement{},
		&models.StationAction{},
		&models.StationState{},
		&models.ElementActionStateRelation{},
		&models.PreparerSpineState{},
		&models.SampleState{},
		&models.SampleStateRelation{},
		&models.Order{},
		&models.ProductionOrder{},
		&models.ProductionOrderGeneration{},
		&models.ProductionOrderProperty{},
		&models.ProductionOrderAdditionalProperty{},
		&models.ProductionOrderArrange{},
		&models.ProductionOrderReadyCopies{},
		&models.ProductionOrderHistory{},
		&models.User{},
		&models.ProductionOperator{},
		&models.Translation{},
		&models.Sample{},
		&models.SecondProduction{},
		&models.Lace{},
		&models.HeadTailBand{},
		&models.PaperName{},
		&models.PaperColor{},
		&models.PaperDensity{},
		&models.PaperSize{},
		&models.Machine{},
		&models.Color{},
		&models.Supplier{},
		&models.Binding{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// DropAll drops every table in AllModels.
func DropAll(db *gorm.DB) error {
	if err := db.Migrator().DropTable(AllModels()...); err != nil {
		return fmt.Errorf("db: drop tables: %w", err)
	}
	return nil
}

// SeedCatalog upserts the built-in catalogs: elements, samples, second
// productions and the preparer spine states, each with its translations.
func SeedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, e := range catalog.StaticElements() {
			row := models.ProductionElement{ID: e.ID, Slug: e.ID.String()}
			if err := upsert(tx, &row, []string{"slug"}); err != nil {
				return fmt.Errorf("db: seed element %d: %w", e.ID, err)
			}
			if err := seedNames(tx, models.KindElement, 0, uint(e.ID), e.Names); err != nil {
				return err
			}
		}
		for _, s := range catalog.StaticSamples() {
			row := models.Sample{ID: s.ID, Hex: s.Hex}
			if err := upsert(tx, &row, []string{"hex"}); err != nil {
				return fmt.Errorf("db: seed sample %d: %w", s.ID, err)
			}
			if err := seedNames(tx, models.KindSample, 0, s.ID, s.Names); err != nil {
				return err
			}
		}
		for _, p := range catalog.StaticSecondProductions() {
			row := models.SecondProduction{ID: p.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("db: seed second production %d: %w", p.ID, err)
			}
			if err := seedNames(tx, models.KindSecondProduction, 0, p.ID, p.Names); err != nil {
				return err
			}
		}
		for _, s := range catalog.StaticPreparerStates() {
			row := models.PreparerSpineState{ID: s.ID, Hex: s.Hex, IsDefault: s.IsDefault, IsFinal: s.IsFinal}
			if err := upsert(tx, &row, []string{"hex", "is_default", "is_final"}); err != nil {
				return fmt.Errorf("db: seed preparer state %d: %w", s.ID, err)
			}
			if err := seedNames(tx, models.KindPreparerState, 0, s.ID, s.Names); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsert(tx *gorm.DB, row interface{}, cols []string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(row).Error
}

func seedNames(tx *gorm.DB, kind string, st int, ref uint, names locale.Names) error {
	for lang, name := range names {
		row := models.Translation{Kind: kind, Station: st, RefID: ref, Language: string(lang), Name: name}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "station"}, {Name: "ref_id"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("db: seed %s %d name (%s): %w", kind, ref, lang, err)
		}
	}
	return nil
}
