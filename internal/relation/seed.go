package relation

import (
	"fmt"
	"os"

	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed is the YAML layout of station configuration.
type Seed struct {
	Stations []StationSeed `yaml:"stations"`
}

// StationSeed configures the actions, states and relations of one station.
type StationSeed struct {
	Station   string         `yaml:"station"`
	Actions   []NamedSeed    `yaml:"actions"`
	States    []NamedSeed    `yaml:"states"`
	Relations []RelationSeed `yaml:"relations"`
}

// NamedSeed is an action or a state.
type NamedSeed struct {
	ID    uint              `yaml:"id"`
	Hex   string            `yaml:"hex"`
	Names map[string]string `yaml:"names"`
}

// RelationSeed is one relation row.
type RelationSeed struct {
	Element string `yaml:"element"`
	Action  uint   `yaml:"action"`
	State   uint   `yaml:"state"`
	Default bool   `yaml:"default"`
	Final   bool   `yaml:"final"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relation: read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed unmarshals and validates a seed.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("relation: parse seed: %w", err)
	}
	for _, ss := range s.Stations {
		st, err := station.Parse(ss.Station)
		if err != nil {
			return nil, fmt.Errorf("relation: seed: %w", err)
		}
		if st == station.Preparer {
			return nil, fmt.Errorf("relation: seed: preparer relations are synthetic and cannot be seeded")
		}
		rels, err := ss.relations()
		if err != nil {
			return nil, err
		}
		if err := Validate(rels); err != nil {
			return nil, fmt.Errorf("relation: seed %s: %w", st, err)
		}
	}
	return &s, nil
}

func (ss StationSeed) relations() ([]Relation, error) {
	out := make([]Relation, 0, len(ss.Relations))
	for _, rs := range ss.Relations {
		el, err := station.ParseElement(rs.Element)
		if err != nil {
			return nil, fmt.Errorf("relation: seed %s: %w", ss.Station, err)
		}
		out = append(out, Relation{ElementID: el, ActionID: rs.Action, StateID: rs.State, IsDefault: rs.Default, IsFinal: rs.Final})
	}
	return out, nil
}

// Apply replaces each seeded station's configuration in one transaction.
// Previous relations are soft-deleted.
func Apply(db *gorm.DB, s *Seed) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, ss := range s.Stations {
			st, err := station.Parse(ss.Station)
			if err != nil {
				return err
			}
			rels, err := ss.relations()
			if err != nil {
				return err
			}
			if err := Validate(rels); err != nil {
				return fmt.Errorf("relation: seed %s: %w", st, err)
			}
			if err := applyStation(tx, st, ss, rels); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyStation(tx *gorm.DB, st station.Station, ss StationSeed, rels []Relation) error {
	for i, a := range ss.Actions {
		row := models.StationAction{Station: st, ID: a.ID, Position: i}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("relation: seed %s action %d: %w", st, a.ID, err)
		}
		if err := writeNames(tx, models.KindAction, st, a.ID, a.Names); err != nil {
			return err
		}
	}
	for i, s := range ss.States {
		row := models.StationState{Station: st, ID: s.ID, Hex: s.Hex, Position: i}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("relation: seed %s state %d: %w", st, s.ID, err)
		}
		if err := writeNames(tx, models.KindState, st, s.ID, s.Names); err != nil {
			return err
		}
	}
	if err := tx.Where("station = ?", st).Delete(&models.ElementActionStateRelation{}).Error; err != nil {
		return fmt.Errorf("relation: clear %s relations: %w", st, err)
	}
	for _, r := range rels {
		row := models.ElementActionStateRelation{
			Station:   st,
			ElementID: r.ElementID,
			ActionID:  r.ActionID,
			StateID:   r.StateID,
			IsDefault: r.IsDefault,
			IsFinal:   r.IsFinal,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("relation: seed %s relation: %w", st, err)
		}
	}
	return nil
}

func writeNames(tx *gorm.DB, kind string, st station.Station, ref uint, names map[string]string) error {
	for lang, name := range names {
		if _, ok := locale.Parse(lang); !ok {
			return fmt.Errorf("relation: %s %d: unsupported language %q", kind, ref, lang)
		}
		row := models.Translation{Kind: kind, Station: int(st), RefID: ref, Language: lang, Name: name}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "station"}, {Name: "ref_id"}, {Name: "language"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("relation: %s %d name: %w", kind, ref, err)
		}
	}
	return nil
}
