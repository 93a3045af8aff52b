package relation

import (
	"errors"
	"strings"
	"testing"

	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
)

const seedYAML = `
stations:
  - station: technologist
    actions:
      - id: 2
        names: {en: Printed, bg: Отпечатано}
      - id: 1
        names: {en: Imposed}
    states:
      - id: 10
        hex: CCCCCC
        names: {en: Waiting}
      - id: 20
        hex: 6DC174
        names: {en: Done}
    relations:
      - {element: cover, action: 1, state: 10, default: true}
      - {element: cover, action: 1, state: 20, final: true}
      - {element: text, action: 2, state: 10, default: true}
`

func TestParseSeed_RejectsDuplicateDefault(t *testing.T) {
	data := `
stations:
  - station: workshop
    relations:
      - {element: cover, action: 1, state: 10, default: true}
      - {element: cover, action: 1, state: 11, default: true}
`
	_, err := ParseSeed([]byte(data))
	if !errors.Is(err, ErrDuplicateDefault) {
		t.Errorf("ParseSeed error = %v, want ErrDuplicateDefault", err)
	}
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown station", "stations:\n  - station: bindery\n", "unknown station"},
		{"preparer", "stations:\n  - station: preparer\n", "synthetic"},
		{"unknown element", "stations:\n  - station: fitter\n    relations:\n      - {element: spine, action: 1, state: 1}\n", "unknown element"},
		{"bad yaml", "stations: [", "parse seed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want to contain %q", err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	gormDB := testDB(t)
	seed, err := ParseSeed([]byte(seedYAML))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if err := Apply(gormDB, seed); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	r := newResolver()
	actions, err := r.Actions(gormDB, station.Technologist, locale.BG)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 2 || actions[0].ID != 2 || actions[0].Name != "Отпечатано" {
		t.Errorf("actions = %+v, want seed order with bg name", actions)
	}
	if actions[1].Name != "Imposed" {
		t.Errorf("actions[1].Name = %q, want English fallback", actions[1].Name)
	}

	states, err := r.States(gormDB, station.Technologist, locale.EN)
	if err != nil || len(states) != 2 || states[1].Hex != "6DC174" {
		t.Errorf("states = %+v, %v", states, err)
	}

	rels, err := r.Resolve(gormDB, station.Technologist, station.Cover)
	if err != nil || len(rels) != 2 {
		t.Fatalf("Resolve = %+v, %v", rels, err)
	}

	// Re-applying replaces the relation set instead of duplicating it.
	if err := Apply(gormDB, seed); err != nil {
		t.Fatalf("Apply again: %v", err)
	}
	var n int64
	gormDB.Model(&models.ElementActionStateRelation{}).Where("station = ?", station.Technologist).Count(&n)
	if n != 3 {
		t.Errorf("live relations = %d, want 3", n)
	}
}
