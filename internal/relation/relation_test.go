package relation

import (
	"errors"
	"testing"

	"github.com/zulandar/pressyard/internal/db"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}

func newResolver() *Resolver {
	return NewResolver(station.DefaultRegistry(), locale.Builtin())
}

func TestResolve_PreparerFallback(t *testing.T) {
	gormDB := testDB(t)

	rels, err := newResolver().Resolve(gormDB, station.Preparer, station.Text)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("len = %d, want 2", len(rels))
	}
	def, fin := rels[0], rels[1]
	if def.StateID != 1 || !def.IsDefault || def.IsFinal || def.ActionID != PreparerAction {
		t.Errorf("default relation = %+v", def)
	}
	if fin.StateID != 4 || fin.IsDefault || !fin.IsFinal || fin.ActionID != PreparerAction {
		t.Errorf("final relation = %+v", fin)
	}
	if def.ElementID != station.Text || fin.ElementID != station.Text {
		t.Errorf("element ids = %v, %v", def.ElementID, fin.ElementID)
	}
}

func TestPreparerStates_Configured(t *testing.T) {
	gormDB := testDB(t)
	gormDB.Create(&models.PreparerSpineState{ID: 2, IsDefault: true})
	gormDB.Create(&models.PreparerSpineState{ID: 6, IsFinal: true})
	gormDB.Create(&models.SampleState{ID: 3, IsDefault: true})
	gormDB.Create(&models.SampleState{ID: 8, IsFinal: true})
	gormDB.Create(&models.SampleStateRelation{SampleID: 4, StateID: 3})
	// Sample 2 is not an enabled sample, so its final state is ignored.
	gormDB.Create(&models.SampleStateRelation{SampleID: 2, StateID: 8})

	def, err := PreparerDefaults(gormDB)
	if err != nil {
		t.Fatalf("PreparerDefaults: %v", err)
	}
	if def != (PreparerStates{State: 2, Spine: 2, Sample: 3}) {
		t.Errorf("defaults = %+v", def)
	}

	fin, err := PreparerFinals(gormDB)
	if err != nil {
		t.Fatalf("PreparerFinals: %v", err)
	}
	if fin != (PreparerStates{State: 6, Spine: 6, Sample: 2}) {
		t.Errorf("finals = %+v, want sample fallback 2", fin)
	}

	rels, err := newResolver().Resolve(gormDB, station.Preparer, station.Cover)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rels[0].StateID != 2 || rels[1].StateID != 6 {
		t.Errorf("relations = %+v", rels)
	}
}

func TestResolve_TableBacked(t *testing.T) {
	gormDB := testDB(t)
	rows := []models.ElementActionStateRelation{
		{Station: station.Technologist, ElementID: station.Cover, ActionID: 1, StateID: 10, IsDefault: true},
		{Station: station.Technologist, ElementID: station.Cover, ActionID: 1, StateID: 20, IsFinal: true},
		{Station: station.Technologist, ElementID: station.Text, ActionID: 1, StateID: 10, IsDefault: true},
		{Station: station.Workshop, ElementID: station.Cover, ActionID: 1, StateID: 10, IsDefault: true},
	}
	for i := range rows {
		if err := gormDB.Create(&rows[i]).Error; err != nil {
			t.Fatal(err)
		}
	}
	gormDB.Delete(&rows[1])

	rels, err := newResolver().Resolve(gormDB, station.Technologist, station.Cover)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("len = %d, want 1 (other element, other station and deleted row excluded)", len(rels))
	}
	if rels[0].StateID != 10 || !rels[0].IsDefault || rels[0].ID != rows[0].ID {
		t.Errorf("relation = %+v", rels[0])
	}
}

func TestResolve_DisabledOrUnknownStation(t *testing.T) {
	gormDB := testDB(t)
	gormDB.Create(&models.ElementActionStateRelation{Station: station.Workshop, ElementID: station.Cover, ActionID: 1, StateID: 10})

	reg := station.NewRegistry(station.Entry{Station: station.Workshop, TableName: "workshop", Enabled: false})
	r := NewResolver(reg, locale.Builtin())

	rels, err := r.Resolve(gormDB, station.Workshop, station.Cover)
	if err != nil || len(rels) != 0 {
		t.Errorf("Resolve(disabled) = %v, %v; want empty", rels, err)
	}
	rels, err = r.Resolve(gormDB, station.Fitter, station.Cover)
	if err != nil || len(rels) != 0 {
		t.Errorf("Resolve(unregistered) = %v, %v; want empty", rels, err)
	}
	if _, ok := r.Capability(station.Workshop); ok {
		t.Error("Capability(disabled) should be absent")
	}
}

func TestNewResolver_CapabilityVariants(t *testing.T) {
	r := newResolver()
	c, ok := r.Capability(station.Preparer)
	if _, synthetic := c.(SyntheticSpineStation); !ok || !synthetic {
		t.Errorf("preparer capability = %T", c)
	}
	c, ok = r.Capability(station.CTP)
	tb, tableBacked := c.(TableBackedStation)
	if !ok || !tableBacked || tb.Station != station.CTP {
		t.Errorf("ctp capability = %#v", c)
	}
}

func TestDerivedQueries(t *testing.T) {
	rels := []Relation{
		{ActionID: 1, StateID: 10, IsDefault: true},
		{ActionID: 1, StateID: 11},
		{ActionID: 1, StateID: 12},
		{ActionID: 1, StateID: 20, IsFinal: true},
		{ActionID: 1, StateID: 21, IsFinal: true},
		{ActionID: 2, StateID: 30, IsDefault: true, IsFinal: true},
	}

	if id, ok := UniqueState(rels, 1); !ok || id != 12 {
		t.Errorf("UniqueState(1) = %d, %v; want last in-progress 12", id, ok)
	}
	if ids := UniqueStates(rels, 1); len(ids) != 2 || ids[0] != 11 || ids[1] != 12 {
		t.Errorf("UniqueStates(1) = %v", ids)
	}
	if _, ok := UniqueState(rels, 2); ok {
		t.Error("UniqueState(2) should be none")
	}
	if id, ok := DefaultState(rels, 1); !ok || id != 10 {
		t.Errorf("DefaultState(1) = %d, %v", id, ok)
	}
	if id, ok := FinalState(rels, 1); !ok || id != 21 {
		t.Errorf("FinalState(1) = %d, %v; want last final 21", id, ok)
	}
	if ids := FinalStates(rels, 1); len(ids) != 2 {
		t.Errorf("FinalStates(1) = %v", ids)
	}
	if id, ok := DefaultState(rels, 2); !ok || id != 30 {
		t.Errorf("DefaultState(2) = %d, %v", id, ok)
	}
	if id, ok := FinalState(rels, 2); !ok || id != 30 {
		t.Errorf("FinalState(2) = %d, %v", id, ok)
	}
	if _, ok := FinalState(rels, 3); ok {
		t.Error("FinalState(3) should be none")
	}
	if got := ForAction(rels, 2); len(got) != 1 {
		t.Errorf("ForAction(2) = %v", got)
	}
}

func TestResolverDerived_Preparer(t *testing.T) {
	gormDB := testDB(t)
	r := newResolver()

	def, ok, err := r.DefaultStateForAction(gormDB, station.Preparer, station.Text, PreparerAction)
	if err != nil || !ok || def != 1 {
		t.Errorf("DefaultStateForAction = %d, %v, %v", def, ok, err)
	}
	fin, ok, err := r.FinalStateForAction(gormDB, station.Preparer, station.Text, PreparerAction)
	if err != nil || !ok || fin != 4 {
		t.Errorf("FinalStateForAction = %d, %v, %v", fin, ok, err)
	}
	finals, err := r.FinalStatesForAction(gormDB, station.Preparer, station.Text, PreparerAction)
	if err != nil || len(finals) != 1 {
		t.Errorf("FinalStatesForAction = %v, %v", finals, err)
	}
	if _, ok, _ := r.UniqueStateForAction(gormDB, station.Preparer, station.Text, PreparerAction); ok {
		t.Error("preparer has no in-progress state")
	}
	uniq, err := r.UniqueStatesForAction(gormDB, station.Preparer, station.Text, PreparerAction)
	if err != nil || len(uniq) != 0 {
		t.Errorf("UniqueStatesForAction = %v, %v", uniq, err)
	}
}

func TestValidate(t *testing.T) {
	ok := []Relation{
		{ElementID: station.Cover, ActionID: 1, StateID: 10, IsDefault: true},
		{ElementID: station.Cover, ActionID: 1, StateID: 20, IsFinal: true},
		{ElementID: station.Cover, ActionID: 1, StateID: 21, IsFinal: true},
		{ElementID: station.Text, ActionID: 1, StateID: 10, IsDefault: true},
		{ElementID: station.Cover, ActionID: 2, StateID: 10, IsDefault: true},
	}
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(ok) = %v", err)
	}

	bad := append(ok, Relation{ElementID: station.Cover, ActionID: 1, StateID: 11, IsDefault: true})
	if err := Validate(bad); !errors.Is(err, ErrDuplicateDefault) {
		t.Errorf("Validate(bad) = %v, want ErrDuplicateDefault", err)
	}
}

func TestSyntheticStates(t *testing.T) {
	gormDB := testDB(t)
	gormDB.Create(&models.PreparerSpineState{ID: 1, Hex: "CCCCCC", IsDefault: true})
	gormDB.Create(&models.Translation{Kind: models.KindPreparerState, RefID: 1, Language: "en", Name: "Not started"})

	r := newResolver()
	states, err := r.States(gormDB, station.Preparer, locale.EN)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("len = %d, want 2", len(states))
	}
	if states[0].ID != 1 || states[0].Hex != "CCCCCC" || states[0].Name != "Not started" {
		t.Errorf("default state = %+v", states[0])
	}
	if states[1].ID != 4 || states[1].Name != "Ready" {
		t.Errorf("final state = %+v, want fallback id 4 and built-in name", states[1])
	}

	actions, err := r.Actions(gormDB, station.Preparer, locale.BG)
	if err != nil || len(actions) != 1 || actions[0].ID != PreparerAction || actions[0].Name != "Готово" {
		t.Errorf("Actions = %+v, %v", actions, err)
	}
}
