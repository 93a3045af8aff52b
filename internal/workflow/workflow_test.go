package workflow

import (
	"errors"
	"testing"

	"github.com/zulandar/pressyard/internal/db"
	"github.com/zulandar/pressyard/internal/identity"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/propstore"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	systemEmail = "press@print.example"
	orderID     = uint(1)
	prodOrderID = uint(10)
	salesUser   = uint(2)
	techUser    = uint(3)
	shopUser    = uint(4)
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

func mustCreate(t *testing.T, gormDB *gorm.DB, rows ...interface{}) {
	t.Helper()
	for _, r := range rows {
		if err := gormDB.Create(r).Error; err != nil {
			t.Fatalf("create %T: %v", r, err)
		}
	}
}

// fixture seeds one in-house order with a technologist and a workshop
// operator. Cover at the technologist has action 1 with default state 5 and
// final state 6; text at the workshop the same.
func fixture(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	gormDB := testDB(t)
	mustCreate(t, gormDB,
		&models.Order{ID: orderID, Name: "Atlas", ProductID: 1, OrderStateID: 4, PrintingID: 1, CreatedBy: salesUser},
		&models.ProductionOrder{ID: prodOrderID, OrderID: orderID, Version: 1, RealSpine: 12.5},
		&models.User{ID: salesUser, Email: "sales@print.example", FirstName: "Sofia", LastName: "Ivanova"},
		&models.User{ID: techUser, Email: "tech@print.example", FirstName: "Todor"},
		&models.User{ID: shopUser, Email: "shop@print.example", FirstName: "Petar"},
		&models.ProductionOperator{UserID: techUser, Station: station.Technologist},
		&models.ProductionOperator{UserID: shopUser, Station: station.Workshop},
	)
	for _, st := range []station.Station{station.Technologist, station.Workshop} {
		for _, el := range []station.Element{station.Cover, station.Text} {
			mustCreate(t, gormDB,
				&models.ElementActionStateRelation{Station: st, ElementID: el, ActionID: 1, StateID: 5, IsDefault: true},
				&models.ElementActionStateRelation{Station: st, ElementID: el, ActionID: 1, StateID: 6, IsFinal: true},
			)
		}
	}
	svc := &Service{
		DB:          gormDB,
		Resolver:    relation.NewResolver(station.DefaultRegistry(), locale.Builtin()),
		SystemEmail: systemEmail,
		Translator:  locale.Builtin(),
		Lang:        locale.EN,
		Locks:       NewOrderLocks(),
	}
	return gormDB, svc
}

func setArrangeT(t *testing.T, gormDB *gorm.DB, st station.Station, flag models.ArrangeFlag) {
	t.Helper()
	if err := setArrange(gormDB, prodOrderID, st, flag); err != nil {
		t.Fatalf("setArrange: %v", err)
	}
}

func setStateT(t *testing.T, gormDB *gorm.DB, st station.Station, el station.Element, state uint) {
	t.Helper()
	if err := propstore.SetActionState(gormDB, prodOrderID, st, el, 1, state, 0, ""); err != nil {
		t.Fatalf("SetActionState: %v", err)
	}
}

func saveProps(t *testing.T, gormDB *gorm.DB, row models.ProductionOrderProperty) {
	t.Helper()
	row.ProdOrderID = prodOrderID
	if err := propstore.SaveProperties(gormDB, &row); err != nil {
		t.Fatalf("SaveProperties: %v", err)
	}
}

func flagOf(t *testing.T, gormDB *gorm.DB, st station.Station) models.ArrangeFlag {
	t.Helper()
	row, err := arrange(gormDB, prodOrderID, st)
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if row == nil {
		return 0
	}
	return row.Flag
}

func TestRevertToPreparer(t *testing.T) {
	gormDB, svc := fixture(t)
	setArrangeT(t, gormDB, station.Technologist, models.ArrangeEditing)
	setArrangeT(t, gormDB, station.Fitter, models.ArrangeInactive)
	setStateT(t, gormDB, station.Technologist, station.Cover, 6)
	saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Technologist, ElementID: station.Cover, Pages: 100})

	recs, err := svc.RevertToPreparer(orderID, techUser)
	if err != nil {
		t.Fatalf("RevertToPreparer: %v", err)
	}

	if got := flagOf(t, gormDB, station.Technologist); got != models.ArrangeInactive {
		t.Errorf("technologist flag = %d, want inactive", got)
	}
	if got := flagOf(t, gormDB, station.Completion); got != models.ArrangeInactive {
		t.Errorf("completion flag = %d, want inactive", got)
	}

	cur, err := propstore.CurrentAdditionalProperty(gormDB, prodOrderID, station.Technologist, station.Cover, 1)
	if err != nil || cur == nil {
		t.Fatalf("current action = %v, %v", cur, err)
	}
	if cur.StateID != 5 {
		t.Errorf("reseeded state = %d, want default 5", cur.StateID)
	}
	var archived models.ProductionOrderAdditionalProperty
	if err := gormDB.Where("prod_order_id = ? AND version > 1", prodOrderID).First(&archived).Error; err != nil {
		t.Fatalf("archived row: %v", err)
	}
	if archived.StateID != 6 || archived.Version < 2 {
		t.Errorf("archived = %+v", archived)
	}
	props, err := propstore.CurrentProperties(gormDB, prodOrderID, station.Technologist, station.Cover)
	if err != nil || props == nil || props.Pages != 100 {
		t.Errorf("reseeded properties = %+v, %v", props, err)
	}

	var history int64
	gormDB.Model(&models.ProductionOrderHistory{}).Where("prod_order_id = ?", prodOrderID).Count(&history)
	if history != int64(len(station.ConvertibleStations())) {
		t.Errorf("history lines = %d, want %d", history, len(station.ConvertibleStations()))
	}

	var to []uint
	for _, r := range recs {
		to = append(to, r.To.ID)
		if r.Subject != "ID: 1 / Title: Atlas - reverted" {
			t.Errorf("subject = %q", r.Subject)
		}
		if r.From.ID != techUser {
			t.Errorf("from = %+v", r.From)
		}
		if len(r.Logs) != 1 || r.Logs[0] != "The order was reverted" {
			t.Errorf("logs = %v", r.Logs)
		}
	}
	if len(to) != 3 || to[0] != techUser || to[1] != shopUser || to[2] != 0 {
		t.Errorf("recipients = %v, want [3 4 0]", to)
	}
}

func TestRevertToPreparer_FitterActive(t *testing.T) {
	gormDB, svc := fixture(t)
	setArrangeT(t, gormDB, station.Fitter, models.ArrangeEditing)

	_, err := svc.RevertToPreparer(orderID, techUser)
	if !errors.Is(err, ErrStationActive) {
		t.Errorf("err = %v, want ErrStationActive", err)
	}
}

func TestRevertToPreparer_MissingOrder(t *testing.T) {
	_, svc := fixture(t)
	recs, err := svc.RevertToPreparer(999, techUser)
	if err != nil || recs != nil {
		t.Errorf("RevertToPreparer(999) = %v, %v", recs, err)
	}
}

func TestDeleteProductionOrder(t *testing.T) {
	gormDB, svc := fixture(t)
	setArrangeT(t, gormDB, station.Technologist, models.ArrangeEditing)
	setArrangeT(t, gormDB, station.Workshop, models.ArrangeInactive)
	setStateT(t, gormDB, station.Technologist, station.Cover, 5)
	saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Technologist, ElementID: station.Cover})
	mustCreate(t, gormDB, &models.ProductionOrderHistory{ProdOrderID: prodOrderID, Text: "x"})

	recs, err := svc.DeleteProductionOrder(orderID)
	if err != nil {
		t.Fatalf("DeleteProductionOrder: %v", err)
	}
	for _, model := range []interface{}{
		&models.ProductionOrderArrange{},
		&models.ProductionOrderHistory{},
		&models.ProductionOrderProperty{},
		&models.ProductionOrderAdditionalProperty{},
	} {
		var n int64
		gormDB.Model(model).Where("prod_order_id = ?", prodOrderID).Count(&n)
		if n != 0 {
			t.Errorf("%T rows left = %d", model, n)
		}
	}
	var n int64
	gormDB.Model(&models.ProductionOrder{}).Where("order_id = ?", orderID).Count(&n)
	if n != 0 {
		t.Errorf("production orders left = %d", n)
	}

	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.To.ID != techUser || rec.From.ID != salesUser {
		t.Errorf("from %d to %d", rec.From.ID, rec.To.ID)
	}
	if rec.Subject != "ID: 1 / Title: Atlas - DELETED" {
		t.Errorf("subject = %q", rec.Subject)
	}
	if rec.Logs[0] != "ID: 1 / Title: Atlas was deleted by (sales): Sofia Ivanova" {
		t.Errorf("log = %q", rec.Logs[0])
	}
}

func TestDeleteProductionOrder_NobodyStarted(t *testing.T) {
	gormDB, svc := fixture(t)
	setArrangeT(t, gormDB, station.Technologist, models.ArrangeInactive)

	recs, err := svc.DeleteProductionOrder(orderID)
	if err != nil {
		t.Fatalf("DeleteProductionOrder: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("records = %d, want 0", len(recs))
	}
}

func TestRevertProperties(t *testing.T) {
	gormDB, svc := fixture(t)

	tos, err := svc.RevertProperties(prodOrderID, station.Workshop)
	if err != nil || tos != nil {
		t.Fatalf("empty order: %v, %v", tos, err)
	}

	setStateT(t, gormDB, station.Workshop, station.Text, 5)
	saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Workshop, ElementID: station.Text})

	tos, err = svc.RevertProperties(prodOrderID, station.Workshop)
	if err != nil {
		t.Fatalf("RevertProperties: %v", err)
	}
	if len(tos) != 1 || tos[0].ID != shopUser {
		t.Errorf("recipients = %+v", tos)
	}
	recs, err := svc.PropertiesRevertedRecords(prodOrderID, station.Workshop, tos)
	if err != nil {
		t.Fatalf("PropertiesRevertedRecords: %v", err)
	}
	if len(recs) != 1 || !recs[0].From.IsSystem() || recs[0].To.ID != shopUser {
		t.Fatalf("records = %+v", recs)
	}
	if want := "ID: 1 / Title: Atlas - reverted"; recs[0].Subject != want {
		t.Errorf("subject = %q, want %q", recs[0].Subject, want)
	}
	if recs, _ := svc.PropertiesRevertedRecords(99, station.Workshop, tos); recs != nil {
		t.Errorf("missing order records = %+v", recs)
	}
	props, _ := propstore.CurrentProperties(gormDB, prodOrderID, station.Workshop, station.Text)
	if props != nil {
		t.Errorf("live properties left: %+v", props)
	}
	var total int64
	gormDB.Model(&models.ProductionOrderProperty{}).Where("prod_order_id = ?", prodOrderID).Count(&total)
	if total != 1 {
		t.Errorf("property rows = %d, want 1 (archived, not deleted)", total)
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name      string
		state     uint
		allow     AllowListFunc
		wantErr   error
		wantFrom  models.ArrangeFlag
		wantTo    models.ArrangeFlag
		converted int
	}{
		{name: "final state converts", state: 6, wantFrom: models.ArrangeDone, wantTo: models.ArrangeEditing, converted: 1},
		{name: "default state holds back", state: 5, wantErr: ErrNothingToAdvance, wantFrom: models.ArrangeEditing},
		{
			name:     "action not allowed",
			state:    6,
			allow:    func(from, to station.Station) ([]uint, bool) { return []uint{2}, true },
			wantErr:  ErrNothingToAdvance,
			wantFrom: models.ArrangeEditing,
		},
		{
			name:      "allowed action",
			state:     6,
			allow:     func(from, to station.Station) ([]uint, bool) { return []uint{1}, true },
			wantFrom:  models.ArrangeDone,
			wantTo:    models.ArrangeEditing,
			converted: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, svc := fixture(t)
			svc.AllowList = tt.allow
			setArrangeT(t, gormDB, station.Technologist, models.ArrangeEditing)
			setStateT(t, gormDB, station.Technologist, station.Cover, tt.state)
			saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Workshop, ElementID: station.Cover})

			res, err := svc.Advance(prodOrderID, station.Technologist, station.Workshop, techUser)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := res.Converted.Cardinality(); got != tt.converted {
				t.Errorf("converted = %d, want %d", got, tt.converted)
			}
			if got := flagOf(t, gormDB, station.Technologist); got != tt.wantFrom {
				t.Errorf("source flag = %d, want %d", got, tt.wantFrom)
			}
			if got := flagOf(t, gormDB, station.Workshop); got != tt.wantTo {
				t.Errorf("target flag = %d, want %d", got, tt.wantTo)
			}
		})
	}
}

func TestAdvance_OpensFreshTarget(t *testing.T) {
	tests := []struct {
		name    string
		state   uint
		wantErr error
		wantRow bool
	}{
		{name: "first entry converts", state: 6, wantRow: true},
		{name: "hold back writes nothing", state: 5, wantErr: ErrNothingToAdvance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, svc := fixture(t)
			setArrangeT(t, gormDB, station.Technologist, models.ArrangeEditing)
			setStateT(t, gormDB, station.Technologist, station.Cover, tt.state)

			res, err := svc.Advance(prodOrderID, station.Technologist, station.Workshop, techUser)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			cur, err := propstore.CurrentAdditionalProperty(gormDB, prodOrderID, station.Workshop, station.Cover, 1)
			if err != nil {
				t.Fatalf("CurrentAdditionalProperty: %v", err)
			}
			if (cur != nil) != tt.wantRow {
				t.Fatalf("workshop row = %+v, want present %v", cur, tt.wantRow)
			}
			if !tt.wantRow {
				return
			}
			if cur.StateID != 5 {
				t.Errorf("workshop state = %d, want default 5", cur.StateID)
			}
			if !res.Converted.Contains(station.Cover) {
				t.Errorf("converted = %v, want cover", res.ConvertedElements())
			}
			if got := flagOf(t, gormDB, station.Workshop); got != models.ArrangeEditing {
				t.Errorf("target flag = %d, want editing", got)
			}
			els, err := propstore.DistinctElements(gormDB, prodOrderID, station.Workshop)
			if err != nil {
				t.Fatalf("DistinctElements: %v", err)
			}
			if len(els) != 1 {
				t.Errorf("workshop elements = %v, want only cover", els)
			}
		})
	}
}

func TestSetState(t *testing.T) {
	gormDB, svc := fixture(t)

	err := svc.SetState(prodOrderID, station.Technologist, station.Cover, 1, 99, techUser, "")
	if !errors.Is(err, ErrIllegalState) {
		t.Errorf("illegal state err = %v", err)
	}

	if err := svc.SetState(prodOrderID, station.Technologist, station.Cover, 1, 6, techUser, "done"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	cur, _ := propstore.CurrentAdditionalProperty(gormDB, prodOrderID, station.Technologist, station.Cover, 1)
	if cur == nil || cur.StateID != 6 || cur.Remarks != "done" || cur.OperatorID == 0 {
		t.Errorf("current = %+v", cur)
	}

	if err := svc.SetState(prodOrderID, station.Preparer, station.Text, relation.PreparerAction, 4, techUser, "spine ok"); err != nil {
		t.Fatalf("SetState preparer: %v", err)
	}
	props, _ := propstore.CurrentProperties(gormDB, prodOrderID, station.Preparer, station.Text)
	if props == nil || props.SpineStateID != 4 || props.RemarksSpine != "spine ok" {
		t.Errorf("preparer properties = %+v", props)
	}
	if err := svc.SetState(prodOrderID, station.Preparer, station.Text, relation.PreparerAction, 1, techUser, ""); err != nil {
		t.Fatalf("SetState preparer again: %v", err)
	}
	props, _ = propstore.CurrentProperties(gormDB, prodOrderID, station.Preparer, station.Text)
	if props.SpineStateID != 1 {
		t.Errorf("spine = %d, want 1", props.SpineStateID)
	}
}

func TestProductionState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, gormDB *gorm.DB)
		want  ProductionState
	}{
		{
			name:  "no preparer row",
			setup: func(t *testing.T, gormDB *gorm.DB) {},
			want:  SendToPreparer,
		},
		{
			name: "printed elsewhere",
			setup: func(t *testing.T, gormDB *gorm.DB) {
				gormDB.Model(&models.Order{}).Where("id = ?", orderID).Update("printing_id", 2)
				saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Preparer, ElementID: station.Text, SpineStateID: 4})
				setArrangeT(t, gormDB, station.Fitter, models.ArrangeInactive)
			},
			want: SendToPreparer,
		},
		{
			name: "at preparer",
			setup: func(t *testing.T, gormDB *gorm.DB) {
				saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Preparer, ElementID: station.Text, SpineStateID: 1})
				setArrangeT(t, gormDB, station.Fitter, models.ArrangeInactive)
			},
			want: RevertFromPreparer,
		},
		{
			name: "preparer done",
			setup: func(t *testing.T, gormDB *gorm.DB) {
				saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Preparer, ElementID: station.Text, SpineStateID: 4})
				setArrangeT(t, gormDB, station.Fitter, models.ArrangeInactive)
			},
			want: SendToProduction,
		},
		{
			name: "in production",
			setup: func(t *testing.T, gormDB *gorm.DB) {
				saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Preparer, ElementID: station.Text, SpineStateID: 4})
				setArrangeT(t, gormDB, station.Fitter, models.ArrangeInactive)
				setArrangeT(t, gormDB, station.Workshop, models.ArrangeUrgent)
			},
			want: RevertFromProduction,
		},
		{
			name: "warehouse does not count",
			setup: func(t *testing.T, gormDB *gorm.DB) {
				saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Preparer, ElementID: station.Text, SpineStateID: 1})
				setArrangeT(t, gormDB, station.Fitter, models.ArrangeInactive)
				setArrangeT(t, gormDB, station.Warehouse, models.ArrangeEditing)
			},
			want: RevertFromPreparer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, svc := fixture(t)
			tt.setup(t, gormDB)
			got, err := svc.ProductionState(orderID)
			if err != nil {
				t.Fatalf("ProductionState: %v", err)
			}
			if got != tt.want {
				t.Errorf("state = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWorkshopWidth(t *testing.T) {
	tests := []struct {
		name    string
		product int
		state   uint
		flag    models.ArrangeFlag
		want    Width
	}{
		{name: "not measured yet", product: 1, state: 5, flag: models.ArrangeEditing, want: Width{Width: 2.5, RealSpine: 12.5, ShowRequestBtn: true}},
		{name: "finished", product: 1, state: 6, flag: models.ArrangeEditing, want: Width{Width: 2.5, RealSpine: 12.5}},
		{name: "flyer", product: 5, state: 5, flag: models.ArrangeEditing, want: Width{Width: 2.5, RealSpine: 12.5}},
		{name: "workshop idle", product: 1, state: 5, flag: models.ArrangeInactive, want: Width{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, svc := fixture(t)
			gormDB.Model(&models.Order{}).Where("id = ?", orderID).Update("product_id", tt.product)
			saveProps(t, gormDB, models.ProductionOrderProperty{Station: station.Workshop, ElementID: station.Text, Width: 2.5})
			setStateT(t, gormDB, station.Workshop, station.Text, tt.state)
			setArrangeT(t, gormDB, station.Workshop, tt.flag)

			got, err := svc.WorkshopWidth(prodOrderID, station.Text)
			if err != nil {
				t.Fatalf("WorkshopWidth: %v", err)
			}
			if got != tt.want {
				t.Errorf("WorkshopWidth = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecipients_Dedup(t *testing.T) {
	gormDB, svc := fixture(t)
	mustCreate(t, gormDB, &models.ProductionOperator{UserID: techUser, Station: station.Workshop})

	got, err := svc.recipients(gormDB, []station.Station{station.Technologist, station.Workshop, station.CTP, station.Fitter})
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	want := []identity.User{
		{ID: techUser},
		{ID: shopUser},
		{ID: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("recipients = %+v", got)
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("recipient %d = %d, want %d", i, got[i].ID, want[i].ID)
		}
	}
}
