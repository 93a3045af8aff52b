package propstore

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/zulandar/pressyard/internal/db"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return gormDB, mock
}

func TestBumpVersion_RollsBackOnFailure(t *testing.T) {
	gormDB, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `production_order_generations`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `production_order_generations` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"prod_order_id", "generation", "updated_at"}).AddRow(7, 1, time.Now()))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\) FROM `production_order_properties`").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\) FROM `production_order_additional_properties`").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\) FROM `production_order_ready_copies`").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	mock.ExpectExec("UPDATE `production_order_generations`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `production_order_properties`").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("UPDATE `production_order_additional_properties`").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := BumpVersion(gormDB, 7, []station.Station{station.Technologist, station.Workshop})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestBumpVersion_CommitsAllTables(t *testing.T) {
	gormDB, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `production_order_generations`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"prod_order_id", "generation", "updated_at"}).AddRow(7, 1, time.Now()))
	for i := 0; i < 3; i++ {
		mock.ExpectQuery("SELECT COALESCE\\(MAX\\(version\\), 0\\)").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))
	}
	mock.ExpectExec("UPDATE `production_order_generations`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `production_order_properties`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `production_order_additional_properties`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `production_order_ready_copies`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	v, err := BumpVersion(gormDB, 7, []station.Station{station.Technologist})
	if err != nil {
		t.Fatalf("BumpVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReseed_DuplicateEntry(t *testing.T) {
	gormDB, mock := mockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `production_order_properties`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "prod_order_id", "station", "element_id", "version", "pages"}).
			AddRow(11, 7, 4, 1, 2, 100))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `production_order_properties`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-4-1-1' for key 'idx_property_key'"})
	mock.ExpectRollback()

	err := Reseed(gormDB, 7, []station.Station{station.Technologist}, 2, nil)
	if !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
