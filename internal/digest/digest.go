// Package digest reports, on a cron schedule, how many live production
// orders wait at each station.
package digest

import (
	"fmt"
	"time"

	"github.com/zulandar/pressyard/internal/identity"
	"github.com/zulandar/pressyard/internal/models"
	"github.com/zulandar/pressyard/internal/notify"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// StationCount is the queue of one station by arrange flag.
type StationCount struct {
	Station  station.Station `json:"station"`
	Urgent   int             `json:"urgent"`
	Editing  int             `json:"editing"`
	Inactive int             `json:"inactive"`
	Done     int             `json:"done"`
}

// Active is the number of orders the station is working on.
func (c StationCount) Active() int {
	return c.Urgent + c.Editing
}

// Report is one digest.
type Report struct {
	At       time.Time      `json:"at"`
	Stations []StationCount `json:"stations"`
}

// Empty reports whether no station has active orders.
func (r *Report) Empty() bool {
	for _, c := range r.Stations {
		if c.Active() > 0 {
			return false
		}
	}
	return true
}

type flagCount struct {
	Station station.Station
	Flag    models.ArrangeFlag
	N       int
}

// Build counts the queue entries of live production orders at the given
// stations, every station when none are given.
func Build(db *gorm.DB, stations []station.Station, now time.Time) (*Report, error) {
	if len(stations) == 0 {
		stations = station.All
	}
	var rows []flagCount
	err := db.Model(&models.ProductionOrderArrange{}).
		Select("production_order_arranges.station AS station, production_order_arranges.arrange_order AS flag, COUNT(*) AS n").
		Joins("JOIN production_orders ON production_orders.id = production_order_arranges.prod_order_id AND production_orders.version = ?", models.CurrentVersion).
		Where("production_order_arranges.station IN ?", stations).
		Group("production_order_arranges.station, production_order_arranges.arrange_order").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("digest: count arranges: %w", err)
	}

	byStation := make(map[station.Station]*StationCount, len(stations))
	report := &Report{At: now}
	for _, st := range stations {
		report.Stations = append(report.Stations, StationCount{Station: st})
	}
	for i := range report.Stations {
		byStation[report.Stations[i].Station] = &report.Stations[i]
	}
	for _, r := range rows {
		c, ok := byStation[r.Station]
		if !ok {
			continue
		}
		switch r.Flag {
		case models.ArrangeUrgent:
			c.Urgent += r.N
		case models.ArrangeEditing:
			c.Editing += r.N
		case models.ArrangeInactive:
			c.Inactive += r.N
		case models.ArrangeDone:
			c.Done += r.N
		}
	}
	return report, nil
}

// Record renders the report as a notification from the SYSTEM user to
// itself. Stations without any queue entry are left out.
func (r *Report) Record(systemEmail string) notify.Record {
	sys := identity.System(systemEmail)
	rec := notify.Record{
		From:    sys,
		To:      sys,
		Subject: fmt.Sprintf("Production digest %s", r.At.Format("2006-01-02 15:04")),
		Color:   notify.ColorInfo,
	}
	for _, c := range r.Stations {
		if c.Urgent+c.Editing+c.Inactive+c.Done == 0 {
			continue
		}
		rec.Logs = append(rec.Logs, fmt.Sprintf("%s: %d urgent, %d editing, %d inactive, %d done",
			c.Station, c.Urgent, c.Editing, c.Inactive, c.Done))
	}
	return rec
}
