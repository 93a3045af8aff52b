package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/robfig/cron/v3"
	"github.com/zulandar/pressyard/internal/notify"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseSchedule parses a 5-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("digest: schedule %q: %w", expr, err)
	}
	return sched, nil
}

// NextRun returns the first fire time of expr after now.
func NextRun(expr string, now time.Time) (time.Time, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now), nil
}

// Runner sends a digest at every tick of its schedule.
type Runner struct {
	DB          *gorm.DB
	Stations    []station.Station
	Schedule    cron.Schedule
	Sink        notify.Sink
	SystemEmail string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RunOnce builds and sends one digest. Quiet digests are not sent; sent
// reports whether one was.
func (r *Runner) RunOnce(ctx context.Context) (sent bool, err error) {
	report, err := Build(r.DB, r.Stations, r.now())
	if err != nil {
		return false, err
	}
	if report.Empty() {
		glog.V(1).Infof("digest: nothing active, skipping")
		return false, nil
	}
	if err := r.Sink.Send(ctx, report.Record(r.SystemEmail)); err != nil {
		return false, fmt.Errorf("digest: send: %w", err)
	}
	return true, nil
}

// Run sends digests until ctx is cancelled. Failures are logged and the
// loop waits for the next tick.
func (r *Runner) Run(ctx context.Context) error {
	for {
		next := r.Schedule.Next(r.now())
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		glog.Infof("digest: next run at %s", next.Format(time.RFC3339))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if _, err := r.RunOnce(ctx); err != nil {
			glog.Errorf("digest: %v", err)
		}
	}
}
