package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/pressyard/internal/config"
	"github.com/zulandar/pressyard/internal/digest"
	"github.com/zulandar/pressyard/internal/station"
	"gorm.io/gorm"
)

func newDigestCmd() *cobra.Command {
	var (
		configPath string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the station queue digest",
		Long:  "Counts the orders queued at each station and sends the summary to the configured sink. With --watch, keeps sending on the configured schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := openStore(configPath)
			if err != nil {
				return err
			}
			runner, err := newDigestRunner(cfg, gormDB)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !watch {
				sent, err := runner.RunOnce(context.Background())
				if err != nil {
					return err
				}
				if sent {
					fmt.Fprintln(out, "Digest sent.")
				} else {
					fmt.Fprintln(out, "No active orders, digest skipped.")
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			next, err := digest.NextRun(cfg.Digest.Schedule, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching schedule %q, next digest at %s\n", cfg.Digest.Schedule, next.Format("2006-01-02 15:04"))
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and send on the configured schedule")
	return cmd
}

func newDigestRunner(cfg *config.Config, gormDB *gorm.DB) (*digest.Runner, error) {
	sched, err := digest.ParseSchedule(cfg.Digest.Schedule)
	if err != nil {
		return nil, err
	}
	sink, err := newSink(cfg.Notify)
	if err != nil {
		return nil, err
	}
	stations := make([]station.Station, 0, len(cfg.Digest.Stations))
	for _, s := range cfg.Digest.Stations {
		stations = append(stations, station.Station(s))
	}
	return &digest.Runner{
		DB:          gormDB,
		Stations:    stations,
		Schedule:    sched,
		Sink:        sink,
		SystemEmail: cfg.SystemEmail,
	}, nil
}
