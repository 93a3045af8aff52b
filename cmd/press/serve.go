package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/zulandar/pressyard/internal/api"
	"github.com/zulandar/pressyard/internal/locale"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		withDigest bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only production API",
		Long:  "Serves relations, matrices, classifications and production states as JSON, with Prometheus metrics on /metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, withDigest)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().BoolVar(&withDigest, "digest", false, "also send the scheduled station digest")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, withDigest bool) error {
	cfg, gormDB, err := openStore(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.API.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if withDigest {
		runner, err := newDigestRunner(cfg, gormDB)
		if err != nil {
			return err
		}
		go func() {
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				glog.Errorf("digest: %v", err)
			}
		}()
	}

	svc := newService(cfg, gormDB)
	lang, _ := locale.Parse(cfg.Language)
	return api.Start(ctx, api.StartOpts{
		Options: api.Options{
			DB:          gormDB,
			Resolver:    svc.Resolver,
			Workflow:    svc,
			AllowList:   cfg.AllowedActions,
			DefaultLang: lang,
		},
		Port: port,
		Out:  cmd.OutOrStdout(),
	})
}
