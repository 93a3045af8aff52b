// Package api serves the read-only production JSON API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/workflow"
	"gorm.io/gorm"
)

// Options holds the dependencies of the API.
type Options struct {
	DB       *gorm.DB
	Resolver *relation.Resolver
	Workflow *workflow.Service
	// AllowList supplies action allow-lists for classification.
	AllowList   workflow.AllowListFunc
	DefaultLang locale.Lang
	// Registry receives the API metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Options
	Port int
	Out  io.Writer
}

type server struct {
	db        *gorm.DB
	resolver  *relation.Resolver
	wf        *workflow.Service
	allowList workflow.AllowListFunc
	lang      locale.Lang
	metrics   *Metrics
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("api: db is required")
	}
	if opts.Resolver == nil {
		return nil, fmt.Errorf("api: resolver is required")
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = locale.EN
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	s := &server{
		db:        opts.DB,
		resolver:  opts.Resolver,
		wf:        opts.Workflow,
		allowList: opts.AllowList,
		lang:      opts.DefaultLang,
		metrics:   metrics,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), metrics.middleware())
	registerRoutes(router, s)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return router, nil
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts.Options)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			glog.Warningf("api: shutdown: %v", err)
		}
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "API listening on http://localhost:%d\n", opts.Port)
	}
	glog.Infof("api: listening on :%d", opts.Port)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
