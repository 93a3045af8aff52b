package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/pressyard/internal/config"
	"github.com/zulandar/pressyard/internal/db"
	"github.com/zulandar/pressyard/internal/locale"
	"github.com/zulandar/pressyard/internal/relation"
	"github.com/zulandar/pressyard/internal/station"
	"github.com/zulandar/pressyard/internal/workflow"
	"gorm.io/gorm"
)

const defaultConfigPath = "press.yaml"

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", defaultConfigPath, "path to press config file")
}

// openStore loads the config and connects to its database.
func openStore(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

func newResolver() *relation.Resolver {
	return relation.NewResolver(station.DefaultRegistry(), locale.Builtin())
}

// newService wires a workflow service from the config.
func newService(cfg *config.Config, gormDB *gorm.DB) *workflow.Service {
	lang, _ := locale.Parse(cfg.Language)
	return &workflow.Service{
		DB:          gormDB,
		Resolver:    newResolver(),
		SystemEmail: cfg.SystemEmail,
		Translator:  locale.Builtin(),
		Lang:        lang,
		AllowList:   cfg.AllowedActions,
		Locks:       workflow.NewOrderLocks(),
	}
}

// parseLang accepts an exact language code, falling back to the config.
func parseLang(v string, cfg *config.Config) (locale.Lang, error) {
	if v == "" {
		v = cfg.Language
	}
	l, ok := locale.Parse(v)
	if !ok {
		return "", fmt.Errorf("unsupported language %q", v)
	}
	return l, nil
}
