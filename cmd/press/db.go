package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/pressyard/internal/db"
	"github.com/zulandar/pressyard/internal/relation"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	cmd.AddCommand(newDBSeedCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath, seedPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the production database",
		Long:  "Migrates all tables, seeds the built-in catalogs and, with --seed, the station configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath, seedPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&seedPath, "seed", "", "station seed file to apply after migrating")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath, seedPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := openStore(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to %s database from %s\n", cfg.Database.Driver, configPath)

	return initStore(cmd, gormDB, seedPath)
}

// initStore migrates, seeds the catalogs and applies an optional station seed.
func initStore(cmd *cobra.Command, gormDB *gorm.DB, seedPath string) error {
	out := cmd.OutOrStdout()

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if err := db.SeedCatalog(gormDB); err != nil {
		return err
	}
	fmt.Fprintln(out, "Seeded built-in catalogs")

	if seedPath != "" {
		if err := applySeed(cmd, gormDB, seedPath); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nProduction database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		seedPath   string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the production tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, seedPath, yes)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&seedPath, "seed", "", "station seed file to apply after re-creating")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath, seedPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := openStore(configPath)
	if err != nil {
		return err
	}

	if !skipConfirm {
		if f, ok := cmd.InOrStdin().(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("refusing to reset without a terminal; pass --yes")
		}
		if !confirmReset(cmd, cfg.Database.Name) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := db.DropAll(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Dropped %d tables\n", len(db.AllModels()))

	return initStore(cmd, gormDB, seedPath)
}

// confirmReset prompts the user to type "yes" to confirm the reset.
func confirmReset(cmd *cobra.Command, dbName string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintf(out, "WARNING: This will permanently delete all production data in %q.\n", dbName)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}

func newDBSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Apply a station seed file",
		Long:  "Replaces the actions, states and relations of every station listed in the seed file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := openStore(configPath)
			if err != nil {
				return err
			}
			return applySeed(cmd, gormDB, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func applySeed(cmd *cobra.Command, gormDB *gorm.DB, path string) error {
	seed, err := relation.LoadSeed(path)
	if err != nil {
		return err
	}
	if err := relation.Apply(gormDB, seed); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d stations from %s\n", len(seed.Stations), path)
	return nil
}
