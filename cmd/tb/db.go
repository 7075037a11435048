package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/config"
	"github.com/toolbelt-dev/toolbelt/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Activity store management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the activity store",
		Long:  "Opens the configured store (creating the SQLite file if needed) and migrates all recorder tables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.toolbelt/config.json)")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	gdb, err := db.Open(cfg.Storage)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	fmt.Fprintf(out, "Migrated %d tables (%s)\n", len(db.AllModels()), storeLocation(cfg))
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the activity store",
		Long:  "Drops all recorder tables (for SQLite, removes the database file) and re-migrates the schema. Requires --yes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.toolbelt/config.json)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, yes bool) error {
	out := cmd.OutOrStdout()

	if !yes {
		return fmt.Errorf("refusing to reset the activity store without --yes")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Storage.Driver == "sqlite" {
		if err := os.Remove(cfg.Storage.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", cfg.Storage.Path, err)
		}
	} else {
		gdb, err := db.Open(cfg.Storage)
		if err != nil {
			return err
		}
		if err := gdb.Migrator().DropTable(db.AllModels()...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}

	fmt.Fprintln(out, "Store dropped, re-initializing.")
	return runDBInit(cmd, configPath)
}

// storeLocation describes where the store lives for status output.
func storeLocation(cfg *config.Config) string {
	if cfg.Storage.Driver == "sqlite" {
		return "sqlite " + cfg.Storage.Path
	}
	return fmt.Sprintf("mysql %s:%d/%s", cfg.Storage.Host, cfg.Storage.Port, cfg.Storage.Database)
}
