package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toolbelt-dev/toolbelt/internal/dashboard"
	"github.com/toolbelt-dev/toolbelt/internal/db"
)

func newDashboardCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve a read-only web view of recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (default ~/.toolbelt/config.json)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

func runDashboard(cmd *cobra.Command, configPath string, port int) error {
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

	if port == 0 {
		port = cfg.Dashboard.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:   gdb,
		Port: port,
		Out:  cmd.OutOrStdout(),
	})
}
