package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/daemon"
	"github.com/1broseidon/winctl/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: "Start the MCP server on stdio. Designed to be invoked by MCP clients.\n" +
			"Logs go to stderr; stdout carries the protocol.",
		Args: cobra.NoArgs,
		RunE: runMCPServe,
	}
	addDetectScreenFlag(serveCmd)
	serveCmd.Flags().Duration("reconcile-interval", daemon.DefaultInterval,
		"How often to re-enumerate OS windows (0 disables)")

	cmd.AddCommand(serveCmd)
	return cmd
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	interval, _ := cmd.Flags().GetDuration("reconcile-interval")
	if interval > 0 {
		r := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: interval,
			Logger:   s.logger,
		}, s.mgr)
		go r.Run(ctx)
	}

	detect, _ := cmd.Flags().GetBool("detect-screen")
	path := configPath(cmd)
	go func() {
		err := config.Watch(ctx, path, s.logger, func(cfg *config.Config) {
			if detect {
				cfg.ScreenWidth, cfg.ScreenHeight = s.cfg.ScreenWidth, s.cfg.ScreenHeight
			}
			if err := s.mgr.UpdateConfig(*cfg); err != nil {
				s.logger.Warn("config reload rejected", "error", err)
			}
		})
		if err != nil {
			s.logger.Warn("config watch disabled", "path", path, "error", err)
		}
	}()

	s.logger.Info("mcp server starting", "driver", driverName(cmd), "reconcile_interval", interval.String())
	started := time.Now()
	err = mcp.NewServer(s.mgr, s.logger).Run(ctx)
	s.logger.Info("mcp server stopped", "uptime", time.Since(started).Round(time.Second).String())
	return err
}

func driverName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("driver")
	return name
}
