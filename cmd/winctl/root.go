package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/manager"
	"github.com/1broseidon/winctl/internal/platform"
)

// openDriver is swapped out by tests.
var openDriver = platform.Open

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "winctl",
		Short:         "Window and workspace orchestration",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("driver", "native", "Window driver: native, x11 or memory")
	cmd.PersistentFlags().String("config", "", "Config file path (default: "+config.DefaultConfigPath()+")")
	cmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn or error")

	cmd.AddCommand(
		newMCPCmd(),
		newWindowsCmd(),
		newArrangeCmd(),
		newBatchCmd(),
		newConfigCmd(),
	)

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadFromPath(configPath(cmd))
}

// newLogger builds a text logger on w. The --log-level flag wins over the
// config file.
func newLogger(cmd *cobra.Command, cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	levelName := cfg.LogLevel
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		levelName = flagLevel
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// session bundles what every driver-backed command needs.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	driver platform.Driver
	mgr    *manager.Manager
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	name, _ := cmd.Flags().GetString("driver")
	driver, err := openDriver(name)
	if err != nil {
		return nil, err
	}

	if detect, _ := cmd.Flags().GetBool("detect-screen"); detect {
		applyScreenSize(cfg, driver, logger)
	}

	mgr := manager.New(driver, manager.WithConfig(cfg), manager.WithLogger(logger))
	return &session{cfg: cfg, logger: logger, driver: driver, mgr: mgr}, nil
}

// Close releases the driver's window-system connection, if it holds one.
func (s *session) Close() {
	if d, ok := s.driver.(interface{ Disconnect() }); ok {
		d.Disconnect()
	}
}

// applyScreenSize overwrites the configured screen with the size the driver
// reports. Drivers without a ScreenSizer keep the configured values.
func applyScreenSize(cfg *config.Config, driver platform.Driver, logger *slog.Logger) bool {
	sizer, ok := driver.(platform.ScreenSizer)
	if !ok {
		logger.Warn("driver cannot report screen size; using config")
		return false
	}
	width, height, err := sizer.ScreenSize()
	if err != nil || width == 0 || height == 0 {
		logger.Warn("screen size detection failed; using config", "error", err)
		return false
	}
	cfg.ScreenWidth = width
	cfg.ScreenHeight = height
	logger.Debug("detected screen size", "width", width, "height", height)
	return true
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func addDetectScreenFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("detect-screen", false, "Use the monitor under the pointer instead of the configured screen size")
}
