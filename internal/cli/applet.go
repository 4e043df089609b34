package cli

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gr3q/cputemp/internal/applet"
	"github.com/gr3q/cputemp/internal/config"
	"github.com/gr3q/cputemp/internal/logging"
	"github.com/gr3q/cputemp/internal/store"
)

var appletCmd = &cobra.Command{
	Use:   "applet",
	Short: "Run the panel applet (the default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApplet()
	},
}

func init() {
	rootCmd.AddCommand(appletCmd)
}

func runApplet() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile()
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log := logging.New(logFile, cfg.Level(), appVersion)
	slog.SetDefault(log)

	log.Info("starting applet",
		"version", appVersion,
		"fahrenheit", cfg.Fahrenheit,
		"refresh_ms", cfg.RefreshIntervalMS,
	)

	// Run without the reading log rather than fail the whole applet.
	db, err := store.Open(config.Home())
	if err != nil {
		log.Warn("reading log unavailable", "err", err)
		db = nil
	} else {
		defer db.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgCh, err := config.Watch(ctx)
	if err != nil {
		log.Warn("config watch unavailable", "err", err)
		cfgCh = nil
	}

	p := tea.NewProgram(applet.New(cfg, cfgCh, db, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("applet: %w", err)
	}

	log.Info("applet stopped")
	return nil
}
