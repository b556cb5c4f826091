package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/sticky/internal/config"
	"github.com/tgienger/sticky/internal/db"
	"github.com/tgienger/sticky/internal/dispatch"
	"github.com/tgienger/sticky/internal/logging"
	"github.com/tgienger/sticky/internal/store"
	"github.com/tgienger/sticky/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(flag.NewFlagSet("sticky", flag.ExitOnError), os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ShowVersion {
		fmt.Printf("sticky %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(logFile, cfg.LogLevel)

	tasks := store.New(store.NewPaths(cfg.DataDir, cfg.LegacyDir), logger)
	tasks.Initialize()
	logger.Info("starting", "version", version, "data", tasks.Paths().File, "config", cfg.ConfigFile)

	settings, err := db.New(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing settings: %v\n", err)
		os.Exit(1)
	}
	defer settings.Close()

	app := ui.NewApp(context.Background(), dispatch.New(tasks, logger), settings)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("ui exited", "err", err)
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
