package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sprintforge/sprintforge/internal/config"
	"github.com/sprintforge/sprintforge/internal/engine"
	"github.com/sprintforge/sprintforge/internal/repository"
	"github.com/sprintforge/sprintforge/internal/tui"
)

var (
	configPath string

	// deleteConfirmed backs the --yes flag on the delete subcommands. The
	// engine refuses to own the confirmation step, so the CLI asks here.
	deleteConfirmed bool
)

var rootCmd = &cobra.Command{
	Use:   "sprintforge",
	Short: "Sprint and task lifecycle tracker",
	Long: `sprintforge tracks a team's product backlog, sprints, and task
lifecycle from the terminal. Running it with no subcommand opens the
interactive board.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sprintforge/config.yaml)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// openRepository builds the configured backend. The caller owns the returned
// close function.
func openRepository(cfg *config.Config) (repository.Repository, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := repository.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, db.Close, nil
	default:
		return repository.NewYAMLFile(cfg.Storage.Path), func() error { return nil }, nil
	}
}

// openEngine wires the configured repository and debug log into an engine.
// Shared by every subcommand.
func openEngine() (*engine.Engine, *config.Config, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := engine.NewDebugLogger(cfg.Engine.DebugLog)
	if err != nil {
		closeRepo()
		return nil, nil, nil, fmt.Errorf("open debug log: %w", err)
	}

	eng, err := engine.New(repo, engine.WithLogger(logger))
	if err != nil {
		closeRepo()
		return nil, nil, nil, err
	}
	eng.Tick(time.Now())

	cleanup := func() error {
		err := eng.Close()
		if cerr := closeRepo(); err == nil {
			err = cerr
		}
		return err
	}
	return eng, cfg, cleanup, nil
}

// runBoard starts the interactive board with the status ticker and, when
// configured, the collections file watcher.
func runBoard() error {
	eng, cfg, cleanup, err := openEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		ticker := time.NewTicker(cfg.Engine.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				eng.Tick(now)
			}
		}
	}()

	if cfg.Storage.Watch && cfg.Storage.Backend == "yaml" {
		watcher, werr := repository.WatchFile(cfg.Storage.Path)
		if werr != nil {
			fmt.Fprintf(os.Stderr, "warning: file watch disabled: %v\n", werr)
		} else {
			defer watcher.Close()
			go func() {
				for {
					select {
					case <-stop:
						return
					case <-watcher.Changes():
						if rerr := eng.Reload(); rerr != nil {
							fmt.Fprintf(os.Stderr, "warning: reload failed: %v\n", rerr)
							continue
						}
						eng.Tick(time.Now())
					}
				}
			}()
		}
	}

	program := tea.NewProgram(tui.NewApp(eng, cfg.Board.RefreshRate), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	return nil
}
