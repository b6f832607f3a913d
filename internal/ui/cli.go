package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/config"
	"github.com/javiermolinar/prepwise/internal/db"
	"github.com/javiermolinar/prepwise/internal/locale"
	"github.com/javiermolinar/prepwise/internal/logging"
	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/scheduler"
	"github.com/javiermolinar/prepwise/internal/task"
	"github.com/javiermolinar/prepwise/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// DebugLogPath is where --debug writes when no log file is configured.
const DebugLogPath = "prepwise-debug.log"

// App holds the CLI application state.
type App struct {
	repo       task.Repository
	config     *config.Config
	configPath string
	root       *cobra.Command
	debug      bool // Enable debug logging
	logger     *logging.Logger

	in  io.Reader
	out io.Writer
	now func() time.Time
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened lazily from the configured database path.
func NewApp(repo task.Repository, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{
		repo:       repo,
		config:     cfg,
		configPath: config.DefaultConfigPath(),
		in:         os.Stdin,
		out:        os.Stdout,
		now:        time.Now,
	}

	a.root = &cobra.Command{
		Use:   "prepwise",
		Short: "Plan preparation time before your deadlines",
		Long: `Prepwise spreads the preparation time of a task over the days
before its deadline, one slot per day, placed around the slots of
tasks you already committed to.

Run without a command to open the interactive planner.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.ensureLogger()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(tui.Options{
				Repo:    a.repo,
				Planner: a.planner(),
				Labeler: a.labeler(),
				Theme:   a.config.UI.Theme,
				Logger:  a.log(),
				Now:     a.now,
			})
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+DebugLogPath+" unless [log] file is set)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.regenerateCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "prepwise %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and log file.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
		a.repo = nil
	}
	if lerr := a.logger.Close(); lerr != nil && err == nil {
		err = lerr
	}
	return err
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

func (a *App) ensureLogger() error {
	if a.logger != nil {
		return nil
	}

	path := a.config.Log.File
	level := logging.ParseLevel(a.config.Log.Level)
	if a.debug {
		level = slog.LevelDebug
		if path == "" {
			path = DebugLogPath
		}
	}

	l, err := logging.Open(path, level)
	if err != nil {
		return err
	}
	a.logger = l
	return nil
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		return logging.Discard().Logger
	}
	return a.logger.Logger
}

func (a *App) labeler() *locale.Labeler {
	return locale.New(a.config.UI.Locale)
}

// planner builds a planner from the configured policy.
func (a *App) planner() *planner.Planner {
	pc := a.config.Planner
	return planner.New(
		planner.WithPolicy(scheduler.Policy{
			Start:        pc.DefaultStart,
			ShiftMinutes: pc.ShiftMinutes,
			CutoffHour:   pc.CutoffHour,
		}),
		planner.WithMaxSpreadDays(pc.MaxSpreadDays),
		planner.WithLabeler(a.labeler()),
		planner.WithLogger(a.log()),
		planner.WithClock(a.now),
	)
}
