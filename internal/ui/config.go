package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/config"
	"github.com/javiermolinar/prepwise/internal/locale"
	"github.com/javiermolinar/prepwise/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  prepwise config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConfigInteractive()
		},
	}
}

func (a *App) runConfigInteractive() error {
	configPath := a.configPath
	fmt.Fprintf(a.out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(a.out, "Created %s\n\n", configPath)
	}

	printConfig(a.out, cfg)

	reader := bufio.NewReader(a.in)
	if !promptYesNo(a.out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Planner.DefaultStart = promptValue(a.out, reader, "Default start (HH:MM)", cfg.Planner.DefaultStart)
	cfg.Planner.ShiftMinutes = promptInt(a.out, reader, "Shift after a collision (minutes)", cfg.Planner.ShiftMinutes)
	cfg.Planner.CutoffHour = promptInt(a.out, reader, "Cutoff hour", cfg.Planner.CutoffHour)
	cfg.Planner.MaxSpreadDays = promptInt(a.out, reader, "Max spread days", cfg.Planner.MaxSpreadDays)
	cfg.Storage.DBPath = promptValue(a.out, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(a.out, reader, cfg.UI.Theme)
	cfg.UI.Locale = locale.New(promptValue(a.out, reader, "Locale (en, nl)", cfg.UI.Locale)).Tag()
	cfg.Log.Level = promptValue(a.out, reader, "Log level (debug, info, warn, error)", cfg.Log.Level)
	cfg.Log.File = promptValue(a.out, reader, "Log file (empty to disable)", cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[planner]")
	fmt.Fprintf(w, "  default_start    = %s\n", cfg.Planner.DefaultStart)
	fmt.Fprintf(w, "  shift_minutes    = %d\n", cfg.Planner.ShiftMinutes)
	fmt.Fprintf(w, "  cutoff_hour      = %d\n", cfg.Planner.CutoffHour)
	fmt.Fprintf(w, "  max_spread_days  = %d\n", cfg.Planner.MaxSpreadDays)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  locale           = %s\n", cfg.UI.Locale)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
	}
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(w io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(w, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(w, "  Not a number: %q\n", value)
	}
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
