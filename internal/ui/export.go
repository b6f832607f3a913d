package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/exchange"
)

func (a *App) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all tasks as JSON or YAML",
		Long: `Write every task and its slots to an exchange document.

Without a file the document is printed to stdout.

Example:
  prepwise export tasks.json
  prepwise export --format yaml > tasks.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			var (
				f    = exchange.FormatJSON
				path string
				err  error
			)
			if len(args) == 1 {
				if path, err = resolvePath(args[0]); err != nil {
					return err
				}
				f = exchange.FormatFromPath(path)
			}
			if format != "" {
				if f, err = exchange.ParseFormat(format); err != nil {
					return err
				}
			}

			tasks, err := a.repo.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if path == "" {
				return exchange.Encode(a.out, tasks, f)
			}

			if err := exchange.WriteFile(path, tasks, f); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Exported %d tasks to %s\n", len(tasks), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (default: from file extension, json on stdout)")
	return cmd
}
