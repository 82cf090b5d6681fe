package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/history"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput bool
		latest     bool
	)

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recorded compliance scores",
		Long:  "Show the scores recorded by validate --history, oldest first.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			projectPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			h := history.New()
			out := cmd.OutOrStdout()

			if latest {
				entry, err := h.Latest(projectPath)
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("no score history for %s", projectPath)
				}
				if jsonOutput {
					return writeJSON(out, entry)
				}
				fmt.Fprintf(out, "%s  %d%%  %s\n", entry.Timestamp, int(entry.Score*100+0.5), entry.Grade)
				return nil
			}

			entries, err := h.Load(projectPath)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(out, entries)
			}
			fmt.Fprint(out, tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show only the most recent entry")

	return cmd
}
