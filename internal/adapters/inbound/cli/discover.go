package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/discovery"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var (
		patterns   []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "discover <root>",
		Short: "List the Ansible projects found below a root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			projects, err := discovery.New().Discover(root, patterns)
			if err != nil {
				return err
			}
			a.log().Debug("discovery finished", zap.String("root", root), zap.Int("projects", len(projects)))

			if jsonOutput {
				if projects == nil {
					projects = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"root": root, "projects": projects})
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDiscovery(root, projects))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "Project marker glob (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
