package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .fqcnkraft.yaml configuration file",
		Long:  "Create a .fqcnkraft.yaml with commented defaults for mappings, exclusions and batch runs.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			if err := os.WriteFile(dest, []byte(generateConfig()), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .fqcnkraft.yaml")

	return cmd
}

func generateConfig() string {
	return fmt.Sprintf(`# fqcnkraft configuration

# Custom mapping file merged over the bundled catalog.
# mapping_file: fqcn-mappings.yml

# Inline mappings win over the mapping file.
# mappings:
#   my_module: my_namespace.my_collection.my_module

exclude_paths:
  - molecule
  - tests

batch:
  max_workers: %d
  continue_on_error: true
  validate: true
  backup: false
  # patterns:
  #   - site.yml
  #   - playbook*.yml
`, runtime.NumCPU())
}
