package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/catalog"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
)

func newMappingsCmd(a *app) *cobra.Command {
	var (
		mappingFile string
		lookup      string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Show the module mapping table",
		Long: "Print the short-name to FQCN table used for conversion: the bundled catalog, merged with\n" +
			"--config when given. --lookup resolves a single module name.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, warnings, err := catalog.Resolve(mappingFile, nil)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				a.log().Warn(w)
			}
			out := cmd.OutOrStdout()

			if lookup != "" {
				fqcn, ok := table.Lookup(lookup)
				if !ok {
					return fmt.Errorf("no mapping for module %q", lookup)
				}
				if jsonOutput {
					return writeJSON(out, map[string]string{"module": lookup, "fqcn": fqcn})
				}
				fmt.Fprintln(out, fqcn)
				return nil
			}

			if jsonOutput {
				return writeJSON(out, map[string]any{
					"collections": table.Collections(),
					"mappings":    table.Entries(),
				})
			}
			fmt.Fprint(out, tui.RenderMappings(table))
			return nil
		},
	}

	cmd.Flags().StringVar(&mappingFile, "config", "", "Custom mapping file merged over the bundled catalog")
	cmd.Flags().StringVar(&lookup, "lookup", "", "Resolve one short module name")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
