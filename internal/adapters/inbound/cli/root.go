package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "fqcnkraft",
		Short: "Convert Ansible modules to fully qualified collection names",
		Long: "fqcnkraft rewrites short Ansible module names (copy, service, ...) to their fully qualified\n" +
			"collection names without touching comments or formatting, scores FQCN compliance, and\n" +
			"converts many projects in parallel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format: console or json")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newBatchCmd(a))
	cmd.AddCommand(newDiscoverCmd(a))
	cmd.AddCommand(newMappingsCmd(a))
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI and prints any error with its recovery suggestions.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, s := range domain.SuggestionsFor(err) {
			fmt.Fprintln(os.Stderr, "  hint:", s)
		}
	}
	return err
}
