package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/config"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/history"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/scanner"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
	"github.com/openkraft/fqcnkraft/internal/application"
	"github.com/openkraft/fqcnkraft/internal/domain"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		jsonOutput  bool
		strict      bool
		mappingFile string
		record      bool
	)

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check FQCN compliance of a file or project",
		Long: "Report every short module name in an Ansible file or project together with a completeness\n" +
			"score. Exits non-zero when short names remain; --strict also fails on unrecognized modules.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				return &domain.FileAccessError{Path: path, Operation: domain.OpRead, Err: err}
			}

			engine, _, err := a.loadEngine(path, mappingFile)
			if err != nil {
				return err
			}
			svc := application.NewValidateService(engine.Validator, scanner.New(), config.New(), a.log())
			if record {
				svc = svc.WithHistory(history.New(), gitinfo.New())
			}
			out := cmd.OutOrStdout()

			if !info.IsDir() {
				result, err := svc.ValidateConversion(path)
				if err != nil {
					return err
				}
				if jsonOutput {
					if err := writeJSON(out, result); err != nil {
						return err
					}
				} else {
					fmt.Fprint(out, tui.RenderValidation(result))
				}
				return verdict(result.Valid, result.ErrorCount(), result.WarningCount(), strict)
			}

			pv, err := svc.ValidateProject(path)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(out, pv); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, tui.RenderProjectValidation(pv))
			}

			errCount, warnCount := 0, 0
			for _, f := range pv.Files {
				errCount += f.ErrorCount()
				warnCount += f.WarningCount()
			}
			if len(pv.FailedFiles) > 0 {
				return fmt.Errorf("validation failed: %d file(s) could not be validated", len(pv.FailedFiles))
			}
			return verdict(pv.Valid, errCount, warnCount, strict)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat unrecognized short modules as failures")
	cmd.Flags().StringVar(&mappingFile, "mappings", "", "Custom mapping file (overrides the project's mapping_file)")
	cmd.Flags().BoolVar(&record, "history", false, "Record the project score in .fqcnkraft/history")

	return cmd
}

func verdict(valid bool, errCount, warnCount int, strict bool) error {
	if !valid {
		return fmt.Errorf("validation failed: %d short module name(s) remain", errCount)
	}
	if strict && warnCount > 0 {
		return fmt.Errorf("validation failed (strict): %d unrecognized module(s)", warnCount)
	}
	return nil
}
