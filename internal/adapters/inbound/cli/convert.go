package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/backup"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/scanner"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
	"github.com/openkraft/fqcnkraft/internal/application"
	"github.com/openkraft/fqcnkraft/internal/domain"
)

// convertReport is the JSON shape of a convert run.
type convertReport struct {
	Path             string                     `json:"path"`
	DryRun           bool                       `json:"dry_run"`
	FilesProcessed   int                        `json:"files_processed"`
	FilesConverted   int                        `json:"files_converted"`
	ModulesConverted int                        `json:"modules_converted"`
	Files            []*domain.ConversionResult `json:"files"`
	Failed           map[string]string          `json:"failed,omitempty"`
}

func (r *convertReport) add(result *domain.ConversionResult) {
	r.Files = append(r.Files, result)
	r.FilesProcessed++
	if result.ChangesMade > 0 {
		r.FilesConverted++
		r.ModulesConverted += result.ChangesMade
	}
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		dryRun      bool
		mappingFile string
		jsonOutput  bool
		showDiff    bool
		withBackup  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Rewrite short module names to FQCNs in a file or project",
		Long: "Convert every known short module name in an Ansible file, or in every YAML file below a\n" +
			"directory, to its fully qualified collection name. Comments and formatting are preserved.",
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

			engine, cfg, err := a.loadEngine(path, mappingFile)
			if err != nil {
				return err
			}
			svc := application.NewConvertService(engine.Converter, a.log())
			if withBackup && !dryRun {
				svc = svc.WithBackup(backup.New(projectDir(path)))
			}

			report := &convertReport{Path: path, DryRun: dryRun}
			files := []string{path}
			if info.IsDir() {
				rel, err := scanner.New().Scan(path, cfg.ExcludePaths...)
				if err != nil {
					return err
				}
				files = files[:0]
				for _, f := range rel {
					files = append(files, filepath.Join(path, f))
				}
			}

			for _, f := range files {
				result, err := svc.ConvertFile(f, dryRun)
				if err != nil {
					if !info.IsDir() {
						return err
					}
					a.log().Warn("file skipped", zap.String("file", f), zap.Error(err))
					if report.Failed == nil {
						report.Failed = make(map[string]string)
					}
					report.Failed[f] = err.Error()
					continue
				}
				report.add(result)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				renderConvertReport(cmd, report, showDiff)
			}

			if len(report.Failed) > 0 {
				return fmt.Errorf("%d file(s) could not be converted", len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")
	cmd.Flags().StringVar(&mappingFile, "mappings", "", "Custom mapping file (overrides the project's mapping_file)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show each changed line")
	cmd.Flags().BoolVar(&withBackup, "backup", false, "Back up originals to .fqcnkraft/backups before writing")

	return cmd
}

func renderConvertReport(cmd *cobra.Command, report *convertReport, showDiff bool) {
	out := cmd.OutOrStdout()
	for _, result := range report.Files {
		if result.ChangesMade == 0 && len(result.Warnings) == 0 && len(report.Files) > 1 {
			continue
		}
		fmt.Fprint(out, tui.RenderConversion(result, showDiff))
	}
	failed := make([]string, 0, len(report.Failed))
	for f := range report.Failed {
		failed = append(failed, f)
	}
	sort.Strings(failed)
	for _, f := range failed {
		fmt.Fprintf(out, "  failed %s: %s\n", f, report.Failed[f])
	}

	verb := "Converted"
	if report.DryRun {
		verb = "Would convert"
	}
	fmt.Fprintf(out, "%s %d module(s) in %d of %d file(s)\n",
		verb, report.ModulesConverted, report.FilesConverted, report.FilesProcessed)
}
