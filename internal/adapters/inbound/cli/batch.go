package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/backup"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/catalog"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/config"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/discovery"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/scanner"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
	"github.com/openkraft/fqcnkraft/internal/application"
	"github.com/openkraft/fqcnkraft/internal/domain"
)

func newBatchService(a *app, engine *application.Engine) *application.BatchService {
	return application.NewBatchService(
		discovery.New(),
		scanner.New(),
		config.New(),
		gitinfo.New(),
		engine,
		catalog.NewSource(),
		func(p string) domain.BackupStore { return backup.New(p) },
		a.log(),
	)
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers     int
		dryRun      bool
		stopOnError bool
		validate    bool
		withBackup  bool
		patterns    []string
		jsonOutput  bool
		mappingFile string
	)

	cmd := &cobra.Command{
		Use:   "batch <root>",
		Short: "Discover Ansible projects below a root and convert them in parallel",
		Long: "Find every Ansible project below root and convert each one as an independent unit of work.\n" +
			"A failing project never affects the others; with --stop-on-error no new projects start\n" +
			"after the first failure. Options in <root>/.fqcnkraft.yaml apply unless a flag is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			engine, cfg, err := a.loadEngine(root, mappingFile)
			if err != nil {
				return err
			}

			opts := cfg.ApplyTo(domain.DefaultBatchOptions())
			flags := cmd.Flags()
			if flags.Changed("workers") {
				opts.MaxWorkers = workers
			}
			if flags.Changed("dry-run") {
				opts.DryRun = dryRun
			}
			if flags.Changed("stop-on-error") {
				opts.ContinueOnError = !stopOnError
			}
			if flags.Changed("validate") {
				opts.Validate = validate
			}
			if flags.Changed("backup") {
				opts.Backup = withBackup
			}
			if flags.Changed("pattern") {
				opts.Patterns = patterns
			}
			if opts.MaxWorkers <= 0 {
				return fmt.Errorf("--workers must be > 0 (got %d)", opts.MaxWorkers)
			}

			logger := a.log().Named("batch")
			opts.OnProgress = func(completed, total int) {
				logger.Info("progress", zap.Int("completed", completed), zap.Int("total", total))
			}

			svc := newBatchService(a, engine)
			if mappingFile != "" {
				abs, err := filepath.Abs(mappingFile)
				if err != nil {
					return fmt.Errorf("resolving mapping file: %w", err)
				}
				svc = svc.WithMappingFile(abs)
			}
			projects, err := svc.DiscoverProjects(root, opts.Patterns)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result := svc.ProcessProjects(ctx, projects, opts)

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(out, tui.RenderBatch(result))
			}

			if !result.Success() {
				return fmt.Errorf("%d of %d project(s) failed", result.FailedConversions, result.TotalProjects)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Maximum concurrent projects (default: number of CPUs)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing files")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "Start no new projects after the first failure")
	cmd.Flags().BoolVar(&validate, "validate", false, "Score each project after conversion")
	cmd.Flags().BoolVar(&withBackup, "backup", false, "Back up originals to <project>/.fqcnkraft/backups")
	cmd.Flags().StringArrayVarP(&patterns, "pattern", "p", nil, "Project marker glob (repeatable; default: site.yml, playbook*.yml, ...)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&mappingFile, "mappings", "", "Custom mapping file for every project")

	return cmd
}
