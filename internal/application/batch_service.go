package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/compliance"
	"github.com/openkraft/fqcnkraft/internal/pool"
)

// BackupFactory returns the backup store for one project.
type BackupFactory func(projectPath string) domain.BackupStore

// BatchService discovers Ansible projects and converts them, one project per
// unit of work. One failing project never aborts the others unless
// ContinueOnError is off, and even then running units finish.
type BatchService struct {
	discoverer   domain.ProjectDiscoverer
	scanner      domain.FileScanner
	configLoader domain.ConfigLoader
	git          domain.GitInfo
	engine       *Engine
	mappings     MappingSource
	backups      BackupFactory
	mappingFile  string
	logger       *zap.Logger
}

func NewBatchService(
	discoverer domain.ProjectDiscoverer,
	scanner domain.FileScanner,
	configLoader domain.ConfigLoader,
	git domain.GitInfo,
	engine *Engine,
	mappings MappingSource,
	backups BackupFactory,
	logger *zap.Logger,
) *BatchService {
	return &BatchService{
		discoverer:   discoverer,
		scanner:      scanner,
		configLoader: configLoader,
		git:          git,
		engine:       engine,
		mappings:     mappings,
		backups:      backups,
		logger:       logger.Named("batch"),
	}
}

// WithMappingFile returns a copy of the service that uses path in place of
// every project's own mapping_file.
func (s *BatchService) WithMappingFile(path string) *BatchService {
	c := *s
	c.mappingFile = path
	return &c
}

// DiscoverProjects returns the Ansible project roots below root.
func (s *BatchService) DiscoverProjects(root string, patterns []string) ([]string, error) {
	projects, err := s.discoverer.Discover(root, patterns)
	if err != nil {
		return nil, fmt.Errorf("discovering projects in %s: %w", root, err)
	}
	s.logger.Info("projects discovered", zap.String("root", root), zap.Int("count", len(projects)))
	return projects, nil
}

// ProcessProjects converts every project and aggregates the outcome. It never
// returns an error: failures are reported per project, and every input path
// appears exactly once in the result.
func (s *BatchService) ProcessProjects(ctx context.Context, paths []string, opts domain.BatchOptions) *domain.BatchResult {
	start := time.Now()
	s.logger.Info("batch started",
		zap.Int("projects", len(paths)),
		zap.Int("workers", opts.MaxWorkers),
		zap.Bool("dry_run", opts.DryRun))

	var results []*domain.ProjectResult
	if opts.MaxWorkers <= 1 {
		results = s.sequential(ctx, paths, opts)
	} else {
		results = s.parallel(ctx, paths, opts)
	}

	batch := domain.NewBatchResult(results, time.Since(start), opts.DryRun)
	s.logger.Info("batch finished",
		zap.Int("successful", batch.SuccessfulConversions),
		zap.Int("failed", batch.FailedConversions),
		zap.Duration("elapsed", batch.ExecutionTime))
	return batch
}

func (s *BatchService) sequential(ctx context.Context, paths []string, opts domain.BatchOptions) []*domain.ProjectResult {
	results := make([]*domain.ProjectResult, 0, len(paths))
	stopped := false
	for i, p := range paths {
		var r *domain.ProjectResult
		if stopped || ctx.Err() != nil {
			r = cancelledResult(p)
		} else {
			r = s.processProject(ctx, p, opts)
			if !r.Success && !opts.ContinueOnError {
				stopped = true
			}
		}
		results = append(results, r)
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(paths))
		}
	}
	return results
}

func (s *BatchService) parallel(ctx context.Context, paths []string, opts domain.BatchOptions) []*domain.ProjectResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make([]pool.Job[*domain.ProjectResult], len(paths))
	for i, p := range paths {
		path := p
		jobs[i] = pool.Job[*domain.ProjectResult]{
			ID: path,
			Run: func(ctx context.Context) (*domain.ProjectResult, error) {
				return s.processProject(ctx, path, opts), nil
			},
		}
	}

	completed := 0
	p := pool.New(pool.Config{Workers: opts.MaxWorkers}, s.logger)
	raw := pool.Run(ctx, p, jobs, func(r pool.Result[*domain.ProjectResult]) {
		completed++
		failed := r.Err != nil || (r.Value != nil && !r.Value.Success)
		if failed && r.Started && !opts.ContinueOnError {
			s.logger.Warn("stopping batch after failure", zap.String("project", r.ID))
			cancel()
		}
		if opts.OnProgress != nil {
			opts.OnProgress(completed, len(paths))
		}
	})

	results := make([]*domain.ProjectResult, 0, len(raw))
	for _, r := range raw {
		switch {
		case errors.Is(r.Err, pool.ErrCancelled):
			results = append(results, cancelledResult(r.ID))
		case r.Err != nil:
			results = append(results, failedResult(r.ID, &domain.ConversionError{Path: r.ID, Err: r.Err}))
		default:
			results = append(results, r.Value)
		}
	}
	return results
}

// processProject is one unit of work. Panics are converted into a failed
// result so that one project cannot take the batch down.
func (s *BatchService) processProject(ctx context.Context, projectPath string, opts domain.BatchOptions) (result *domain.ProjectResult) {
	start := time.Now()
	result = &domain.ProjectResult{
		ProjectPath: projectPath,
		ProjectName: filepath.Base(projectPath),
	}
	log := s.logger.With(zap.String("project", projectPath))

	defer func() {
		if v := recover(); v != nil {
			log.Error("project panicked", zap.Any("panic", v))
			err := &domain.ConversionError{Path: projectPath, Err: &pool.PanicError{Value: v}}
			result.Errors = append(result.Errors, err.Error())
			result.Success = false
		}
		result.Duration = time.Since(start)
	}()

	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	engine, warnings, err := EngineFor(s.engine, s.mappings, cfg, projectPath, s.mappingFile)
	result.Warnings = append(result.Warnings, warnings...)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	files, err := s.scanner.Scan(projectPath, cfg.ExcludePaths...)
	if err != nil {
		result.Errors = append(result.Errors, (&domain.FileAccessError{Path: projectPath, Operation: domain.OpRead, Err: err}).Error())
		return result
	}

	convertSvc := NewConvertService(engine.Converter, s.logger)
	if opts.Backup && !opts.DryRun && s.backups != nil {
		convertSvc = convertSvc.WithBackup(s.backups(projectPath))
	}

	s.gitMetadata(projectPath, opts, result)

	// A started unit finishes all of its files even if ctx is cancelled.
	var fqcn, total int
	for _, rel := range files {
		conv, err := convertSvc.ConvertFile(filepath.Join(projectPath, rel), opts.DryRun)
		result.FilesProcessed++
		if err != nil {
			result.FailedFiles = append(result.FailedFiles, rel)
			result.Errors = append(result.Errors, err.Error())
			log.Warn("file failed", zap.String("file", rel), zap.Error(err))
			continue
		}
		if conv.ChangesMade > 0 {
			result.FilesConverted++
			result.ModulesConverted += conv.ChangesMade
		}
		for _, w := range conv.Warnings {
			result.Warnings = append(result.Warnings, rel+": "+w)
		}

		if opts.Validate {
			v, err := engine.Validator.Validate(conv.ConvertedContent)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: validation skipped: %v", rel, err))
				continue
			}
			fqcn += v.FQCNModules
			total += v.TotalModules
			if v.ShortModules > 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: %d short module names remain after conversion", rel, v.ShortModules))
			}
		}
	}

	if opts.Validate {
		score := compliance.Score(fqcn, total)
		result.Score = &score
	}

	result.Success = len(result.Errors) == 0
	log.Info("project processed",
		zap.Bool("success", result.Success),
		zap.Int("files", result.FilesProcessed),
		zap.Int("converted", result.FilesConverted),
		zap.Int("modules", result.ModulesConverted))
	return result
}

// gitMetadata records the commit hash and warns when a real run is about to
// write into a worktree that already has uncommitted changes.
func (s *BatchService) gitMetadata(projectPath string, opts domain.BatchOptions, result *domain.ProjectResult) {
	if s.git == nil || !s.git.IsGitRepo(projectPath) {
		return
	}
	if hash, err := s.git.CommitHash(projectPath); err == nil {
		result.CommitHash = hash
	}
	if opts.DryRun || opts.Backup {
		return
	}
	if clean, err := s.git.IsClean(projectPath); err == nil && !clean {
		result.Warnings = append(result.Warnings, "worktree has uncommitted changes; conversions will be mixed with them")
	}
}

func cancelledResult(path string) *domain.ProjectResult {
	return failedResult(path, pool.ErrCancelled)
}

func failedResult(path string, err error) *domain.ProjectResult {
	return &domain.ProjectResult{
		ProjectPath: path,
		ProjectName: filepath.Base(path),
		Errors:      []string{err.Error()},
	}
}
