package domain

import (
	"runtime"
	"sort"
	"time"
)

// BatchOptions controls a batch run.
type BatchOptions struct {
	MaxWorkers      int      `yaml:"max_workers"       json:"max_workers"`
	DryRun          bool     `yaml:"dry_run"           json:"dry_run"`
	ContinueOnError bool     `yaml:"continue_on_error" json:"continue_on_error"`
	Validate        bool     `yaml:"validate"          json:"validate"`
	Backup          bool     `yaml:"backup"            json:"backup"`
	Patterns        []string `yaml:"patterns"          json:"patterns,omitempty"`

	// OnProgress is called after each project completes.
	OnProgress func(completed, total int) `yaml:"-" json:"-"`
}

// DefaultBatchOptions returns the options used when nothing is configured.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		MaxWorkers:      runtime.NumCPU(),
		ContinueOnError: true,
	}
}

// NewBatchResult aggregates per-project results into a BatchResult.
// Results are sorted by project path so reports are deterministic regardless
// of completion order; the slice must not be modified afterwards.
func NewBatchResult(results []*ProjectResult, elapsed time.Duration, dryRun bool) *BatchResult {
	sorted := make([]*ProjectResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ProjectPath < sorted[j].ProjectPath
	})

	b := &BatchResult{
		TotalProjects:  len(sorted),
		ProjectResults: sorted,
		ExecutionTime:  elapsed,
		DryRun:         dryRun,
	}

	var projectTime time.Duration
	for _, r := range sorted {
		if r.Success {
			b.SuccessfulConversions++
		} else {
			b.FailedConversions++
		}
		b.TotalFilesProcessed += r.FilesProcessed
		b.TotalFilesConverted += r.FilesConverted
		b.TotalModulesConverted += r.ModulesConverted
		projectTime += r.Duration
	}
	if len(sorted) > 0 {
		b.AverageProjectTime = projectTime / time.Duration(len(sorted))
	}
	return b
}
