package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ConversionResult is the outcome of converting one file or one in-memory document.
type ConversionResult struct {
	FilePath         string   `json:"file_path,omitempty"`
	Success          bool     `json:"success"`
	ChangesMade      int      `json:"changes_made"`
	OriginalContent  string   `json:"-"`
	ConvertedContent string   `json:"converted_content,omitempty"`
	Changes          []Change `json:"changes,omitempty"`
	Errors           []string `json:"errors,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
	BackupPath       string   `json:"backup_path,omitempty"`
	Written          bool     `json:"written"`
}

// Change records a single module-name substitution.
type Change struct {
	Line int    `json:"line"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ValidationIssue is one compliance finding inside a file.
type ValidationIssue struct {
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Module     string `json:"module,omitempty"`
}

// ValidationResult is the compliance outcome for one file or document.
type ValidationResult struct {
	FilePath     string            `json:"file_path,omitempty"`
	Valid        bool              `json:"valid"`
	Issues       []ValidationIssue `json:"issues"`
	Score        float64           `json:"score"`
	TotalModules int               `json:"total_modules"`
	FQCNModules  int               `json:"fqcn_modules"`
	ShortModules int               `json:"short_modules"`
}

func (r ValidationResult) count(severity string) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == severity {
			n++
		}
	}
	return n
}

func (r ValidationResult) ErrorCount() int   { return r.count(SeverityError) }
func (r ValidationResult) WarningCount() int { return r.count(SeverityWarning) }
func (r ValidationResult) InfoCount() int    { return r.count(SeverityInfo) }

// Percent returns the completeness score on a 0-100 scale.
func (r ValidationResult) Percent() int {
	return int(math.Round(r.Score * 100))
}

func (r ValidationResult) Summary() string {
	status := "valid"
	if !r.Valid {
		status = "invalid"
	}
	return fmt.Sprintf("%s: %d/%d modules use FQCN (%.1f%%), %d errors, %d warnings, %d info",
		status, r.FQCNModules, r.TotalModules, r.Score*100,
		r.ErrorCount(), r.WarningCount(), r.InfoCount())
}

// ProjectValidation aggregates validation results across all YAML files of a project.
type ProjectValidation struct {
	ProjectPath  string              `json:"project_path"`
	Files        []*ValidationResult `json:"files"`
	FailedFiles  map[string]string   `json:"failed_files,omitempty"`
	Valid        bool                `json:"valid"`
	Score        float64             `json:"score"`
	TotalModules int                 `json:"total_modules"`
	FQCNModules  int                 `json:"fqcn_modules"`
}

// ProjectResult is the outcome of processing a single project in a batch.
type ProjectResult struct {
	ProjectPath      string        `json:"project_path"`
	ProjectName      string        `json:"project_name"`
	Success          bool          `json:"success"`
	FilesProcessed   int           `json:"files_processed"`
	FilesConverted   int           `json:"files_converted"`
	ModulesConverted int           `json:"modules_converted"`
	Errors           []string      `json:"errors,omitempty"`
	Warnings         []string      `json:"warnings,omitempty"`
	FailedFiles      []string      `json:"failed_files,omitempty"`
	Duration         time.Duration `json:"duration"`
	CommitHash       string        `json:"commit_hash,omitempty"`
	Score            *float64      `json:"score,omitempty"`
}

// BatchResult aggregates the outcome of a batch run.
type BatchResult struct {
	TotalProjects         int              `json:"total_projects"`
	SuccessfulConversions int              `json:"successful_conversions"`
	FailedConversions     int              `json:"failed_conversions"`
	ProjectResults        []*ProjectResult `json:"project_results"`
	TotalFilesProcessed   int              `json:"total_files_processed"`
	TotalFilesConverted   int              `json:"total_files_converted"`
	TotalModulesConverted int              `json:"total_modules_converted"`
	ExecutionTime         time.Duration    `json:"execution_time"`
	AverageProjectTime    time.Duration    `json:"average_project_time"`
	DryRun                bool             `json:"dry_run"`
}

// Success reports whether every project in the batch succeeded.
func (b *BatchResult) Success() bool {
	return b.FailedConversions == 0
}

// FailedProjects returns the paths of all failed projects in result order.
func (b *BatchResult) FailedProjects() []string {
	var out []string
	for _, r := range b.ProjectResults {
		if !r.Success {
			out = append(out, r.ProjectPath)
		}
	}
	return out
}

func (b *BatchResult) Summary() string {
	var sb strings.Builder
	mode := "conversion"
	if b.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(&sb, "Batch %s: %d projects, %d successful, %d failed\n",
		mode, b.TotalProjects, b.SuccessfulConversions, b.FailedConversions)
	fmt.Fprintf(&sb, "Files processed: %d, files converted: %d, modules converted: %d\n",
		b.TotalFilesProcessed, b.TotalFilesConverted, b.TotalModulesConverted)
	fmt.Fprintf(&sb, "Execution time: %s (average %s per project)\n",
		b.ExecutionTime.Round(time.Millisecond), b.AverageProjectTime.Round(time.Millisecond))
	if failed := b.FailedProjects(); len(failed) > 0 {
		sb.WriteString("Failed projects:\n")
		for _, p := range failed {
			fmt.Fprintf(&sb, "  - %s\n", p)
		}
	}
	return sb.String()
}

func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}
