// Package compliance checks Ansible documents for FQCN usage and computes a
// completeness score. It shares the task walker with the converter but does
// its own bookkeeping, so a converter bug cannot hide a compliance failure.
package compliance

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/mapping"
	"github.com/openkraft/fqcnkraft/internal/domain/playbook"
)

// Validator is safe for concurrent use. Key patterns for names outside the
// table are compiled on first use and cached.
type Validator struct {
	table    mapping.Table
	patterns map[string]*regexp.Regexp
	extra    sync.Map
}

// New builds a Validator over table, compiling the attribution pattern of
// every short name it knows.
func New(table mapping.Table) *Validator {
	patterns := make(map[string]*regexp.Regexp, table.Len())
	for _, short := range table.Names() {
		patterns[short] = keyPattern(short)
	}
	return &Validator{table: table, patterns: patterns}
}

func keyPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`^(\s*-?\s*)["']?` + regexp.QuoteMeta(name) + `["']?\s*:`)
}

// pattern returns the compiled key pattern for name.
func (v *Validator) pattern(name string) *regexp.Regexp {
	if re, ok := v.patterns[name]; ok {
		return re
	}
	if re, ok := v.extra.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re, _ := v.extra.LoadOrStore(name, keyPattern(name))
	return re.(*regexp.Regexp)
}

// Validate assesses content without modifying it. Zero module occurrences
// score 1.0.
func (v *Validator) Validate(content string) (*domain.ValidationResult, error) {
	result := &domain.ValidationResult{Valid: true, Score: 1.0, Issues: []domain.ValidationIssue{}}
	if strings.TrimSpace(content) == "" {
		return result, nil
	}

	docs, err := playbook.Parse(content)
	if err != nil {
		return nil, err
	}

	lines := playbook.SplitLines(content)
	boundaries := playbook.Boundaries(lines)

	for _, task := range playbook.Tasks(docs) {
		for _, key := range task.Keys {
			if domain.IsDirective(key.Name) {
				continue
			}
			issue, isFQCN := v.classify(key.Name)
			result.TotalModules++
			if isFQCN {
				result.FQCNModules++
			} else if issue != nil && issue.Severity == domain.SeverityError {
				result.ShortModules++
			}
			if issue == nil {
				continue
			}
			issue.Line, issue.Column = locate(v.pattern(key.Name), lines, boundaries, task, key)
			result.Issues = append(result.Issues, *issue)
		}
	}

	result.Score = Score(result.FQCNModules, result.TotalModules)
	result.Valid = result.ErrorCount() == 0
	return result, nil
}

// classify returns the issue for a non-directive task key, if any, and
// whether the key already counts as an FQCN occurrence.
func (v *Validator) classify(name string) (*domain.ValidationIssue, bool) {
	if fqcn, ok := v.table.Lookup(name); ok {
		return &domain.ValidationIssue{
			Severity:   domain.SeverityError,
			Message:    fmt.Sprintf("module %q should use its fully qualified collection name", name),
			Suggestion: fqcn,
			Module:     name,
		}, false
	}
	if strings.Contains(name, ".") {
		if v.table.IsKnownFQCN(name) {
			return nil, true
		}
		return &domain.ValidationIssue{
			Severity:   domain.SeverityInfo,
			Message:    fmt.Sprintf("module %q is not in the mapping table; verify FQCN", name),
			Suggestion: "verify FQCN",
			Module:     name,
		}, true
	}
	return &domain.ValidationIssue{
		Severity:   domain.SeverityWarning,
		Message:    fmt.Sprintf("unrecognized module %q may need conversion", name),
		Suggestion: "add a mapping for this module or use its FQCN",
		Module:     name,
	}, false
}

// Score returns fqcn/total clamped to [0,1]; no occurrences means 1.0.
func Score(fqcn, total int) float64 {
	if total <= 0 {
		return 1.0
	}
	return math.Max(0, math.Min(1, float64(fqcn)/float64(total)))
}

// locate attributes an issue to a line by searching the task's text for the
// key token. This is a heuristic: when the token cannot be found the line is
// estimated from the task's ordinal among item boundaries.
func locate(re *regexp.Regexp, lines []string, boundaries []int, task playbook.Task, key playbook.Key) (int, int) {
	region := playbook.TaskRegion(lines, key.Line, key.Column)
	start := region.Start
	if task.Line > 0 && task.Line-1 < start {
		start = task.Line - 1
	}
	for i := start; i < region.End && i < len(lines); i++ {
		if m := re.FindStringSubmatch(lines[i]); m != nil {
			return i + 1, len(m[1]) + 1
		}
	}

	if task.Index < len(boundaries) {
		return boundaries[task.Index] + 1, 1
	}
	return task.Index + 1, 1
}
