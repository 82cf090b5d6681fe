// Package convert rewrites short Ansible module names to FQCNs without
// re-serializing the document. The YAML parse only locates modules; the
// substitution is applied to the raw text so comments, quoting, key order
// and indentation survive untouched.
package convert

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/mapping"
	"github.com/openkraft/fqcnkraft/internal/domain/playbook"
)

// Occurrence is a module use found by the structural pass.
type Occurrence struct {
	Module   string
	FQCN     string
	TaskPath string
	Index    int
	Line     int
	Column   int
}

// Converter is safe for concurrent use; all state is fixed at construction.
type Converter struct {
	lookup   map[string]string
	patterns map[string]*regexp.Regexp
}

// New builds a Converter over table. The lookup map and the per-module
// line patterns are computed once here and never written again.
func New(table mapping.Table) *Converter {
	lookup := table.Entries()
	patterns := make(map[string]*regexp.Regexp, len(lookup))
	for short := range lookup {
		patterns[short] = modulePattern(short)
	}
	return &Converter{lookup: lookup, patterns: patterns}
}

func modulePattern(module string) *regexp.Regexp {
	return regexp.MustCompile(`^(\s*-?\s*)` + regexp.QuoteMeta(module) + `(\s*:)`)
}

// Lookup returns the FQCN for a short module name.
func (c *Converter) Lookup(short string) (string, bool) {
	fqcn, ok := c.lookup[short]
	return fqcn, ok
}

// Locate runs the structural pass: it parses content and returns one
// occurrence per task whose first non-directive key is a known short name.
func (c *Converter) Locate(content string) ([]Occurrence, error) {
	docs, err := playbook.Parse(content)
	if err != nil {
		return nil, err
	}
	return c.locate(docs), nil
}

func (c *Converter) locate(docs []*yaml.Node) []Occurrence {
	var out []Occurrence
	for _, t := range playbook.Tasks(docs) {
		for _, k := range t.Keys {
			if domain.IsDirective(k.Name) {
				continue
			}
			fqcn, ok := c.lookup[k.Name]
			if !ok {
				continue
			}
			out = append(out, Occurrence{
				Module:   k.Name,
				FQCN:     fqcn,
				TaskPath: t.Path,
				Index:    t.Index,
				Line:     k.Line,
				Column:   k.Column,
			})
			break
		}
	}
	return out
}

// Convert rewrites content and returns the result. The input string is never
// modified. Invalid YAML yields a *domain.YAMLParseError and no output.
func (c *Converter) Convert(content string) (*domain.ConversionResult, error) {
	result := &domain.ConversionResult{
		Success:          true,
		OriginalContent:  content,
		ConvertedContent: content,
	}
	if strings.TrimSpace(content) == "" {
		return result, nil
	}

	occurrences, err := c.Locate(content)
	if err != nil {
		return nil, err
	}
	if len(occurrences) == 0 {
		return result, nil
	}

	lines := playbook.SplitLines(content)
	cursor := 0
	for _, occ := range occurrences {
		region := playbook.TaskRegion(lines, occ.Line, occ.Column)
		if region.Start < cursor {
			region.Start = cursor
		}
		idx := c.patch(lines, region, occ)
		if idx < 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("module %q of task %s not found near line %d; left unchanged", occ.Module, occ.TaskPath, occ.Line))
			continue
		}
		cursor = idx + 1
		result.ChangesMade++
		result.Changes = append(result.Changes, domain.Change{Line: idx + 1, From: occ.Module, To: occ.FQCN})
	}

	result.ConvertedContent = strings.Join(lines, "")
	return result, nil
}

// patch rewrites the first line in region whose key token is occ.Module at
// occ's column and returns its index, or -1.
func (c *Converter) patch(lines []string, region playbook.Region, occ Occurrence) int {
	re := c.patterns[occ.Module]
	if re == nil {
		re = modulePattern(occ.Module)
	}

	fallback := -1
	for i := region.Start; i < region.End && i < len(lines); i++ {
		m := re.FindStringSubmatchIndex(lines[i])
		if m == nil {
			continue
		}
		prefixLen := m[3] - m[2]
		if occ.Column > 0 && prefixLen != occ.Column-1 {
			if fallback < 0 && i+1 == occ.Line {
				fallback = i
			}
			continue
		}
		lines[i] = substitute(lines[i], m, occ.FQCN)
		return i
	}
	if fallback >= 0 {
		m := re.FindStringSubmatchIndex(lines[fallback])
		lines[fallback] = substitute(lines[fallback], m, occ.FQCN)
		return fallback
	}
	return -1
}

// substitute replaces the module token between the captured prefix and the
// captured colon spacing, keeping both captures and the rest of the line.
func substitute(line string, m []int, fqcn string) string {
	return line[:m[3]] + fqcn + line[m[4]:]
}
