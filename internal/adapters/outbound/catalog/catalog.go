// Package catalog loads short-name to FQCN mapping tables from the bundled
// catalog and from user-supplied mapping files.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/mapping"
)

//go:embed mappings.yaml
var bundled []byte

// fallback is the safety net used when the bundled catalog cannot be read.
var fallback = map[string]string{
	"apt":           "ansible.builtin.apt",
	"command":       "ansible.builtin.command",
	"copy":          "ansible.builtin.copy",
	"debug":         "ansible.builtin.debug",
	"file":          "ansible.builtin.file",
	"get_url":       "ansible.builtin.get_url",
	"git":           "ansible.builtin.git",
	"group":         "ansible.builtin.group",
	"include_tasks": "ansible.builtin.include_tasks",
	"lineinfile":    "ansible.builtin.lineinfile",
	"package":       "ansible.builtin.package",
	"service":       "ansible.builtin.service",
	"set_fact":      "ansible.builtin.set_fact",
	"shell":         "ansible.builtin.shell",
	"systemd":       "ansible.builtin.systemd",
	"template":      "ansible.builtin.template",
	"user":          "ansible.builtin.user",
	"yum":           "ansible.builtin.yum",
}

// LoadDefault returns the bundled catalog. It never fails: a missing or
// corrupt catalog yields the hardcoded fallback table.
func LoadDefault() mapping.Table {
	return loadDefault(bundled)
}

func loadDefault(data []byte) mapping.Table {
	if len(data) == 0 {
		return mapping.NewTable(fallback)
	}
	sections, err := mapping.ParseSections(data)
	if err != nil {
		return mapping.NewTable(fallback)
	}
	table, _ := mapping.TableFromSections(sections)
	if table.Len() == 0 {
		return mapping.NewTable(fallback)
	}
	return table
}

// LoadFile reads a custom mapping file. Unlike LoadDefault it reports every
// problem as a *domain.ConfigurationError.
func LoadFile(path string) (mapping.Table, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read file"
		if errors.Is(err, os.ErrNotExist) {
			reason = "file not found"
		}
		return mapping.Table{}, nil, &domain.ConfigurationError{Path: path, Reason: reason, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes and validates mapping file content.
func Parse(path string, data []byte) (mapping.Table, []string, error) {
	sections, err := mapping.ParseSections(data)
	if err != nil {
		return mapping.Table{}, nil, &domain.ConfigurationError{Path: path, Reason: "invalid YAML", Err: err}
	}
	warnings, err := mapping.ValidateConfiguration(sections)
	if err != nil {
		return mapping.Table{}, warnings, &domain.ConfigurationError{Path: path, Reason: "invalid mapping", Err: err}
	}
	table, _ := mapping.TableFromSections(sections)
	return table, warnings, nil
}

// Resolve builds the effective table from defaults, an optional custom
// mapping file and inline overrides, in that precedence order.
func Resolve(customPath string, inline map[string]string) (mapping.Table, []string, error) {
	tables := []mapping.Table{LoadDefault()}
	var warnings []string

	if customPath != "" {
		custom, w, err := LoadFile(customPath)
		if err != nil {
			return mapping.Table{}, w, err
		}
		tables = append(tables, custom)
		warnings = append(warnings, w...)
	}

	if len(inline) > 0 {
		for short, fqcn := range inline {
			if !domain.IsValidFQCN(fqcn) {
				return mapping.Table{}, warnings, &domain.ConfigurationError{
					Reason: fmt.Sprintf("inline mapping %s=%s is not a valid FQCN", short, fqcn),
				}
			}
		}
		tables = append(tables, mapping.NewTable(inline))
	}

	return mapping.Merge(tables...), warnings, nil
}

// Source adapts Resolve to application.MappingSource.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) Resolve(customPath string, inline map[string]string) (mapping.Table, []string, error) {
	return Resolve(customPath, inline)
}
