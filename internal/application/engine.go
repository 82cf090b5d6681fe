package application

import (
	"path/filepath"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/compliance"
	"github.com/openkraft/fqcnkraft/internal/domain/convert"
	"github.com/openkraft/fqcnkraft/internal/domain/mapping"
)

// Engine bundles the converter and validator built over one mapping table.
// It is immutable and shared across goroutines.
type Engine struct {
	Table     mapping.Table
	Converter *convert.Converter
	Validator *compliance.Validator
}

func NewEngine(table mapping.Table) *Engine {
	return &Engine{
		Table:     table,
		Converter: convert.New(table),
		Validator: compliance.New(table),
	}
}

// MappingSource resolves the effective table for a custom mapping file and
// inline overrides.
type MappingSource interface {
	Resolve(customPath string, inline map[string]string) (mapping.Table, []string, error)
}

// EngineFor returns base unless cfg customizes the mappings, in which case a
// dedicated engine is built from source. A non-empty mappingFile replaces
// cfg.MappingFile, so a caller-wide mapping file still applies to projects
// that only add inline mappings. A relative cfg.MappingFile is resolved
// against projectPath.
func EngineFor(base *Engine, source MappingSource, cfg domain.ProjectConfig, projectPath, mappingFile string) (*Engine, []string, error) {
	if source == nil || (cfg.MappingFile == "" && len(cfg.Mappings) == 0) {
		return base, nil, nil
	}
	custom := mappingFile
	if custom == "" {
		custom = ProjectMappingFile(projectPath, cfg)
	}
	table, warnings, err := source.Resolve(custom, cfg.Mappings)
	if err != nil {
		return nil, warnings, err
	}
	return NewEngine(table), warnings, nil
}

// ProjectMappingFile returns cfg.MappingFile resolved against projectPath.
func ProjectMappingFile(projectPath string, cfg domain.ProjectConfig) string {
	if cfg.MappingFile == "" || filepath.IsAbs(cfg.MappingFile) {
		return cfg.MappingFile
	}
	return filepath.Join(projectPath, cfg.MappingFile)
}
