package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

// FileName is the project-level configuration file.
const FileName = ".fqcnkraft.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .fqcnkraft.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .fqcnkraft.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	path := filepath.Join(projectPath, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, &domain.ConfigurationError{Path: path, Reason: "cannot read file", Err: err}
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, &domain.ConfigurationError{Path: path, Reason: "invalid YAML", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, &domain.ConfigurationError{Path: path, Reason: "invalid configuration", Err: err}
	}

	// mapping_file is relative to the project unless absolute.
	if cfg.MappingFile != "" && !filepath.IsAbs(cfg.MappingFile) {
		cfg.MappingFile = filepath.Join(projectPath, cfg.MappingFile)
	}

	return cfg, nil
}
