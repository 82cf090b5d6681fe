package domain

import "fmt"

// ProjectConfig holds project-level configuration loaded from .fqcnkraft.yaml.
type ProjectConfig struct {
	MappingFile  string            `yaml:"mapping_file"  json:"mapping_file,omitempty"`
	Mappings     map[string]string `yaml:"mappings"      json:"mappings,omitempty"`
	ExcludePaths []string          `yaml:"exclude_paths" json:"exclude_paths,omitempty"`
	Batch        *BatchConfig      `yaml:"batch,omitempty" json:"batch,omitempty"`
}

// BatchConfig overrides batch options. Pointer types distinguish
// "not specified" from zero values.
type BatchConfig struct {
	MaxWorkers      *int     `yaml:"max_workers,omitempty"       json:"max_workers,omitempty"`
	ContinueOnError *bool    `yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
	Validate        *bool    `yaml:"validate,omitempty"          json:"validate,omitempty"`
	Backup          *bool    `yaml:"backup,omitempty"            json:"backup,omitempty"`
	Patterns        []string `yaml:"patterns,omitempty"          json:"patterns,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	// inline mappings must target valid FQCNs
	for short, fqcn := range c.Mappings {
		if short == "" {
			return fmt.Errorf("empty module name in mappings")
		}
		if !IsValidFQCN(fqcn) {
			return fmt.Errorf("mappings[%q] = %q is not a valid FQCN", short, fqcn)
		}
	}

	for i, p := range c.ExcludePaths {
		if p == "" {
			return fmt.Errorf("exclude_paths[%d] must not be empty", i)
		}
	}

	if c.Batch != nil {
		if c.Batch.MaxWorkers != nil && *c.Batch.MaxWorkers <= 0 {
			return fmt.Errorf("batch.max_workers must be > 0 (got %d)", *c.Batch.MaxWorkers)
		}
		for i, p := range c.Batch.Patterns {
			if p == "" {
				return fmt.Errorf("batch.patterns[%d] must not be empty", i)
			}
		}
	}

	return nil
}

// ApplyTo overlays configured batch values onto opts. Explicit values win.
func (c ProjectConfig) ApplyTo(opts BatchOptions) BatchOptions {
	b := c.Batch
	if b == nil {
		return opts
	}
	if b.MaxWorkers != nil {
		opts.MaxWorkers = *b.MaxWorkers
	}
	if b.ContinueOnError != nil {
		opts.ContinueOnError = *b.ContinueOnError
	}
	if b.Validate != nil {
		opts.Validate = *b.Validate
	}
	if b.Backup != nil {
		opts.Backup = *b.Backup
	}
	if len(b.Patterns) > 0 {
		opts.Patterns = b.Patterns
	}
	return opts
}
