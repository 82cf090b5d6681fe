package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/catalog"
	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/config"
	"github.com/openkraft/fqcnkraft/internal/application"
	"github.com/openkraft/fqcnkraft/internal/domain"
)

// app carries the global flags and the logger built from them.
type app struct {
	verbose   bool
	logFormat string
	logger    *zap.Logger
}

func (a *app) initLogger() error {
	logger, err := newLogger(a.verbose, a.logFormat)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// newLogger writes to stderr so command output on stdout stays parseable.
func newLogger(verbose bool, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: console, json)", format)
	}

	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// projectDir returns path itself for directories and the parent for files.
func projectDir(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return filepath.Dir(path)
	}
	return path
}

// loadEngine resolves the mapping table for the project containing path.
// mappingFile, when set, replaces the project's mapping_file.
func (a *app) loadEngine(path, mappingFile string) (*application.Engine, domain.ProjectConfig, error) {
	dir := projectDir(path)
	cfg, err := config.New().Load(dir)
	if err != nil {
		return nil, cfg, err
	}

	custom := application.ProjectMappingFile(dir, cfg)
	if mappingFile != "" {
		custom = mappingFile
	}
	table, warnings, err := catalog.Resolve(custom, cfg.Mappings)
	if err != nil {
		return nil, cfg, err
	}
	for _, w := range warnings {
		a.log().Warn("mapping configuration", zap.String("warning", w))
	}
	a.log().Debug("mapping table loaded", zap.Int("modules", table.Len()))
	return application.NewEngine(table), cfg, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
