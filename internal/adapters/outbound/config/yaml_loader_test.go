package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/openkraft/fqcnkraft/internal/adapters/outbound/config"
	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fqcnkraft.yaml"), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
mapping_file: custom.yml
mappings:
  my_module: acme.tools.my_module
exclude_paths:
  - molecule
batch:
  max_workers: 3
  continue_on_error: false
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.yml"), cfg.MappingFile)
	assert.Equal(t, "acme.tools.my_module", cfg.Mappings["my_module"])
	assert.Equal(t, []string{"molecule"}, cfg.ExcludePaths)
	require.NotNil(t, cfg.Batch)
	assert.Equal(t, 3, *cfg.Batch.MaxWorkers)
	assert.False(t, *cfg.Batch.ContinueOnError)
	assert.Nil(t, cfg.Batch.Validate)
}

func TestYAMLLoader_AbsoluteMappingFileKept(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "m.yml")
	writeConfig(t, dir, "mapping_file: "+abs+"\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.MappingFile)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	require.Error(t, err)

	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "invalid YAML", ce.Reason)
	assert.Contains(t, err.Error(), ".fqcnkraft.yaml")
}

func TestYAMLLoader_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mappings:\n  copy: copy\n")

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.MappingFile)
	assert.Nil(t, cfg.Batch)
}
