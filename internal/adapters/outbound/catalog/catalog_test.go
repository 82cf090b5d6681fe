package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadDefault_BundledCatalog(t *testing.T) {
	table := LoadDefault()

	assert.Greater(t, table.Len(), len(fallback))
	fqcn, ok := table.Lookup("copy")
	require.True(t, ok)
	assert.Equal(t, "ansible.builtin.copy", fqcn)

	fqcn, ok = table.Lookup("ufw")
	require.True(t, ok)
	assert.Equal(t, "community.general.ufw", fqcn)

	_, ok = table.Lookup("enabled")
	assert.False(t, ok, "reserved sections must not leak into the table")
}

func TestLoadDefault_EveryEntryIsValid(t *testing.T) {
	for short, fqcn := range LoadDefault().Entries() {
		assert.True(t, domain.IsValidFQCN(fqcn), "%s -> %s", short, fqcn)
	}
}

func TestLoadDefault_FallsBackOnCorruptCatalog(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("{{{ not yaml"), []byte("- a\n- b\n"), []byte("conversion_rules: {}\n")} {
		table := loadDefault(data)
		assert.Equal(t, len(fallback), table.Len())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)

	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "file not found", ce.Reason)
	assert.NotEmpty(t, domain.SuggestionsFor(err))
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "m.yml", "mappings: [oops\n")

	_, _, err := LoadFile(p)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "invalid YAML", ce.Reason)
}

func TestLoadFile_InvalidEntry(t *testing.T) {
	p := writeFile(t, t.TempDir(), "m.yml", "mappings:\n  copy: notqualified\n")

	_, _, err := LoadFile(p)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "invalid mapping", ce.Reason)
}

func TestLoadFile_FlatAndSectioned(t *testing.T) {
	p := writeFile(t, t.TempDir(), "m.yml", `
mappings:
  my_module: acme.tools.my_module
acme_tools:
  other: acme.tools.other
tuning:
  - high
`)

	table, warnings, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "tuning")
}

func TestLoadFile_CollectionSectionWithInvalidEntry(t *testing.T) {
	p := writeFile(t, t.TempDir(), "m.yml", "community_general:\n  ufw: community.general.ufw\n  nmcli: nmcli\n")

	_, _, err := LoadFile(p)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "invalid mapping", ce.Reason)
	assert.Contains(t, err.Error(), "nmcli")
}

func TestResolve_Precedence(t *testing.T) {
	p := writeFile(t, t.TempDir(), "m.yml", "mappings:\n  copy: custom.file.copy\n  ufw: custom.file.ufw\n")

	table, _, err := Resolve(p, map[string]string{"copy": "inline.wins.copy"})
	require.NoError(t, err)

	fqcn, _ := table.Lookup("copy")
	assert.Equal(t, "inline.wins.copy", fqcn)
	fqcn, _ = table.Lookup("ufw")
	assert.Equal(t, "custom.file.ufw", fqcn)
	fqcn, _ = table.Lookup("template")
	assert.Equal(t, "ansible.builtin.template", fqcn)
}

func TestResolve_CustomFileErrorPropagates(t *testing.T) {
	_, _, err := Resolve(filepath.Join(t.TempDir(), "missing.yml"), nil)
	var ce *domain.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestResolve_InvalidInline(t *testing.T) {
	_, _, err := Resolve("", map[string]string{"copy": "bad"})
	var ce *domain.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}
