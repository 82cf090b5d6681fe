package application

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/backup"
	"github.com/openkraft/fqcnkraft/internal/domain"
)

const shortTasks = `- name: copy a file
  copy:
    src: a
    dest: /tmp/a
- name: say hi
  debug:
    msg: hi
`

func newConvertService() *ConvertService {
	return NewConvertService(testEngine().Converter, nop())
}

func TestConvertContent_DoesNotTouchInput(t *testing.T) {
	input := shortTasks
	result, err := newConvertService().ConvertContent(input)
	require.NoError(t, err)

	assert.Equal(t, shortTasks, input)
	assert.Equal(t, 2, result.ChangesMade)
	assert.Contains(t, result.ConvertedContent, "  ansible.builtin.copy:\n")
	assert.Contains(t, result.ConvertedContent, "  ansible.builtin.debug:\n")
	assert.False(t, result.Written)
}

func TestConvertFile_DryRunLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yml")
	writeFile(t, path, shortTasks)

	result, err := newConvertService().ConvertFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ChangesMade)
	assert.Equal(t, path, result.FilePath)
	assert.False(t, result.Written)
	assert.Equal(t, shortTasks, readFile(t, path))
}

func TestConvertFile_Writes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yml")
	writeFile(t, path, shortTasks)

	result, err := newConvertService().ConvertFile(path, false)
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.Empty(t, result.BackupPath)
	assert.Equal(t, result.ConvertedContent, readFile(t, path))

	again, err := newConvertService().ConvertFile(path, false)
	require.NoError(t, err)
	assert.Zero(t, again.ChangesMade)
	assert.False(t, again.Written)
}

func TestConvertFile_Backup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles", "app", "tasks", "main.yml")
	writeFile(t, path, shortTasks)

	svc := newConvertService().WithBackup(backup.New(dir))
	result, err := svc.ConvertFile(path, false)
	require.NoError(t, err)

	require.NotEmpty(t, result.BackupPath)
	assert.Equal(t, shortTasks, readFile(t, result.BackupPath))
	assert.Contains(t, result.BackupPath, filepath.Join(".fqcnkraft", "backups"))
	assert.NotEqual(t, shortTasks, readFile(t, path))
}

type failingBackup struct{}

func (failingBackup) Save(string, []byte) (string, error) { return "", errors.New("disk full") }

func TestConvertFile_BackupFailureKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yml")
	writeFile(t, path, shortTasks)

	_, err := newConvertService().WithBackup(failingBackup{}).ConvertFile(path, false)
	var ce *domain.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, path, ce.Path)
	assert.Equal(t, shortTasks, readFile(t, path))
}

func TestConvertFile_MissingFile(t *testing.T) {
	_, err := newConvertService().ConvertFile(filepath.Join(t.TempDir(), "nope.yml"), false)

	var fe *domain.FileAccessError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.OpRead, fe.Operation)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestConvertFile_WriteFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := filepath.Join(t.TempDir(), "tasks.yml")
	writeFile(t, path, shortTasks)
	require.NoError(t, os.Chmod(path, 0444))

	_, err := newConvertService().ConvertFile(path, false)
	var fe *domain.FileAccessError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.OpWrite, fe.Operation)
}

func TestConvertFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(fixtureRoot, "broken", "site.yml")

	_, err := newConvertService().ConvertFile(path, true)
	var pe *domain.YAMLParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.NotEmpty(t, domain.SuggestionsFor(err))
}
