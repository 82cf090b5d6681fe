package e2e_test

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "fqcnkraft-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "fqcnkraft")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/fqcnkraft")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func fixturePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/ansible", name))
	return abs
}

// workspace copies a fixture into a temp dir so the binary may write to it.
func workspace(t *testing.T, name string) string {
	t.Helper()
	src := fixturePath(name)
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(dst, rel), 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dst, rel), data, 0644)
	})
	require.NoError(t, err)
	return dst
}

func run(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return out.String(), errOut.String(), exitCode
}

// --- Convert Tests ---

func TestE2E_ConvertPreservesFormatting(t *testing.T) {
	dir := workspace(t, "webapp")
	file := filepath.Join(dir, "roles", "web", "tasks", "main.yml")
	before, err := os.ReadFile(file)
	require.NoError(t, err)

	_, _, code := run(t, "convert", dir)
	assert.Equal(t, 0, code)

	after, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotEqual(t, string(before), string(after))
	assert.Contains(t, string(after), "ansible.builtin.template:")
	assert.Contains(t, string(after), "notify: restart nginx")
	assert.Equal(t, bytes.Count(before, []byte("\n")), bytes.Count(after, []byte("\n")),
		"conversion must not add or remove lines")
}

func TestE2E_ConvertDryRunLeavesFiles(t *testing.T) {
	dir := workspace(t, "legacy")
	file := filepath.Join(dir, "deploy.yml")
	before, _ := os.ReadFile(file)

	out, _, code := run(t, "convert", dir, "--dry-run")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Would convert 2 module(s)")

	after, _ := os.ReadFile(file)
	assert.Equal(t, string(before), string(after))
}

func TestE2E_ConvertInvalidYAMLExitsNonZero(t *testing.T) {
	_, stderr, code := run(t, "convert", filepath.Join(fixturePath("broken"), "site.yml"), "--dry-run")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "yaml parse error")
	assert.Contains(t, stderr, "hint:")
}

// --- Validate Tests ---

func TestE2E_ValidateJSON(t *testing.T) {
	out, _, code := run(t, "validate", fixturePath("webapp"), "--json")
	assert.Equal(t, 1, code, "short module names remain")

	var pv domain.ProjectValidation
	require.NoError(t, json.Unmarshal([]byte(out), &pv))
	assert.Equal(t, 8, pv.TotalModules)
	assert.Equal(t, 1, pv.FQCNModules)
}

func TestE2E_ValidateCompliantProject(t *testing.T) {
	out, _, code := run(t, "validate", fixturePath("database"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "100")
}

// --- Batch Tests ---

func TestE2E_BatchDryRun(t *testing.T) {
	out, _, code := run(t, "batch", fixturePath("."), "--dry-run", "--json")
	assert.Equal(t, 1, code, "broken project fails the batch")

	var result domain.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 4, result.TotalProjects)
	assert.Equal(t, 1, result.FailedConversions)
	assert.Equal(t, 9, result.TotalModulesConverted)
}

func TestE2E_BatchBackupRestore(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"legacy", "database"} {
		src := workspace(t, name)
		require.NoError(t, os.Rename(src, filepath.Join(root, name)))
	}
	legacy := filepath.Join(root, "legacy", "deploy.yml")
	original, _ := os.ReadFile(legacy)

	_, _, code := run(t, "batch", root, "--backup", "--workers", "2")
	require.Equal(t, 0, code)
	converted, _ := os.ReadFile(legacy)
	assert.Contains(t, string(converted), "ansible.builtin.copy:")

	_, _, code = run(t, "restore", filepath.Join(root, "legacy"))
	require.Equal(t, 0, code)
	restored, _ := os.ReadFile(legacy)
	assert.Equal(t, string(original), string(restored))
}

func TestE2E_Discover(t *testing.T) {
	out, _, code := run(t, "discover", fixturePath("."), "--json")
	assert.Equal(t, 0, code)

	var got struct {
		Projects []string `json:"projects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Projects, 4)
}

// --- Misc ---

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "fqcnkraft")
}

func TestE2E_VerboseLogsGoToStderr(t *testing.T) {
	out, stderr, code := run(t, "validate", fixturePath("database"), "--json", "-v", "--log-format", "json")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, `"project validated"`)

	var pv domain.ProjectValidation
	require.NoError(t, json.Unmarshal([]byte(out), &pv), "stdout stays machine readable")
}
