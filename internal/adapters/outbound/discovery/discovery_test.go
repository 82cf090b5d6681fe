package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel string, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestDiscover_RolesAreNeverRoots(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "proj/site.yml", "- hosts: all\n")
	touch(t, root, "proj/roles/web/tasks/main.yml", "- name: t\n  copy:\n    src: a\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "proj")}, projects)
}

func TestDiscover_DirectChildren(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "alpha/playbook-web.yml", "- hosts: web\n")
	touch(t, root, "beta/inventory.ini", "[all]\n")
	touch(t, root, "gamma/roles/db/tasks/main.yml", "")
	touch(t, root, "docs/README.md", "# docs\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "beta"),
		filepath.Join(root, "gamma"),
	}, projects)
}

func TestDiscover_RootItselfIsProject(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "site.yaml", "- hosts: all\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, projects)
}

func TestDiscover_RootProjectOwnsSubdirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "site.yml", "- hosts: all\n  roles: [app]\n")
	touch(t, root, "tasks/main.yml", "- name: t\n  copy:\n    src: a\n")
	touch(t, root, "vars/main.yml", "app_port: 80\n")
	touch(t, root, "inventory/hosts", "localhost\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, projects)
}

func TestDiscover_RecursiveFallback(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "teams/ops/infra/site.yml", "- hosts: all\n")
	touch(t, root, "teams/dev/app/hosts", "localhost\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "teams", "dev", "app"),
		filepath.Join(root, "teams", "ops", "infra"),
	}, projects)
}

func TestDiscover_DepthIsBounded(t *testing.T) {
	root := t.TempDir()
	deep := "a/b/c/d/e/f/g/h/i/j/k/l"
	touch(t, root, deep+"/site.yml", "- hosts: all\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDiscover_ContentSniffing(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "legacy/deploy-app.yml", "---\n- name: deploy\n  hosts: app\n  tasks: []\n")
	touch(t, root, "vars-only/settings.yml", "hosts: ignored because name is not playbook-like\n")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "legacy")}, projects)
}

func TestDiscover_CustomPatternsDisableSniffing(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "legacy/deploy-app.yml", "- hosts: app\n")
	touch(t, root, "custom/ansible.cfg", "[defaults]\n")

	projects, err := discovery.New().Discover(root, []string{"ansible.cfg"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "custom")}, projects)
}

func TestDiscover_SkipsToolingDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "node_modules/pkg/site.yml", "- hosts: all\n")
	touch(t, root, ".git/hooks/main.yml", "")

	projects, err := discovery.New().Discover(root, nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDiscover_Errors(t *testing.T) {
	_, err := discovery.New().Discover(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)

	root := t.TempDir()
	touch(t, root, "file.yml", "")
	_, err = discovery.New().Discover(filepath.Join(root, "file.yml"), nil)
	assert.Error(t, err)
}

func TestDiscover_Fixtures(t *testing.T) {
	projects, err := discovery.New().Discover("../../../../testdata/ansible", nil)
	require.NoError(t, err)

	var names []string
	for _, p := range projects {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"broken", "database", "legacy", "webapp"}, names)
}
