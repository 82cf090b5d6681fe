package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultPatterns are the file-name globs that mark an Ansible project root.
var DefaultPatterns = []string{
	"site.yml",
	"site.yaml",
	"playbook*.yml",
	"playbook*.yaml",
	"main.yml",
	"main.yaml",
	"inventory*",
	"hosts*",
}

// MaxDepth bounds the recursive search below the search root.
const MaxDepth = 10

// sniffLines bounds how much of a candidate playbook is read when sniffing.
const sniffLines = 200

var skipDirs = map[string]bool{
	".git":         true,
	".fqcnkraft":   true,
	"node_modules": true,
	"venv":         true,
	".venv":        true,
	"__pycache__":  true,
	".tox":         true,
}

// ProjectDiscoverer implements domain.ProjectDiscoverer for Ansible trees.
// A qualifying search root is the only result. Otherwise its direct children
// are checked, and the tree is walked deeper only when none of them qualify.
// Nothing below an accepted project is ever accepted.
type ProjectDiscoverer struct{}

func New() *ProjectDiscoverer {
	return &ProjectDiscoverer{}
}

// Discover returns the sorted, deduplicated project roots below root.
// Nil or empty patterns select DefaultPatterns and enable content sniffing.
func (d *ProjectDiscoverer) Discover(root string, patterns []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "discover", Path: absRoot, Err: os.ErrInvalid}
	}

	m := matcher{root: absRoot, patterns: patterns, sniff: len(patterns) == 0}
	if m.sniff {
		m.patterns = DefaultPatterns
	}

	// A project root owns everything below it.
	if m.isProject(absRoot) {
		return []string{absRoot}, nil
	}

	found := map[string]bool{}
	for _, child := range subdirs(absRoot) {
		if m.isProject(child) {
			found[child] = true
		}
	}

	if len(found) == 0 {
		m.walk(absRoot, 1, found)
	}

	projects := make([]string, 0, len(found))
	for p := range found {
		projects = append(projects, p)
	}
	sort.Strings(projects)
	return projects, nil
}

type matcher struct {
	root     string
	patterns []string
	sniff    bool
}

func (m matcher) walk(dir string, depth int, found map[string]bool) {
	if depth > MaxDepth {
		return
	}
	for _, child := range subdirs(dir) {
		if m.isProject(child) {
			found[child] = true
			continue
		}
		m.walk(child, depth+1, found)
	}
}

// isProject reports whether dir looks like an Ansible project root.
func (m matcher) isProject(dir string) bool {
	if rel, err := filepath.Rel(m.root, dir); err == nil && hasRolesSegment(rel) {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if e.IsDir() {
			if e.Name() == "roles" {
				return true
			}
			continue
		}
		if m.matches(e.Name()) {
			return true
		}
	}

	if !m.sniff {
		return false
	}
	for _, e := range entries {
		if e.IsDir() || !looksLikePlaybook(e.Name()) {
			continue
		}
		if containsPlayKeys(filepath.Join(dir, e.Name())) {
			return true
		}
	}
	return false
}

func (m matcher) matches(name string) bool {
	for _, p := range m.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || skipDirs[e.Name()] {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out
}

// hasRolesSegment reports whether any segment of rel is "roles". Role
// directories belong to the project above them.
func hasRolesSegment(rel string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == "roles" {
			return true
		}
	}
	return false
}

func looksLikePlaybook(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".yml" && ext != ".yaml" {
		return false
	}
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, hint := range []string{"playbook", "site", "deploy", "setup", "install", "configure", "provision"} {
		if strings.Contains(base, hint) {
			return true
		}
	}
	return false
}

func containsPlayKeys(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 0; n < sniffLines && sc.Scan(); n++ {
		line := sc.Text()
		for _, key := range []string{"hosts:", "tasks:", "roles:"} {
			if strings.Contains(line, key) {
				return true
			}
		}
	}
	return false
}
