package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var skipDirs = map[string]bool{
	".git":         true,
	".fqcnkraft":   true,
	".tox":         true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
	"__pycache__":  true,
}

// dataDirs hold variables and payloads rather than plays or tasks. Their
// YAML may be a list of mappings that merely looks like a task list.
var dataDirs = map[string]bool{
	"group_vars": true,
	"host_vars":  true,
	"vars":       true,
	"defaults":   true,
	"files":      true,
	"templates":  true,
}

// skipFiles are tool-owned YAML files that are never Ansible content.
var skipFiles = map[string]bool{
	".fqcnkraft.yaml": true,
	".fqcnkraft.yml":  true,
}

// FileScanner implements domain.FileScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// IsYAML reports whether name has a .yml or .yaml extension.
func IsYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// Scan returns the YAML files below projectPath as sorted paths relative to
// projectPath. Variable and payload directories are never entered. Entries of excludePaths are matched against directory names
// and against relative paths.
func (s *FileScanner) Scan(projectPath string, excludePaths ...string) ([]string, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	// Merge extra excludes with built-in skip dirs.
	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[filepath.ToSlash(strings.TrimSuffix(p, "/"))] = true
	}

	var files []string
	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel(absPath, path)
		slashRel := filepath.ToSlash(relPath)

		if d.IsDir() {
			if path == absPath {
				return nil
			}
			if skipDirs[d.Name()] || dataDirs[d.Name()] || extraSkip[d.Name()] || extraSkip[slashRel] {
				return filepath.SkipDir
			}
			return nil
		}

		if extraSkip[slashRel] || skipFiles[d.Name()] || !IsYAML(d.Name()) {
			return nil
		}
		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
