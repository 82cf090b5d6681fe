package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Dir is the backup directory inside a project.
const Dir = ".fqcnkraft/backups"

const stampLayout = "20060102T150405Z"

// Store is a file-based implementation of domain.BackupStore. All files
// saved through one Store land under the same timestamped session directory
// so a run can be rolled back as a unit.
type Store struct {
	root    string
	session string
}

// New creates a backup store rooted at projectPath.
func New(projectPath string) *Store {
	return NewAt(projectPath, time.Now())
}

// NewAt creates a store whose session directory is derived from t.
func NewAt(projectPath string, t time.Time) *Store {
	return &Store{root: projectPath, session: t.UTC().Format(stampLayout)}
}

// SessionDir returns the directory this store writes to.
func (s *Store) SessionDir() string {
	return filepath.Join(s.root, Dir, s.session)
}

// Save copies content to the session directory, mirroring filePath's location
// relative to the project root. Files outside the root keep only their name.
func (s *Store) Save(filePath string, content []byte) (string, error) {
	rel, err := s.relative(filePath)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(s.SessionDir(), rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return dest, nil
}

// Sessions lists the backup sessions of the project, oldest first.
// Returns (nil, nil) if no backups exist.
func (s *Store) Sessions() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, Dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Restore copies every file of a session back over the project and returns
// the restored paths relative to the project root.
func (s *Store) Restore(session string) ([]string, error) {
	base := filepath.Join(s.root, Dir, session)
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("backup session %s: %w", session, err)
	}

	var restored []string
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(base, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(s.root, rel), data, 0644); err != nil {
			return err
		}
		restored = append(restored, rel)
		return nil
	})
	if err != nil {
		return restored, fmt.Errorf("restoring %s: %w", session, err)
	}
	return restored, nil
}

func (s *Store) relative(filePath string) (string, error) {
	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Base(absFile), nil
	}
	return rel, nil
}
