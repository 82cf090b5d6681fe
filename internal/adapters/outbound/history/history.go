// Package history keeps a per-project log of FQCN compliance measurements.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

const historyFile = ".fqcnkraft/history/scores.json"

// MaxEntries caps the stored history; the oldest entries are dropped first.
const MaxEntries = 100

// FileHistory implements domain.ScoreHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Save appends entry after filling in its Delta and Regressed fields from the
// previous measurement. Measuring the same commit again replaces its entry.
func (h *FileHistory) Save(projectPath string, entry domain.ScoreEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	n := len(entries)
	if n > 0 && entry.CommitHash != "" && entries[n-1].CommitHash == entry.CommitHash {
		entries = entries[:n-1]
	}
	if n := len(entries); n > 0 {
		compare(&entry, entries[n-1])
	}

	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	return write(filepath.Join(projectPath, historyFile), entries)
}

// compare records how cur moved relative to prev. A file regressed when it
// has more short module names than before, or is new and has any.
func compare(cur *domain.ScoreEntry, prev domain.ScoreEntry) {
	cur.Delta = cur.Score - prev.Score
	cur.Regressed = nil

	before := make(map[string]int, len(prev.Files))
	for _, f := range prev.Files {
		before[f.Path] = f.ShortModules
	}
	for _, f := range cur.Files {
		if f.ShortModules > before[f.Path] {
			cur.Regressed = append(cur.Regressed, f.Path)
		}
	}
}

// write replaces the history file through a temporary file so a failed write
// never truncates the existing history.
func write(fp string, entries []domain.ScoreEntry) error {
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(fp), "scores-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fp)
}

func (h *FileHistory) Load(projectPath string) ([]domain.ScoreEntry, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.ScoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("reading score history %s: %w", fp, err)
	}
	return entries, nil
}

// Latest returns the most recent entry, or nil when no history exists.
func (h *FileHistory) Latest(projectPath string) (*domain.ScoreEntry, error) {
	entries, err := h.Load(projectPath)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	last := entries[len(entries)-1]
	return &last, nil
}
