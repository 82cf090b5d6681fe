package domain

// ConfigLoader loads project-level configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// FileScanner enumerates the Ansible YAML files of a project.
type FileScanner interface {
	Scan(projectPath string, excludePaths ...string) ([]string, error)
}

// ProjectDiscoverer finds Ansible project roots below a search root.
type ProjectDiscoverer interface {
	Discover(root string, patterns []string) ([]string, error)
}

// BackupStore keeps a copy of a file before it is overwritten.
type BackupStore interface {
	Save(filePath string, content []byte) (string, error)
}

// GitInfo reads repository metadata for a project.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
	IsClean(projectPath string) (bool, error)
}

// ScoreHistory persists compliance scores over time.
type ScoreHistory interface {
	Save(projectPath string, entry ScoreEntry) error
	Load(projectPath string) ([]ScoreEntry, error)
}

// ScoreEntry is one recorded compliance measurement. Delta and Regressed
// compare it with the entry recorded before it.
type ScoreEntry struct {
	Timestamp    string      `json:"timestamp"`
	CommitHash   string      `json:"commit_hash,omitempty"`
	Score        float64     `json:"score"`
	Grade        string      `json:"grade"`
	TotalModules int         `json:"total_modules"`
	FQCNModules  int         `json:"fqcn_modules"`
	ShortModules int         `json:"short_modules"`
	Delta        float64     `json:"delta"`
	Files        []FileScore `json:"files,omitempty"`
	Regressed    []string    `json:"regressed,omitempty"`
}

// FileScore is the per-file module count of a ScoreEntry.
type FileScore struct {
	Path         string `json:"path"`
	TotalModules int    `json:"total_modules"`
	FQCNModules  int    `json:"fqcn_modules"`
	ShortModules int    `json:"short_modules"`
}
