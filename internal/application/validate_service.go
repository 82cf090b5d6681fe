package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/compliance"
)

// ValidateService checks documents, files and whole projects for FQCN
// compliance. It never modifies anything except the optional score history.
type ValidateService struct {
	validator    *compliance.Validator
	scanner      domain.FileScanner
	configLoader domain.ConfigLoader
	history      domain.ScoreHistory
	git          domain.GitInfo
	logger       *zap.Logger
}

func NewValidateService(
	validator *compliance.Validator,
	scanner domain.FileScanner,
	configLoader domain.ConfigLoader,
	logger *zap.Logger,
) *ValidateService {
	return &ValidateService{
		validator:    validator,
		scanner:      scanner,
		configLoader: configLoader,
		logger:       logger.Named("validate"),
	}
}

// WithHistory makes ValidateProject record each project score.
func (s *ValidateService) WithHistory(history domain.ScoreHistory, git domain.GitInfo) *ValidateService {
	c := *s
	c.history = history
	c.git = git
	return &c
}

func (s *ValidateService) ValidateContent(content string) (*domain.ValidationResult, error) {
	return s.validator.Validate(content)
}

// ValidateConversion validates the file at path without modifying it.
func (s *ValidateService) ValidateConversion(path string) (*domain.ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ValidationError{
			Path: path,
			Err:  &domain.FileAccessError{Path: path, Operation: domain.OpRead, Err: err},
		}
	}

	result, err := s.validator.Validate(string(data))
	if err != nil {
		var pe *domain.YAMLParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &domain.ValidationError{Path: path, Err: err}
	}
	result.FilePath = path
	return result, nil
}

// ValidateProject validates every YAML file of the project at root. Files
// that cannot be validated are listed in FailedFiles and make the project
// invalid.
func (s *ValidateService) ValidateProject(root string) (*domain.ProjectValidation, error) {
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	files, err := s.scanner.Scan(root, cfg.ExcludePaths...)
	if err != nil {
		return nil, &domain.ValidationError{Path: root, Err: fmt.Errorf("scanning project: %w", err)}
	}

	pv := &domain.ProjectValidation{
		ProjectPath: root,
		Files:       []*domain.ValidationResult{},
		Valid:       true,
	}
	for _, rel := range files {
		result, err := s.ValidateConversion(filepath.Join(root, rel))
		if err != nil {
			if pv.FailedFiles == nil {
				pv.FailedFiles = map[string]string{}
			}
			pv.FailedFiles[rel] = err.Error()
			pv.Valid = false
			s.logger.Warn("file not validated", zap.String("file", rel), zap.Error(err))
			continue
		}
		result.FilePath = rel
		pv.Files = append(pv.Files, result)
		pv.TotalModules += result.TotalModules
		pv.FQCNModules += result.FQCNModules
		if !result.Valid {
			pv.Valid = false
		}
	}
	pv.Score = compliance.Score(pv.FQCNModules, pv.TotalModules)

	s.logger.Info("project validated",
		zap.String("project", root),
		zap.Int("files", len(pv.Files)),
		zap.Int("failed", len(pv.FailedFiles)),
		zap.Float64("score", pv.Score))

	if s.history != nil {
		s.record(root, pv)
	}
	return pv, nil
}

func (s *ValidateService) record(root string, pv *domain.ProjectValidation) {
	percent := int(pv.Score*100 + 0.5)
	entry := domain.ScoreEntry{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Score:        pv.Score,
		Grade:        domain.GradeFor(percent),
		TotalModules: pv.TotalModules,
		FQCNModules:  pv.FQCNModules,
	}
	for _, f := range pv.Files {
		entry.ShortModules += f.ShortModules
		if f.TotalModules == 0 {
			continue
		}
		entry.Files = append(entry.Files, domain.FileScore{
			Path:         f.FilePath,
			TotalModules: f.TotalModules,
			FQCNModules:  f.FQCNModules,
			ShortModules: f.ShortModules,
		})
	}
	if s.git != nil && s.git.IsGitRepo(root) {
		if hash, err := s.git.CommitHash(root); err == nil {
			entry.CommitHash = hash
		}
	}
	if err := s.history.Save(root, entry); err != nil {
		s.logger.Warn("score history not saved", zap.String("project", root), zap.Error(err))
	}
}
