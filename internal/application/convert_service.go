package application

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/convert"
)

// ConvertService converts in-memory documents and files on disk.
type ConvertService struct {
	converter *convert.Converter
	backup    domain.BackupStore
	logger    *zap.Logger
}

func NewConvertService(converter *convert.Converter, logger *zap.Logger) *ConvertService {
	return &ConvertService{
		converter: converter,
		logger:    logger.Named("convert"),
	}
}

// WithBackup returns a copy of the service that saves originals to store
// before overwriting them.
func (s *ConvertService) WithBackup(store domain.BackupStore) *ConvertService {
	c := *s
	c.backup = store
	return &c
}

// ConvertContent converts content without touching the filesystem.
func (s *ConvertService) ConvertContent(content string) (*domain.ConversionResult, error) {
	return s.converter.Convert(content)
}

// ConvertFile converts the file at path. Unless dryRun is set and provided
// something changed, the file is overwritten in place.
func (s *ConvertService) ConvertFile(path string, dryRun bool) (*domain.ConversionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.FileAccessError{Path: path, Operation: domain.OpRead, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.FileAccessError{Path: path, Operation: domain.OpRead, Err: err}
	}

	result, err := s.converter.Convert(string(data))
	if err != nil {
		var pe *domain.YAMLParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &domain.ConversionError{Path: path, Err: err}
	}
	result.FilePath = path

	if dryRun || result.ChangesMade == 0 {
		s.logger.Debug("file unchanged on disk",
			zap.String("path", path),
			zap.Int("changes", result.ChangesMade),
			zap.Bool("dry_run", dryRun))
		return result, nil
	}

	if s.backup != nil {
		backupPath, err := s.backup.Save(path, data)
		if err != nil {
			return nil, &domain.ConversionError{Path: path, Err: fmt.Errorf("backing up original: %w", err)}
		}
		result.BackupPath = backupPath
	}

	// Direct overwrite; an interrupted write can leave a truncated file.
	if err := os.WriteFile(path, []byte(result.ConvertedContent), info.Mode().Perm()); err != nil {
		return nil, &domain.FileAccessError{Path: path, Operation: domain.OpWrite, Err: err}
	}
	result.Written = true

	s.logger.Info("file converted",
		zap.String("path", path),
		zap.Int("changes", result.ChangesMade))
	return result, nil
}
