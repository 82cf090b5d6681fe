package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		grade string
	}{
		{95, "A+"}, {85, "A"}, {75, "B"}, {65, "C"}, {55, "D"}, {45, "F"}, {0, "F"}, {100, "A+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, domain.GradeFor(tt.score), "score %d", tt.score)
	}
}

func TestValidationResult_Counts(t *testing.T) {
	r := domain.ValidationResult{
		Score: 0.5,
		Issues: []domain.ValidationIssue{
			{Severity: domain.SeverityError},
			{Severity: domain.SeverityError},
			{Severity: domain.SeverityWarning},
			{Severity: domain.SeverityInfo},
		},
	}
	assert.Equal(t, 2, r.ErrorCount())
	assert.Equal(t, 1, r.WarningCount())
	assert.Equal(t, 1, r.InfoCount())
	assert.Equal(t, 50, r.Percent())
	assert.Contains(t, r.Summary(), "invalid")
}

func TestNewBatchResult_SortsAndAggregates(t *testing.T) {
	results := []*domain.ProjectResult{
		{ProjectPath: "/b", Success: false, FilesProcessed: 2, Duration: 2 * time.Second},
		{ProjectPath: "/a", Success: true, FilesProcessed: 3, FilesConverted: 1, ModulesConverted: 4, Duration: 4 * time.Second},
	}

	b := domain.NewBatchResult(results, 5*time.Second, false)

	require.Len(t, b.ProjectResults, 2)
	assert.Equal(t, "/a", b.ProjectResults[0].ProjectPath)
	assert.Equal(t, "/b", b.ProjectResults[1].ProjectPath)
	assert.Equal(t, 2, b.TotalProjects)
	assert.Equal(t, 1, b.SuccessfulConversions)
	assert.Equal(t, 1, b.FailedConversions)
	assert.Equal(t, 5, b.TotalFilesProcessed)
	assert.Equal(t, 1, b.TotalFilesConverted)
	assert.Equal(t, 4, b.TotalModulesConverted)
	assert.Equal(t, 3*time.Second, b.AverageProjectTime)
	assert.False(t, b.Success())
	assert.Equal(t, []string{"/b"}, b.FailedProjects())
	assert.Contains(t, b.Summary(), "Failed projects:")
	assert.Contains(t, b.Summary(), "/b")

	// input slice order is left alone
	assert.Equal(t, "/b", results[0].ProjectPath)
}

func TestNewBatchResult_Empty(t *testing.T) {
	b := domain.NewBatchResult(nil, 0, true)
	assert.Equal(t, 0, b.TotalProjects)
	assert.Equal(t, time.Duration(0), b.AverageProjectTime)
	assert.True(t, b.Success())
	assert.Contains(t, b.Summary(), "dry run")
}

func TestSuggestionsFor(t *testing.T) {
	err := &domain.FileAccessError{Path: "x.yml", Operation: domain.OpWrite, Err: errors.New("denied")}
	wrapped := errors.Join(errors.New("outer"), err)

	assert.NotEmpty(t, domain.SuggestionsFor(wrapped))
	assert.Contains(t, err.Error(), "cannot write x.yml")
	assert.Nil(t, domain.SuggestionsFor(errors.New("plain")))
}

func TestYAMLParseError_Message(t *testing.T) {
	err := &domain.YAMLParseError{Path: "site.yml", Line: 3, Err: errors.New("bad indent")}
	assert.Equal(t, "yaml parse error in site.yml at line 3: bad indent", err.Error())
	assert.ErrorIs(t, err, err.Err)
}

func TestConfigurationError_Message(t *testing.T) {
	err := &domain.ConfigurationError{Path: "m.yml", Reason: "file not found"}
	assert.Equal(t, "configuration error in m.yml: file not found", err.Error())
}
