package tui_test

import (
	"testing"
	"time"

	"github.com/openkraft/fqcnkraft/internal/adapters/outbound/tui"
	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/mapping"
	"github.com/stretchr/testify/assert"
)

func sampleValidation() *domain.ValidationResult {
	return &domain.ValidationResult{
		FilePath:     "proj/roles/web/tasks/main.yml",
		Valid:        false,
		Score:        0.5,
		TotalModules: 4,
		FQCNModules:  2,
		ShortModules: 1,
		Issues: []domain.ValidationIssue{
			{Line: 9, Severity: domain.SeverityInfo, Message: "module \"acme.x.y\" is not in the mapping table; verify FQCN", Module: "acme.x.y"},
			{Line: 4, Severity: domain.SeverityError, Message: "module \"copy\" should use its fully qualified collection name", Suggestion: "ansible.builtin.copy", Module: "copy"},
			{Line: 7, Severity: domain.SeverityWarning, Message: "unrecognized module \"frobnicate\" may need conversion", Module: "frobnicate"},
		},
	}
}

func TestRenderValidation_ContainsScoreAndGrade(t *testing.T) {
	output := tui.RenderValidation(sampleValidation())
	assert.Contains(t, output, "50%")
	assert.Contains(t, output, "D")
	assert.Contains(t, output, "2 / 4 modules qualified")
	assert.Contains(t, output, "roles/web/tasks/main.yml")
}

func TestRenderValidation_IssuesAndSuggestions(t *testing.T) {
	output := tui.RenderValidation(sampleValidation())
	assert.Contains(t, output, "1 errors")
	assert.Contains(t, output, "1 warnings")
	assert.Contains(t, output, "1 info")
	assert.Contains(t, output, "ansible.builtin.copy")
	assert.Contains(t, output, "line 4")
}

func TestRenderValidation_NoIssues(t *testing.T) {
	output := tui.RenderValidation(&domain.ValidationResult{Valid: true, Score: 1, Issues: []domain.ValidationIssue{}})
	assert.Contains(t, output, "No issues found.")
	assert.Contains(t, output, "100%")
}

func TestRenderProjectValidation(t *testing.T) {
	v := sampleValidation()
	pv := &domain.ProjectValidation{
		ProjectPath:  "/srv/ansible/webapp",
		Files:        []*domain.ValidationResult{v},
		FailedFiles:  map[string]string{"broken.yml": "yaml parse error in broken.yml at line 3: oops"},
		Score:        0.5,
		TotalModules: 4,
		FQCNModules:  2,
	}

	output := tui.RenderProjectValidation(pv)
	assert.Contains(t, output, "webapp")
	assert.Contains(t, output, "Not validated")
	assert.Contains(t, output, "broken.yml")
	assert.Contains(t, output, "main.yml:4")
}

func TestRenderConversion(t *testing.T) {
	result := &domain.ConversionResult{
		FilePath:    "site.yml",
		ChangesMade: 1,
		Changes:     []domain.Change{{Line: 3, From: "copy", To: "ansible.builtin.copy"}},
		Warnings:    []string{"module \"debug\" of task doc[0][1] not found near line 8; left unchanged"},
	}

	output := tui.RenderConversion(result, true)
	assert.Contains(t, output, "site.yml")
	assert.Contains(t, output, "not written")
	assert.Contains(t, output, "- copy")
	assert.Contains(t, output, "+ ansible.builtin.copy")
	assert.Contains(t, output, "left unchanged")

	assert.NotContains(t, tui.RenderConversion(result, false), "+ ansible.builtin.copy")

	result.Written = true
	result.BackupPath = ".fqcnkraft/backups/x/site.yml"
	output = tui.RenderConversion(result, false)
	assert.Contains(t, output, "1 modules converted")
	assert.Contains(t, output, "backup:")
}

func TestRenderConversion_UpToDate(t *testing.T) {
	assert.Contains(t, tui.RenderConversion(&domain.ConversionResult{Success: true}, true), "up to date")
}

func TestRenderBatch(t *testing.T) {
	score := 1.0
	result := domain.NewBatchResult([]*domain.ProjectResult{
		{ProjectPath: "/a/webapp", ProjectName: "webapp", Success: true, FilesProcessed: 4, FilesConverted: 3, ModulesConverted: 7, Score: &score, CommitHash: "0123456789abcdef"},
		{ProjectPath: "/a/broken", ProjectName: "broken", Errors: []string{"yaml parse error in site.yml at line 4: boom"}},
	}, 2*time.Second, true)

	output := tui.RenderBatch(result)
	assert.Contains(t, output, "Batch Dry Run")
	assert.Contains(t, output, "1 ok")
	assert.Contains(t, output, "1 failed")
	assert.Contains(t, output, "webapp")
	assert.Contains(t, output, "0123456")
	assert.Contains(t, output, "Failed Projects")
	assert.Contains(t, output, "yaml parse error")
	assert.Contains(t, output, "nothing was written")
}

func TestRenderDiscovery(t *testing.T) {
	assert.Contains(t, tui.RenderDiscovery("/srv", nil), "No projects found.")
	output := tui.RenderDiscovery("/srv", []string{"/srv/web", "/srv/db"})
	assert.Contains(t, output, "(2 under /srv)")
	assert.Contains(t, output, "/srv/db")
}

func TestRenderMappings(t *testing.T) {
	table := mapping.NewTable(map[string]string{
		"copy": "ansible.builtin.copy",
		"ufw":  "community.general.ufw",
	})
	output := tui.RenderMappings(table)
	assert.Contains(t, output, "2 modules, 2 collections")
	assert.Contains(t, output, "ansible.builtin")
	assert.Contains(t, output, "community.general.ufw")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No score history found.")

	output := tui.RenderHistory([]domain.ScoreEntry{
		{Timestamp: "2026-03-01T10:00:00Z", Score: 0.5, Grade: "D", ShortModules: 4},
		{Timestamp: "2026-03-02T10:00:00Z", CommitHash: "abcdef0123", Score: 0.75, Grade: "B", ShortModules: 2, Delta: 0.25},
		{Timestamp: "2026-03-03T10:00:00Z", Score: 0.6, Grade: "C", ShortModules: 3, Delta: -0.15, Regressed: []string{"roles/web/tasks/main.yml"}},
	})
	assert.Contains(t, output, "2026-03-01")
	assert.Contains(t, output, "abcdef0")
	assert.Contains(t, output, "4 short")
	assert.Contains(t, output, "↑25")
	assert.Contains(t, output, "↓15")
	assert.Contains(t, output, "regressed: roles/web/tasks/main.yml")
}
