package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/fqcnkraft/internal/domain"
	"github.com/openkraft/fqcnkraft/internal/domain/mapping"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderBatch renders a BatchResult as a styled TUI string.
func RenderBatch(result *domain.BatchResult) string {
	var b strings.Builder

	mode := "Batch Conversion"
	if result.DryRun {
		mode = "Batch Dry Run"
	}
	counts := fmt.Sprintf("%d projects  ", result.TotalProjects) +
		passStyle.Render(fmt.Sprintf("%d ok", result.SuccessfulConversions))
	if result.FailedConversions > 0 {
		counts += "  " + failStyle.Render(fmt.Sprintf("%d failed", result.FailedConversions))
	}
	totals := dimStyle.Render(fmt.Sprintf("%d files  %d converted  %d modules  %s",
		result.TotalFilesProcessed, result.TotalFilesConverted, result.TotalModulesConverted,
		result.ExecutionTime.Round(time.Millisecond)))

	b.WriteString(boxStyle.Render(headerStyle.Render(mode) + "\n" + counts + "\n" + totals))
	b.WriteString("\n\n")

	for _, p := range result.ProjectResults {
		renderProject(&b, p)
	}

	if failed := result.FailedProjects(); len(failed) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Failed Projects"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(failed))))
		for _, p := range result.ProjectResults {
			if p.Success {
				continue
			}
			fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("●"), p.ProjectPath)
			for _, e := range p.Errors {
				fmt.Fprintf(&b, "         %s\n", dimStyle.Render(e))
			}
		}
	}

	if result.DryRun && result.TotalModulesConverted > 0 {
		b.WriteString("\n")
		b.WriteString("  " + hintStyle.Render("Dry run: nothing was written. Re-run without --dry-run to apply."))
		b.WriteString("\n")
	}

	return b.String()
}

func renderProject(b *strings.Builder, p *domain.ProjectResult) {
	icon := passStyle.Render("●")
	if !p.Success {
		icon = failStyle.Render("●")
	} else if len(p.Warnings) > 0 {
		icon = warnStyle.Render("●")
	}

	line := fmt.Sprintf("  %s %s %s", icon, titleStyle.Render(padRight(p.ProjectName, 24)),
		dimStyle.Render(fmt.Sprintf("%d/%d files  %d modules", p.FilesConverted, p.FilesProcessed, p.ModulesConverted)))
	if p.Score != nil {
		percent := int(*p.Score*100 + 0.5)
		line += "  " + lipgloss.NewStyle().Foreground(scoreColor(percent)).Render(fmt.Sprintf("%d%%", percent))
	}
	if len(p.CommitHash) >= 7 {
		line += "  " + faintStyle.Render(p.CommitHash[:7])
	}
	b.WriteString(line + "\n")

	for _, w := range p.Warnings {
		fmt.Fprintf(b, "      %s %s\n", warnTagStyle.Render("warn "), dimStyle.Render(w))
	}
}

// RenderDiscovery lists discovered project roots.
func RenderDiscovery(root string, projects []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n\n",
		sectionHeaderStyle.Render("Ansible Projects"),
		dimStyle.Render(fmt.Sprintf("(%d under %s)", len(projects), root)))
	if len(projects) == 0 {
		b.WriteString("  " + skipStyle.Render("No projects found.") + "\n")
		return b.String()
	}
	for _, p := range projects {
		fmt.Fprintf(&b, "    %s %s\n", passStyle.Render("●"), p)
	}
	return b.String()
}

// RenderMappings lists the mapping table grouped by collection.
func RenderMappings(table mapping.Table) string {
	var b strings.Builder

	byCollection := map[string][]string{}
	for _, short := range table.Names() {
		fqcn, _ := table.Lookup(short)
		coll := domain.CollectionOf(fqcn)
		byCollection[coll] = append(byCollection[coll], short)
	}

	fmt.Fprintf(&b, "  %s %s\n",
		sectionHeaderStyle.Render("Module Mappings"),
		dimStyle.Render(fmt.Sprintf("(%d modules, %d collections)", table.Len(), len(byCollection))))

	for _, coll := range table.Collections() {
		fmt.Fprintf(&b, "\n  %s\n", titleStyle.Render(coll))
		for _, short := range byCollection[coll] {
			fqcn, _ := table.Lookup(short)
			fmt.Fprintf(&b, "    %s %s\n", padRight(short, 28), faintStyle.Render(fqcn))
		}
	}
	return b.String()
}
