package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/fqcnkraft/internal/domain"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lipgloss.Color("#A3E635"), // lime
		"C":  warning,
		"D":  lipgloss.Color("#FB923C"), // orange
		"F":  danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	fromStyle     = lipgloss.NewStyle().Foreground(danger)
	toStyle       = lipgloss.NewStyle().Foreground(success)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderValidation renders the compliance result of a single file or document.
func RenderValidation(result *domain.ValidationResult) string {
	var b strings.Builder

	renderScoreBox(&b, "FQCN Compliance", result.Percent(),
		fmt.Sprintf("%d / %d modules qualified", result.FQCNModules, result.TotalModules))
	if result.FilePath != "" {
		b.WriteString("  " + fileStyle.Render(shortenPath(result.FilePath)) + "\n\n")
	}
	renderIssues(&b, result.Issues)

	b.WriteString("\n")
	return b.String()
}

// RenderProjectValidation renders per-file compliance for a whole project.
func RenderProjectValidation(pv *domain.ProjectValidation) string {
	var b strings.Builder

	percent := int(pv.Score*100 + 0.5)
	renderScoreBox(&b, filepath.Base(pv.ProjectPath), percent,
		fmt.Sprintf("%d / %d modules qualified", pv.FQCNModules, pv.TotalModules))

	for _, f := range pv.Files {
		icon := passStyle.Render("●")
		if !f.Valid {
			icon = failStyle.Render("●")
		} else if f.WarningCount() > 0 {
			icon = warnStyle.Render("●")
		}
		bar := coloredBar(f.Percent(), 20)
		fmt.Fprintf(&b, "  %s %s %s %s\n", icon, padRight(shortenPath(f.FilePath), 40), bar,
			dimStyle.Render(fmt.Sprintf("%d/%d", f.FQCNModules, f.TotalModules)))
	}

	if len(pv.FailedFiles) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Not validated") + "\n")
		for _, name := range sortedKeys(pv.FailedFiles) {
			fmt.Fprintf(&b, "    %s %s\n", errorTagStyle.Render("error"), fileStyle.Render(name))
			fmt.Fprintf(&b, "         %s\n", dimStyle.Render(pv.FailedFiles[name]))
		}
	}

	var issues []domain.ValidationIssue
	for _, f := range pv.Files {
		for _, issue := range f.Issues {
			issue.Message = f.FilePath + ":" + fmt.Sprint(issue.Line) + "  " + issue.Message
			issues = append(issues, issue)
		}
	}
	b.WriteString("\n  " + separatorLine + "\n\n")
	renderIssues(&b, issues)

	b.WriteString("\n")
	return b.String()
}

// RenderConversion renders the substitutions of one conversion. With
// showDiff every change is listed as a before/after pair.
func RenderConversion(result *domain.ConversionResult, showDiff bool) string {
	var b strings.Builder

	name := "<content>"
	if result.FilePath != "" {
		name = shortenPath(result.FilePath)
	}
	status := passStyle.Render("up to date")
	switch {
	case result.ChangesMade > 0 && result.Written:
		status = passStyle.Render(fmt.Sprintf("%d modules converted", result.ChangesMade))
	case result.ChangesMade > 0:
		status = warnStyle.Render(fmt.Sprintf("%d modules to convert (not written)", result.ChangesMade))
	}
	fmt.Fprintf(&b, "  %s  %s\n", titleStyle.Render(name), status)

	if showDiff {
		for _, c := range result.Changes {
			fmt.Fprintf(&b, "    %s %s %s %s\n",
				dimStyle.Render(fmt.Sprintf("%4d", c.Line)),
				fromStyle.Render("- "+c.From),
				faintStyle.Render("→"),
				toStyle.Render("+ "+c.To))
		}
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "    %s %s\n", warnTagStyle.Render("warn "), dimStyle.Render(w))
	}
	if result.BackupPath != "" {
		fmt.Fprintf(&b, "    %s\n", skipStyle.Render("backup: "+result.BackupPath))
	}
	return b.String()
}

func renderScoreBox(b *strings.Builder, title string, percent int, detail string) {
	grade := domain.GradeFor(percent)
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%d%%", percent))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(grade)

	b.WriteString(boxStyle.Render(headerStyle.Render(title) + "\n" + dimStyle.Render(detail) + "\n\n" + scoreStyled + "  " + gradeStyled))
	b.WriteString("\n\n")
}

func renderIssues(b *strings.Builder, issues []domain.ValidationIssue) {
	if len(issues) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return
	}

	sorted := make([]domain.ValidationIssue, len(issues))
	copy(sorted, issues)
	sortBySeverity(sorted)

	errorCount, warnCount, infoCount := countSeverities(sorted)
	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Issues"))
	b.WriteString("  ")
	if errorCount > 0 {
		b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", errorCount)))
		b.WriteString("  ")
	}
	if warnCount > 0 {
		b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warnCount)))
		b.WriteString("  ")
	}
	if infoCount > 0 {
		b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d info", infoCount)))
	}
	b.WriteString("\n\n")

	for _, issue := range sorted {
		renderIssue(b, issue)
	}
}

func renderIssue(b *strings.Builder, issue domain.ValidationIssue) {
	tag := severityTag(issue.Severity)
	loc := ""
	if issue.Line > 0 {
		loc = fileStyle.Render(fmt.Sprintf("line %d", issue.Line)) + " "
	}
	fmt.Fprintf(b, "    %s %s%s\n", tag, loc, dimStyle.Render(issue.Message))
	if issue.Suggestion != "" {
		fmt.Fprintf(b, "         %s\n", faintStyle.Render("→ "+issue.Suggestion))
	}
}

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func countSeverities(issues []domain.ValidationIssue) (errors, warnings, infos int) {
	for _, i := range issues {
		switch i.Severity {
		case domain.SeverityError:
			errors++
		case domain.SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return
}

func sortBySeverity(issues []domain.ValidationIssue) {
	order := map[string]int{
		domain.SeverityError:   0,
		domain.SeverityWarning: 1,
		domain.SeverityInfo:    2,
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return order[issues[i].Severity] < order[issues[j].Severity]
	})
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lipgloss.Color("#A3E635") // lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

// shortenPath keeps role-relative paths readable.
func shortenPath(path string) string {
	slashed := filepath.ToSlash(path)
	if idx := strings.Index(slashed, "roles/"); idx >= 0 {
		return slashed[idx:]
	}
	parts := strings.Split(slashed, "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return slashed
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RenderHistory formats score history for terminal output.
func RenderHistory(entries []domain.ScoreEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No score history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Score History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		day := e.Timestamp
		if len(day) > 10 {
			day = day[:10]
		}

		percent := int(e.Score*100 + 0.5)
		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(percent)).
			Render(fmt.Sprintf("%3d%%", percent))

		line := fmt.Sprintf("  %s  %s  %s  %-2s  %s",
			dimStyle.Render(day),
			faintStyle.Render(hash),
			scoreStyled,
			e.Grade,
			dimStyle.Render(fmt.Sprintf("%d short", e.ShortModules)),
		)

		if i > 0 {
			diff := int(math.Round(e.Delta * 100))
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
		for _, path := range e.Regressed {
			b.WriteString("      " + failStyle.Render("regressed: ") + dimStyle.Render(path) + "\n")
		}
	}

	return b.String()
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
