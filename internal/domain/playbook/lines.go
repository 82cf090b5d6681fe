package playbook

import (
	"regexp"
	"strings"
)

var (
	// boundaryRe matches lines that open a new sequence item: "- name:",
	// a bare "-", or "- <key>:".
	boundaryRe = regexp.MustCompile(`^(\s*)-(\s*$|\s+[^\s#])`)
	docMarkRe  = regexp.MustCompile(`^(---|\.\.\.)(\s|$)`)
)

// Region is a half-open range of 0-based line indexes covering one task.
type Region struct {
	Start int
	End   int
}

// SplitLines splits text into lines, keeping line terminators attached so
// that joining the result reproduces the input byte for byte.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// TaskRegion returns the lines belonging to the task whose first key is on
// line keyLine (1-based). The region opens at the task's "-" item line and
// closes at the next item boundary at the same or shallower indentation, at
// a dedent below keyColumn, or at a document marker.
func TaskRegion(lines []string, keyLine, keyColumn int) Region {
	start := keyLine - 1
	if start < 0 || start >= len(lines) {
		return Region{Start: len(lines), End: len(lines)}
	}

	dashIndent := -1
	if m := boundaryRe.FindStringSubmatch(lines[start]); m != nil {
		dashIndent = len(m[1])
	} else {
		// "-" on its own line followed by the first key.
		for j := start - 1; j >= 0; j-- {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			if trimmed == "-" {
				dashIndent = indentOf(lines[j])
				start = j
			}
			break
		}
	}

	end := len(lines)
	for j := keyLine; j < len(lines); j++ {
		line := lines[j]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if docMarkRe.MatchString(line) {
			end = j
			break
		}
		if m := boundaryRe.FindStringSubmatch(line); m != nil && dashIndent >= 0 && len(m[1]) <= dashIndent {
			end = j
			break
		}
		if keyColumn > 0 && indentOf(line) < keyColumn-1 {
			end = j
			break
		}
	}
	return Region{Start: start, End: end}
}

// Boundaries returns the 0-based indexes of every task boundary line.
func Boundaries(lines []string) []int {
	var out []int
	for i, line := range lines {
		if boundaryRe.MatchString(line) {
			out = append(out, i)
		}
	}
	return out
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
