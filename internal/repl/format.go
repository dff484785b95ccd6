package repl

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	bulletRe   = regexp.MustCompile(`^[•\-*][\s\p{Zs}]`)
	numberedRe = regexp.MustCompile(`^\d+\.`)
)

// FormatResponse renders a provider reply for the terminal. Blank lines are
// emptied, code fences are dimmed, list items are indented and drawn in the
// accent colour, and a line holding a single inline code span is drawn in
// the accent colour. The block starts with one blank line. Stripping the
// colour codes gives back the reply text with list items indented.
func FormatResponse(r *lipgloss.Renderer, text string) string {
	return formatResponse(newStyles(r), text)
}

func formatResponse(st styles, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = formatLine(st, line)
	}
	return "\n" + strings.Join(lines, "\n")
}

func formatLine(st styles, line string) string {
	switch {
	case strings.TrimSpace(line) == "":
		return ""
	case strings.HasPrefix(line, "```"):
		return st.dim.Render(line)
	case bulletRe.MatchString(line), numberedRe.MatchString(line):
		return "  " + st.accent.Render(line)
	case strings.HasPrefix(line, "`") && strings.HasSuffix(line, "`"):
		return st.accent.Render(line)
	default:
		return line
	}
}
