package report

import (
	"regexp"
	"strings"
)

var (
	horizontalSpace = regexp.MustCompile(`[\t ]+`)
	blankLines      = regexp.MustCompile(`\n\s*\n+`)
)

const (
	maxSingleLineExcerpt = 200
	maxExcerptLines      = 10
)

// NormalizeStatement formats and limits the length of a statement for display.
// It collapses runs of spaces, drops blank lines and indentation, and truncates
// long statements.
func NormalizeStatement(statement string) string {
	statement = strings.TrimSpace(statement)
	statement = horizontalSpace.ReplaceAllString(statement, " ")
	statement = blankLines.ReplaceAllString(statement, "\n")

	// For single-line statements, keep them on one line
	if !strings.Contains(statement, "\n") {
		return truncateRunes(statement, maxSingleLineExcerpt)
	}

	lines := strings.Split(statement, "\n")
	formatted := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			formatted = append(formatted, line)
		}
	}
	if len(formatted) > maxExcerptLines {
		formatted = append(formatted[:maxExcerptLines], "...")
	}
	return strings.Join(formatted, "\n")
}

// singleLine joins a statement into one line, for table cells.
func singleLine(statement string, limit int) string {
	return truncateRunes(strings.Join(strings.Fields(statement), " "), limit)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
