package report

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultSummaryHeading is the heading that introduces the research
	// summary in generated reports.
	DefaultSummaryHeading = "### 1. Research Summary"

	// SummaryUnavailable is returned when no section and no substantial
	// line can be found.
	SummaryUnavailable = "Summary not available."

	// fallbackMinLength is the length a line must exceed to serve as a
	// fallback summary.
	fallbackMinLength = 50

	maxHeadingLevel = 6
)

// ExtractSummary extracts the research summary section of a report, the one
// under DefaultSummaryHeading.
func ExtractSummary(text string) string {
	return ExtractSection(text, DefaultSummaryHeading)
}

// ExtractSection returns the trimmed body of the section introduced by
// headingMarker. The body runs until the next heading of the same or a
// higher level (fewer '#') or the end of the text.
//
// When the section is missing or empty, the first line longer than 50
// characters that is not a heading is returned as-is. When there is no such
// line either, SummaryUnavailable is returned.
func ExtractSection(text, headingMarker string) string {
	if body, ok := sectionBody(text, headingMarker); ok {
		return body
	}
	if line, ok := firstSubstantialLine(text); ok {
		return line
	}
	return SummaryUnavailable
}

func sectionBody(text, headingMarker string) (string, bool) {
	marker := strings.TrimSpace(headingMarker)
	if marker == "" {
		return "", false
	}
	level := headingLevel(marker)
	if level == 0 {
		level = maxHeadingLevel
	}

	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	body := []string{strings.TrimPrefix(strings.TrimSpace(lines[start]), marker)}
	for _, line := range lines[start+1:] {
		if closesSection(line, level) {
			break
		}
		body = append(body, line)
	}

	out := strings.TrimSpace(strings.Join(body, "\n"))
	return out, out != ""
}

// headingLevel counts the leading '#' characters of s.
func headingLevel(s string) int {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	return n
}

// closesSection reports whether line opens a heading of level <= level.
func closesSection(line string, level int) bool {
	n := headingLevel(line)
	if n == 0 || n > level || n >= len(line) {
		return false
	}
	return line[n] == ' '
}

func firstSubstantialLine(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if utf8.RuneCountInString(line) > fallbackMinLength && !strings.HasPrefix(line, "#") {
			return line, true
		}
	}
	return "", false
}
