package report

import "regexp"

// inlinePattern alternates a bold run and a code run. Go's regexp uses
// leftmost-first semantics, so whichever delimiter opens first wins and the
// bold alternative wins a tie at the same offset.
var inlinePattern = regexp.MustCompile("(\\*\\*.*?\\*\\*)|(`.*?`)")

// ParseInline splits one line into plain, bold and inline-code spans.
//
// Delimiters are stripped from matched runs. Unbalanced delimiters are kept
// verbatim inside plain text.
func ParseInline(line string) []Span {
	matches := inlinePattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		if line == "" {
			return nil
		}
		return []Span{{Kind: SpanText, Text: line}}
	}

	spans := make([]Span, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Kind: SpanText, Text: line[last:m[0]]})
		}
		if m[2] >= 0 {
			spans = append(spans, Span{Kind: SpanBold, Text: line[m[2]+2 : m[3]-2]})
		} else {
			spans = append(spans, Span{Kind: SpanCode, Text: line[m[4]+1 : m[5]-1]})
		}
		last = m[1]
	}
	if last < len(line) {
		spans = append(spans, Span{Kind: SpanText, Text: line[last:]})
	}
	return spans
}
