package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/anorak1709/research-usecase-generator/internal/report"
)

// Text writes doc with all inline markup and styling stripped. Headings are
// underlined, list items get a dash, quotes a "> " prefix, and code blocks
// are indented four spaces. The output is meant for pasting into plain-text
// channels such as email or tickets.
func Text(w io.Writer, doc report.Document) error {
	bw := bufio.NewWriter(w)
	for _, b := range doc.Blocks {
		for _, line := range textLines(b) {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func textLines(b report.Block) []string {
	text := report.PlainText(report.SpansOf(b))
	switch v := b.(type) {
	case report.Heading:
		rule := "-"
		if v.Level == 1 {
			rule = "="
		}
		return []string{text, strings.Repeat(rule, len([]rune(text)))}
	case report.Blockquote:
		return []string{"> " + text}
	case report.ListItem:
		return []string{"- " + text}
	case report.CodeBlock:
		if len(v.Lines) == 0 {
			return nil
		}
		lines := strings.Split(v.Text(), "\n")
		for i, l := range lines {
			lines[i] = "    " + l
		}
		return lines
	case report.BlankSpacer:
		return []string{""}
	default:
		return []string{text}
	}
}
