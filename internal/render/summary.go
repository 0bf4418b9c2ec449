package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SummaryLines splits an extracted summary into display lines, dropping a
// leading "> " quote marker from each.
func SummaryLines(summary string) []string {
	lines := strings.Split(summary, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, "> ")
	}
	return lines
}

// SummaryHTML writes the executive summary panel. Lines are emitted as
// plain text; blank lines become empty paragraphs with the "blank" class.
func SummaryHTML(w io.Writer, summary string) error {
	return html.Render(w, summaryNode(summary))
}

func summaryNode(summary string) *html.Node {
	panel := element(atom.Div, "executive-summary")
	title := element(atom.H3, "executive-summary-title")
	title.AppendChild(textNode("Executive Summary"))
	panel.AppendChild(title)

	body := element(atom.Div, "executive-summary-body")
	for _, line := range SummaryLines(summary) {
		class := ""
		if strings.TrimSpace(line) == "" {
			class = "blank"
		}
		p := element(atom.P, class)
		p.AppendChild(textNode(line))
		body.AppendChild(p)
	}
	panel.AppendChild(body)
	return panel
}
