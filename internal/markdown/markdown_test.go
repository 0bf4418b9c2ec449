package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const report = `# Executive Analysis Report
## Target Research: paper.pdf

### 1. Research Summary
Uses **probabilistic validation** and ` + "`O(log n)`" + ` rounds.

| Market | Fit |
|---|---|
| HFT | high |

` + "```rust\nfn main() {}\n```\n"

func TestExportHTML(t *testing.T) {
	out, err := ExportHTML([]byte(report), DefaultOptions())
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, `<h1 id="executive-analysis-report">Executive Analysis Report</h1>`)
	require.Contains(t, html, "<strong>probabilistic validation</strong>")
	require.Contains(t, html, "<code>O(log n)</code>")
	require.Contains(t, html, "<table>")
	require.Contains(t, html, `<code class="language-rust">`)
}

func TestExportHTMLWithoutGFMHasNoTables(t *testing.T) {
	out, err := ExportHTML([]byte(report), Options{})
	require.NoError(t, err)
	require.NotContains(t, string(out), "<table>")
}

func TestExportHTMLOmitsRawHTML(t *testing.T) {
	out, err := ExportHTML([]byte("<script>alert(1)</script>\n"), DefaultOptions())
	require.NoError(t, err)
	require.NotContains(t, string(out), "<script>")
}

func TestOutline(t *testing.T) {
	got := Outline([]byte(report), DefaultOptions())
	require.Len(t, got, 3)
	require.Equal(t, Heading{Level: 1, Text: "Executive Analysis Report", ID: "executive-analysis-report"}, got[0])
	require.Equal(t, 2, got[1].Level)
	require.Equal(t, "Target Research: paper.pdf", got[1].Text)
	require.Equal(t, "1. Research Summary", got[2].Text)
	for _, h := range got {
		require.NotEmpty(t, h.ID)
	}
}

func TestOutlineIgnoresFencedHashes(t *testing.T) {
	got := Outline([]byte("```\n# not a heading\n```\n#### Deep **bold**"), DefaultOptions())
	require.Len(t, got, 1)
	require.Equal(t, 4, got[0].Level)
	require.Equal(t, "Deep bold", got[0].Text)
}

func TestOutlineEmpty(t *testing.T) {
	got := Outline([]byte(strings.Repeat("\n", 3)), Options{})
	require.NotNil(t, got)
	require.Empty(t, got)
}
