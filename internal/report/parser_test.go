package report

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func text(s string) []Span { return []Span{{Kind: SpanText, Text: s}} }

func TestParseDocumentBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Block
	}{
		{name: "empty input", input: "", want: []Block{BlankSpacer{}}},
		{name: "heading 1", input: "# Title", want: []Block{Heading{Level: 1, Spans: text("Title")}}},
		{name: "heading 2", input: "## Sub", want: []Block{Heading{Level: 2, Spans: text("Sub")}}},
		{name: "heading 3 is not read as heading 1", input: "### A", want: []Block{Heading{Level: 3, Spans: text("A")}}},
		{name: "heading 4 is a paragraph", input: "#### deep", want: []Block{Paragraph{Spans: text("#### deep")}}},
		{name: "hash without space", input: "#tag", want: []Block{Paragraph{Spans: text("#tag")}}},
		{name: "indented heading is a paragraph", input: " # x", want: []Block{Paragraph{Spans: text(" # x")}}},
		{name: "blockquote", input: "> quoted **bit**", want: []Block{Blockquote{Spans: []Span{{SpanText, "quoted "}, {SpanBold, "bit"}}}}},
		{name: "star list item", input: "* item", want: []Block{ListItem{Spans: text("item")}}},
		{name: "dash list item", input: "- item", want: []Block{ListItem{Spans: text("item")}}},
		{name: "indented list item", input: "   - nested", want: []Block{ListItem{Spans: text("nested")}}},
		{name: "list marker keeps extra spaces", input: "*   **HFT:** fast", want: []Block{ListItem{Spans: []Span{{SpanText, "  "}, {SpanBold, "HFT:"}, {SpanText, " fast"}}}}},
		{name: "whitespace only", input: " \t ", want: []Block{BlankSpacer{}}},
		{name: "paragraph", input: "Some `code` here", want: []Block{Paragraph{Spans: []Span{{SpanText, "Some "}, {SpanCode, "code"}, {SpanText, " here"}}}}},
		{name: "trailing newline yields spacer", input: "text\n", want: []Block{Paragraph{Spans: text("text")}, BlankSpacer{}}},
		{
			name:  "closed fence is highlighted",
			input: "```js\nconst a = 1\n```",
			want: []Block{CodeBlock{
				Language: "js",
				Lines:    []string{"const a = 1"},
				Tokens:   []Token{{TokenKeyword, "const"}, {TokenPlain, " a = "}, {TokenNumber, "1"}},
				Closed:   true,
			}},
		},
		{
			name:  "fence without language defaults to text",
			input: "```\nplain\n```",
			want:  []Block{CodeBlock{Language: "text", Lines: []string{"plain"}, Tokens: []Token{{TokenPlain, "plain"}}, Closed: true}},
		},
		{
			name:  "indented fence with padded language",
			input: "  ```  python  \nx\n  ```",
			want:  []Block{CodeBlock{Language: "python", Lines: []string{"x"}, Tokens: []Token{{TokenPlain, "x"}}, Closed: true}},
		},
		{
			name:  "unterminated fence closes implicitly without highlighting",
			input: "```py\nx=1",
			want:  []Block{CodeBlock{Language: "py", Lines: []string{"x=1"}, Tokens: []Token{{TokenPlain, "x=1"}}, Closed: false}},
		},
		{
			name:  "unterminated keyword line stays plain",
			input: "```py\nreturn 1",
			want:  []Block{CodeBlock{Language: "py", Lines: []string{"return 1"}, Tokens: []Token{{TokenPlain, "return 1"}}, Closed: false}},
		},
		{
			name:  "empty fence",
			input: "```\n```",
			want:  []Block{CodeBlock{Language: "text", Lines: nil, Tokens: nil, Closed: true}},
		},
		{
			name:  "opening fence at end of input",
			input: "```go",
			want:  []Block{CodeBlock{Language: "go", Lines: []string{}, Tokens: nil, Closed: false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseDocument(tt.input).Blocks)
		})
	}
}

func TestParseDocumentFenceSuspendsBlockRules(t *testing.T) {
	doc := ParseDocument("```md\n# not heading\n- not list\n> not quote\n\n```\nafter")

	require.Equal(t, 2, doc.Len())
	code, ok := doc.Blocks[0].(CodeBlock)
	require.True(t, ok)
	require.Equal(t, []string{"# not heading", "- not list", "> not quote", ""}, code.Lines)
	require.True(t, code.Closed)
	require.Equal(t, code.Text(), joinTokens(code.Tokens))
	require.Equal(t, Paragraph{Spans: text("after")}, doc.Blocks[1])
}

func TestParseDocumentFenceLinesAreAbsorbed(t *testing.T) {
	doc := ParseDocument("a\n```\nb\n```\nc")
	require.Equal(t, 3, doc.Len())
	require.Equal(t, []BlockKind{KindParagraph, KindCodeBlock, KindParagraph}, kinds(doc))
}

func TestParseDocumentSampleReport(t *testing.T) {
	doc := ParseDocument(sampleReport)

	counts := doc.CountByKind()
	require.Equal(t, 6, counts[KindHeading])
	require.Equal(t, 1, counts[KindBlockquote])
	require.Equal(t, 8, counts[KindListItem])
	require.Equal(t, 1, counts[KindCodeBlock])

	for _, b := range doc.Blocks {
		if h, ok := b.(Heading); ok && h.Level == 3 && strings.HasPrefix(PlainText(h.Spans), "1.") {
			require.Equal(t, "1. Research Summary", PlainText(h.Spans))
		}
	}
}

func TestParseDocumentNeverPanics(t *testing.T) {
	inputs := []string{
		"```", "```\n```\n```", "\n\n\n", "> ", "- ", "* ", "#", "##", "### ",
		"**", "`", "\x00\xff", "```\xff\n\xfe", "\r\n\r\n", strings.Repeat("`", 10),
		"-", "*", ">", "# \n## \n### ",
	}
	for _, in := range inputs {
		require.NotPanics(t, func() { _ = ParseDocument(in) }, "input %q", in)
	}
}

func TestParseDocumentLogicalLineCount(t *testing.T) {
	in := "# h\ntext\n```\n1\n2\n```\n- a\n\n> q"
	// 9 input lines, 2 fence lines and 2 code lines fold into one block.
	require.Equal(t, 6, ParseDocument(in).Len())
}

func TestBuilderSnapshotsOpenFence(t *testing.T) {
	b := NewBuilder()
	b.WriteLine("# One")
	b.WriteLine("```go")
	b.WriteLine("x := 1")
	require.Equal(t, stateInCodeBlock, b.state)

	snapshot := b.Document()
	require.Equal(t, 2, snapshot.Len())
	require.False(t, snapshot.Blocks[1].(CodeBlock).Closed)

	b.WriteLine("```")
	require.Equal(t, stateNormal, b.state)
	full := b.Document()
	require.Equal(t, 2, full.Len())
	require.True(t, full.Blocks[1].(CodeBlock).Closed)
	require.False(t, snapshot.Blocks[1].(CodeBlock).Closed, "snapshot must not change")

	b.WriteLine("- again")
	require.Equal(t, []Block{Heading{Level: 1, Spans: text("One")}, full.Blocks[1], ListItem{Spans: text("again")}}, b.Document().Blocks)
}

func TestRuleFor(t *testing.T) {
	cases := map[string]string{
		"# a":     "heading1",
		"## a":    "heading2",
		"### a":   "heading3",
		"> a":     "blockquote",
		" - a":    "list_item",
		"* a":     "list_item",
		"":        "blank",
		"\t":      "blank",
		"-a":      "paragraph",
		"#### a":  "paragraph",
		">quote":  "paragraph",
		"regular": "paragraph",
	}
	for line, want := range cases {
		require.Equal(t, want, ruleFor(line), "line %q", line)
	}
	require.Equal(t, "in_code_block", stateInCodeBlock.String())
}

func TestParseDocumentConcurrentCallers(t *testing.T) {
	want := ParseDocument(sampleReport)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if got := ParseDocument(sampleReport); got.Len() != want.Len() {
					t.Errorf("got %d blocks, want %d", got.Len(), want.Len())
				}
			}
		}()
	}
	wg.Wait()
}

func kinds(doc Document) []BlockKind {
	out := make([]BlockKind, 0, doc.Len())
	for _, b := range doc.Blocks {
		out = append(out, b.Kind())
	}
	return out
}

const sampleReport = `
# Executive Analysis Report
## Target Research: paper.pdf

### 1. Research Summary
The analyzed paper presents a novel approach to distributed consensus mechanisms using **probabilistic validation**.

> "The protocol achieves consensus in O(log n) rounds with high probability."

### 2. Market Opportunities
*   **High-Frequency Trading (HFT) Infrastructure:** The reduced latency is critical.
*   **IoT Mesh Networks:** Lightweight validation is suitable for low-power edge devices.
*   **Private Blockchain Solutions:** Enterprise supply chains can leverage this.

### 3. Proposed Product Idea: "RapidChain SDK"
A developer-focused toolkit.
*   **Value Prop:** "Bank-grade security at consumer-app speeds."
*   **Core Feature:** Plug-and-play consensus module.

### 4. Technical Architecture

` + "```rust\n" + `fn main() {
    let x = 1;
}
` + "```" + `

*   **Ingestion Layer:** Rust-based API gateway.
*   **Consensus Engine:** Probabilistic Proof.
*   **Storage:** RocksDB and IPFS.
`
