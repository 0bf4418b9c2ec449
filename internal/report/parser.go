package report

import (
	"strings"
	"unicode"
)

const (
	fence           = "```"
	defaultLanguage = "text"
)

// parserState is the block-level state of a Builder.
type parserState int

const (
	stateNormal parserState = iota
	stateInCodeBlock
)

func (s parserState) String() string {
	switch s {
	case stateNormal:
		return "normal"
	case stateInCodeBlock:
		return "in_code_block"
	default:
		return "unknown"
	}
}

// lineRule is a guarded transition out of stateNormal. The first rule whose
// guard accepts a line builds the block for that line.
type lineRule struct {
	name  string
	guard func(line string) bool
	build func(line string) Block
}

// normalRules is evaluated top to bottom; order is significant.
var normalRules = []lineRule{
	{name: "heading1", guard: hasPrefix("# "), build: heading(1, "# ")},
	{name: "heading2", guard: hasPrefix("## "), build: heading(2, "## ")},
	{name: "heading3", guard: hasPrefix("### "), build: heading(3, "### ")},
	{
		name:  "blockquote",
		guard: hasPrefix("> "),
		build: func(line string) Block { return Blockquote{Spans: ParseInline(line[2:])} },
	},
	{
		name:  "list_item",
		guard: isListItem,
		build: func(line string) Block {
			return ListItem{Spans: ParseInline(strings.TrimLeftFunc(line, unicode.IsSpace)[2:])}
		},
	},
	{
		name:  "blank",
		guard: func(line string) bool { return strings.TrimSpace(line) == "" },
		build: func(string) Block { return BlankSpacer{} },
	},
	{
		name:  "paragraph",
		guard: func(string) bool { return true },
		build: func(line string) Block { return Paragraph{Spans: ParseInline(line)} },
	},
}

// ruleFor returns the name of the normal-state rule that accepts line.
func ruleFor(line string) string {
	for _, r := range normalRules {
		if r.guard(line) {
			return r.name
		}
	}
	return ""
}

func hasPrefix(p string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, p) }
}

func heading(level int, marker string) func(string) Block {
	return func(line string) Block {
		return Heading{Level: level, Spans: ParseInline(line[len(marker):])}
	}
}

func isListItem(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "* ") || strings.HasPrefix(t, "- ")
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}

// Builder is a restartable, line-oriented document parser.
//
// Feed lines with WriteLine, collect the result with Document and call Reset
// to reuse the Builder for another input. A Builder is not safe for
// concurrent use; ParseDocument allocates one per call.
type Builder struct {
	state  parserState
	lang   string
	lines  []string
	blocks []Block
}

// NewBuilder returns a Builder in the normal state.
func NewBuilder() *Builder {
	return &Builder{}
}

// WriteLine consumes one line of input. The line must not contain "\n".
func (b *Builder) WriteLine(line string) {
	if isFence(line) {
		b.toggleFence(line)
		return
	}

	if b.state == stateInCodeBlock {
		b.lines = append(b.lines, line)
		return
	}

	for _, r := range normalRules {
		if r.guard(line) {
			b.blocks = append(b.blocks, r.build(line))
			return
		}
	}
}

func (b *Builder) toggleFence(line string) {
	switch b.state {
	case stateNormal:
		lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fence))
		if lang == "" {
			lang = defaultLanguage
		}
		b.state = stateInCodeBlock
		b.lang = lang
		b.lines = nil
	case stateInCodeBlock:
		text := strings.Join(b.lines, "\n")
		b.blocks = append(b.blocks, CodeBlock{
			Language: b.lang,
			Lines:    b.lines,
			Tokens:   HighlightCode(text),
			Closed:   true,
		})
		b.state = stateNormal
		b.lang = ""
		b.lines = nil
	}
}

// Document returns the blocks consumed so far. A fence still open at this
// point is closed implicitly and left unhighlighted; the Builder itself is
// not modified, so more lines may follow.
func (b *Builder) Document() Document {
	blocks := make([]Block, len(b.blocks), len(b.blocks)+1)
	copy(blocks, b.blocks)
	if b.state == stateInCodeBlock {
		lines := make([]string, len(b.lines))
		copy(lines, b.lines)
		blocks = append(blocks, CodeBlock{
			Language: b.lang,
			Lines:    lines,
			Tokens:   plainTokens(strings.Join(lines, "\n")),
			Closed:   false,
		})
	}
	return Document{Blocks: blocks}
}

// ParseDocument converts report markdown into a Document. It accepts any
// string and never fails: an unterminated fence at the end of the input is
// closed implicitly with the remaining lines.
func ParseDocument(text string) Document {
	b := NewBuilder()
	for _, line := range strings.Split(text, "\n") {
		b.WriteLine(line)
	}
	return b.Document()
}
