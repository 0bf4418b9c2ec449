package report

import "strings"

// BlockKind identifies the variant of a Block.
type BlockKind string

const (
	KindHeading     BlockKind = "heading"
	KindBlockquote  BlockKind = "blockquote"
	KindListItem    BlockKind = "list_item"
	KindCodeBlock   BlockKind = "code_block"
	KindBlankSpacer BlockKind = "blank"
	KindParagraph   BlockKind = "paragraph"
)

// Block is one structural unit of a rendered report.
//
// The variant set is closed: Heading, Blockquote, ListItem, CodeBlock,
// BlankSpacer and Paragraph are the only implementations. Consumers switch on
// Kind() (or on the concrete type) and must handle every variant.
type Block interface {
	Kind() BlockKind
	block()
}

// Document is the ordered block sequence produced by ParseDocument.
type Document struct {
	Blocks []Block
}

// Len returns the number of blocks.
func (d Document) Len() int { return len(d.Blocks) }

// Heading is a level 1-3 heading.
type Heading struct {
	Level int
	Spans []Span
}

// Blockquote is a single quoted line.
type Blockquote struct {
	Spans []Span
}

// ListItem is a single bulleted line.
type ListItem struct {
	Spans []Span
}

// CodeBlock is a fenced code region.
//
// Closed is false when the input ended before the closing fence; such a block
// is not highlighted and carries its text as a single plain token.
type CodeBlock struct {
	Language string
	Lines    []string
	Tokens   []Token
	Closed   bool
}

// Text joins the raw lines of the block.
func (c CodeBlock) Text() string { return strings.Join(c.Lines, "\n") }

// BlankSpacer is an empty or whitespace-only line.
type BlankSpacer struct{}

// Paragraph is any other line of text.
type Paragraph struct {
	Spans []Span
}

func (Heading) Kind() BlockKind     { return KindHeading }
func (Blockquote) Kind() BlockKind  { return KindBlockquote }
func (ListItem) Kind() BlockKind    { return KindListItem }
func (CodeBlock) Kind() BlockKind   { return KindCodeBlock }
func (BlankSpacer) Kind() BlockKind { return KindBlankSpacer }
func (Paragraph) Kind() BlockKind   { return KindParagraph }

func (Heading) block()     {}
func (Blockquote) block()  {}
func (ListItem) block()    {}
func (CodeBlock) block()   {}
func (BlankSpacer) block() {}
func (Paragraph) block()   {}

// SpanKind identifies the style of an inline span.
type SpanKind string

const (
	SpanText SpanKind = "text"
	SpanBold SpanKind = "bold"
	SpanCode SpanKind = "code"
)

// Span is a run of inline text with a single style. Spans never nest.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// TokenKind classifies a substring of a code block.
type TokenKind string

const (
	TokenComment TokenKind = "comment"
	TokenString  TokenKind = "string"
	TokenNumber  TokenKind = "number"
	TokenKeyword TokenKind = "keyword"
	TokenPlain   TokenKind = "plain"
)

// Token is a classified substring of code. A token slice partitions its
// source: concatenating the Text fields reproduces the input exactly.
type Token struct {
	Kind TokenKind `json:"kind"`
	Text string    `json:"text"`
}

// SpansOf returns the inline spans carried by b, or nil for variants
// without inline text.
func SpansOf(b Block) []Span {
	switch v := b.(type) {
	case Heading:
		return v.Spans
	case Blockquote:
		return v.Spans
	case ListItem:
		return v.Spans
	case Paragraph:
		return v.Spans
	case CodeBlock, BlankSpacer:
		return nil
	default:
		panic("report: unknown block variant")
	}
}

// PlainText concatenates span texts without delimiters.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// CountByKind tallies the blocks of d per variant.
func (d Document) CountByKind() map[BlockKind]int {
	counts := make(map[BlockKind]int, 6)
	for _, b := range d.Blocks {
		counts[b.Kind()]++
	}
	return counts
}
