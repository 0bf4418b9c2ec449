package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/anorak1709/research-usecase-generator/internal/report"
)

// TerminalOptions controls terminal output.
type TerminalOptions struct {
	// Color enables ANSI styling.
	Color bool
}

type painter func(a ...any) string

type palette struct {
	h1, h2, h3     painter
	bold, code     painter
	quote, gutter  painter
	bullet, header painter
	tokens         map[report.TokenKind]painter
}

func newPalette(enabled bool) palette {
	if !enabled {
		plain := painter(fmt.Sprint)
		return palette{
			h1: plain, h2: plain, h3: plain, bold: plain, code: plain,
			quote: plain, gutter: plain, bullet: plain, header: plain,
			tokens: map[report.TokenKind]painter{},
		}
	}
	return palette{
		h1:     color.New(color.FgCyan, color.OpBold, color.OpUnderscore).Sprint,
		h2:     color.New(color.FgCyan, color.OpBold).Sprint,
		h3:     color.New(color.FgWhite, color.OpBold).Sprint,
		bold:   color.Bold.Sprint,
		code:   color.Magenta.Sprint,
		quote:  color.New(color.FgDarkGray, color.OpItalic).Sprint,
		gutter: color.Gray.Sprint,
		bullet: color.Green.Sprint,
		header: color.New(color.FgBlack, color.BgDarkGray).Sprint,
		tokens: map[report.TokenKind]painter{
			report.TokenComment: color.Gray.Sprint,
			report.TokenString:  color.Green.Sprint,
			report.TokenNumber:  color.Yellow.Sprint,
			report.TokenKeyword: color.Magenta.Sprint,
		},
	}
}

// Terminal writes doc as styled text, one line per block.
func Terminal(w io.Writer, doc report.Document, opts TerminalOptions) error {
	bw := bufio.NewWriter(w)
	p := newPalette(opts.Color)
	for _, b := range doc.Blocks {
		for _, line := range terminalLines(b, p) {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// TerminalSummary writes the executive summary panel.
func TerminalSummary(w io.Writer, summary string, opts TerminalOptions) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	b.WriteString(p.h3("EXECUTIVE SUMMARY") + "\n")
	for _, line := range SummaryLines(summary) {
		b.WriteString(p.gutter("┃ ") + line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func terminalLines(b report.Block, p palette) []string {
	switch v := b.(type) {
	case report.Heading:
		text := spansText(v.Spans, p)
		switch v.Level {
		case 1:
			return []string{p.h1(text), ""}
		case 2:
			return []string{p.h2(text)}
		default:
			return []string{p.h3(text)}
		}
	case report.Blockquote:
		return []string{p.gutter("│ ") + p.quote(spansText(v.Spans, p))}
	case report.ListItem:
		return []string{"  " + p.bullet("•") + " " + spansText(v.Spans, p)}
	case report.CodeBlock:
		return codeLines(v, p)
	case report.BlankSpacer:
		return []string{""}
	case report.Paragraph:
		return []string{spansText(v.Spans, p)}
	default:
		panic(fmt.Sprintf("render: unknown block %T", b))
	}
}

func spansText(spans []report.Span, p palette) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case report.SpanBold:
			b.WriteString(p.bold(s.Text))
		case report.SpanCode:
			b.WriteString(p.code(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// codeLines draws a fenced block as a panel. Tokens may span lines, so each
// token is painted per line segment to keep the gutter unstyled.
func codeLines(c report.CodeBlock, p palette) []string {
	out := []string{p.gutter("┌─ ") + p.header(" "+c.Language+" ")}
	var cur strings.Builder
	flush := func() {
		out = append(out, p.gutter("│ ")+cur.String())
		cur.Reset()
	}
	for _, tok := range c.Tokens {
		paint, ok := p.tokens[tok.Kind]
		for i, seg := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				flush()
			}
			if seg == "" {
				continue
			}
			if ok {
				seg = paint(seg)
			}
			cur.WriteString(seg)
		}
	}
	if len(c.Lines) > 0 {
		flush()
	}
	out = append(out, p.gutter("└─"))
	return out
}
