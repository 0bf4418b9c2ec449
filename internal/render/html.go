package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/anorak1709/research-usecase-generator/internal/report"
)

// HTML writes doc as a div.markdown-content fragment.
func HTML(w io.Writer, doc report.Document) error {
	return html.Render(w, DocumentNode(doc))
}

// HTMLString is HTML returning a string.
func HTMLString(doc report.Document) string {
	var b strings.Builder
	_ = HTML(&b, doc)
	return b.String()
}

// DocumentNode builds the node tree for doc.
func DocumentNode(doc report.Document) *html.Node {
	root := element(atom.Div, "markdown-content")
	for _, b := range doc.Blocks {
		root.AppendChild(blockNode(b))
	}
	return root
}

func blockNode(b report.Block) *html.Node {
	switch v := b.(type) {
	case report.Heading:
		n := element(headingAtom(v.Level), "")
		appendSpans(n, v.Spans)
		return n
	case report.Blockquote:
		n := element(atom.Blockquote, "")
		appendSpans(n, v.Spans)
		return n
	case report.ListItem:
		n := element(atom.Div, "list-item")
		bullet := element(atom.Span, "bullet")
		bullet.AppendChild(textNode("•"))
		body := element(atom.Span, "")
		appendSpans(body, v.Spans)
		n.AppendChild(bullet)
		n.AppendChild(body)
		return n
	case report.CodeBlock:
		return codeBlockNode(v)
	case report.BlankSpacer:
		return element(atom.Div, "spacer")
	case report.Paragraph:
		n := element(atom.P, "")
		appendSpans(n, v.Spans)
		return n
	default:
		panic(fmt.Sprintf("render: unknown block %T", b))
	}
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	default:
		return atom.H3
	}
}

// codeBlockNode renders a fence. Blocks cut off by the end of input carry
// no language header.
func codeBlockNode(c report.CodeBlock) *html.Node {
	n := element(atom.Div, "code-block")
	if c.Closed {
		header := element(atom.Div, "code-block-header")
		header.AppendChild(textNode(c.Language))
		n.AppendChild(header)
	}
	pre := element(atom.Pre, "")
	code := element(atom.Code, "")
	for _, tok := range c.Tokens {
		if tok.Kind == report.TokenPlain {
			code.AppendChild(textNode(tok.Text))
			continue
		}
		span := element(atom.Span, "syntax-"+string(tok.Kind))
		span.AppendChild(textNode(tok.Text))
		code.AppendChild(span)
	}
	pre.AppendChild(code)
	n.AppendChild(pre)
	return n
}

func appendSpans(parent *html.Node, spans []report.Span) {
	for _, s := range spans {
		switch s.Kind {
		case report.SpanBold:
			n := element(atom.Strong, "")
			n.AppendChild(textNode(s.Text))
			parent.AppendChild(n)
		case report.SpanCode:
			n := element(atom.Code, "inline-code")
			n.AppendChild(textNode(s.Text))
			parent.AppendChild(n)
		default:
			parent.AppendChild(textNode(s.Text))
		}
	}
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
