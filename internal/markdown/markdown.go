// Package markdown renders reports through a CommonMark engine. It backs the
// standalone export and the outline shown next to a report; the line-based
// renderer used by the UI lives in the report package.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Options controls the CommonMark engine.
type Options struct {
	// GFM enables GitHub Flavored Markdown (tables, strikethrough, autolinks,
	// task lists).
	GFM bool
}

// DefaultOptions enables GFM.
func DefaultOptions() Options { return Options{GFM: true} }

func newEngine(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender
	if opts.GFM {
		exts = append(exts, extension.GFM)
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte, opts Options) gmast.Node {
	return newEngine(opts).Parser().Parse(text.NewReader(body))
}

// ExportHTML renders body to an HTML fragment. Raw HTML in the input is
// omitted.
func ExportHTML(body []byte, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := newEngine(opts).Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Heading is one entry of a report outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// Outline lists the headings of body in document order.
func Outline(body []byte, opts Options) []Heading {
	root := ParseBody(body, opts)
	out := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		entry := Heading{Level: h.Level, Text: nodeText(h, body)}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				entry.ID = string(b)
			}
		}
		out = append(out, entry)
		return gmast.WalkSkipChildren, nil
	})
	return out
}

// nodeText concatenates the literal text below n.
func nodeText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *gmast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(v.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
