package render

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/anorak1709/research-usecase-generator/internal/report"
)

const pageStyle = `
body{background:#0a0a0a;color:#ededed;font-family:Inter,system-ui,sans-serif;max-width:900px;margin:0 auto;padding:3rem 1.5rem;line-height:1.6}
h1,h2,h3{color:#fff}
blockquote{border-left:3px solid #333;margin:1rem 0;padding-left:1rem;color:#a1a1a1;font-style:italic}
.list-item{display:flex;gap:.5rem;margin:0 0 .5rem 1rem}
.bullet{color:#10b981}
.spacer{height:.5rem}
.inline-code{background:#1a1a1a;border-radius:4px;padding:.1rem .3rem;font-family:monospace}
.code-block{background:#111;border:1px solid #333;border-radius:8px;margin:1rem 0;overflow:auto}
.code-block-header{border-bottom:1px solid #333;color:#a1a1a1;font-size:.75rem;padding:.5rem 1rem;text-transform:uppercase}
.code-block pre{margin:0;padding:1rem}
.syntax-comment{color:#6a9955}.syntax-string{color:#ce9178}.syntax-number{color:#b5cea8}.syntax-keyword{color:#569cd6}
.executive-summary{border:1px solid #333;border-left:4px solid #fff;border-radius:12px;padding:2rem;margin-bottom:2rem}
.executive-summary-title{font-size:.8rem;letter-spacing:.05em;text-transform:uppercase;color:#a1a1a1}
.executive-summary p{margin:0 0 .5rem}.executive-summary p.blank{margin:0}
`

// Page writes a standalone HTML document with the summary panel followed by
// the rendered report.
func Page(w io.Writer, title, summary string, doc report.Document) error {
	return page(w, title, summary, DocumentNode(doc))
}

// PageFragment is Page for an HTML fragment rendered elsewhere, such as the
// CommonMark export. The fragment is parsed and re-serialized.
func PageFragment(w io.Writer, title, summary string, fragment []byte) error {
	content := element(atom.Div, "markdown-content")
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), content)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		content.AppendChild(n)
	}
	return page(w, title, summary, content)
}

func page(w io.Writer, title, summary string, content *html.Node) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html, "")
	htmlEl.Attr = append(htmlEl.Attr, html.Attribute{Key: "lang", Val: "en"})
	head := element(atom.Head, "")
	meta := element(atom.Meta, "")
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	t := element(atom.Title, "")
	t.AppendChild(textNode(title))
	head.AppendChild(t)
	style := element(atom.Style, "")
	style.AppendChild(&html.Node{Type: html.RawNode, Data: pageStyle})
	head.AppendChild(style)
	htmlEl.AppendChild(head)

	body := element(atom.Body, "")
	body.AppendChild(summaryNode(summary))
	body.AppendChild(content)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)

	return html.Render(w, root)
}
