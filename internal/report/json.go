package report

import (
	"encoding/json"
	"fmt"
)

// blockJSON is the wire form of a Block; Kind discriminates the variant.
type blockJSON struct {
	Kind     BlockKind `json:"kind"`
	Level    int       `json:"level,omitempty"`
	Spans    []Span    `json:"spans,omitempty"`
	Language string    `json:"language,omitempty"`
	Lines    []string  `json:"lines,omitempty"`
	Tokens   []Token   `json:"tokens,omitempty"`
	Closed   *bool     `json:"closed,omitempty"`
}

// MarshalJSON encodes the document as an array of kind-tagged blocks.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make([]blockJSON, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		out = append(out, toWire(b))
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire []blockJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	blocks := make([]Block, 0, len(wire))
	for i, w := range wire {
		b, err := fromWire(w)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	d.Blocks = blocks
	return nil
}

func toWire(b Block) blockJSON {
	switch v := b.(type) {
	case Heading:
		return blockJSON{Kind: KindHeading, Level: v.Level, Spans: v.Spans}
	case Blockquote:
		return blockJSON{Kind: KindBlockquote, Spans: v.Spans}
	case ListItem:
		return blockJSON{Kind: KindListItem, Spans: v.Spans}
	case CodeBlock:
		closed := v.Closed
		return blockJSON{Kind: KindCodeBlock, Language: v.Language, Lines: v.Lines, Tokens: v.Tokens, Closed: &closed}
	case BlankSpacer:
		return blockJSON{Kind: KindBlankSpacer}
	case Paragraph:
		return blockJSON{Kind: KindParagraph, Spans: v.Spans}
	default:
		panic(fmt.Sprintf("report: unknown block variant %T", b))
	}
}

func fromWire(w blockJSON) (Block, error) {
	switch w.Kind {
	case KindHeading:
		if w.Level < 1 || w.Level > 3 {
			return nil, fmt.Errorf("heading level %d out of range", w.Level)
		}
		return Heading{Level: w.Level, Spans: w.Spans}, nil
	case KindBlockquote:
		return Blockquote{Spans: w.Spans}, nil
	case KindListItem:
		return ListItem{Spans: w.Spans}, nil
	case KindCodeBlock:
		return CodeBlock{Language: w.Language, Lines: w.Lines, Tokens: w.Tokens, Closed: w.Closed != nil && *w.Closed}, nil
	case KindBlankSpacer:
		return BlankSpacer{}, nil
	case KindParagraph:
		return Paragraph{Spans: w.Spans}, nil
	default:
		return nil, fmt.Errorf("unknown block kind %q", w.Kind)
	}
}
