package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Span
	}{
		{name: "empty", line: "", want: nil},
		{name: "plain", line: "just text", want: []Span{{SpanText, "just text"}}},
		{
			name: "bold in the middle",
			line: "a **b** c",
			want: []Span{{SpanText, "a "}, {SpanBold, "b"}, {SpanText, " c"}},
		},
		{
			name: "code then bold",
			line: "`x` and **y**",
			want: []Span{{SpanCode, "x"}, {SpanText, " and "}, {SpanBold, "y"}},
		},
		{
			name: "bold opens first and swallows backticks",
			line: "**`a`**",
			want: []Span{{SpanBold, "`a`"}},
		},
		{
			name: "code opens first and swallows asterisks",
			line: "`**a**`",
			want: []Span{{SpanCode, "**a**"}},
		},
		{
			name: "adjacent runs emit no empty text",
			line: "**a****b**",
			want: []Span{{SpanBold, "a"}, {SpanBold, "b"}},
		},
		{
			name: "non-greedy bold",
			line: "***a***",
			want: []Span{{SpanBold, "*a"}, {SpanText, "*"}},
		},
		{name: "empty bold", line: "****", want: []Span{{SpanBold, ""}}},
		{name: "unterminated bold stays literal", line: "**bold", want: []Span{{SpanText, "**bold"}}},
		{name: "lone backtick stays literal", line: "a ` b", want: []Span{{SpanText, "a ` b"}}},
		{name: "lone double asterisk", line: "**", want: []Span{{SpanText, "**"}}},
		{
			name: "label style list entry",
			line: "**Value Prop:** \"Bank-grade security\"",
			want: []Span{{SpanBold, "Value Prop:"}, {SpanText, " \"Bank-grade security\""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseInline(tt.line))
		})
	}
}

func TestParseInlineRestoresLine(t *testing.T) {
	lines := []string{
		"",
		"plain",
		"a **b** `c` d",
		"**`a`**",
		"**unbalanced `mixed",
		"***a***",
		"x ** y ` z",
		"日本語 **太字** `コード`",
	}
	for _, line := range lines {
		spans := ParseInline(line)
		require.Equal(t, line, markup(spans), "line %q", line)
		require.Equal(t, spans, ParseInline(markup(spans)), "line %q", line)
	}
}

// markup serializes spans back to their source form.
func markup(spans []Span) string {
	var out []byte
	for _, s := range spans {
		var d string
		switch s.Kind {
		case SpanBold:
			d = "**"
		case SpanCode:
			d = "`"
		}
		out = append(out, d...)
		out = append(out, s.Text...)
		out = append(out, d...)
	}
	return string(out)
}
