package report

import (
	"regexp"
	"strings"
)

// Keywords is the fixed, language-agnostic keyword list recognised by
// HighlightCode.
var Keywords = []string{
	"const", "let", "var", "function", "return", "import", "from", "class", "def",
	"if", "else", "while", "for", "try", "catch", "print", "console",
}

// lineRest matches up to, not including, the next line terminator.
const lineRest = `[^\r\n\x{2028}\x{2029}]*`

// codePattern lists the token classes in priority order. Group 1 is a line
// comment, group 2 a quoted string, group 3 a keyword and group 4 a number.
var codePattern = regexp.MustCompile(
	`(//` + lineRest + `|#` + lineRest + `)` +
		`|("[^"]*"|'[^']*')` +
		`|\b(` + strings.Join(Keywords, "|") + `)\b` +
		`|\b(\d+)\b`,
)

// codeGroups maps capture groups of codePattern to token kinds.
var codeGroups = [...]TokenKind{TokenComment, TokenString, TokenKeyword, TokenNumber}

// HighlightCode splits code into classified tokens for cosmetic styling.
//
// This is a heuristic, not a lexer: strings have no escapes (the next quote
// of the same kind always closes), comments are single-line only and the
// keyword set is fixed. Text between matches is emitted as TokenPlain, so the
// token texts always concatenate back to code.
func HighlightCode(code string) []Token {
	if code == "" {
		return nil
	}

	matches := codePattern.FindAllStringSubmatchIndex(code, -1)
	tokens := make([]Token, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			tokens = append(tokens, Token{Kind: TokenPlain, Text: code[last:m[0]]})
		}
		tokens = append(tokens, Token{Kind: matchedKind(m), Text: code[m[0]:m[1]]})
		last = m[1]
	}
	if last < len(code) {
		tokens = append(tokens, Token{Kind: TokenPlain, Text: code[last:]})
	}
	return tokens
}

func matchedKind(m []int) TokenKind {
	for i, kind := range codeGroups {
		if m[2*(i+1)] >= 0 {
			return kind
		}
	}
	return TokenPlain
}

// plainTokens wraps code in a single unclassified token.
func plainTokens(code string) []Token {
	if code == "" {
		return nil
	}
	return []Token{{Kind: TokenPlain, Text: code}}
}
