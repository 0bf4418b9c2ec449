// Package report turns generated analysis reports into structured documents.
//
// A report is a constrained markdown dialect: level 1-3 headings, single-line
// blockquotes and list items, fenced code blocks, blank lines and paragraphs,
// with **bold** and `code` inline spans. Everything else is treated as
// paragraph text.
//
// The package exposes four pure functions:
//
//   - ParseInline splits one line into inline spans.
//   - HighlightCode classifies code for cosmetic highlighting.
//   - ParseDocument builds a Document from the full report text.
//   - ExtractSection pulls a heading-delimited section from the raw text.
//
// None of them returns an error. Malformed input degrades to a defined
// fallback: unbalanced inline delimiters stay as text, an unterminated fence
// is closed at the end of the input, and a missing section yields a fallback
// line or SummaryUnavailable. All functions are safe for concurrent use.
package report
