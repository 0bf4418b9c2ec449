// Package render turns parsed reports into presentation output: an HTML
// fragment for the web UI and ANSI text for terminals.
//
// Renderers switch over every report.Block variant; text content is always
// escaped.
package render
