// Package gemtext converts rich markdown documents into the Gemini line
// dialect (text/gemini).
//
// Conversion is a synchronous fold over a stream of structural events.
// MarkdownEvents produces that stream from markdown source using
// blackfriday; Convert consumes it. The fold keeps only the state needed
// to turn inline links into standalone "=>" lines:
//
//   - headings become "#"-prefixed lines (one "#" per level)
//   - links and images become "=> <url> <text>" lines
//   - inline code keeps its backticks
//   - text, paragraphs and line breaks pass through as plain lines
//
// Every other construct (emphasis, lists, quotes, tables, raw HTML) is
// dropped without affecting the surrounding output.
package gemtext
