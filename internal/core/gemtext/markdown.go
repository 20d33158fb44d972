package gemtext

import (
	"html"
	"iter"

	"github.com/russross/blackfriday/v2"
)

// markdownExtensions is the common markdown dialect plus footnotes. Bare
// URLs stay in the prose; only explicit links become link lines.
const markdownExtensions = blackfriday.CommonExtensions&^blackfriday.Autolink | blackfriday.Footnotes

// MarkdownEvents returns the event stream of a markdown document.
//
// Parsing is deferred until the sequence is iterated. Stopping the
// iteration early stops the tree walk.
func MarkdownEvents(source []byte) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		doc := blackfriday.New(blackfriday.WithExtensions(markdownExtensions)).Parse(source)
		doc.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
			ev, ok := nodeEvent(node, entering)
			if ok && !yield(ev) {
				return blackfriday.Terminate
			}
			return blackfriday.GoToNext
		})
	}
}

// ConvertMarkdown converts markdown source to Gemini text.
func ConvertMarkdown(source []byte) string {
	return Convert(MarkdownEvents(source))
}

// nodeEvent maps a blackfriday node visit to an event. Leaf nodes are
// visited once with entering set; containers are visited on entry and exit.
func nodeEvent(node *blackfriday.Node, entering bool) (Event, bool) {
	switch node.Type {
	case blackfriday.Heading:
		if entering {
			return HeadingStart(node.HeadingData.Level), true
		}
		return HeadingEnd(), true
	case blackfriday.Paragraph:
		if entering {
			return ParagraphStart(), true
		}
		return ParagraphEnd(), true
	case blackfriday.Link:
		if entering {
			return LinkStart(string(node.LinkData.Destination)), true
		}
		return LinkEnd(), true
	case blackfriday.Image:
		// The alt text arrives afterwards as the image's child text nodes.
		if entering {
			return Image(string(node.LinkData.Destination), string(node.LinkData.Title)), true
		}
	case blackfriday.Code:
		if entering {
			return Code(string(node.Literal)), true
		}
	case blackfriday.Text:
		// The inline parser leaves empty text nodes in front of spans.
		// Entities are kept verbatim by the parser; gemtext has no markup.
		if entering && len(node.Literal) > 0 {
			return Text(html.UnescapeString(string(node.Literal))), true
		}
	case blackfriday.CodeBlock:
		if entering && len(node.Literal) > 0 {
			return Text(string(node.Literal)), true
		}
	case blackfriday.Softbreak:
		if entering {
			return SoftBreak(), true
		}
	case blackfriday.Hardbreak:
		if entering {
			return HardBreak(), true
		}
	}
	return Event{}, false
}
