package gemtext

import (
	"iter"
	"strings"
)

// converter is the fold state. Text seen between a link's start and end is
// collected into linkText instead of the output.
type converter struct {
	out      strings.Builder
	inLink   bool
	linkURL  string
	linkText strings.Builder
}

// Convert folds an event stream into Gemini text.
//
// The converter trusts the stream: it has no recovery for unbalanced or
// nested structures, and heading levels are used as given.
func Convert(events iter.Seq[Event]) string {
	var c converter
	for ev := range events {
		c.apply(ev)
	}
	return c.out.String()
}

func (c *converter) apply(ev Event) {
	switch ev.Kind {
	case KindHeadingStart:
		c.out.WriteByte('\n')
		if ev.Level > 0 {
			c.out.WriteString(strings.Repeat("#", ev.Level))
		}
		c.out.WriteByte(' ')
	case KindHeadingEnd:
		c.out.WriteByte('\n')
	case KindParagraphStart, KindParagraphEnd:
		c.out.WriteByte('\n')
	case KindLinkStart:
		c.inLink = true
		c.linkURL = ev.URL
		c.linkText.Reset()
	case KindLinkEnd:
		c.inLink = false
		text := c.linkText.String()
		if strings.TrimSpace(text) == "" {
			text = c.linkURL
		}
		c.writeLinkLine(c.linkURL, text)
	case KindImage:
		c.writeLinkLine(ev.URL, ev.Title)
	case KindCode:
		c.out.WriteByte('`')
		c.out.WriteString(ev.Text)
		c.out.WriteByte('`')
	case KindText:
		if c.inLink {
			c.linkText.WriteString(ev.Text)
		} else {
			c.out.WriteString(ev.Text)
		}
	case KindSoftBreak, KindHardBreak:
		c.out.WriteByte('\n')
	}
}

func (c *converter) writeLinkLine(url, text string) {
	c.out.WriteString("\n=> ")
	c.out.WriteString(url)
	c.out.WriteByte(' ')
	c.out.WriteString(text)
	c.out.WriteByte('\n')
}
