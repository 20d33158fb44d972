package gemtext

// Kind identifies a structural event in a markup document.
type Kind int

// Event kinds understood by Convert.
const (
	KindOther Kind = iota
	KindHeadingStart
	KindHeadingEnd
	KindParagraphStart
	KindParagraphEnd
	KindLinkStart
	KindLinkEnd
	KindImage
	KindCode
	KindText
	KindSoftBreak
	KindHardBreak
)

var kindNames = [...]string{
	KindOther:          "other",
	KindHeadingStart:   "heading_start",
	KindHeadingEnd:     "heading_end",
	KindParagraphStart: "paragraph_start",
	KindParagraphEnd:   "paragraph_end",
	KindLinkStart:      "link_start",
	KindLinkEnd:        "link_end",
	KindImage:          "image",
	KindCode:           "code",
	KindText:           "text",
	KindSoftBreak:      "soft_break",
	KindHardBreak:      "hard_break",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one structural event. Only the fields relevant to Kind are set:
// Level for KindHeadingStart, URL for KindLinkStart and KindImage, Title for
// KindImage, Text for KindText and KindCode.
type Event struct {
	Kind  Kind
	Level int
	URL   string
	Title string
	Text  string
}

// HeadingStart opens a heading of the given level.
func HeadingStart(level int) Event {
	return Event{Kind: KindHeadingStart, Level: level}
}

// HeadingEnd closes a heading.
func HeadingEnd() Event {
	return Event{Kind: KindHeadingEnd}
}

// ParagraphStart opens a paragraph.
func ParagraphStart() Event {
	return Event{Kind: KindParagraphStart}
}

// ParagraphEnd closes a paragraph.
func ParagraphEnd() Event {
	return Event{Kind: KindParagraphEnd}
}

// LinkStart opens a link to url; text events up to LinkEnd are its label.
func LinkStart(url string) Event {
	return Event{Kind: KindLinkStart, URL: url}
}

// LinkEnd closes the open link.
func LinkEnd() Event {
	return Event{Kind: KindLinkEnd}
}

// Image references an image at url with an optional title.
func Image(url, title string) Event {
	return Event{Kind: KindImage, URL: url, Title: title}
}

// Code is an inline code span.
func Code(code string) Event {
	return Event{Kind: KindCode, Text: code}
}

// Text is literal text.
func Text(text string) Event {
	return Event{Kind: KindText, Text: text}
}

// SoftBreak is a line break inside a paragraph.
func SoftBreak() Event {
	return Event{Kind: KindSoftBreak}
}

// HardBreak is an explicit line break.
func HardBreak() Event {
	return Event{Kind: KindHardBreak}
}
