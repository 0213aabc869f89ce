// Package sphinx converts Sphinx generated HTML help pages into a sequence
// of styled text runs and a table of contents.
//
// Conversion is a single forward pass over tokenizer events. Only the narrow
// markup subset Sphinx produces for its classic themes is understood, anything
// else is silently ignored.
package sphinx

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Style is the active character style of a run.
type Style int

const (
	StylePlain Style = iota
	StyleEmphasis
	StyleHeading1
	StyleHeading2
	StyleHeading3
	StylePreformattedInline
	StylePreformattedBlock
)

var styleTags = [...]string{"", "em", "h1", "h2", "h3", "pre", "preblock"}

// Tag returns style identifier used by renderers and stylesheets, plain style
// has empty identifier.
func (s Style) Tag() string {
	if s < 0 || int(s) >= len(styleTags) {
		return ""
	}
	return styleTags[s]
}

func (s Style) String() string {
	switch s {
	case StylePlain:
		return "plain"
	case StyleEmphasis:
		return "emphasis"
	case StyleHeading1:
		return "heading1"
	case StyleHeading2:
		return "heading2"
	case StyleHeading3:
		return "heading3"
	case StylePreformattedInline:
		return "preformattedInline"
	case StylePreformattedBlock:
		return "preformattedBlock"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// IsHeading reports whether style is one of heading levels.
func (s Style) IsHeading() bool {
	return s == StyleHeading1 || s == StyleHeading2 || s == StyleHeading3
}

// IsPreformatted reports whether style requires fixed width font.
func (s Style) IsPreformatted() bool {
	return s == StylePreformattedInline || s == StylePreformattedBlock
}

// IndentTag returns style identifier for indentation level, empty for level 0.
func IndentTag(level int) string {
	if level <= 0 {
		return ""
	}
	return fmt.Sprintf("l%d", level)
}

// TextRun is a piece of output text with its style tags.
type TextRun struct {
	Content string
	Indent  int
	Style   Style
}

// Tags returns ordered set of style identifiers for the run: indentation level
// first (if any), then active style (if not plain).
func (r TextRun) Tags() []string {
	tags := make([]string, 0, 2)
	if t := IndentTag(r.Indent); t != "" {
		tags = append(tags, t)
	}
	if t := r.Style.Tag(); t != "" {
		tags = append(tags, t)
	}
	return tags
}

// AnchorID is opaque, strictly increasing token identifying TOC anchor.
type AnchorID int

func (id AnchorID) String() string {
	return fmt.Sprintf("toc%d", int(id))
}

// Anchor marks position in the output at the moment heading was about to be
// emitted. Run is the index of the first run following the anchor, Offset is
// rune offset into concatenated run contents.
type Anchor struct {
	ID     AnchorID
	Run    int
	Offset int
}

// TocEntry is a single table of contents entry.
type TocEntry struct {
	Anchor Anchor
	Title  string
}

// Document is the result of conversion.
type Document struct {
	Runs []TextRun
	TOC  []TocEntry
}

// Text returns concatenated contents of all runs.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, r := range d.Runs {
		sb.WriteString(r.Content)
	}
	return sb.String()
}

// Len returns length of document text in runes.
func (d *Document) Len() int {
	n := 0
	for _, r := range d.Runs {
		n += utf8.RuneCountInString(r.Content)
	}
	return n
}

// Find returns TOC entry for anchor id.
func (d *Document) Find(id AnchorID) (TocEntry, bool) {
	for _, e := range d.TOC {
		if e.Anchor.ID == id {
			return e, true
		}
	}
	return TocEntry{}, false
}
