package sphinx

import "strings"

// Markers are class attribute values which identify structural parts of the
// document.
type Markers struct {
	Content    string // container of the main content
	Navigation string // trailing side navigation container
	First      string // paragraph not preceded by blank line
	Simple     string // compact list, matched as substring
	Inline     string // inline preformatted span
	Modified   string // version modified note
	HeaderLink string // self referencing header link
}

// DefaultMarkers returns class names produced by classic Sphinx themes.
func DefaultMarkers() Markers {
	return Markers{
		Content:    "section",
		Navigation: "sphinxsidebar",
		First:      "first",
		Simple:     "simple",
		Inline:     "pre",
		Modified:   "versionmodified",
		HeaderLink: "headerlink",
	}
}

// ParserState is mutable conversion state threaded through every event
// handler. It lives for the duration of a single conversion.
type ParserState struct {
	Style      Style
	Indent     int
	Visible    bool
	HeaderLink bool
	Pre        bool
	SimpleList bool
	NestedDL   bool

	// navigation region has been entered, visibility stays off for the rest
	// of the document
	navigation bool

	prefix     string
	prefixSet  bool
	heading    strings.Builder
	nextID     AnchorID
	pending    *Anchor
	unhandled  int
	suppressed int
}

func newParserState() *ParserState {
	return &ParserState{nextID: 1}
}

// indent changes indentation level keeping it non-negative.
func (s *ParserState) indent(amt int) {
	s.Indent += amt
	if s.Indent < 0 {
		s.Indent = 0
	}
}

// clearStyle drops active style, preformatted block included.
func (s *ParserState) clearStyle() {
	s.Style = StylePlain
}

// Prefix returns captured numeric heading prefix.
func (s *ParserState) Prefix() string {
	return s.prefix
}
