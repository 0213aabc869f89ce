package sphinx

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// converter ties parser state, emitter and toc builder together for a single
// pass over the document.
type converter struct {
	markers Markers
	state   *ParserState
	out     emitter
	toc     tocBuilder
	log     *zap.Logger
}

func newConverter(markers Markers, log *zap.Logger) *converter {
	return &converter{
		markers: markers,
		state:   newParserState(),
		log:     log,
	}
}

func (c *converter) handle(ev Event) {
	switch ev.Kind {
	case EventStartTag:
		c.startTag(ev.Name, ev.Attr("class"))
	case EventEndTag:
		c.endTag(ev.Name)
	case EventText:
		c.text(ev.Text)
	}
}

func (c *converter) startTag(tag, class string) {
	s := c.state
	sep := ""

	switch {
	case tag == "div" && class == c.markers.Content && !s.navigation:
		if !s.Visible {
			c.log.Debug("Entering main content")
		}
		s.Visible = true
	case tag == "div" && class == c.markers.Navigation:
		if !s.navigation {
			c.log.Debug("Entering side navigation, output stops")
			s.navigation = true
		}
		s.Visible = false
	case tag == "p" && class != c.markers.First:
		sep = "\n\n"
	case tag == "span" && class == c.markers.Inline:
		s.Style = StylePreformattedInline
	case tag == "span" && class == c.markers.Modified:
		s.Style = StyleEmphasis
	case tag == "em":
		s.Style = StyleEmphasis
	case tag == "ul" || tag == "ol":
		if c.markers.Simple != "" && strings.Contains(class, c.markers.Simple) {
			s.SimpleList = true
			sep = "\n"
		} else {
			s.SimpleList = false
		}
		s.indent(1)
	case tag == "dl":
		if s.Indent > 0 {
			s.NestedDL = true
		}
	case tag == "li":
		if s.SimpleList {
			sep = "\n* "
		} else {
			sep = "\n\n* "
		}
	case tag == "dt":
		if s.NestedDL {
			sep = "\n"
		} else {
			sep = "\n\n"
		}
		s.NestedDL = false
	case tag == "dd":
		s.indent(1)
		sep = "\n"
	case tag == "pre":
		s.Pre = true
		c.out.emit(s, "\n\n")
		s.Style = StylePreformattedBlock
	case tag == "a" && class == c.markers.HeaderLink:
		s.HeaderLink = true
	case tag == "h1":
		s.Style = StyleHeading1
	case tag == "h2" || tag == "h3":
		if s.Visible {
			c.toc.begin(s, &c.out)
			c.out.emit(s, "\n\n")
		}
		if tag == "h2" {
			s.Style = StyleHeading2
		} else {
			s.Style = StyleHeading3
		}
	default:
		s.unhandled++
	}

	c.out.emit(s, sep)
}

func (c *converter) endTag(tag string) {
	s := c.state

	switch tag {
	case "h1", "h2", "h3", "span", "em":
		s.clearStyle()
		if s.Visible && (tag == "h2" || tag == "h3") {
			c.toc.finish(s)
		}
	case "a":
		s.HeaderLink = false
	case "pre":
		s.Pre = false
		s.clearStyle()
	case "ul", "ol", "dd":
		s.indent(-1)
	default:
		s.unhandled++
	}
}

func (c *converter) text(data string) {
	s := c.state
	if !s.Visible || s.HeaderLink {
		s.suppressed++
		return
	}

	d := data
	if !s.Pre {
		d = strings.ReplaceAll(d, "\n", " ")
	}
	if s.Style == StyleHeading1 && !s.prefixSet {
		c.capturePrefix(d)
	}
	if s.Style.IsHeading() {
		if t := strings.TrimLeftFunc(d, unicode.IsSpace); s.prefixSet && strings.HasPrefix(t, s.prefix) {
			d = strings.TrimLeftFunc(t[len(s.prefix):], unicode.IsSpace)
		}
		c.toc.collect(s, d)
	}
	c.out.emit(s, d)
}

// capturePrefix remembers first whitespace delimited token of the top level
// heading, e.g. "25.5" in "25.5 IDLE". Token must be followed by whitespace.
func (c *converter) capturePrefix(d string) {
	s := c.state
	t := strings.TrimLeftFunc(d, unicode.IsSpace)
	if i := strings.IndexFunc(t, unicode.IsSpace); i > 0 {
		s.prefix, s.prefixSet = t[:i], true
		c.log.Debug("Heading prefix detected", zap.String("prefix", s.prefix))
	}
}
