// Package layout breaks converted document into screen lines. It is shared by
// terminal viewer and plain text renderers.
package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"sphv/sphinx"
	"sphv/theme"
)

// DefaultTabWidth is used when options do not specify one.
const DefaultTabWidth = 8

// Options controls line breaking.
type Options struct {
	Width    int // 0 - do not wrap
	TabWidth int
}

// Span is a piece of a single run placed on a line.
type Span struct {
	Text  string
	Width int // in cells
	Run   int // index of the source run
	Pres  theme.Presentation
}

// Line is a single output line.
type Line struct {
	Margin int // cells before the first span
	Spans  []Span
	Block  bool // belongs to block (framed) text
	Border bool
	Width  int // margin included
}

// Text returns line contents without styling.
func (l Line) Text() string {
	var sb strings.Builder
	sb.WriteString(l.Gutter())
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Gutter returns left margin, bordered block lines have vertical bar in the
// last margin cell.
func (l Line) Gutter() string {
	if l.Margin == 0 {
		return ""
	}
	if l.Border {
		return strings.Repeat(" ", l.Margin-1) + "│"
	}
	return strings.Repeat(" ", l.Margin)
}

// Page is laid out document.
type Page struct {
	Lines   []Line
	anchors map[sphinx.AnchorID]int
}

// AnchorLine returns index of the line heading anchor points to.
func (p *Page) AnchorLine(id sphinx.AnchorID) (int, bool) {
	n, ok := p.anchors[id]
	return n, ok
}

// Headings returns line indexes of all anchors in document order.
func (p *Page) Headings(toc []sphinx.TocEntry) []int {
	lines := make([]int, 0, len(toc))
	for _, e := range toc {
		if n, ok := p.anchors[e.Anchor.ID]; ok {
			lines = append(lines, n)
		}
	}
	return lines
}

type builder struct {
	opts    Options
	th      *theme.Theme
	lines   []Line
	cur     Line
	open    bool // cur has margin decided
	anchors map[sphinx.AnchorID]int
	pending []sphinx.AnchorID
}

// New lays out document runs using theme for margins.
func New(doc *sphinx.Document, th *theme.Theme, opts Options) *Page {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	b := &builder{opts: opts, th: th, anchors: make(map[sphinx.AnchorID]int, len(doc.TOC))}

	// anchors are sorted by run index, each one is resolved to the line
	// where next visible text lands
	next := 0
	for i, r := range doc.Runs {
		for ; next < len(doc.TOC) && doc.TOC[next].Anchor.Run <= i; next++ {
			b.pending = append(b.pending, doc.TOC[next].Anchor.ID)
		}
		b.run(i, r)
	}
	b.flush(false)
	for ; next < len(doc.TOC); next++ {
		b.pending = append(b.pending, doc.TOC[next].Anchor.ID)
	}
	for _, id := range b.pending {
		b.anchors[id] = max(len(b.lines)-1, 0)
	}
	return &Page{Lines: b.lines, anchors: b.anchors}
}

func (b *builder) run(idx int, r sphinx.TextRun) {
	pres := b.th.Run(r)
	parts := strings.Split(r.Content, "\n")
	for i, part := range parts {
		if i > 0 {
			b.flush(true)
		}
		if len(part) == 0 {
			// keep empty lines inside blocks framed
			if pres.Block && i > 0 && i < len(parts)-1 {
				b.start(pres)
			}
			continue
		}
		b.text(idx, part, pres)
	}
}

// text places single line of the run, wrapping when necessary.
func (b *builder) text(idx int, s string, pres theme.Presentation) {
	preformatted := pres.Monospace || pres.Block
	for _, w := range words(s, preformatted) {
		b.start(pres)
		w = b.expandTabs(w)
		width := runewidth.StringWidth(w)

		if b.opts.Width > 0 && b.cur.Width+width > b.opts.Width {
			blank := strings.TrimSpace(w) == ""
			if blank && !preformatted {
				// swallow spaces at wrap point
				b.flush(false)
				continue
			}
			if len(b.cur.Spans) > 0 {
				b.flush(false)
				b.start(pres)
			}
			// still does not fit, cut it
			for width > 0 && b.cur.Width+width > b.opts.Width {
				room := max(b.opts.Width-b.cur.Width, 1)
				head := runewidth.Truncate(w, room, "")
				if len(head) == 0 {
					_, size := utf8.DecodeRuneInString(w)
					head = w[:size]
				}
				b.add(idx, head, pres)
				w = w[len(head):]
				width = runewidth.StringWidth(w)
				if width > 0 {
					b.flush(false)
					b.start(pres)
				}
			}
			if width == 0 {
				continue
			}
		}
		b.add(idx, w, pres)
	}
}

func (b *builder) start(pres theme.Presentation) {
	if b.open {
		return
	}
	b.open = true
	b.cur.Margin = pres.MarginColumns()
	if b.opts.Width > 0 && b.cur.Margin >= b.opts.Width {
		b.cur.Margin = b.opts.Width / 2
	}
	b.cur.Width = b.cur.Margin
	b.cur.Block = pres.Block
	b.cur.Border = pres.Block && pres.Border
}

func (b *builder) add(idx int, text string, pres theme.Presentation) {
	for _, id := range b.pending {
		b.anchors[id] = len(b.lines)
	}
	b.pending = b.pending[:0]

	width := runewidth.StringWidth(text)
	if n := len(b.cur.Spans); n > 0 && b.cur.Spans[n-1].Run == idx {
		b.cur.Spans[n-1].Text += text
		b.cur.Spans[n-1].Width += width
	} else {
		b.cur.Spans = append(b.cur.Spans, Span{Text: text, Width: width, Run: idx, Pres: pres})
	}
	b.cur.Width += width
}

// flush finishes current line. Explicit line breaks always produce a line,
// wrapping breaks only when something was placed.
func (b *builder) flush(explicit bool) {
	if !explicit && len(b.cur.Spans) == 0 {
		return
	}
	if len(b.cur.Spans) == 0 && !b.cur.Block {
		b.cur = Line{}
	}
	b.lines = append(b.lines, b.cur)
	b.cur = Line{}
	b.open = false
}

func (b *builder) expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := b.cur.Width - b.cur.Margin
	for _, r := range s {
		if r == '\t' {
			n := b.opts.TabWidth - col%b.opts.TabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// words splits text into alternating runs of spaces and non spaces,
// preformatted text is kept whole unless it has to be cut.
func words(s string, preformatted bool) []string {
	if preformatted {
		return []string{s}
	}
	var (
		out   []string
		start int
		space bool
	)
	for i, r := range s {
		sp := unicode.IsSpace(r)
		if i > 0 && sp != space {
			out = append(out, s[start:i])
			start = i
		}
		space = sp
	}
	return append(out, s[start:])
}
