// Package viewer shows converted document in the terminal.
package viewer

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"sphv/config"
	"sphv/content"
	"sphv/layout"
	"sphv/theme"
)

// Viewer is interactive terminal pager with table of contents.
type Viewer struct {
	c      *content.Content
	th     *theme.Theme
	cfg    config.ViewerConfig
	log    *zap.Logger
	screen tcell.Screen
	m      *model
	width  int // used for the current layout
}

// Option configures viewer.
type Option func(*Viewer)

// WithScreen makes viewer use provided (not yet initialized) screen.
func WithScreen(s tcell.Screen) Option {
	return func(v *Viewer) {
		v.screen = s
	}
}

// New creates viewer for content.
func New(c *content.Content, th *theme.Theme, cfg config.ViewerConfig, log *zap.Logger, opts ...Option) *Viewer {
	v := &Viewer{
		c:   c,
		th:  th,
		cfg: cfg,
		log: log.Named("viewer"),
		m:   newModel(c.Doc.TOC, cfg.ShowTOC),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run takes over the terminal until user quits or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	if v.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("unable to create screen: %w", err)
		}
		v.screen = s
	}
	s := v.screen
	if err := s.Init(); err != nil {
		return fmt.Errorf("unable to initialize screen: %w", err)
	}

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer s.Fini()
	defer close(quit)

	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	v.draw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventKey:
				if v.m.handleKey(ev) {
					v.log.Debug("Viewer closed", zap.Int("line", v.m.top))
					return nil
				}
			}
			v.draw()
		}
	}
}

func (v *Viewer) tocWidth(w int) int {
	if !v.m.showTOC {
		return 0
	}
	return min(v.cfg.TOCWidth, w/2)
}

// resize lays document out again when available width changes.
func (v *Viewer) resize() {
	w, h := v.screen.Size()
	textWidth := w - v.textX(w)
	if v.cfg.WrapWidth > 0 {
		textWidth = min(textWidth, v.cfg.WrapWidth)
	}
	textWidth = max(textWidth, 1)

	height := max(h-1, 1)
	if textWidth == v.width && v.m.page != nil {
		v.m.height = height
		v.m.scroll(0)
		return
	}
	v.width = textWidth
	page := layout.New(v.c.Doc, v.th, layout.Options{Width: textWidth, TabWidth: v.cfg.TabWidth})
	v.m.setPage(page, height)
	v.log.Debug("Document laid out", zap.Int("width", textWidth), zap.Int("lines", len(page.Lines)))
}

func (v *Viewer) textX(w int) int {
	if tw := v.tocWidth(w); tw > 0 {
		return tw + 1
	}
	return 0
}

func (v *Viewer) draw() {
	s := v.screen
	w, h := s.Size()
	// TOC may have been toggled
	v.resize()

	s.Clear()
	x0 := v.textX(w)
	if x0 > 0 {
		v.drawTOC(x0-1, h-1)
		for y := 0; y < h-1; y++ {
			s.SetContent(x0-1, y, '│', nil, styleDivider)
		}
	}
	for row := 0; row < v.m.height && v.m.top+row < len(v.m.page.Lines); row++ {
		v.drawLine(x0, row, w, v.m.page.Lines[v.m.top+row])
	}
	v.drawStatus(w, h-1)
	s.Show()
}

func (v *Viewer) drawLine(x0, y, w int, l layout.Line) {
	s := v.screen
	x := x0 + l.Margin
	var last tcell.Style
	for _, sp := range l.Spans {
		last = cellStyle(sp.Pres)
		x = drawText(s, x, y, w, last, sp.Text)
	}
	if l.Border && l.Margin > 0 {
		st := last
		if len(l.Spans) == 0 {
			st = tcell.StyleDefault
		}
		s.SetContent(x0+l.Margin-1, y, '│', nil, st)
	}
	if l.Block && len(l.Spans) > 0 {
		_, bg, _ := last.Decompose()
		fill := tcell.StyleDefault.Background(bg)
		for ; x < w; x++ {
			s.SetContent(x, y, ' ', nil, fill)
		}
	}
}

func (v *Viewer) drawTOC(width, height int) {
	m := v.m
	cur := m.current()
	for row := 0; row < height && m.tocTop+row < len(m.visible); row++ {
		i := m.tocTop + row
		vis := m.visible[i]
		st := styleTOC
		if vis.entry == cur {
			st = styleCurrent
		}
		if m.focus == focusTOC && i == m.sel {
			st = styleSelected
		}
		x := 0
		for n, r := range []rune(m.toc[vis.entry].Title) {
			rw := runewidth.RuneWidth(r)
			if x+rw > width {
				break
			}
			cs := st
			if isMatched(vis.positions, n) {
				cs = styleMatch
				if m.focus == focusTOC && i == m.sel {
					cs = cs.Reverse(true)
				}
			}
			v.screen.SetContent(x, row, r, nil, cs)
			x += rw
		}
		for ; x < width; x++ {
			v.screen.SetContent(x, row, ' ', nil, st)
		}
	}
}

func isMatched(positions []int, n int) bool {
	for _, p := range positions {
		if p == n {
			return true
		}
	}
	return false
}

func (v *Viewer) drawStatus(w, y int) {
	m := v.m
	var status string
	if m.filtering {
		status = fmt.Sprintf(" /%s  (%d of %d)", string(m.query), len(m.visible), len(m.toc))
	} else {
		pct := 100
		if total := len(m.page.Lines); total > m.height {
			pct = (m.top + m.height) * 100 / total
		}
		status = fmt.Sprintf(" %s  %d%%", v.c.Title(), min(pct, 100))
		if cur := m.current(); cur >= 0 {
			status += "  " + m.toc[cur].Title
		}
	}
	x := drawText(v.screen, 0, y, w, styleStatus, status)
	for ; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
}

// drawText puts text on a single row clipping at limit, returns next column.
func drawText(s tcell.Screen, x, y, limit int, st tcell.Style, text string) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			break
		}
		s.SetContent(x, y, r, nil, st)
		x += rw
	}
	return x
}
