package viewer

import (
	"github.com/gdamore/tcell/v2"

	"sphv/layout"
	"sphv/sphinx"
)

type focus int

const (
	focusText focus = iota
	focusTOC
)

// model is viewer state independent of the screen.
type model struct {
	page     *layout.Page
	toc      []sphinx.TocEntry
	headings []int // line of every TOC entry, -1 when unresolved
	top      int
	height   int

	showTOC bool
	focus   focus
	sel     int // index into visible
	tocTop  int

	flt       *filter
	filtering bool
	query     []rune
	visible   []match
}

func newModel(toc []sphinx.TocEntry, showTOC bool) *model {
	m := &model{
		toc:     toc,
		showTOC: showTOC && len(toc) > 0,
		flt:     newFilter(),
	}
	m.visible = m.flt.apply(toc, "")
	return m
}

// setPage replaces laid out text keeping the same run at the top.
func (m *model) setPage(p *layout.Page, height int) {
	anchorRun, delta := -1, 0
	if m.page != nil && m.top < len(m.page.Lines) {
		anchorRun, delta = firstRun(m.page.Lines[m.top:])
	}

	m.page, m.height = p, max(height, 1)
	m.headings = make([]int, len(m.toc))
	for i, e := range m.toc {
		if n, ok := p.AnchorLine(e.Anchor.ID); ok {
			m.headings[i] = n
		} else {
			m.headings[i] = -1
		}
	}

	m.top = 0
	if anchorRun >= 0 {
		for i, l := range p.Lines {
			if len(l.Spans) > 0 && l.Spans[0].Run >= anchorRun {
				m.top = max(i-delta, 0)
				break
			}
		}
	}
	m.scroll(0)
}

// firstRun returns run starting the first non empty line and number of
// lines before it.
func firstRun(lines []layout.Line) (int, int) {
	for i, l := range lines {
		if len(l.Spans) > 0 {
			return l.Spans[0].Run, i
		}
	}
	return -1, 0
}

func (m *model) maxTop() int {
	return max(len(m.page.Lines)-m.height, 0)
}

func (m *model) scroll(n int) {
	m.top = min(max(m.top+n, 0), m.maxTop())
}

func (m *model) jump(entry int) {
	if entry < 0 || entry >= len(m.headings) || m.headings[entry] < 0 {
		return
	}
	m.top = m.headings[entry]
	m.scroll(0)
}

// current returns TOC entry top of the screen belongs to, -1 before the first
// heading.
func (m *model) current() int {
	cur := -1
	for i, n := range m.headings {
		if n >= 0 && n <= m.top {
			cur = i
		}
	}
	return cur
}

func (m *model) nextHeading() {
	for _, n := range m.headings {
		if n > m.top {
			m.top = n
			m.scroll(0)
			return
		}
	}
}

func (m *model) prevHeading() {
	for i := len(m.headings) - 1; i >= 0; i-- {
		if n := m.headings[i]; n >= 0 && n < m.top {
			m.top = n
			m.scroll(0)
			return
		}
	}
}

func (m *model) moveSel(n int) {
	if len(m.visible) == 0 {
		m.sel = 0
		return
	}
	m.sel = min(max(m.sel+n, 0), len(m.visible)-1)
	// keep selection on screen
	if m.sel < m.tocTop {
		m.tocTop = m.sel
	}
	if m.sel >= m.tocTop+m.height {
		m.tocTop = m.sel - m.height + 1
	}
}

func (m *model) syncSel() {
	cur := m.current()
	for i, v := range m.visible {
		if v.entry == cur {
			m.sel = i
			m.moveSel(0)
			return
		}
	}
}

func (m *model) refilter() {
	m.visible = m.flt.apply(m.toc, string(m.query))
	m.sel, m.tocTop = 0, 0
}

func (m *model) jumpSelected() {
	if m.sel < len(m.visible) {
		m.jump(m.visible[m.sel].entry)
	}
}

// handleKey updates state, returns true when viewer should exit.
func (m *model) handleKey(ev *tcell.EventKey) bool {
	if m.filtering {
		m.filterKey(ev)
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		if m.showTOC {
			m.focus = 1 - m.focus
			m.syncSel()
		}
	case tcell.KeyUp:
		if m.focus == focusTOC {
			m.moveSel(-1)
		} else {
			m.scroll(-1)
		}
	case tcell.KeyDown:
		if m.focus == focusTOC {
			m.moveSel(1)
		} else {
			m.scroll(1)
		}
	case tcell.KeyPgUp:
		m.scroll(-m.height)
	case tcell.KeyPgDn:
		m.scroll(m.height)
	case tcell.KeyHome:
		m.top = 0
	case tcell.KeyEnd:
		m.top = m.maxTop()
	case tcell.KeyEnter:
		if m.focus == focusTOC {
			m.jumpSelected()
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 't':
			m.showTOC = !m.showTOC && len(m.toc) > 0
			m.focus = focusText
			if m.showTOC {
				m.focus = focusTOC
				m.syncSel()
			}
		case '/':
			if len(m.toc) > 0 {
				m.filtering, m.showTOC, m.focus = true, true, focusTOC
				m.query = m.query[:0]
				m.refilter()
			}
		case 'n':
			m.nextHeading()
		case 'p':
			m.prevHeading()
		case ' ':
			m.scroll(m.height)
		case 'g':
			m.top = 0
		case 'G':
			m.top = m.maxTop()
		}
	}
	return false
}

func (m *model) filterKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		m.filtering = false
		m.query = m.query[:0]
		m.refilter()
		m.syncSel()
	case tcell.KeyEnter:
		m.filtering = false
		m.jumpSelected()
		m.query = m.query[:0]
		m.refilter()
		m.syncSel()
	case tcell.KeyUp:
		m.moveSel(-1)
	case tcell.KeyDown:
		m.moveSel(1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			m.refilter()
		}
	case tcell.KeyRune:
		m.query = append(m.query, ev.Rune())
		m.refilter()
	}
}
