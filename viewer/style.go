package viewer

import (
	"github.com/gdamore/tcell/v2"

	"sphv/theme"
)

func color(c theme.Color) tcell.Color {
	if !c.Valid {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellStyle converts presentation to terminal cell attributes.
func cellStyle(p theme.Presentation) tcell.Style {
	st := tcell.StyleDefault.
		Bold(p.Bold).
		Italic(p.Italic).
		Underline(p.Underline).
		Foreground(color(p.Foreground)).
		Background(color(p.Background))
	if p.Background.Valid && !p.Foreground.Valid {
		if p.Background.Luminance() > 0.5 {
			st = st.Foreground(tcell.ColorBlack)
		} else {
			st = st.Foreground(tcell.ColorWhite)
		}
	}
	return st
}

var (
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleTOC      = tcell.StyleDefault
	styleCurrent  = tcell.StyleDefault.Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleMatch    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDivider  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)
