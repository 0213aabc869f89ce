package render

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"sphv/content"
	"sphv/layout"
	"sphv/theme"
)

// ansiRenderer is text renderer which uses SGR escape sequences for styles.
type ansiRenderer struct {
	textRenderer
}

func (r *ansiRenderer) Render(w io.Writer, c *content.Content) error {
	page := layout.New(c.Doc, r.th, r.opts)
	r.log.Debug("Document laid out", zap.Int("lines", len(page.Lines)), zap.Int("width", r.opts.Width))

	// blocks are painted to the width of the widest block line
	fill := 0
	for _, l := range page.Lines {
		if l.Block {
			fill = max(fill, l.Width)
		}
	}
	if r.opts.Width > 0 {
		fill = r.opts.Width
	}

	bw := bufio.NewWriter(w)
	for _, l := range page.Lines {
		writeANSILine(bw, l, fill)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to write text: %w", err)
	}
	return nil
}

func writeANSILine(w *bufio.Writer, l layout.Line, fill int) {
	w.WriteString(l.Gutter())
	var last theme.Presentation
	for _, s := range l.Spans {
		last = s.Pres
		if seq := SGR(s.Pres); len(seq) > 0 {
			w.WriteString(seq)
			w.WriteString(s.Text)
			w.WriteString(ansi.ResetStyle)
			continue
		}
		w.WriteString(s.Text)
	}
	if !l.Block || l.Width >= fill || len(l.Spans) == 0 {
		return
	}
	if seq := SGR(theme.Presentation{Background: last.Background}); len(seq) > 0 {
		w.WriteString(seq)
		w.WriteString(strings.Repeat(" ", fill-l.Width))
		w.WriteString(ansi.ResetStyle)
	}
}

// SGR returns escape sequence selecting presentation attributes, empty when
// presentation has nothing terminal can show.
func SGR(p theme.Presentation) string {
	var st ansi.Style
	if p.Bold {
		st = st.Bold()
	}
	if p.Italic {
		st = st.Italic(true)
	}
	if p.Underline {
		st = st.Underline(true)
	}
	if p.Foreground.Valid {
		st = st.ForegroundColor(rgba(p.Foreground))
	}
	if p.Background.Valid {
		st = st.BackgroundColor(rgba(p.Background))
		if !p.Foreground.Valid {
			// contrasting text
			if p.Background.Luminance() > 0.5 {
				st = st.ForegroundColor(ansi.Black)
			} else {
				st = st.ForegroundColor(ansi.BrightWhite)
			}
		}
	}
	if len(st) == 0 {
		return ""
	}
	return st.String()
}

func rgba(c theme.Color) color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
