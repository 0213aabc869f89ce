package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"sphv/content"
	"sphv/layout"
	"sphv/theme"
)

// textRenderer writes laid out lines without any styling.
type textRenderer struct {
	th   *theme.Theme
	opts layout.Options
	log  *zap.Logger
}

func (r *textRenderer) Render(w io.Writer, c *content.Content) error {
	page := layout.New(c.Doc, r.th, r.opts)
	r.log.Debug("Document laid out", zap.Int("lines", len(page.Lines)), zap.Int("width", r.opts.Width))

	bw := bufio.NewWriter(w)
	for _, l := range page.Lines {
		bw.WriteString(strings.TrimRight(l.Text(), " "))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to write text: %w", err)
	}
	return nil
}
