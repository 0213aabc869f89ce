// Package render produces output documents from converted content.
package render

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"sphv/config"
	"sphv/content"
	"sphv/layout"
	"sphv/theme"
)

// Renderer writes content in a particular output format.
type Renderer interface {
	Render(w io.Writer, c *content.Content) error
}

// New returns renderer for requested format. Theme is used by styled formats
// and for margins of the text ones.
func New(format config.OutputFmt, th *theme.Theme, opts layout.Options, log *zap.Logger) (Renderer, error) {
	log = log.Named("render").With(zap.Stringer("format", format))
	switch format {
	case config.OutputFmtText:
		return &textRenderer{th: th, opts: opts, log: log}, nil
	case config.OutputFmtAnsi:
		return &ansiRenderer{textRenderer{th: th, opts: opts, log: log}}, nil
	case config.OutputFmtJson:
		return &jsonRenderer{log: log}, nil
	case config.OutputFmtXhtml:
		return &xhtmlRenderer{th: th, log: log}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
