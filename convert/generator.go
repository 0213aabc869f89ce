package convert

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sphv/config"
	"sphv/content"
	"sphv/layout"
	"sphv/render"
	"sphv/state"
	"sphv/theme"
)

// writeTo renders content in the requested format into the output file.
func writeTo(ctx context.Context, c *content.Content, format config.OutputFmt, th *theme.Theme, outputPath string, log *zap.Logger) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	r, err := render.New(format, th, layout.Options{
		Width:    env.Cfg.Viewer.WrapWidth,
		TabWidth: env.Cfg.Viewer.TabWidth,
	}, log)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	return r.Render(f, c)
}
