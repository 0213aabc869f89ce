package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"sphv/config"
	"sphv/content"
	"sphv/state"
)

// buildOutputPath returns full name of the output file for the page. "src" is
// page path relative to the processed source. Name comes from the configured
// template (which may produce subdirectories) or from the page file name when
// template is empty or expands to nothing. Unless nodirs is requested source
// directory structure is kept under "dst".
func buildOutputPath(c *content.Content, src, dst string, env *state.LocalEnv) string {
	outDir := outputDir(src, dst, env)
	ext := env.Format.Ext()

	segments := templateSegments(c, env)
	if len(segments) == 0 {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		return filepath.Join(outDir, cleanSegment(base, env)+ext)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments {
		parts = append(parts, cleanSegment(s, env))
	}
	parts[len(parts)-1] += ext
	return filepath.Join(parts...)
}

func outputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

// templateSegments expands output name template and splits result into path
// segments. Blank segments are dropped.
func templateSegments(c *content.Content, env *state.LocalEnv) []string {
	tmpl := env.Cfg.Document.OutputNameTemplate
	if len(tmpl) == 0 {
		return nil
	}
	name, err := expandTemplate(c, config.OutputNameTemplateFieldName, tmpl, env.Format)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename, using default", zap.Error(err))
		return nil
	}
	return splitSegments(name)
}

func splitSegments(name string) []string {
	var segments []string
	for _, s := range strings.FieldsFunc(filepath.FromSlash(name), func(r rune) bool { return r == os.PathSeparator }) {
		if len(strings.TrimSpace(s)) > 0 {
			segments = append(segments, s)
		}
	}
	return segments
}

func cleanSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
