// Package content prepares a single Sphinx HTML page for rendering.
package content

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sphv/sphinx"
	"sphv/state"
)

// Content keeps converted document together with information about its source.
type Content struct {
	SrcName string
	ID      uuid.UUID
	Size    int // of the original input in bytes
	Meta    Meta
	Doc     *sphinx.Document
}

// Title returns best available document title.
func (c *Content) Title() string {
	if len(c.Meta.Title) > 0 {
		return c.Meta.Title
	}
	if c.Doc != nil && len(c.Doc.TOC) > 0 {
		return c.Doc.TOC[0].Title
	}
	return ""
}

// Prepare reads, decodes and converts HTML page.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}

	data, enc, err := decode(raw)
	if err != nil {
		return nil, err
	}

	markers := env.Cfg.Document.Markers
	meta, err := extractMeta(data, markers.Content, markers.Navigation)
	if err != nil {
		return nil, fmt.Errorf("unable to extract document metadata: %w", err)
	}
	meta.Encoding = enc

	c := &Content{
		SrcName: srcName,
		// Identical pages always get the same id
		ID:   uuid.NewSHA1(uuid.NameSpaceURL, data),
		Size: len(raw),
		Meta: meta,
	}

	log.Debug("Input prepared",
		zap.String("size", humanize.Bytes(uint64(c.Size))),
		zap.String("encoding", enc),
		zap.Stringer("id", c.ID),
		zap.String("title", meta.Title),
		zap.String("generator", meta.Generator))

	if len(meta.Generator) > 0 && !meta.IsSphinx() {
		log.Warn("Document does not look like Sphinx output, result may be incomplete", zap.String("generator", meta.Generator))
	}
	if meta.Sections == 0 {
		log.Warn("Document has no content container, nothing will be visible", zap.String("class", markers.Content))
	}

	opts := append(env.Cfg.Document.ConvertOptions(), sphinx.WithLogger(log))
	doc, err := sphinx.ConvertBytes(ctx, data, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to convert document: %w", err)
	}
	c.Doc = doc

	// Save intermediate results for debugging
	if env.Rpt != nil {
		prefix := fmt.Sprintf("%s-%s", strings.TrimPrefix(filepath.ToSlash(srcName), "/"), c.ID)
		env.Rpt.StoreData(prefix+"/input.html", raw)
		env.Rpt.StoreData(prefix+"/document.txt", []byte(c.String()))
	}
	return c, nil
}
