package render

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"sphv/content"
)

type jsonRun struct {
	Content string   `json:"content"`
	Indent  int      `json:"indent,omitempty"`
	Style   string   `json:"style"`
	Tags    []string `json:"tags,omitempty"`
}

type jsonTocEntry struct {
	ID     string `json:"id"`
	Run    int    `json:"run"`
	Offset int    `json:"offset"`
	Title  string `json:"title"`
}

type jsonDocument struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Title     string         `json:"title,omitempty"`
	Generator string         `json:"generator,omitempty"`
	Lang      string         `json:"lang,omitempty"`
	Encoding  string         `json:"encoding"`
	Runs      []jsonRun      `json:"runs"`
	TOC       []jsonTocEntry `json:"toc"`
}

// jsonRenderer dumps runs and table of contents as is.
type jsonRenderer struct {
	log *zap.Logger
}

func (r *jsonRenderer) Render(w io.Writer, c *content.Content) error {
	out := jsonDocument{
		ID:        c.ID.String(),
		Source:    c.SrcName,
		Title:     c.Title(),
		Generator: c.Meta.Generator,
		Lang:      c.Meta.Lang,
		Encoding:  c.Meta.Encoding,
		Runs:      make([]jsonRun, 0, len(c.Doc.Runs)),
		TOC:       make([]jsonTocEntry, 0, len(c.Doc.TOC)),
	}
	for _, run := range c.Doc.Runs {
		out.Runs = append(out.Runs, jsonRun{
			Content: run.Content,
			Indent:  run.Indent,
			Style:   run.Style.String(),
			Tags:    run.Tags(),
		})
	}
	for _, e := range c.Doc.TOC {
		out.TOC = append(out.TOC, jsonTocEntry{
			ID:     e.Anchor.ID.String(),
			Run:    e.Anchor.Run,
			Offset: e.Anchor.Offset,
			Title:  e.Title,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("unable to encode json: %w", err)
	}
	r.log.Debug("Document encoded", zap.Int("runs", len(out.Runs)), zap.Int("toc", len(out.TOC)))
	return nil
}
