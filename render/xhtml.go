package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"sphv/content"
	"sphv/sphinx"
	"sphv/theme"
)

// documentCSS keeps line breaks of the runs, stylesheet classes do the rest.
const documentCSS = `
.document { white-space: pre-wrap; }
.toc ol { list-style: none; }
`

// xhtmlRenderer writes standalone XHTML page with embedded stylesheet.
type xhtmlRenderer struct {
	th  *theme.Theme
	log *zap.Logger
}

func (r *xhtmlRenderer) Render(w io.Writer, c *content.Content) error {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	if len(c.Meta.Lang) > 0 {
		html.CreateAttr("xml:lang", c.Meta.Lang)
		html.CreateAttr("lang", c.Meta.Lang)
	}

	head := html.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")
	meta = head.CreateElement("meta")
	meta.CreateAttr("name", "source-id")
	meta.CreateAttr("content", c.ID.String())
	head.CreateElement("title").SetText(c.Title())
	style := head.CreateElement("style")
	style.CreateAttr("type", "text/css")
	style.SetText(r.th.Stylesheet().String() + documentCSS)

	body := html.CreateElement("body")
	if len(c.Doc.TOC) > 0 {
		appendTOC(body, c.Doc.TOC)
	}
	div := body.CreateElement("div")
	div.CreateAttr("class", "document")

	// runs are added after indentation, whitespace there is significant
	doc.Indent(2)
	appendRuns(div, c.Doc)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write xhtml: %w", err)
	}
	r.log.Debug("Document written", zap.Int("runs", len(c.Doc.Runs)), zap.Int("toc", len(c.Doc.TOC)))
	return nil
}

func appendTOC(parent *etree.Element, toc []sphinx.TocEntry) {
	nav := parent.CreateElement("nav")
	nav.CreateAttr("class", "toc")
	ol := nav.CreateElement("ol")
	for _, e := range toc {
		a := ol.CreateElement("li").CreateElement("a")
		a.CreateAttr("href", "#"+e.Anchor.ID.String())
		a.SetText(e.Title)
	}
}

// appendRuns puts every run into its own span with style tags as classes,
// anchors are placed right before the run they point at.
func appendRuns(div *etree.Element, doc *sphinx.Document) {
	next := 0
	anchor := func(upto int) {
		for ; next < len(doc.TOC) && doc.TOC[next].Anchor.Run <= upto; next++ {
			a := div.CreateElement("a")
			a.CreateAttr("id", doc.TOC[next].Anchor.ID.String())
		}
	}
	for i, run := range doc.Runs {
		anchor(i)
		tags := run.Tags()
		if len(tags) == 0 {
			div.CreateText(run.Content)
			continue
		}
		span := div.CreateElement("span")
		span.CreateAttr("class", strings.Join(tags, " "))
		span.SetText(run.Content)
	}
	anchor(len(doc.Runs))
}
