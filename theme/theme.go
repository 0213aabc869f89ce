// Package theme maps style tags produced by the converter to concrete
// presentation attributes described by a CSS stylesheet.
package theme

import (
	_ "embed"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sphv/css"
	"sphv/sphinx"
)

//go:embed default.css
var defaultCSS []byte

// MaxIndent is the deepest indentation level with its own presentation,
// deeper levels are rendered as MaxIndent.
const MaxIndent = 4

// PixelsPerColumn converts stylesheet margins to character cells.
const PixelsPerColumn = 12

// Presentation is the resolved look of a piece of text.
type Presentation struct {
	Bold       bool
	Italic     bool
	Underline  bool
	Monospace  bool
	Block      bool // rendered as separate framed block
	Border     bool
	FontSize   float64 // points, 0 - inherited
	MarginLeft int     // pixels
	Foreground Color
	Background Color
}

// MarginColumns returns left margin in character cells.
func (p Presentation) MarginColumns() int {
	return (p.MarginLeft + PixelsPerColumn/2) / PixelsPerColumn
}

// Theme resolves style tags into presentation.
type Theme struct {
	sheet *css.Stylesheet
	base  Presentation
	tags  map[string]map[string]css.Value
	cache map[string]Presentation
	log   *zap.Logger
}

// DefaultStylesheet returns embedded stylesheet.
func DefaultStylesheet() []byte {
	return defaultCSS
}

// New builds theme from stylesheet data, embedded stylesheet is used when
// data is empty.
func New(data []byte, log *zap.Logger) *Theme {
	if log == nil {
		log = zap.NewNop()
	}
	source := "user stylesheet"
	if len(data) == 0 {
		data, source = defaultCSS, "default stylesheet"
	}
	sheet := css.NewParser(log).Parse(data, source)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet construct ignored", zap.String("source", source), zap.String("details", w))
	}
	return FromStylesheet(sheet, log)
}

// FromStylesheet builds theme from already parsed stylesheet.
func FromStylesheet(sheet *css.Stylesheet, log *zap.Logger) *Theme {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Theme{
		sheet: sheet,
		tags:  make(map[string]map[string]css.Value),
		cache: make(map[string]Presentation),
		log:   log.Named("theme"),
	}
	t.apply(&t.base, sheet.Properties("body"))
	for _, r := range sheet.Rules {
		name := r.Selector.Name()
		if name == "body" {
			continue
		}
		if _, ok := t.tags[name]; !ok {
			t.tags[name] = sheet.Properties(name)
		}
	}
	return t
}

// Stylesheet returns parsed stylesheet theme was built from.
func (t *Theme) Stylesheet() *css.Stylesheet {
	return t.sheet
}

// Base returns presentation of plain text.
func (t *Theme) Base() Presentation {
	return t.base
}

// Has reports whether stylesheet defines presentation for the tag.
func (t *Theme) Has(tag string) bool {
	_, ok := t.tags[normalizeTag(tag)]
	return ok
}

// Resolve returns presentation for ordered set of style tags, later tags
// override earlier ones. Unknown tags are ignored.
func (t *Theme) Resolve(tags []string) Presentation {
	key := strings.Join(tags, " ")
	if p, ok := t.cache[key]; ok {
		return p
	}
	p := t.base
	for _, tag := range tags {
		if props, ok := t.tags[normalizeTag(tag)]; ok {
			t.apply(&p, props)
		}
	}
	t.cache[key] = p
	return p
}

// Run returns presentation for the text run.
func (t *Theme) Run(r sphinx.TextRun) Presentation {
	return t.Resolve(r.Tags())
}

// normalizeTag collapses indentation deeper than MaxIndent.
func normalizeTag(tag string) string {
	if level, ok := indentLevel(tag); ok && level > MaxIndent {
		return sphinx.IndentTag(MaxIndent)
	}
	return tag
}

func indentLevel(tag string) (int, bool) {
	rest, ok := strings.CutPrefix(tag, "l")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (t *Theme) apply(p *Presentation, props map[string]css.Value) {
	for name, v := range props {
		switch name {
		case "font-weight":
			p.Bold = v.Keyword == "bold" || v.Keyword == "bolder" || (v.IsNumeric() && v.Value >= 600)
		case "font-style":
			p.Italic = v.Keyword == "italic" || v.Keyword == "oblique"
		case "font-family":
			f := strings.ToLower(v.Raw)
			p.Monospace = strings.Contains(f, "mono") || strings.Contains(f, "courier")
		case "font-size":
			p.FontSize = toPoints(v)
		case "margin-left":
			p.MarginLeft = toPixels(v)
		case "display":
			p.Block = v.Keyword == "block"
		case "border", "border-style":
			r := strings.ToLower(v.Raw)
			p.Border = r != "none" && r != "0" && !strings.Contains(r, "hidden")
		case "text-decoration":
			p.Underline = strings.Contains(strings.ToLower(v.Raw), "underline")
		case "color":
			p.Foreground = t.color(name, v)
		case "background-color", "background":
			p.Background = t.color(name, v)
		}
	}
}

func (t *Theme) color(prop string, v css.Value) Color {
	c, err := ParseColor(v.Raw)
	if err != nil {
		t.log.Debug("Unable to use color", zap.String("property", prop), zap.Error(err))
		return Color{}
	}
	return c
}

func toPoints(v css.Value) float64 {
	switch v.Unit {
	case "pt", "":
		return v.Value
	case "px":
		return v.Value * 0.75
	case "em":
		return v.Value * 12
	}
	return 0
}

func toPixels(v css.Value) int {
	switch v.Unit {
	case "px", "":
		return int(v.Value)
	case "pt":
		return int(v.Value / 0.75)
	case "em":
		return int(v.Value * 16)
	}
	return 0
}
