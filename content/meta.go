package content

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta is descriptive information about the source document. It is not
// used by conversion itself.
type Meta struct {
	Title     string
	Generator string
	Lang      string
	Encoding  string
	Sections  int // content containers found
	Sidebars  int // navigation containers found
}

// IsSphinx reports whether document declares Sphinx as its generator.
func (m Meta) IsSphinx() bool {
	return strings.HasPrefix(strings.ToLower(m.Generator), "sphinx") || strings.HasPrefix(strings.ToLower(m.Generator), "docutils")
}

func extractMeta(data []byte, contentClass, navigationClass string) (Meta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Meta{}, err
	}

	var m Meta
	m.Title = strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if name, _ := s.Attr("name"); strings.EqualFold(name, "generator") {
			m.Generator, _ = s.Attr("content")
			return false
		}
		return true
	})
	m.Lang, _ = doc.Find("html").First().Attr("lang")

	// conversion matches class attribute exactly, so do we
	count := func(class string) int {
		return doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			c, _ := s.Attr("class")
			return c == class
		}).Length()
	}
	m.Sections = count(contentClass)
	m.Sidebars = count(navigationClass)
	return m, nil
}
