package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"sphv/config"
	"sphv/content"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context   string
	Title     string
	Name      string // source file name without extension
	Generator string
	Lang      string
	ID        string
	Format    string
	Headings  int
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field string, format config.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:   string(name),
		Title:     c.Title(),
		Name:      strings.TrimSuffix(filepath.Base(c.SrcName), filepath.Ext(c.SrcName)),
		Generator: c.Meta.Generator,
		Lang:      c.Meta.Lang,
		ID:        c.ID.String(),
		Format:    format.String(),
	}
	if c.Doc != nil {
		values.Headings = len(c.Doc.TOC)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
