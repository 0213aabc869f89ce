package convert

import (
	"strings"
	"testing"

	"sphv/config"
)

func TestExpandTemplate(t *testing.T) {
	c := setupTestContent(t, "25.5. IDLE", "library/idle.html")

	tests := []struct {
		name     string
		template string
		format   config.OutputFmt
		expected string
	}{
		{"simple text", "simple-text", config.OutputFmtText, "simple-text"},
		{"title", "{{ .Title }}", config.OutputFmtText, "25.5. IDLE"},
		{"name", "{{ .Name }}", config.OutputFmtText, "idle"},
		{"lang", "{{ .Lang }}", config.OutputFmtText, "en"},
		{"format", "{{ .Format }}", config.OutputFmtXhtml, "xhtml"},
		{"headings", "{{ .Headings }}", config.OutputFmtText, "2"},
		{"id", "{{ .ID }}", config.OutputFmtText, c.ID.String()},
		{"context", "{{ .Context }}", config.OutputFmtText, string(config.OutputNameTemplateFieldName)},
		{"sprig", "{{ .Title | lower | replace \" \" \"_\" }}", config.OutputFmtText, "25.5._idle"},
		{"generator", "{{ .Generator | trunc 15 }}", config.OutputFmtText, "Docutils 0.17.1"},
		{"path separators", "{{ .Lang }}/{{ .Name }}", config.OutputFmtText, "en/idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandTemplate(c, config.OutputNameTemplateFieldName, tt.template, tt.format)
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if result != tt.expected {
				t.Errorf("expandTemplate() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExpandTemplate_TitleFromTOC(t *testing.T) {
	c := setupTestContent(t, "", "")

	result, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Title }}", config.OutputFmtText)
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "Menus" {
		t.Errorf("expandTemplate() = %q, want %q", result, "Menus")
	}
}

func TestExpandTemplate_NoDocument(t *testing.T) {
	c := setupTestContent(t, "Page", "")
	c.Doc = nil

	result, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Title }}-{{ .Headings }}", config.OutputFmtText)
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if result != "Page-0" {
		t.Errorf("expandTemplate() = %q, want %q", result, "Page-0")
	}
}

func TestExpandTemplate_Errors(t *testing.T) {
	c := setupTestContent(t, "Page", "")

	for _, tmpl := range []string{"{{ .Title", "{{ .NonExistentField }}"} {
		_, err := expandTemplate(c, config.OutputNameTemplateFieldName, tmpl, config.OutputFmtText)
		if err == nil {
			t.Errorf("expandTemplate(%q) expected error, got nil", tmpl)
		}
	}
	_, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Title", config.OutputFmtText)
	if err != nil && !strings.Contains(err.Error(), string(config.OutputNameTemplateFieldName)) {
		t.Errorf("error does not name the field: %v", err)
	}
}
