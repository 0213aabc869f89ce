package layout

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"sphv/sphinx"
	"sphv/theme"
)

func texts(p *Page) []string {
	out := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = strings.TrimRight(l.Text(), " ")
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLayout(t *testing.T) {
	th := theme.New(nil, zaptest.NewLogger(t))

	tests := []struct {
		name string
		runs []sphinx.TextRun
		opts Options
		want []string
	}{
		{
			name: "separators",
			runs: []sphinx.TextRun{
				{Content: "Title", Style: sphinx.StyleHeading1},
				{Content: "\n\n"},
				{Content: "Hello world"},
			},
			want: []string{"Title", "", "Hello world"},
		},
		{
			name: "word wrap",
			runs: []sphinx.TextRun{{Content: "aaa bbb ccc ddd"}},
			opts: Options{Width: 10},
			want: []string{"aaa bbb", "ccc ddd"},
		},
		{
			name: "spaces swallowed at wrap point",
			runs: []sphinx.TextRun{{Content: "aaaa bbbb"}},
			opts: Options{Width: 4},
			want: []string{"aaaa", "bbbb"},
		},
		{
			name: "long word cut",
			runs: []sphinx.TextRun{{Content: "abcdefghij"}},
			opts: Options{Width: 4},
			want: []string{"abcd", "efgh", "ij"},
		},
		{
			name: "wide runes",
			runs: []sphinx.TextRun{{Content: "日本語"}},
			opts: Options{Width: 4},
			want: []string{"日本", "語"},
		},
		{
			name: "indentation margin",
			runs: []sphinx.TextRun{
				{Content: "\n* ", Indent: 1},
				{Content: "item", Indent: 1},
				{Content: "\n* ", Indent: 2},
				{Content: "nested", Indent: 2},
			},
			want: []string{"", "  * item", "    * nested"},
		},
		{
			name: "deep indentation collapses",
			runs: []sphinx.TextRun{{Content: "deep", Indent: 9}},
			want: []string{"        deep"},
		},
		{
			name: "tabs",
			runs: []sphinx.TextRun{{Content: "a\tb", Style: sphinx.StylePreformattedInline}},
			opts: Options{TabWidth: 4},
			want: []string{"a   b"},
		},
		{
			name: "framed block",
			runs: []sphinx.TextRun{
				{Content: "x = 1\n\ny = 2", Style: sphinx.StylePreformattedBlock},
				{Content: "\n\n"},
				{Content: "after"},
			},
			want: []string{" │x = 1", " │", " │y = 2", "", "after"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&sphinx.Document{Runs: tt.runs}, th, tt.opts)
			if got := texts(p); !equal(got, tt.want) {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayout_Spans(t *testing.T) {
	th := theme.New(nil, zaptest.NewLogger(t))
	doc := &sphinx.Document{Runs: []sphinx.TextRun{
		{Content: "plain "},
		{Content: "italic", Style: sphinx.StyleEmphasis},
		{Content: " more"},
	}}
	p := New(doc, th, Options{})
	if len(p.Lines) != 1 {
		t.Fatalf("expected single line, got %d", len(p.Lines))
	}
	spans := p.Lines[0].Spans
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	if spans[0].Text != "plain " || spans[0].Pres.Italic {
		t.Errorf("unexpected first span %+v", spans[0])
	}
	if spans[1].Run != 1 || !spans[1].Pres.Italic {
		t.Errorf("unexpected second span %+v", spans[1])
	}
	if p.Lines[0].Width != len("plain italic more") {
		t.Errorf("Width = %d", p.Lines[0].Width)
	}
	if spans[0].Pres != th.Base() {
		t.Error("plain span presentation differs from base")
	}
}

func TestLayout_Anchors(t *testing.T) {
	th := theme.New(nil, zaptest.NewLogger(t))
	doc := &sphinx.Document{
		Runs: []sphinx.TextRun{
			{Content: "Intro"},
			{Content: "\n\n"},
			{Content: "Head", Style: sphinx.StyleHeading2},
			{Content: "\n\n"},
			{Content: "body"},
		},
		TOC: []sphinx.TocEntry{
			{Anchor: sphinx.Anchor{ID: 1, Run: 1, Offset: 5}, Title: "Head"},
			{Anchor: sphinx.Anchor{ID: 2, Run: 5, Offset: 15}, Title: "Empty"},
		},
	}
	p := New(doc, th, Options{})

	if n, ok := p.AnchorLine(1); !ok || n != 2 {
		t.Errorf("AnchorLine(1) = %d, %v; want 2", n, ok)
	}
	// anchor past the last run points at the last line
	if n, ok := p.AnchorLine(2); !ok || n != len(p.Lines)-1 {
		t.Errorf("AnchorLine(2) = %d, %v; want %d", n, ok, len(p.Lines)-1)
	}
	if _, ok := p.AnchorLine(3); ok {
		t.Error("unknown anchor resolved")
	}
	if got := p.Headings(doc.TOC); len(got) != 2 || got[0] != 2 {
		t.Errorf("Headings = %v", got)
	}
}

func TestLayout_Empty(t *testing.T) {
	th := theme.New(nil, zaptest.NewLogger(t))
	p := New(&sphinx.Document{}, th, Options{Width: 20})
	if len(p.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(p.Lines))
	}
}
