package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"sphv/css"
)

func TestParser_SimpleSelectors(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	sheet := p.Parse([]byte(`
/* heading styles */
.h1 { font-size: 20pt; font-weight: bold }
.em, .versionmodified { font-style: italic; }
pre { font-family: monospace }
div.preblock { background-color: #EEFFCC; margin-left: 25px; border: 1px solid }
`), "test.css")

	if len(sheet.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", sheet.Warnings)
	}
	if len(sheet.Rules) != 5 {
		t.Fatalf("expected 5 rules, got %d", len(sheet.Rules))
	}

	h1 := sheet.RulesBySelector(".h1")
	if len(h1) != 1 {
		t.Fatalf("expected .h1 rule")
	}
	if h1[0].Selector.Class != "h1" || h1[0].Selector.Element != "" {
		t.Errorf("selector = %+v", h1[0].Selector)
	}
	size, ok := h1[0].GetProperty("font-size")
	if !ok || size.Value != 20 || size.Unit != "pt" || !size.IsNumeric() {
		t.Errorf("font-size = %+v", size)
	}
	weight, _ := h1[0].GetProperty("font-weight")
	if weight.Keyword != "bold" || !weight.IsKeyword() {
		t.Errorf("font-weight = %+v", weight)
	}

	if got := sheet.RulesBySelector(".versionmodified"); len(got) != 1 {
		t.Errorf("grouped selector not split, got %d rules", len(got))
	}

	pre := sheet.RulesBySelector("pre")
	if len(pre) != 1 || pre[0].Selector.Element != "pre" || pre[0].Selector.Name() != "pre" {
		t.Errorf("pre rule = %+v", pre)
	}

	block := sheet.RulesBySelector("div.preblock")
	if len(block) != 1 || block[0].Selector.Name() != "preblock" {
		t.Fatalf("div.preblock rule = %+v", block)
	}
	bg, _ := block[0].GetProperty("background-color")
	if bg.Keyword != "#eeffcc" {
		t.Errorf("background-color = %+v", bg)
	}
	border, _ := block[0].GetProperty("border")
	if border.Raw != "1px solid" || border.IsNumeric() {
		t.Errorf("border = %+v", border)
	}
}

func TestParser_Warnings(t *testing.T) {
	p := css.NewParser(nil)

	sheet := p.Parse([]byte(`
@import url("other.css");
@media print { .h1 { color: red } }
p > span { color: red }
a[href] { color: blue }
a:hover { color: green }
.section p { margin: 0 }
.a.b { margin: 0 }
.l1 { margin-left: 25px }
`))

	if len(sheet.Rules) != 1 || sheet.Rules[0].Selector.Class != "l1" {
		t.Errorf("rules = %+v", sheet.Rules)
	}
	if len(sheet.Warnings) != 7 {
		t.Errorf("expected 7 warnings, got %d: %v", len(sheet.Warnings), sheet.Warnings)
	}
}

func TestStylesheet_Properties(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	sheet := p.Parse([]byte(`.h2 { font-size: 18pt; color: black } h2 { color: navy } .h2 { font-size: 16pt }`))

	props := sheet.Properties("h2")
	if props["font-size"].Value != 16 {
		t.Errorf("later rule must win, font-size = %+v", props["font-size"])
	}
	if props["color"].Keyword != "navy" {
		t.Errorf("color = %+v", props["color"])
	}
	if len(sheet.Properties("h3")) != 0 {
		t.Error("unexpected properties for h3")
	}
}

func TestStylesheet_String(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))
	sheet := p.Parse([]byte(`.pre{font-family:monospace;color:#333}.em{font-style:italic}`))

	want := ".pre {\n  color: #333;\n  font-family: monospace;\n}\n\n.em {\n  font-style: italic;\n}\n"
	if got := sheet.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	again := p.Parse([]byte(sheet.String()))
	if len(again.Rules) != 2 || !strings.Contains(again.String(), "italic") {
		t.Errorf("written stylesheet does not parse back: %+v", again.Rules)
	}
}

func TestValue_IsNumeric(t *testing.T) {
	tests := []struct {
		v    css.Value
		want bool
	}{
		{css.Value{Raw: "0"}, true},
		{css.Value{Raw: "12px", Value: 12, Unit: "px"}, true},
		{css.Value{Raw: "bold", Keyword: "bold"}, false},
		{css.Value{Raw: "-1"}, true},
		{css.Value{}, false},
	}
	for _, tt := range tests {
		if got := tt.v.IsNumeric(); got != tt.want {
			t.Errorf("%+v IsNumeric() = %v, want %v", tt.v, got, tt.want)
		}
	}
}
