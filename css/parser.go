// Package css parses the small subset of CSS used to describe presentation
// of style tags: simple selectors with declarations.
package css

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Parsing never fails, anything not
// understood is skipped and reported in Warnings.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Debug("CSS parse error", zap.Error(err))
				sheet.Warnings = append(sheet.Warnings, "parse error: "+err.Error())
			}
			return sheet

		case css.BeginAtRuleGrammar:
			p.warn(sheet, "unsupported @-rule block", string(data))
			p.skipAtRuleBlock(parser)

		case css.AtRuleGrammar:
			p.warn(sheet, "unsupported @-rule", string(data))

		case css.BeginRulesetGrammar:
			selectors := p.parseSelectors(data, parser.Values())
			props := p.parseDeclarations(parser)
			for _, s := range selectors {
				sel := p.parseSelector(s, sheet)
				if !sel.IsSimple() {
					continue
				}
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Properties: maps.Clone(props)})
			}

		case css.QualifiedRuleGrammar:
			// selector without block, ignored
			p.warn(sheet, "qualified rule without declarations", string(data))
		}
	}
}

func (p *Parser) warn(sheet *Stylesheet, what, detail string) {
	sheet.Warnings = append(sheet.Warnings, what+": "+detail)
	p.log.Debug("Skipping CSS construct", zap.String("reason", what), zap.String("detail", detail))
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) map[string]Value {
	props := make(map[string]Value)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props
		case css.DeclarationGrammar:
			if values := parser.Values(); len(values) > 0 {
				props[strings.ToLower(string(data))] = parsePropertyValue(values)
			}
		}
	}
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	val := Value{Raw: strings.TrimSpace(sb.String())}

	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == css.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// color
			val.Keyword = strings.ToLower(string(t.Data))
		}
		return val
	}

	// functions (rgb(), etc.) and multi-value properties
	val.Keyword = val.Raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	return num, strings.ToLower(s[numEnd:])
}

// parseSelector parses a single selector string. Only element, class and
// element.class forms are supported.
func (p *Parser) parseSelector(selStr string, sheet *Stylesheet) Selector {
	sel := Selector{Raw: strings.TrimSpace(selStr)}

	switch {
	case strings.ContainsAny(sel.Raw, "+~>"):
		p.warn(sheet, "unsupported combinator selector", sel.Raw)
		return sel
	case strings.Contains(sel.Raw, "["):
		p.warn(sheet, "unsupported attribute selector", sel.Raw)
		return sel
	case strings.Contains(sel.Raw, ":"):
		p.warn(sheet, "unsupported pseudo selector", sel.Raw)
		return sel
	case strings.ContainsAny(sel.Raw, " \t\n"):
		p.warn(sheet, "unsupported descendant selector", sel.Raw)
		return sel
	case strings.Count(sel.Raw, ".") > 1:
		p.warn(sheet, "unsupported compound selector", sel.Raw)
		return sel
	}

	if element, class, found := strings.Cut(sel.Raw, "."); found {
		sel.Element = element
		sel.Class = class
	} else {
		sel.Element = sel.Raw
	}
	if sel.Element == "*" {
		sel.Element = ""
	}
	return sel
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
