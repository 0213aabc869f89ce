package css

import (
	"fmt"
	"io"
	"maps"
	"sort"
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // original value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // numeric value if applicable
	Unit    string  // unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // keyword if applicable: "bold", "italic", "#eeffcc", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		c := rune(v.Raw[0])
		return unicode.IsDigit(c) || c == '.' || c == '-' || c == '+'
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Selector represents a parsed simple CSS selector: element, class or
// element.class.
type Selector struct {
	Raw     string
	Element string
	Class   string
}

// IsSimple returns true if selector was understood.
func (s Selector) IsSimple() bool {
	return s.Element != "" || s.Class != ""
}

// Name returns the name rule is attached to, class takes precedence over
// element.
func (s Selector) Name() string {
	if s.Class != "" {
		return s.Class
	}
	return s.Element
}

// Rule represents a single CSS rule (selector + properties).
type Rule struct {
	Selector   Selector
	Properties map[string]Value
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Rules    []Rule   // rules in source order
	Warnings []string // unsupported constructs which were skipped
}

// RulesBySelector returns all rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, r := range s.Rules {
		if r.Selector.Raw == selector {
			matches = append(matches, r)
		}
	}
	return matches
}

// Properties returns cascaded properties for the name (see Selector.Name),
// later rules override earlier ones.
func (s *Stylesheet) Properties(name string) map[string]Value {
	props := make(map[string]Value)
	for _, r := range s.Rules {
		if r.Selector.Name() != name {
			continue
		}
		maps.Copy(props, r.Properties)
	}
	return props
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Property order within a rule is sorted alphabetically for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		if i > 0 {
			n, err := io.WriteString(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := writeRule(w, &s.Rules[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule) (int, error) {
	names := make([]string, 0, len(rule.Properties))
	for name := range rule.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s {\n", rule.Selector.Raw)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %s;\n", name, rule.Properties[name].Raw)
	}
	sb.WriteString("}\n")
	return io.WriteString(w, sb.String())
}
