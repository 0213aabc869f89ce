package content

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"sphv/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the whole Content starting with source
// information. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Content src=%q id=%s size=%d", c.SrcName, c.ID, c.Size)
	tw.Line(1, "Title: %q", c.Meta.Title)
	tw.Line(1, "Generator: %q", c.Meta.Generator)
	tw.Line(1, "Lang: %q encoding: %q", c.Meta.Lang, c.Meta.Encoding)
	tw.Line(1, "Containers: content=%d navigation=%d", c.Meta.Sections, c.Meta.Sidebars)

	if c.Doc == nil {
		return tw.String()
	}

	stats := tagStats(c)
	if len(stats) > 0 {
		tw.Line(1, "Style tags: %d", len(stats))
		keys := slices.Collect(maps.Keys(stats))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.Line(2, "Tag[%q] runs=%d", k, stats[k])
		}
	}
	return tw.String() + "\n" + c.Doc.String()
}

func tagStats(c *Content) map[string]int {
	stats := make(map[string]int)
	for _, r := range c.Doc.Runs {
		for _, t := range r.Tags() {
			stats[t]++
		}
	}
	return stats
}
