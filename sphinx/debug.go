package sphinx

import (
	"fmt"

	"sphv/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the converted document. It exists solely
// for manual inspection during debugging.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	tw := treeWriter{debug.NewTreeWriter()}

	tw.Line(0, "Document runs=%d toc=%d runes=%d", len(d.Runs), len(d.TOC), d.Len())
	if len(d.TOC) > 0 {
		tw.Line(1, "TOC")
		for _, e := range d.TOC {
			tw.Line(2, "%s run=%d offset=%d", e.Anchor.ID, e.Anchor.Run, e.Anchor.Offset)
			tw.TextBlock(3, "Title", e.Title)
		}
	}
	for i, r := range d.Runs {
		tw.Tags(1, fmt.Sprintf("Run[%d]", i), r.Tags())
		tw.TextBlock(2, "Content", r.Content)
	}
	return tw.String()
}
