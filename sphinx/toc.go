package sphinx

import "strings"

// tocBuilder collects table of contents entries in document order.
type tocBuilder struct {
	entries []TocEntry
}

// begin is called right before separator preceding level 2 or 3 heading is
// emitted. It resets title accumulator and remembers anchor.
func (b *tocBuilder) begin(s *ParserState, out *emitter) {
	s.heading.Reset()
	a := out.mark(s.nextID)
	s.pending = &a
}

// collect accumulates heading text.
func (b *tocBuilder) collect(s *ParserState, text string) {
	s.heading.WriteString(text)
}

// finish completes entry for the pending anchor and advances anchor counter.
func (b *tocBuilder) finish(s *ParserState) {
	if s.pending == nil {
		return
	}
	b.entries = append(b.entries, TocEntry{
		Anchor: *s.pending,
		Title:  strings.TrimSpace(s.heading.String()),
	})
	s.pending = nil
	s.nextID++
}
