package sphinx

import "unicode/utf8"

// emitter appends runs to the output strictly in call order.
type emitter struct {
	runs   []TextRun
	offset int // runes emitted so far
}

// emit appends content styled by current state. Nothing is emitted while
// state is not visible.
func (e *emitter) emit(s *ParserState, content string) {
	if !s.Visible || len(content) == 0 {
		return
	}
	e.runs = append(e.runs, TextRun{Content: content, Indent: s.Indent, Style: s.Style})
	e.offset += utf8.RuneCountInString(content)
}

// mark returns anchor for the current end of output.
func (e *emitter) mark(id AnchorID) Anchor {
	return Anchor{ID: id, Run: len(e.runs), Offset: e.offset}
}
