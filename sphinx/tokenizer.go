package sphinx

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// EventKind is the kind of markup event produced by Tokenizer.
type EventKind int

const (
	EventStartTag EventKind = iota
	EventEndTag
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventStartTag:
		return "start"
	case EventEndTag:
		return "end"
	case EventText:
		return "text"
	}
	return "unknown"
}

// Event is a single markup event. For tag events Name is lower-cased tag name
// and Attrs holds unescaped attribute values, for text events Text holds
// unescaped character data.
type Event struct {
	Kind   EventKind
	Name   string
	Attrs  map[string]string
	Text   string
	Offset int
}

// Attr returns attribute value or empty string when attribute is absent.
func (e Event) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// Tokenizer turns HTML bytes into a pull-based sequence of events.
//
// Leniency rules: character references are decoded, tag and attribute names
// are lower-cased, unknown and unbalanced tags are passed through unchanged,
// comments and doctype are dropped, self-closing tags produce start and end
// events, raw text of script and style elements is reported as text, when
// attribute is repeated the last value wins. Errors are only reported for
// invalid UTF-8 input or when single token exceeds buffer limit.
type Tokenizer struct {
	z       *html.Tokenizer
	data    []byte
	offset  int
	pending *Event
	checked bool
	err     error
}

// NewTokenizer returns tokenizer for fully loaded document. When maxBuf is
// positive, single token larger than maxBuf bytes is a fatal error.
func NewTokenizer(data []byte, maxBuf int) *Tokenizer {
	z := html.NewTokenizer(bytes.NewReader(data))
	if maxBuf > 0 {
		z.SetMaxBuf(maxBuf)
	}
	return &Tokenizer{z: z, data: data}
}

// Next returns next event. At the end of input it returns io.EOF, any other
// error is *ParseError.
func (t *Tokenizer) Next() (Event, error) {
	if t.err != nil {
		return Event{}, t.err
	}
	if !t.checked {
		t.checked = true
		if pos := invalidUTF8(t.data); pos >= 0 {
			t.err = &ParseError{Offset: pos, Err: ErrInvalidEncoding}
			return Event{}, t.err
		}
	}
	if t.pending != nil {
		ev := *t.pending
		t.pending = nil
		return ev, nil
	}

	for {
		tt := t.z.Next()
		start := t.offset
		t.offset += len(t.z.Raw())

		switch tt {
		case html.ErrorToken:
			err := t.z.Err()
			if errors.Is(err, io.EOF) {
				t.err = io.EOF
			} else {
				t.err = &ParseError{Offset: start, Err: err}
			}
			return Event{}, t.err

		case html.TextToken:
			return Event{Kind: EventText, Text: string(t.z.Text()), Offset: start}, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := t.z.Token()
			ev := Event{Kind: EventStartTag, Name: tok.Data, Offset: start}
			if len(tok.Attr) > 0 {
				ev.Attrs = make(map[string]string, len(tok.Attr))
				for _, a := range tok.Attr {
					ev.Attrs[a.Key] = a.Val
				}
			}
			if tt == html.SelfClosingTagToken {
				t.pending = &Event{Kind: EventEndTag, Name: tok.Data, Offset: start}
			}
			return ev, nil

		case html.EndTagToken:
			name, _ := t.z.TagName()
			return Event{Kind: EventEndTag, Name: string(name), Offset: start}, nil

		default:
			// comments and doctype
			continue
		}
	}
}

// invalidUTF8 returns offset of the first byte which is not part of a valid
// UTF-8 sequence or -1.
func invalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
