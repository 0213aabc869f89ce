package content

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

var (
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// decode returns UTF-8 representation of the document and name of the
// detected source encoding.
//
// BOM and explicitly declared charset are always honored. Undeclared input
// is expected to be UTF-8 and is returned unchanged, so that invalid
// sequences are reported by conversion rather than silently reinterpreted.
func decode(data []byte) ([]byte, string, error) {
	var (
		enc  encoding.Encoding
		name string
	)
	switch {
	// charset package does not know about UTF-32 BOMs, must be checked
	// before UTF-16 LE which shares prefix
	case bytes.HasPrefix(data, bomUTF32BE):
		enc, name = utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM), "utf-32be"
	case bytes.HasPrefix(data, bomUTF32LE):
		enc, name = utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM), "utf-32le"
	case bytes.HasPrefix(data, bomUTF8):
		enc, name = unicode.UTF8BOM, "utf-8"
	default:
		e, n, certain := charset.DetermineEncoding(data, "text/html")
		switch {
		case n == "utf-8", e == nil:
			return data, "utf-8", nil
		case !certain && n == "windows-1252" && !declaresCharset(data):
			// fallback guess, not a declaration
			if !utf8.Valid(data) {
				return data, "unknown", nil
			}
			return data, "utf-8", nil
		}
		enc, name = e, n
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, name, fmt.Errorf("unable to decode %s input: %w", name, err)
	}
	// some decoders keep BOM as U+FEFF
	return bytes.TrimPrefix(out, bomUTF8), name, nil
}

// declaresCharset checks whether document head has any charset declaration,
// prescan looks at the same 1024 bytes.
func declaresCharset(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("charset"))
}
