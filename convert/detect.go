package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// how much of the file is looked at
const headerSize = 1024

var typeHTML = filetype.NewType("html", "text/html")

func init() {
	filetype.AddMatcher(typeHTML, isHTML)
}

// isHTML expects UTF-8 data without BOM, markup must come first.
func isHTML(buf []byte) bool {
	head := bytes.ToLower(bytes.TrimLeft(buf, " \t\r\n"))
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(head, []byte("<!doctype html")) || bytes.Contains(head, []byte("<html"))
}

var htmlExtensions = []string{".html", ".htm", ".xhtml"}

func hasHTMLExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range htmlExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf, err := readHeader(f)
	if err != nil {
		return false, err
	}
	kind, _ := filetype.Match(buf)
	return kind == matchers.TypeZip, nil
}

// isPageFile checks if file is HTML page judging by its name and content.
// Returned encoding is based on BOM only.
func isPageFile(path string) (bool, srcEncoding, error) {
	if !hasHTMLExt(path) {
		return false, encUnknown, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	buf, err := readHeader(f)
	if err != nil {
		return false, encUnknown, err
	}
	return detectPage(buf)
}

func isPageInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !hasHTMLExt(f.Name) {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	buf, err := readHeader(r)
	if err != nil {
		return false, encUnknown, err
	}
	return detectPage(buf)
}

func detectPage(buf []byte) (bool, srcEncoding, error) {
	// binary data with misleading extension
	if kind, _ := filetype.Match(buf); kind != filetype.Unknown && kind != typeHTML {
		return false, encUnknown, nil
	}
	enc := detectUTF(buf)
	// partial header, decoding error at the cut is expected
	head, _ := io.ReadAll(selectReader(bytes.NewReader(buf), enc))
	kind, _ := filetype.Match(head)
	return kind == typeHTML, enc, nil
}

func readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	// must be checked before UTF-16 LE, BOMs share prefix
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader producing UTF-8 without BOM.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	}
	// this should never happen
	panic("unsupported encoding")
}
