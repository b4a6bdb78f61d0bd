// CLAUDE:SUMMARY Host text encodings resolved through htmlindex: per-encoding character length plus UTF-8 transcoding.
package mbchar

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrUnrepresentable is returned when text holds characters the host
// encoding cannot store.
var ErrUnrepresentable = errors.New("character not representable in encoding")

// Codec is a host text encoding: how to measure its characters and how to
// move text between it and UTF-8.
type Codec struct {
	Name    string
	CharLen CharLen
	enc     encoding.Encoding // nil for UTF-8
}

// UTF8Codec is the default host encoding.
var UTF8Codec = Codec{Name: "utf-8", CharLen: UTF8}

// LookupCodec resolves an encoding label (e.g. "UTF8", "latin1", "Shift_JIS")
// to a Codec. An empty label selects UTF-8.
func LookupCodec(label string) (Codec, error) {
	if isUTF8(label) {
		return UTF8Codec, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return Codec{}, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return Codec{}, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}

	if _, ok := enc.(*charmap.Charmap); ok {
		return Codec{Name: name, CharLen: SingleByte, enc: enc}, nil
	}

	var cl CharLen
	switch name {
	case "utf-8":
		return UTF8Codec, nil
	case "shift_jis":
		cl = shiftJISLen
	case "euc-jp":
		cl = eucJPLen
	case "euc-kr", "gbk", "big5":
		cl = doubleByteLen
	case "gb18030":
		cl = gb18030Len
	default:
		return Codec{}, fmt.Errorf("unsupported encoding %q: no character length rule for %s", label, name)
	}
	return Codec{Name: name, CharLen: cl, enc: enc}, nil
}

// IsUTF8 reports whether the codec stores text as UTF-8.
func (c Codec) IsUTF8() bool {
	return c.enc == nil
}

// Decode converts text in this encoding to UTF-8. Invalid sequences become
// U+FFFD.
func (c Codec) Decode(b []byte) []byte {
	if c.enc == nil {
		return b
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return b
	}
	return out
}

// Encode converts UTF-8 text to this encoding. Text holding a character
// the encoding cannot represent is rejected with ErrUnrepresentable.
func (c Codec) Encode(b []byte) ([]byte, error) {
	if c.enc == nil {
		return b, nil
	}
	out, err := c.enc.NewEncoder().Bytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrUnrepresentable)
	}
	return out, nil
}

// DecodeChar decodes one host character to UTF-8. ok is false when ch is
// not a valid character of the encoding.
func (c Codec) DecodeChar(ch []byte) (r []byte, ok bool) {
	if c.enc == nil {
		return ch, utf8.Valid(ch)
	}
	out, err := c.enc.NewDecoder().Bytes(ch)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return nil, false
	}
	return out, true
}

func isUTF8(label string) bool {
	e := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), "-", ""))
	return e == "utf8" || e == ""
}

func shiftJISLen(b []byte) int {
	switch c := b[0]; {
	case c >= 0x81 && c <= 0x9f, c >= 0xe0 && c <= 0xfc:
		return 2
	default:
		return 1
	}
}

func eucJPLen(b []byte) int {
	switch c := b[0]; {
	case c == 0x8e:
		return 2
	case c == 0x8f:
		return 3
	case c >= 0x80:
		return 2
	default:
		return 1
	}
}

func doubleByteLen(b []byte) int {
	if b[0] >= 0x80 {
		return 2
	}
	return 1
}

// gb18030Len distinguishes two-byte and four-byte sequences by the second byte.
func gb18030Len(b []byte) int {
	if b[0] < 0x80 {
		return 1
	}
	if len(b) > 1 && b[1] >= 0x30 && b[1] <= 0x39 {
		return 4
	}
	return 2
}
