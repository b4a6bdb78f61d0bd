// CLAUDE:SUMMARY Character-length service: byte length of the character at a position, and a character-boundary iterator.
package mbchar

import (
	"iter"
	"unicode/utf8"
)

// CharLen returns the byte length of the character starting at b[0].
// It must return at least 1 for non-empty input.
type CharLen func(b []byte) int

// UTF8 measures UTF-8 characters. An invalid or truncated sequence counts
// as a single byte so scanning always makes progress.
func UTF8(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	if b[0] < utf8.RuneSelf {
		return 1
	}
	_, size := utf8.DecodeRune(b)
	return size
}

// SingleByte measures encodings where every character is one byte.
func SingleByte(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	return 1
}

// Chars yields the offset and byte size of every character in b.
// A size that would run past the end of b is clamped to the bytes left.
func Chars(b []byte, charLen CharLen) iter.Seq2[int, int] {
	if charLen == nil {
		charLen = UTF8
	}
	return func(yield func(int, int) bool) {
		for off := 0; off < len(b); {
			n := Len(b[off:], charLen)
			if !yield(off, n) {
				return
			}
			off += n
		}
	}
}

// Len applies charLen to b and clamps the result to [1, len(b)].
func Len(b []byte, charLen CharLen) int {
	if len(b) == 0 {
		return 0
	}
	n := charLen(b)
	if n < 1 {
		return 1
	}
	if n > len(b) {
		return len(b)
	}
	return n
}

// IsByte reports whether the character at b[0] is the single-byte character c.
// Multi-byte characters never match, whatever their lead byte.
func IsByte(b []byte, n int, c byte) bool {
	return n == 1 && len(b) > 0 && b[0] == c
}
