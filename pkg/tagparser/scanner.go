// CLAUDE:SUMMARY Stateful tag-list scanner: splits a byte buffer on spaces and classifies tags by the ':' category separator.
package tagparser

import (
	"iter"

	"github.com/hazyhaar/tagsearch/pkg/mbchar"
)

const (
	separator         = ' '
	categorySeparator = ':'
)

// Scanner walks one document. It is owned by a single scan and must not be
// shared between goroutines.
type Scanner struct {
	buf     []byte
	pos     int
	charLen mbchar.CharLen
	closed  bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithCharLen sets the character-length function of the host encoding.
// The default is UTF-8.
func WithCharLen(cl mbchar.CharLen) Option {
	return func(s *Scanner) {
		if cl != nil {
			s.charLen = cl
		}
	}
}

// Start opens a scan over the first length bytes of buf. length is clamped
// to [0, len(buf)]. buf must not change while the scan is open.
func Start(buf []byte, length int, opts ...Option) *Scanner {
	if length < 0 {
		length = 0
	}
	if length > len(buf) {
		length = len(buf)
	}
	s := &Scanner{
		buf:     buf[:length:length],
		charLen: mbchar.UTF8,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Next returns the next token, or a Token of kind EndOfStream once the
// buffer is exhausted or the scanner has ended.
func (s *Scanner) Next() Token {
	if s.closed {
		return Token{}
	}

	var (
		start       int
		found       bool
		ended       bool
		hasCategory bool
	)
	for s.pos < len(s.buf) && !ended {
		rest := s.buf[s.pos:]
		n := mbchar.Len(rest, s.charLen)

		switch {
		case mbchar.IsByte(rest, n, separator):
			ended = found
		case mbchar.IsByte(rest, n, categorySeparator):
			// A colon before any content is consumed but not part of the span.
			hasCategory = true
		default:
			if !found {
				start = s.pos
				found = true
			}
		}
		s.pos += n
	}

	if !found {
		return Token{}
	}

	// The terminating space is consumed but excluded from the span.
	length := s.pos - start
	if ended {
		length--
	}
	kind := Plain
	if hasCategory {
		kind = CategoryQualified
	}
	return Token{Kind: kind, Offset: start, Length: length}
}

// Pos returns the scan cursor as a byte offset into the buffer.
func (s *Scanner) Pos() int {
	return s.pos
}

// End releases the scan. Further calls to Next return EndOfStream.
// Calling End more than once is harmless.
func (s *Scanner) End() {
	s.closed = true
	s.buf = nil
}

// Tokens scans buf and yields each token. The scan is ended when iteration
// finishes, including when the caller breaks out early.
func Tokens(buf []byte, opts ...Option) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		s := Start(buf, len(buf), opts...)
		defer s.End()
		for {
			tok := s.Next()
			if !tok.Found() || !yield(tok) {
				return
			}
		}
	}
}

// Parse scans buf and returns all of its tokens.
func Parse(buf []byte, opts ...Option) []Token {
	var tokens []Token
	for tok := range Tokens(buf, opts...) {
		tokens = append(tokens, tok)
	}
	return tokens
}
