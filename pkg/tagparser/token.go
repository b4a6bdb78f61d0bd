// CLAUDE:SUMMARY Token kinds, the token span type, and the static token-type descriptor table.
package tagparser

import "fmt"

// Kind classifies the result of a scan step.
type Kind int

const (
	// EndOfStream means the buffer held no further token.
	EndOfStream Kind = iota
	// Plain is a tag without a category separator.
	Plain
	// CategoryQualified is a tag written as category:value.
	CategoryQualified
)

// Category aliases used by hosts that register token types by name.
const (
	AliasTag     = "tag"
	AliasFullTag = "fulltag"
)

func (k Kind) String() string {
	switch k {
	case EndOfStream:
		return "end"
	case Plain:
		return AliasTag
	case CategoryQualified:
		return AliasFullTag
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a span of the scanned buffer. It borrows the buffer: Offset and
// Length index into it and nothing is copied.
type Token struct {
	Kind   Kind
	Offset int
	Length int
}

// Found reports whether the token carries a span.
func (t Token) Found() bool {
	return t.Kind != EndOfStream
}

// Text returns the token's bytes within buf, the buffer it was scanned from.
func (t Token) Text(buf []byte) []byte {
	if !t.Found() {
		return nil
	}
	return buf[t.Offset : t.Offset+t.Length]
}

// Descriptor describes one token type for host registration.
type Descriptor struct {
	ID          int    `json:"id"`
	Alias       string `json:"alias"`
	Description string `json:"description"`
}

var descriptors = [...]Descriptor{
	{ID: int(Plain), Alias: AliasTag, Description: "A tag"},
	{ID: int(CategoryQualified), Alias: AliasFullTag, Description: "A tag with category"},
}

// Categories returns the token types this parser emits, ordered by ID.
// The result is a fresh copy; callers may modify it.
func Categories() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors[:])
	return out
}

// Describe returns the descriptor for a token kind.
func Describe(k Kind) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == int(k) {
			return d, true
		}
	}
	return Descriptor{}, false
}
