// CLAUDE:SUMMARY A text-search configuration: runs the tag parser over a document and feeds each token to the tag dictionary.
package tsconfig

import (
	"fmt"

	"github.com/hazyhaar/tagsearch/pkg/mbchar"
	"github.com/hazyhaar/tagsearch/pkg/tagdict"
	"github.com/hazyhaar/tagsearch/pkg/tagparser"
	"golang.org/x/text/language"
)

// Configuration pairs the tag parser with a built tag dictionary.
// It is immutable once built and safe for concurrent use.
type Configuration struct {
	Manifest *Manifest
	codec    mbchar.Codec
	dict     *tagdict.Dictionary
}

// NewConfiguration validates a manifest and builds its dictionary.
func NewConfiguration(m *Manifest) (*Configuration, error) {
	codec, err := mbchar.LookupCodec(m.Encoding)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", m.ID, err)
	}

	opts := []tagdict.Option{tagdict.WithCodec(codec)}
	if m.Locale != "" {
		tag, err := language.Parse(m.Locale)
		if err != nil {
			return nil, fmt.Errorf("config %s: locale %q: %w", m.ID, m.Locale, err)
		}
		opts = append(opts, tagdict.WithLocale(tag))
	}

	d, err := tagdict.New(m.Dictionary, opts...)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", m.ID, err)
	}
	return &Configuration{Manifest: m, codec: codec, dict: d}, nil
}

// ParsedToken is one token of a parsed document.
type ParsedToken struct {
	ID     int    `json:"tokid"`
	Alias  string `json:"alias"`
	Offset int    `json:"offset"`
	Text   string `json:"token"`
}

// DebugToken is one token together with the lexemes the dictionary derived
// from it.
type DebugToken struct {
	Alias       string           `json:"alias"`
	Description string           `json:"description"`
	Offset      int              `json:"offset"`
	Token       string           `json:"token"`
	Lexemes     []tagdict.Lexeme `json:"lexemes"`
}

// Parse splits text into tag tokens. Offsets are byte offsets in the
// configuration's encoding. Text the encoding cannot represent is rejected
// with mbchar.ErrUnrepresentable.
func (c *Configuration) Parse(text string) ([]ParsedToken, error) {
	buf, err := c.codec.Encode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", c.Manifest.ID, err)
	}
	tokens := []ParsedToken{}
	for tok := range tagparser.Tokens(buf, tagparser.WithCharLen(c.codec.CharLen)) {
		tokens = append(tokens, ParsedToken{
			ID:     int(tok.Kind),
			Alias:  tok.Kind.String(),
			Offset: tok.Offset,
			Text:   string(c.codec.Decode(tok.Text(buf))),
		})
	}
	return tokens, nil
}

// Lexize normalizes a single term, as done for query terms.
func (c *Configuration) Lexize(term string) ([]tagdict.Lexeme, error) {
	buf, err := c.codec.Encode([]byte(term))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", c.Manifest.ID, err)
	}
	return c.decodeLexemes(c.dict.Lexize(buf)), nil
}

// Debug parses text and lexizes every token.
func (c *Configuration) Debug(text string) ([]DebugToken, error) {
	buf, err := c.codec.Encode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", c.Manifest.ID, err)
	}
	out := []DebugToken{}
	for tok := range tagparser.Tokens(buf, tagparser.WithCharLen(c.codec.CharLen)) {
		raw := tok.Text(buf)
		d, _ := tagparser.Describe(tok.Kind)
		out = append(out, DebugToken{
			Alias:       d.Alias,
			Description: d.Description,
			Offset:      tok.Offset,
			Token:       string(c.codec.Decode(raw)),
			Lexemes:     c.decodeLexemes(c.dict.Lexize(raw)),
		})
	}
	return out, nil
}

// Lexemes returns the distinct non-empty lexemes of a document in
// first-seen order, the set a host would index for it.
func (c *Configuration) Lexemes(text string) ([]string, error) {
	tokens, err := c.Debug(text)
	if err != nil {
		return nil, err
	}
	return DistinctLexemes(tokens), nil
}

// DistinctLexemes collects the non-empty lexemes of tokens in first-seen
// order, without repeats.
func DistinctLexemes(tokens []DebugToken) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, tok := range tokens {
		for _, lx := range tok.Lexemes {
			if lx.Text == "" || seen[lx.Text] {
				continue
			}
			seen[lx.Text] = true
			out = append(out, lx.Text)
		}
	}
	return out
}

// SplitTags reports whether the dictionary emits value-only lexemes.
func (c *Configuration) SplitTags() bool {
	return c.dict.Config().SplitTags
}

// Encoding returns the canonical name of the configuration's encoding.
func (c *Configuration) Encoding() string {
	return c.codec.Name
}

func (c *Configuration) decodeLexemes(lx []tagdict.Lexeme) []tagdict.Lexeme {
	if c.codec.IsUTF8() {
		return lx
	}
	for i := range lx {
		lx[i].Text = string(c.codec.Decode([]byte(lx[i].Text)))
	}
	return lx
}
