// CLAUDE:SUMMARY Tag dictionary: lowercases a token and, when split_tags is on, derives the value-only lexeme after the first ':'.
package tagdict

import (
	"github.com/hazyhaar/tagsearch/pkg/mbchar"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lexeme ranks.
const (
	RankBase  = 1 // the whole lowercased token
	RankValue = 2 // the text after the category separator
)

// Lexeme is one normalized unit to index.
type Lexeme struct {
	Rank int    `json:"rank"`
	Text string `json:"text"`
}

// Lowerer lowercases UTF-8 text.
type Lowerer func(string) string

// LowerLocale returns a Lowerer using the casing rules of tag.
// A cases.Caser keeps state, so each call builds its own.
func LowerLocale(tag language.Tag) Lowerer {
	return func(s string) string {
		return cases.Lower(tag).String(s)
	}
}

var defaultLowerer = LowerLocale(language.Und)

// Dictionary normalizes tag tokens. It is immutable once built and safe for
// concurrent use.
type Dictionary struct {
	cfg   Config
	lower Lowerer
	codec mbchar.Codec
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithLocale lowercases with the casing rules of a language (e.g. Turkish
// dotted/dotless i).
func WithLocale(tag language.Tag) Option {
	return func(d *Dictionary) { d.lower = LowerLocale(tag) }
}

// WithLowerer replaces the lowercasing service.
func WithLowerer(l Lowerer) Option {
	return func(d *Dictionary) {
		if l != nil {
			d.lower = l
		}
	}
}

// WithCodec sets the host encoding of the tokens passed to Lexize.
func WithCodec(c mbchar.Codec) Option {
	return func(d *Dictionary) {
		if c.CharLen != nil {
			d.codec = c
		}
	}
}

// New validates params and builds a Dictionary.
func New(params []Param, opts ...Option) (*Dictionary, error) {
	cfg, err := BuildConfig(params)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, opts...), nil
}

// NewWithConfig builds a Dictionary from an already validated Config.
func NewWithConfig(cfg Config, opts ...Option) *Dictionary {
	d := &Dictionary{
		cfg:   cfg,
		lower: defaultLowerer,
		codec: mbchar.UTF8Codec,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Config returns the dictionary's configuration.
func (d *Dictionary) Config() Config {
	return d.cfg
}

// Lexize normalizes one token. The first lexeme is always the lowercased
// token. With split_tags on and a ':' present, a second lexeme holds the
// lowercased text after the first ':'.
func (d *Dictionary) Lexize(token []byte) []Lexeme {
	lowered := d.lowerBytes(token)

	res := make([]Lexeme, 1, 2)
	res[0] = Lexeme{Rank: RankBase, Text: string(lowered)}
	if !d.cfg.SplitTags {
		return res
	}

	for off, n := range mbchar.Chars(lowered, d.codec.CharLen) {
		if mbchar.IsByte(lowered[off:], n, ':') {
			return append(res, Lexeme{Rank: RankValue, Text: string(lowered[off+n:])})
		}
	}
	return res
}

func (d *Dictionary) lowerBytes(b []byte) []byte {
	if d.codec.IsUTF8() {
		return []byte(d.lower(string(b)))
	}

	// Runs of valid characters are lowercased together so that
	// context-dependent casing still applies. Invalid characters are
	// copied through unchanged.
	out := make([]byte, 0, len(b))
	runStart := -1
	for off, n := range mbchar.Chars(b, d.codec.CharLen) {
		if _, ok := d.codec.DecodeChar(b[off : off+n]); ok {
			if runStart < 0 {
				runStart = off
			}
			continue
		}
		if runStart >= 0 {
			out = append(out, d.lowerRun(b[runStart:off])...)
			runStart = -1
		}
		out = append(out, b[off:off+n]...)
	}
	if runStart >= 0 {
		out = append(out, d.lowerRun(b[runStart:])...)
	}
	return out
}

// lowerRun lowercases host-encoded text made of valid characters. A
// character whose lowercase form the encoding cannot store is kept as is.
func (d *Dictionary) lowerRun(run []byte) []byte {
	if lowered, err := d.codec.Encode([]byte(d.lower(string(d.codec.Decode(run))))); err == nil {
		return lowered
	}
	out := make([]byte, 0, len(run))
	for off, n := range mbchar.Chars(run, d.codec.CharLen) {
		ch := run[off : off+n]
		if lowered, err := d.codec.Encode([]byte(d.lower(string(d.codec.Decode(ch))))); err == nil {
			out = append(out, lowered...)
		} else {
			out = append(out, ch...)
		}
	}
	return out
}

// Lexize normalizes token with cfg, using UTF-8 and root-locale lowercasing.
func Lexize(cfg Config, token []byte) []Lexeme {
	return NewWithConfig(cfg).Lexize(token)
}
