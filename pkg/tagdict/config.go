// CLAUDE:SUMMARY Dictionary parameters: parsing, validation, and the immutable Config built from them.
package tagdict

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ParamSplitTags enables the value-only lexeme for category:value tags.
const ParamSplitTags = "split_tags"

var (
	ErrDuplicateOption    = errors.New("multiple split_tags parameters")
	ErrUnrecognizedOption = errors.New("unrecognized dictionary parameter")
)

// ConfigError reports a rejected dictionary parameter.
type ConfigError struct {
	Param string
	Err   error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, ErrUnrecognizedOption) {
		return fmt.Sprintf("%v: %q", e.Err, e.Param)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Param is one name/value dictionary parameter, in the order given.
type Param struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Config is the validated dictionary configuration. It is never modified
// after BuildConfig and may be shared freely between goroutines.
type Config struct {
	SplitTags bool `json:"split_tags"`
}

// BuildConfig validates params and builds a Config. Parameter names are
// matched case-insensitively. A missing split_tags leaves splitting off.
func BuildConfig(params []Param) (Config, error) {
	var (
		cfg    Config
		loaded bool
	)
	for _, p := range params {
		if !strings.EqualFold(p.Name, ParamSplitTags) {
			return Config{}, &ConfigError{Param: p.Name, Err: ErrUnrecognizedOption}
		}
		if loaded {
			return Config{}, &ConfigError{Param: p.Name, Err: ErrDuplicateOption}
		}
		cfg.SplitTags = atoi(p.Value) != 0
		loaded = true
	}
	return cfg, nil
}

// ParseParams parses a comma-separated parameter list such as
// "split_tags = 1, other = 'x'". Values may be wrapped in single or double
// quotes. Duplicates are kept so BuildConfig can reject them.
func ParseParams(s string) ([]Param, error) {
	var params []Param
	for _, item := range splitParams(s) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q: missing '='", item)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("parameter %q: missing name", item)
		}
		params = append(params, Param{Name: name, Value: unquote(strings.TrimSpace(value))})
	}
	return params, nil
}

// splitParams splits s on commas that are not inside quotes.
func splitParams(s string) []string {
	var (
		items []string
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			items = append(items, s[start:i])
			start = i + 1
		}
	}
	return append(items, s[start:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// atoi parses the leading integer of s the way C atoi does: leading blanks
// and a sign are accepted, parsing stops at the first non-digit, and text
// without digits yields 0.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int(s[i] - '0')
		if n > (math.MaxInt32-d)/10 {
			n = math.MaxInt32
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
