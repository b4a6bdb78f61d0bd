package tagdict

import (
	"errors"
	"testing"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
		want   bool
	}{
		{"empty", nil, false},
		{"enabled", []Param{{"split_tags", "1"}}, true},
		{"disabled", []Param{{"split_tags", "0"}}, false},
		{"nonzero", []Param{{"split_tags", "2"}}, true},
		{"negative", []Param{{"split_tags", "-1"}}, true},
		{"non-numeric", []Param{{"split_tags", "yes"}}, false},
		{"leading digits", []Param{{"split_tags", "1abc"}}, true},
		{"leading blanks", []Param{{"split_tags", "  3"}}, true},
		{"empty value", []Param{{"split_tags", ""}}, false},
		{"case-insensitive name", []Param{{"Split_Tags", "1"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := BuildConfig(tt.params)
			if err != nil {
				t.Fatalf("BuildConfig(%v): %v", tt.params, err)
			}
			if cfg.SplitTags != tt.want {
				t.Errorf("BuildConfig(%v).SplitTags = %v, want %v", tt.params, cfg.SplitTags, tt.want)
			}
		})
	}
}

func TestBuildConfig_Duplicate(t *testing.T) {
	_, err := BuildConfig([]Param{{"split_tags", "1"}, {"split_tags", "2"}})
	if !errors.Is(err, ErrDuplicateOption) {
		t.Fatalf("err = %v, want ErrDuplicateOption", err)
	}
	if err.Error() != "multiple split_tags parameters" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestBuildConfig_Unrecognized(t *testing.T) {
	_, err := BuildConfig([]Param{{"unknown", "x"}})
	if !errors.Is(err, ErrUnrecognizedOption) {
		t.Fatalf("err = %v, want ErrUnrecognizedOption", err)
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("err is %T, want *ConfigError", err)
	}
	if cerr.Param != "unknown" {
		t.Errorf("Param = %q, want unknown", cerr.Param)
	}
	if err.Error() != `unrecognized dictionary parameter: "unknown"` {
		t.Errorf("message = %q", err.Error())
	}
}

func TestBuildConfig_UnrecognizedAfterValid(t *testing.T) {
	_, err := BuildConfig([]Param{{"split_tags", "1"}, {"stemmer", "porter"}})
	if !errors.Is(err, ErrUnrecognizedOption) {
		t.Errorf("err = %v, want ErrUnrecognizedOption", err)
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		input string
		want  []Param
	}{
		{"", nil},
		{"split_tags=1", []Param{{"split_tags", "1"}}},
		{" split_tags = '1' ", []Param{{"split_tags", "1"}}},
		{`split_tags = "0", other = x`, []Param{{"split_tags", "0"}, {"other", "x"}}},
		{"split_tags=1,split_tags=2", []Param{{"split_tags", "1"}, {"split_tags", "2"}}},
		{"split_tags=", []Param{{"split_tags", ""}}},
		{"split_tags = '1,2'", []Param{{"split_tags", "1,2"}}},
		{`a = "x, y", b = 'p,q'`, []Param{{"a", "x, y"}, {"b", "p,q"}}},
	}
	for _, tt := range tests {
		got, err := ParseParams(tt.input)
		if err != nil {
			t.Errorf("ParseParams(%q): %v", tt.input, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseParams(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseParams(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseParams_Invalid(t *testing.T) {
	for _, input := range []string{"split_tags", "=1", "a=1, b", "a='1,2', b"} {
		if _, err := ParseParams(input); err == nil {
			t.Errorf("ParseParams(%q): expected error", input)
		}
	}
}

func TestAtoi(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"0", 0},
		{"1", 1},
		{"42", 42},
		{"-7", -7},
		{"+3", 3},
		{"abc", 0},
		{"12abc", 12},
		{"\t 5", 5},
		{"1.9", 1},
		{"", 0},
		{"-", 0},
		{"2147483647", 2147483647},
		{"99999999999", 2147483647},
		{"-99999999999", -2147483647},
	}
	for _, tt := range tests {
		if got := atoi(tt.input); got != tt.want {
			t.Errorf("atoi(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
