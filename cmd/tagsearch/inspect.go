// CLAUDE:SUMMARY CLI subcommands that parse or lexize tag lists against a loaded or ad-hoc configuration and print JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/tagsearch/pkg/tagdict"
	"github.com/hazyhaar/tagsearch/pkg/tagparser"
	"github.com/hazyhaar/tagsearch/pkg/tsconfig"
)

type inspectFlags struct {
	configsDir string
	id         string
	params     string
	encoding   string
	locale     string
}

func (f *inspectFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configsDir, "configs-dir", "configs", "directory of configuration manifests")
	fs.StringVar(&f.id, "ts", tsconfig.DefaultID, "configuration ID")
	fs.StringVar(&f.params, "params", "", `ad-hoc dictionary parameters, e.g. "split_tags = 0" (ignores -ts)`)
	fs.StringVar(&f.encoding, "encoding", "utf-8", "host encoding for -params")
	fs.StringVar(&f.locale, "locale", "", "lowercasing locale for -params")
}

// resolve returns the configuration selected by the flags.
func (f *inspectFlags) resolve() (*tsconfig.Configuration, error) {
	if f.params != "" {
		params, err := tagdict.ParseParams(f.params)
		if err != nil {
			return nil, err
		}
		return tsconfig.NewConfiguration(&tsconfig.Manifest{
			ID:         "adhoc",
			Encoding:   f.encoding,
			Locale:     f.locale,
			Dictionary: params,
		})
	}

	reg := tsconfig.NewRegistry(f.configsDir, nil)
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg.Get(f.id)
}

func cmdParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	var f inspectFlags
	f.register(fs)
	debug := fs.Bool("debug", false, "also lexize every token")
	fs.Parse(args)

	c := mustResolve(&f)
	for _, text := range inputs(fs.Args()) {
		if *debug {
			tokens, err := c.Debug(text)
			if err != nil {
				fail(err)
			}
			printJSON(map[string]any{"text": text, "tokens": tokens, "lexemes": tsconfig.DistinctLexemes(tokens)})
			continue
		}
		tokens, err := c.Parse(text)
		if err != nil {
			fail(err)
		}
		printJSON(map[string]any{"text": text, "tokens": tokens})
	}
}

func cmdLexize(args []string) {
	fs := flag.NewFlagSet("lexize", flag.ExitOnError)
	var f inspectFlags
	f.register(fs)
	fs.Parse(args)

	c := mustResolve(&f)
	for _, term := range inputs(fs.Args()) {
		lexemes, err := c.Lexize(term)
		if err != nil {
			fail(err)
		}
		printJSON(map[string]any{"term": term, "lexemes": lexemes})
	}
}

func cmdTokenTypes() {
	printJSON(tagparser.Categories())
}

func mustResolve(f *inspectFlags) *tsconfig.Configuration {
	c, err := f.resolve()
	if err != nil {
		fail(err)
	}
	return c
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// inputs returns the positional arguments, or the lines of stdin when none
// were given.
func inputs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(1)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
