// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Raw flag text is parsed into typed selections and rules by
// [Config.Validate] so the pipeline only ever sees checked values.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/backmassage/renword/internal/wordrule"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Selection picks token Word of file File (indexes into the discovered,
// naturally sorted file list).
type Selection struct {
	File int
	Word int
}

// Range picks tokens Start..End of file File.
type Range struct {
	File  int
	Start int
	End   int
}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Inputs (set from positional args).
	Paths      []string
	Extensions []string // Lowercased, with leading dot. Empty means all.

	// Raw selection and rule flags, in command-line order.
	SelectSpecs []string // -s F:W
	GroupSpecs  []string // -g F:S-E
	RuleSpecs   []string // -r ACTION[=VALUE]
	Words       []string // -w TEXT

	// Parsed by Validate.
	Selections []Selection
	Ranges     []Range
	Rules      []wordrule.Rule

	// Rule files.
	RulesFile string // --rules; loaded before RuleSpecs apply.
	SaveRules string // --save-rules

	// Engine switches.
	ApplyToAll  bool
	SimilarOnly bool
	GroupAsOne  bool
	Propagate   bool

	// Metadata placeholders.
	Probe            bool
	ProbeConcurrency int // Default: 3.

	// Behavior flags.
	ListTokens bool
	DryRun     bool
	Dedupe     bool
	UndoLog    string // Write a CSV undo log after renaming.
	UndoFrom   string // Revert the renames recorded in this log and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		ProbeConcurrency: 3,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, expands ~ in user paths and parses the raw
// selection, group and rule flags. Positional paths are required unless
// running --check or --undo.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.ProbeConcurrency < 1 {
		return fmt.Errorf("probe jobs must be at least 1 (got %d)", c.ProbeConcurrency)
	}

	for _, p := range []*string{&c.RulesFile, &c.SaveRules, &c.LogFile, &c.UndoLog, &c.UndoFrom} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = expanded
	}

	c.Selections = c.Selections[:0]
	for _, s := range c.SelectSpecs {
		sel, err := ParseSelection(s)
		if err != nil {
			return err
		}
		c.Selections = append(c.Selections, sel)
	}
	c.Ranges = c.Ranges[:0]
	for _, s := range c.GroupSpecs {
		r, err := ParseRange(s)
		if err != nil {
			return err
		}
		c.Ranges = append(c.Ranges, r)
	}
	c.Rules = c.Rules[:0]
	for _, s := range c.RuleSpecs {
		r, err := wordrule.ParseRule(s)
		if err != nil {
			return fmt.Errorf("--rule %q: %w", s, err)
		}
		c.Rules = append(c.Rules, r)
	}
	c.Extensions = normalizeExtensions(c.Extensions)

	if c.CheckOnly || c.UndoFrom != "" {
		return nil
	}
	if len(c.Paths) == 0 {
		return errors.New("need at least one file or directory")
	}
	return nil
}

// ParseSelection parses "F:W".
func ParseSelection(s string) (Selection, error) {
	file, word, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Selection{}, fmt.Errorf("invalid selection %q (use FILE:WORD, e.g. 0:2)", s)
	}
	f, err := parseIndex(file, "file index")
	if err != nil {
		return Selection{}, fmt.Errorf("selection %q: %w", s, err)
	}
	w, err := parseIndex(word, "word index")
	if err != nil {
		return Selection{}, fmt.Errorf("selection %q: %w", s, err)
	}
	return Selection{File: f, Word: w}, nil
}

// ParseRange parses "F:S-E".
func ParseRange(s string) (Range, error) {
	file, span, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Range{}, fmt.Errorf("invalid group %q (use FILE:START-END, e.g. 0:2-4)", s)
	}
	start, end, ok := strings.Cut(span, "-")
	if !ok {
		return Range{}, fmt.Errorf("invalid group %q (use FILE:START-END, e.g. 0:2-4)", s)
	}
	f, err := parseIndex(file, "file index")
	if err != nil {
		return Range{}, fmt.Errorf("group %q: %w", s, err)
	}
	a, err := parseIndex(start, "start index")
	if err != nil {
		return Range{}, fmt.Errorf("group %q: %w", s, err)
	}
	b, err := parseIndex(end, "end index")
	if err != nil {
		return Range{}, fmt.Errorf("group %q: %w", s, err)
	}
	if a > b {
		return Range{}, fmt.Errorf("group %q: start %d is after end %d", s, a, b)
	}
	return Range{File: f, Start: a, End: b}, nil
}

// parseIndex parses a non-negative index; returns a clear error on failure.
func parseIndex(s, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a whole number >= 0 (got %q)", name, s)
	}
	return n, nil
}

// normalizeExtensions lowercases, dedupes and dot-prefixes extensions,
// accepting "mov", ".MOV" and comma-joined lists.
func normalizeExtensions(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range in {
		for _, e := range strings.Split(item, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}
