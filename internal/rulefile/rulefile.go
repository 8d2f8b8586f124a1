// Package rulefile loads and saves rename rule sets as TOML documents so a
// selection and its rules can be reused across runs.
package rulefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/backmassage/renword/internal/wordrule"
)

// CurrentVersion is the document version written by [Save].
const CurrentVersion = 1

// ErrVersion is returned for documents written by a newer release.
var ErrVersion = errors.New("unsupported rule file version")

// File is the on-disk rule set.
type File struct {
	Version     int         `toml:"version"`
	ApplyToAll  bool        `toml:"apply_to_all"`
	SimilarOnly bool        `toml:"similar_only"`
	GroupAsOne  bool        `toml:"group_as_one"`
	Propagate   bool        `toml:"propagate"`
	Words       []string    `toml:"words,omitempty"`
	Rules       []RuleEntry `toml:"rule"`
}

// RuleEntry is one [[rule]] table.
type RuleEntry struct {
	Action string `toml:"action"`
	Value  string `toml:"value,omitempty"`
}

// Load reads and validates a rule file. A leading ~ in path is expanded.
func Load(path string) (*File, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	var f File
	md, err := toml.DecodeFile(p, &f)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", p, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("rule file %s: unknown keys: %s", p, strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("rule file %s: %w", p, err)
	}
	return &f, nil
}

// Validate checks the version and every rule entry. A missing version is
// treated as the current one.
func (f *File) Validate() error {
	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	if f.Version < 0 || f.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	_, err := f.ParseRules()
	return err
}

// ParseRules converts the rule entries to engine rules, in file order.
func (f *File) ParseRules() ([]wordrule.Rule, error) {
	rules := make([]wordrule.Rule, 0, len(f.Rules))
	for i, e := range f.Rules {
		a, err := wordrule.ParseAction(e.Action)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		if a != wordrule.ActionRemove && e.Value == "" {
			return nil, fmt.Errorf("rule %d: %s needs a value", i+1, a)
		}
		r := wordrule.Rule{Action: a}
		if a != wordrule.ActionRemove {
			r.Value = e.Value
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Options are the mode switches and words stored alongside the rules.
type Options struct {
	ApplyToAll  bool
	SimilarOnly bool
	GroupAsOne  bool
	Propagate   bool
	Words       []string
}

// New builds a File from engine rules and mode switches.
func New(rules []wordrule.Rule, opts Options) *File {
	f := &File{
		Version:     CurrentVersion,
		ApplyToAll:  opts.ApplyToAll,
		SimilarOnly: opts.SimilarOnly,
		GroupAsOne:  opts.GroupAsOne,
		Propagate:   opts.Propagate,
		Words:       append([]string(nil), opts.Words...),
	}
	for _, r := range rules {
		f.Rules = append(f.Rules, RuleEntry{Action: string(r.Action), Value: r.Value})
	}
	return f
}

// Save writes f to path through a temporary file in the same directory,
// so readers never see a partial document.
func Save(path string, f *File) error {
	p, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("rule file %s: %w", path, err)
	}
	if f.Version == 0 {
		f.Version = CurrentVersion
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode rule file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("rule file %s: %w", p, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write rule file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write rule file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rule file %s: %w", p, err)
	}
	return nil
}
