// Package session holds the editing state of one rename run: the file
// batch, each file's tokens, the token selection, word patterns, groups
// and the rule list. It is the explicit replacement for a process-wide
// UI state object; callers create one per run and pass it around.
//
// A Session is not safe for concurrent mutation. The rename engine it
// drives (package wordrule) is stateless, so previews may be computed
// from several goroutines once the session is no longer being edited.
package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/backmassage/renword/internal/wordrule"
)

// Sentinel errors for out-of-range selections.
var (
	ErrFileIndex = errors.New("file index out of range")
	ErrWordIndex = errors.New("word index out of range")
	ErrRange     = errors.New("invalid word range")
)

// Session is the per-run editing state.
type Session struct {
	paths  []string
	names  []string
	tokens [][]wordrule.Token

	selected []wordrule.SelectedToken
	patterns []wordrule.WordPattern
	groups   []wordrule.SelectionGroup
	rules    []wordrule.Rule
	explicit map[string]bool // words added through AddWord

	applyToAll  bool
	similarOnly bool
	groupAsOne  bool
}

// New creates a session for the given file paths. Only the base names
// take part in renaming.
func New(paths []string) *Session {
	s := &Session{}
	s.Reset(paths)
	return s
}

// Reset replaces the file batch and clears all selections. Rules and
// mode switches are kept.
func (s *Session) Reset(paths []string) {
	s.paths = append([]string(nil), paths...)
	s.names = make([]string, len(paths))
	s.tokens = make([][]wordrule.Token, len(paths))
	for i, p := range paths {
		s.names[i] = filepath.Base(p)
		s.tokens[i] = wordrule.Tokenize(s.names[i])
	}
	s.Clear()
}

// Clear drops the token selection, word patterns and groups.
func (s *Session) Clear() {
	s.selected = nil
	s.patterns = nil
	s.groups = nil
	s.explicit = nil
}

// Len returns the number of files in the batch.
func (s *Session) Len() int { return len(s.paths) }

// Path returns the full path of file i.
func (s *Session) Path(i int) string { return s.paths[i] }

// Paths returns a copy of all file paths.
func (s *Session) Paths() []string { return append([]string(nil), s.paths...) }

// Names returns a copy of all base names.
func (s *Session) Names() []string { return append([]string(nil), s.names...) }

// Tokens returns the tokens of file i.
func (s *Session) Tokens(i int) []wordrule.Token { return s.tokens[i] }

// Selected returns a copy of the current token selection.
func (s *Session) Selected() []wordrule.SelectedToken {
	return append([]wordrule.SelectedToken(nil), s.selected...)
}

// Groups returns a copy of the recorded word ranges.
func (s *Session) Groups() []wordrule.SelectionGroup {
	return append([]wordrule.SelectionGroup(nil), s.groups...)
}

// Words returns the literal text of every registered word pattern.
func (s *Session) Words() []string {
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.Word
	}
	return out
}

// Rules returns a copy of the rule list.
func (s *Session) Rules() []wordrule.Rule { return append([]wordrule.Rule(nil), s.rules...) }

// SetRules replaces the rule list.
func (s *Session) SetRules(rules []wordrule.Rule) {
	s.rules = append([]wordrule.Rule(nil), rules...)
}

// SetApplyToAll switches apply-to-all mode. Turning it on registers a
// word pattern for every token already selected.
func (s *Session) SetApplyToAll(on bool) {
	s.applyToAll = on
	if on {
		for _, t := range s.selected {
			if !s.tokens[t.FileIndex][t.WordIndex].IsSeparator() {
				s.addPattern(t.Word)
			}
		}
	}
}

// SetSimilarOnly restricts apply-to-all to files shaped like the file of
// the first selected token.
func (s *Session) SetSimilarOnly(on bool) { s.similarOnly = on }

// SetGroupAsOne makes each recorded range behave as a single word.
func (s *Session) SetGroupAsOne(on bool) { s.groupAsOne = on }

// Select adds token word of file file to the selection. Selecting an
// already selected token is a no-op.
func (s *Session) Select(file, word int) error {
	if err := s.check(file, word); err != nil {
		return err
	}
	if s.indexOf(file, word) >= 0 {
		return nil
	}
	s.add(file, word)
	return nil
}

// Toggle selects the token if it is not selected and deselects it
// otherwise, like a click in a word list. It reports the new state.
// Deselecting drops the word pattern the selection registered unless
// another selected token carries the same word or it was added with
// AddWord.
func (s *Session) Toggle(file, word int) (bool, error) {
	if err := s.check(file, word); err != nil {
		return false, err
	}
	if i := s.indexOf(file, word); i >= 0 {
		text := s.selected[i].Word
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
		s.dropPattern(text)
		return false, nil
	}
	s.add(file, word)
	return true, nil
}

// SelectRange records words start..end of file as one group and selects
// each of them.
func (s *Session) SelectRange(file, start, end int) error {
	if start > end {
		return fmt.Errorf("%w: %d-%d", ErrRange, start, end)
	}
	if err := s.check(file, start); err != nil {
		return err
	}
	if err := s.check(file, end); err != nil {
		return err
	}
	g := wordrule.SelectionGroup{FileIndex: file, StartIndex: start, EndIndex: end}
	for _, existing := range s.groups {
		if existing == g {
			return nil
		}
	}
	s.groups = append(s.groups, g)
	for w := start; w <= end; w++ {
		if s.indexOf(file, w) < 0 {
			s.add(file, w)
		}
	}
	return nil
}

// AddWord registers a literal word pattern for apply-to-all mode.
// Duplicates and empty words are ignored. Words added here stay
// registered when selections are toggled off.
func (s *Session) AddWord(word string) {
	if word == "" {
		return
	}
	if s.explicit == nil {
		s.explicit = make(map[string]bool)
	}
	s.explicit[word] = true
	s.addPattern(word)
}

func (s *Session) addPattern(word string) {
	if word == "" {
		return
	}
	for _, p := range s.patterns {
		if p.Word == word {
			return
		}
	}
	s.patterns = append(s.patterns, wordrule.NewWordPattern(word))
}

// Propagate extends numeric selections to structurally similar tokens in
// the other files and adds them to the selection. It returns what was
// added.
func (s *Session) Propagate() []wordrule.SimilarToken {
	var added []wordrule.SimilarToken
	for _, file := range s.selectedFiles() {
		found := wordrule.FindSimilarTokens(s.names, file, s.selected, true)
		for _, t := range found {
			if s.indexOf(t.FileIndex, t.WordIndex) >= 0 {
				continue
			}
			s.selected = append(s.selected, t.SelectedToken)
			added = append(added, t)
		}
	}
	return added
}

// Options snapshots the session into the input of [wordrule.ApplyRules].
func (s *Session) Options() wordrule.Options {
	return wordrule.Options{
		Files:       s.Names(),
		Rules:       s.Rules(),
		Selected:    s.Selected(),
		Patterns:    append([]wordrule.WordPattern(nil), s.patterns...),
		Groups:      s.Groups(),
		ApplyToAll:  s.applyToAll,
		SimilarOnly: s.similarOnly,
		GroupAsOne:  s.groupAsOne,
	}
}

// Preview returns the new base name of every file under the session's
// rules.
func (s *Session) Preview() []string {
	return s.PreviewWith(nil)
}

// PreviewWith is Preview with per-file rules. rulesFor(i) returns the
// rules for file i; a nil rulesFor uses the session rules for every file.
func (s *Session) PreviewWith(rulesFor func(i int) []wordrule.Rule) []string {
	opts := s.Options()
	out := make([]string, len(s.names))
	for i, name := range s.names {
		o := opts
		if rulesFor != nil {
			o.Rules = rulesFor(i)
		}
		out[i] = wordrule.ApplyRules(name, i, o)
	}
	return out
}

func (s *Session) check(file, word int) error {
	if file < 0 || file >= len(s.tokens) {
		return fmt.Errorf("%w: %d (have %d files)", ErrFileIndex, file, len(s.tokens))
	}
	if word < 0 || word >= len(s.tokens[file]) {
		return fmt.Errorf("%w: %d in %q (have %d words)", ErrWordIndex, word, s.names[file], len(s.tokens[file]))
	}
	return nil
}

func (s *Session) indexOf(file, word int) int {
	for i, t := range s.selected {
		if t.FileIndex == file && t.WordIndex == word {
			return i
		}
	}
	return -1
}

func (s *Session) add(file, word int) {
	text := s.tokens[file][word].Text
	s.selected = append(s.selected, wordrule.SelectedToken{FileIndex: file, WordIndex: word, Word: text})
	if s.applyToAll && !s.tokens[file][word].IsSeparator() {
		s.addPattern(text)
	}
}

// dropPattern unregisters word unless it was added explicitly or a
// selected token still carries it.
func (s *Session) dropPattern(word string) {
	if s.explicit[word] {
		return
	}
	for _, t := range s.selected {
		if t.Word == word {
			return
		}
	}
	for i, p := range s.patterns {
		if p.Word == word {
			s.patterns = append(s.patterns[:i], s.patterns[i+1:]...)
			return
		}
	}
}

// selectedFiles returns the distinct files holding selections, in order
// of first selection.
func (s *Session) selectedFiles() []int {
	seen := make(map[int]bool)
	var out []int
	for _, t := range s.selected {
		if !seen[t.FileIndex] {
			seen[t.FileIndex] = true
			out = append(out, t.FileIndex)
		}
	}
	return out
}
