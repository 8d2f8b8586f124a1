package wordrule

import (
	"fmt"
	"strings"
)

// Kind distinguishes word tokens from single-character separator tokens.
type Kind int

const (
	KindWord Kind = iota
	KindSeparator
)

// Token is one element of a tokenized filename. Joining the Text of all
// tokens in order reproduces the original name.
type Token struct {
	Text string
	Kind Kind
}

// IsSeparator reports whether t is a separator token (_, - or whitespace).
func (t Token) IsSeparator() bool { return t.Kind == KindSeparator }

// WordClass is the character-class category of a token, used when
// comparing the neighbourhood of tokens across files.
type WordClass int

const (
	ClassOther WordClass = iota
	ClassSeparator
	ClassNumeric
	ClassAlpha
	ClassAlphaNumericMixed
)

func (c WordClass) String() string {
	switch c {
	case ClassSeparator:
		return "separator"
	case ClassNumeric:
		return "numeric"
	case ClassAlpha:
		return "alpha"
	case ClassAlphaNumericMixed:
		return "mixed"
	default:
		return "other"
	}
}

// SelectedToken identifies a token chosen by the user within one file's
// tokenization. Word is the token text at selection time.
type SelectedToken struct {
	FileIndex int
	WordIndex int
	Word      string
}

// SimilarToken is a token found by [FindSimilarTokens], together with the
// fraction of neighbouring token classes that matched the source token.
type SimilarToken struct {
	SelectedToken
	ContextMatchRate float64
}

// SelectionGroup is a contiguous run of token indices in one file that is
// edited as a single word when grouping is enabled. StartIndex <= EndIndex.
type SelectionGroup struct {
	FileIndex  int
	StartIndex int
	EndIndex   int
}

// Contains reports whether word index i falls inside the group.
func (g SelectionGroup) Contains(i int) bool {
	return i >= g.StartIndex && i <= g.EndIndex
}

// Action is an edit applied to a targeted token.
type Action string

const (
	ActionReplace   Action = "replace"
	ActionRemove    Action = "remove"
	ActionAddPrefix Action = "prefix"
	ActionAddSuffix Action = "suffix"
)

// ParseAction converts user text to an Action (case-insensitive).
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionReplace:
		return ActionReplace, nil
	case ActionRemove:
		return ActionRemove, nil
	case ActionAddPrefix:
		return ActionAddPrefix, nil
	case ActionAddSuffix:
		return ActionAddSuffix, nil
	}
	return "", fmt.Errorf("invalid rule action %q (use replace, remove, prefix or suffix)", s)
}

// Rule is one immutable edit step. Rules run in list order and compose:
// every targeted token receives rule N before any token receives rule N+1.
type Rule struct {
	Action Action
	Value  string
}

// ParseRule parses the textual rule form "action[=value]". Replace, prefix
// and suffix require the '='; "replace=" replaces with the empty string.
// Any value given to remove is ignored.
func ParseRule(s string) (Rule, error) {
	name, value, hasValue := strings.Cut(s, "=")
	action, err := ParseAction(name)
	if err != nil {
		return Rule{}, err
	}
	if action == ActionRemove {
		return Rule{Action: action}, nil
	}
	if !hasValue {
		return Rule{}, fmt.Errorf("rule %q needs a value (e.g. %s=text)", s, action)
	}
	return Rule{Action: action, Value: value}, nil
}

// String returns the textual form accepted by [ParseRule].
func (r Rule) String() string {
	if r.Action == ActionRemove {
		return string(r.Action)
	}
	return string(r.Action) + "=" + r.Value
}

// Apply returns text after this rule's edit.
func (r Rule) Apply(text string) string {
	switch r.Action {
	case ActionReplace:
		return r.Value
	case ActionRemove:
		return ""
	case ActionAddPrefix:
		return r.Value + text
	case ActionAddSuffix:
		return text + r.Value
	}
	return text
}

// Options is the full input of one [ApplyRules] call: the batch of file
// names, the rule list and the current selection state.
type Options struct {
	// Files holds the base names of the whole batch, indexed by file index.
	// It is needed to find the reference file for the similarity gate.
	Files []string

	Rules    []Rule
	Selected []SelectedToken
	Patterns []WordPattern
	Groups   []SelectionGroup

	ApplyToAll  bool // Edit every token matching a word pattern, in every file.
	SimilarOnly bool // With ApplyToAll, skip files whose shape differs from the reference.
	GroupAsOne  bool // Edit each SelectionGroup as one logical word.
}
