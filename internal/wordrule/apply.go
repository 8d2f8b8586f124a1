package wordrule

import "strings"

// ApplyRules returns the new name for file fileIndex, whose current base
// name is name. The name comes back unchanged when there are no rules or
// nothing is selected. Modes are tried in this order:
//
//  1. Similarity gate: with ApplyToAll and SimilarOnly, a file whose
//     pattern signature scores below [SimilarityThreshold] against the
//     file of the first selected token is left alone.
//  2. Grouped: with GroupAsOne and at least one valid group for this
//     file, each group is edited as one word.
//  3. Apply-to-all: every word token matching a pattern is edited.
//  4. Selection: the selected tokens of this file are edited.
//
// Targets are fixed from the original tokens before any rule runs, then
// every rule is applied to every target in order. opts is not modified.
func ApplyRules(name string, fileIndex int, opts Options) string {
	if len(opts.Rules) == 0 || (len(opts.Selected) == 0 && len(opts.Patterns) == 0) {
		return name
	}
	if opts.ApplyToAll && opts.SimilarOnly && !similarToReference(name, opts) {
		return name
	}

	tokens := Tokenize(name)
	texts := Texts(tokens)

	if opts.GroupAsOne {
		if groups := groupsFor(opts.Groups, fileIndex, len(tokens)); len(groups) > 0 {
			for _, g := range groups {
				for _, r := range opts.Rules {
					applyToGroup(texts, g, r)
				}
			}
			return strings.Join(texts, "")
		}
	}

	var targets []int
	if opts.ApplyToAll {
		targets = patternTargets(tokens, effectivePatterns(opts))
	} else {
		targets = selectionTargets(opts.Selected, fileIndex, len(tokens))
	}
	if len(targets) == 0 {
		return name
	}
	for _, r := range opts.Rules {
		for _, i := range targets {
			texts[i] = r.Apply(texts[i])
		}
	}
	return strings.Join(texts, "")
}

// similarToReference reports whether name has the same shape as the file
// owning the first selected token. With no usable reference the gate
// passes.
func similarToReference(name string, opts Options) bool {
	if len(opts.Selected) == 0 {
		return true
	}
	ref := opts.Selected[0].FileIndex
	if ref < 0 || ref >= len(opts.Files) {
		return true
	}
	score := Similarity(ExtractPattern(name), ExtractPattern(opts.Files[ref]))
	return score >= SimilarityThreshold
}

// effectivePatterns returns the configured patterns, or literal patterns
// built from the selected words when none were configured.
func effectivePatterns(opts Options) []WordPattern {
	if len(opts.Patterns) > 0 {
		return opts.Patterns
	}
	seen := make(map[string]bool)
	var out []WordPattern
	for _, s := range opts.Selected {
		if s.Word == "" || seen[s.Word] {
			continue
		}
		seen[s.Word] = true
		out = append(out, NewWordPattern(s.Word))
	}
	return out
}

func patternTargets(tokens []Token, patterns []WordPattern) []int {
	var out []int
	for i, t := range tokens {
		if t.IsSeparator() {
			continue
		}
		for _, p := range patterns {
			if p.Match(t.Text) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// selectionTargets returns the distinct, in-range word indexes selected
// in fileIndex, in selection order.
func selectionTargets(selected []SelectedToken, fileIndex, n int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, s := range selected {
		if s.FileIndex != fileIndex || s.WordIndex < 0 || s.WordIndex >= n || seen[s.WordIndex] {
			continue
		}
		seen[s.WordIndex] = true
		out = append(out, s.WordIndex)
	}
	return out
}

func groupsFor(groups []SelectionGroup, fileIndex, n int) []SelectionGroup {
	var out []SelectionGroup
	for _, g := range groups {
		if g.FileIndex != fileIndex || g.StartIndex < 0 || g.StartIndex > g.EndIndex || g.EndIndex >= n {
			continue
		}
		out = append(out, g)
	}
	return out
}

func applyToGroup(texts []string, g SelectionGroup, r Rule) {
	switch r.Action {
	case ActionReplace:
		texts[g.StartIndex] = r.Value
		for i := g.StartIndex + 1; i <= g.EndIndex; i++ {
			texts[i] = ""
		}
	case ActionRemove:
		for i := g.StartIndex; i <= g.EndIndex; i++ {
			texts[i] = ""
		}
	case ActionAddPrefix:
		texts[g.StartIndex] = r.Value + texts[g.StartIndex]
	case ActionAddSuffix:
		texts[g.EndIndex] += r.Value
	}
}
