package wordrule

import (
	"regexp"
	"strings"
)

const (
	contextRadius       = 2   // neighbours compared on each side
	minContextMatchRate = 0.5 // required share of matching neighbour classes
)

// reNumericRun matches a token made of an optional letter prefix, a digit
// run and an optional letter suffix ("001", "take3", "v2b").
var reNumericRun = regexp.MustCompile(`^([A-Za-z]*)(\d+)([A-Za-z]*)$`)

type numericShape struct {
	prefix string
	digits int
	suffix string
}

func numericShapeOf(word string) (numericShape, bool) {
	m := reNumericRun.FindStringSubmatch(word)
	if m == nil {
		return numericShape{}, false
	}
	return numericShape{prefix: m[1], digits: len(m[2]), suffix: m[3]}, true
}

// neighborhood holds the classes of the tokens around a token.
// before[0] is the token immediately to the left, after[0] to the right.
type neighborhood struct {
	before []WordClass
	after  []WordClass
}

func neighborhoodOf(tokens []Token, i int) neighborhood {
	var n neighborhood
	for d := 1; d <= contextRadius && i-d >= 0; d++ {
		n.before = append(n.before, Classify(tokens[i-d].Text))
	}
	for d := 1; d <= contextRadius && i+d < len(tokens); d++ {
		n.after = append(n.after, Classify(tokens[i+d].Text))
	}
	return n
}

// matchRate compares n against the neighbours of tokens[i] at the same
// offsets. A missing neighbour counts as a mismatch. With nothing to
// compare the rate is 1.
func (n neighborhood) matchRate(tokens []Token, i int) float64 {
	compared, matched := 0, 0
	for d, want := range n.before {
		compared++
		if j := i - d - 1; j >= 0 && Classify(tokens[j].Text) == want {
			matched++
		}
	}
	for d, want := range n.after {
		compared++
		if j := i + d + 1; j < len(tokens) && Classify(tokens[j].Text) == want {
			matched++
		}
	}
	if compared == 0 {
		return 1
	}
	return float64(matched) / float64(compared)
}

// leadSignature is the pattern signature of everything before tokens[i].
func leadSignature(tokens []Token, i int) string {
	var b strings.Builder
	for _, t := range tokens[:i] {
		b.WriteString(t.Text)
	}
	return ExtractPattern(b.String())
}

type tokenKey struct{ file, word int }

// FindSimilarTokens extends the numeric selections of file fileIndex to
// the other files in the batch. For every selected token shaped like
// letters-digits-letters it looks in each other file for tokens with the
// same letter prefix and suffix, the same digit count, and the same
// lead signature (the text before the token with digits collapsed, so
// "A_" never matches "B_" but "A001C" matches "A002C"). Files whose
// camera or reel letter differs are therefore excluded: a selection in
// "A001C001_240715.mxf" never reaches "B001C002_240715.mxf". A candidate is
// kept when at least half of its neighbour classes line up with the
// source token's neighbours.
//
// Tokens already in selected are not returned again. The result is empty
// when enabled is false or there is nothing to propagate.
func FindSimilarTokens(files []string, fileIndex int, selected []SelectedToken, enabled bool) []SimilarToken {
	if !enabled || len(selected) == 0 || len(files) == 0 {
		return nil
	}
	if fileIndex < 0 || fileIndex >= len(files) {
		return nil
	}

	tokenized := make([][]Token, len(files))
	for i, f := range files {
		tokenized[i] = Tokenize(f)
	}

	seen := make(map[tokenKey]bool, len(selected))
	for _, s := range selected {
		seen[tokenKey{s.FileIndex, s.WordIndex}] = true
	}

	var out []SimilarToken
	src := tokenized[fileIndex]
	for _, sel := range selected {
		if sel.FileIndex != fileIndex || sel.WordIndex < 0 || sel.WordIndex >= len(src) {
			continue
		}
		shape, ok := numericShapeOf(src[sel.WordIndex].Text)
		if !ok {
			continue
		}
		around := neighborhoodOf(src, sel.WordIndex)
		lead := leadSignature(src, sel.WordIndex)

		for fi, tokens := range tokenized {
			if fi == fileIndex {
				continue
			}
			for wi, t := range tokens {
				if t.IsSeparator() {
					continue
				}
				if s, ok := numericShapeOf(t.Text); !ok || s != shape {
					continue
				}
				if leadSignature(tokens, wi) != lead {
					continue
				}
				rate := around.matchRate(tokens, wi)
				if rate < minContextMatchRate {
					continue
				}
				k := tokenKey{fi, wi}
				if seen[k] {
					continue
				}
				seen[k] = true
				out = append(out, SimilarToken{
					SelectedToken:    SelectedToken{FileIndex: fi, WordIndex: wi, Word: t.Text},
					ContextMatchRate: rate,
				})
			}
		}
	}
	return out
}
