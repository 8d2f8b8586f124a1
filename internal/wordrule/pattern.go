package wordrule

import "regexp"

// PlaceholderDigit replaces every digit in a pattern signature.
const PlaceholderDigit = '#'

// ExtractPattern returns the structural signature of a name: each ASCII
// digit becomes '#', everything else is kept. "shot_0012_take3.mov"
// becomes "shot_####_take#.mov". The result has the same length as name.
func ExtractPattern(name string) string {
	var buf []byte
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			continue
		}
		if buf == nil {
			buf = []byte(name)
		}
		buf[i] = PlaceholderDigit
	}
	if buf == nil {
		return name
	}
	return string(buf)
}

// WordPattern matches tokens whose text equals Word exactly. It is built
// from literal user text, so every regex metacharacter is escaped.
// Matching keeps no state between calls.
type WordPattern struct {
	Word    string
	matcher *regexp.Regexp
}

// NewWordPattern compiles a whole-token matcher for the literal word.
func NewWordPattern(word string) WordPattern {
	return WordPattern{
		Word:    word,
		matcher: regexp.MustCompile(`^` + regexp.QuoteMeta(word) + `$`),
	}
}

// Match reports whether token is exactly the pattern's word. A zero
// WordPattern (no compiled matcher) falls back to string equality.
func (p WordPattern) Match(token string) bool {
	if p.matcher == nil {
		return token == p.Word
	}
	return p.matcher.MatchString(token)
}
