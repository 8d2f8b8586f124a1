package wordrule

import (
	"unicode"
	"unicode/utf8"
)

// charClass is the class of a single character during tokenization.
type charClass int

const (
	charNone charClass = iota // start of input
	charSeparator
	charUpper
	charLower
	charDigit
	charOther
)

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func classOf(r rune) charClass {
	switch {
	case r >= 'A' && r <= 'Z':
		return charUpper
	case r >= 'a' && r <= 'z':
		return charLower
	case r >= '0' && r <= '9':
		return charDigit
	}
	return charOther
}

// isBoundary reports whether a word must end between prev and cur.
func isBoundary(prev, cur charClass) bool {
	switch prev {
	case charLower:
		return cur == charUpper || cur == charDigit
	case charDigit:
		return cur == charUpper || cur == charLower || cur == charOther
	case charUpper, charOther:
		return cur == charDigit
	}
	return false
}

// Tokenize splits a file name (base name with extension) into word and
// separator tokens. Separators (_, - and whitespace) become their own
// tokens. Words break on lower->upper (camelCase), digit->non-digit and
// letter/other->digit transitions.
//
// Tokens are slices of name, so joining their Text always reproduces name
// byte for byte, even for invalid UTF-8.
func Tokenize(name string) []Token {
	tokens := make([]Token, 0, 8)
	start := -1
	prev := charNone

	flush := func(end int) {
		if start >= 0 && end > start {
			tokens = append(tokens, Token{Text: name[start:end], Kind: KindWord})
		}
		start = -1
	}

	for i := 0; i < len(name); {
		r, size := utf8.DecodeRuneInString(name[i:])
		if isSeparator(r) {
			flush(i)
			tokens = append(tokens, Token{Text: name[i : i+size], Kind: KindSeparator})
			prev = charSeparator
			i += size
			continue
		}

		cur := classOf(r)
		if prev != charSeparator && isBoundary(prev, cur) {
			flush(i)
		}
		if start < 0 {
			start = i
		}
		prev = cur
		i += size
	}
	flush(len(name))
	return tokens
}

// Texts returns the Text of each token in order.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
