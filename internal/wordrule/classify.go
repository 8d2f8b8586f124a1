package wordrule

import "unicode/utf8"

// Classify returns the WordClass of a token:
//
//	single _, - or whitespace character  -> ClassSeparator
//	ASCII digits only                    -> ClassNumeric
//	ASCII letters only                   -> ClassAlpha
//	ASCII letters and digits             -> ClassAlphaNumericMixed
//	anything else (incl. empty)          -> ClassOther
func Classify(token string) WordClass {
	if token == "" {
		return ClassOther
	}
	if r, size := utf8.DecodeRuneInString(token); size == len(token) && isSeparator(r) {
		return ClassSeparator
	}

	var digits, letters int
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			letters++
		default:
			return ClassOther
		}
	}
	switch {
	case letters == 0:
		return ClassNumeric
	case digits == 0:
		return ClassAlpha
	}
	return ClassAlphaNumericMixed
}
