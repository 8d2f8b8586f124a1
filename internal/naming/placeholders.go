package naming

import (
	"regexp"
	"strconv"

	"github.com/backmassage/renword/internal/probe"
)

var rePlaceholder = regexp.MustCompile(`\{([a-z]+)\}`)

// HasPlaceholders reports whether value contains any {name} placeholder.
func HasPlaceholders(value string) bool {
	return rePlaceholder.MatchString(value)
}

// ExpandPlaceholders replaces {width}, {height}, {res}, {duration} (whole
// seconds) and {codec} in value with m's values. Unknown placeholders and
// values m does not have expand to "". A nil m expands everything to "".
func ExpandPlaceholders(value string, m *probe.Metadata) string {
	if !HasPlaceholders(value) {
		return value
	}
	return rePlaceholder.ReplaceAllStringFunc(value, func(tok string) string {
		if m == nil {
			return ""
		}
		switch tok[1 : len(tok)-1] {
		case "width":
			return positive(m.Width)
		case "height":
			return positive(m.Height)
		case "res":
			return m.Resolution()
		case "duration":
			return positive(m.Seconds())
		case "codec":
			return m.Codec
		}
		return ""
	})
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
