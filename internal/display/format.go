package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/renword/internal/term"
	"github.com/backmassage/renword/internal/wordrule"
)

// FormatTokens renders tokens as "[0]A [1]_ [2]0001 ...". Separator
// tokens are shown dimmed and whitespace separators are quoted so they
// stay visible.
func FormatTokens(tokens []wordrule.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("[" + strconv.Itoa(i) + "]")
		text := t.Text
		if t.IsSeparator() {
			if strings.TrimSpace(text) == "" {
				text = strconv.Quote(text)
			}
			b.WriteString(term.Dim + text + term.NC)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// FormatPercent formats a 0..1 score as a percentage with one decimal.
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// FormatCount returns "1 file" or "n files".
func FormatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
