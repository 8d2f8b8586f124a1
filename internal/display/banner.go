package display

import (
	"fmt"
	"io"

	"github.com/backmassage/renword/internal/term"
)

// PrintBanner prints the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _ __ ___ _ ____      _____  _ __ __| |
| '__/ _ \ '_ \ \ /\ / / _ \| '__/ _`+"`"+` |
| | |  __/ | | \ V  V / (_) | | | (_| |
|_|  \___|_| |_|\_/\_/ \___/|_|  \__,_|
`)
	if term.Magenta != "" {
		fmt.Fprintln(w, term.NC)
	}
}
