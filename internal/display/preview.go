package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/backmassage/renword/internal/term"
)

// Status of a preview row.
type Status int

const (
	StatusRename Status = iota
	StatusUnchanged
	StatusSkip
)

// Row is one line of the preview table.
type Row struct {
	Index  int
	Old    string
	New    string
	Status Status
	Reason string // Skip reason; ignored for other statuses.
}

const (
	arrow          = " -> "
	minNameWidth   = 8
	maxStatusWidth = 28
	ellipsis       = "…"
)

// RenderPreview writes rows as an aligned old -> new table no wider than
// width columns. Names that do not fit are truncated with an ellipsis;
// widths are measured in terminal cells so wide characters and color
// codes line up.
func RenderPreview(w io.Writer, rows []Row, width int) {
	if len(rows) == 0 {
		return
	}
	idxW, statusW := 0, 0
	for _, r := range rows {
		idxW = max(idxW, len(indexLabel(r.Index)))
		statusW = max(statusW, ansi.PrintableRuneWidth(statusText(r)))
	}
	statusW = min(statusW, maxStatusWidth)

	// index + space + old + arrow + new + space + status
	nameW := (width - idxW - 1 - len(arrow) - 1 - statusW) / 2
	nameW = max(nameW, minNameWidth)

	for _, r := range rows {
		status := truncate.StringWithTail(statusText(r), uint(statusW), ellipsis)
		fmt.Fprintf(w, "%s %s%s%s %s\n",
			pad(indexLabel(r.Index), idxW),
			pad(fit(r.Old, nameW), nameW),
			arrow,
			pad(colorName(fit(r.New, nameW), r.Status), nameW),
			colorStatus(status, r.Status),
		)
	}
}

func indexLabel(i int) string { return "[" + strconv.Itoa(i) + "]" }

func statusText(r Row) string {
	switch r.Status {
	case StatusRename:
		return "rename"
	case StatusUnchanged:
		return "unchanged"
	default:
		if r.Reason == "" {
			return "skip"
		}
		return "skip: " + r.Reason
	}
}

func fit(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), ellipsis)
}

// pad right-pads s with spaces to width printable cells.
func pad(s string, width int) string {
	if n := width - ansi.PrintableRuneWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func colorName(s string, st Status) string {
	if st == StatusRename && term.Green != "" {
		return term.Green + s + term.NC
	}
	return s
}

func colorStatus(s string, st Status) string {
	var c string
	switch st {
	case StatusRename:
		c = term.Green
	case StatusUnchanged:
		c = term.Dim
	default:
		c = term.Yellow
	}
	if c == "" {
		return s
	}
	return c + s + term.NC
}
