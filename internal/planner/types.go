package planner

// Action describes the per-file decision.
type Action int

const (
	ActionRename Action = iota
	ActionSkip
)

func (a Action) String() string {
	if a == ActionRename {
		return "rename"
	}
	return "skip"
}

// Skip reasons. Invalid-name reasons are prefixed with ReasonInvalid.
const (
	ReasonUnchanged = "unchanged"
	ReasonInvalid   = "invalid name"
	ReasonDuplicate = "duplicate target"
	ReasonExists    = "target exists"
)

// FilePlan holds the decision for one file of the batch.
type FilePlan struct {
	Index   int // Position in the batch.
	OldPath string
	NewPath string
	OldName string
	NewName string

	Action     Action
	SkipReason string
}

// Unchanged reports whether the plan was skipped because the name did
// not change.
func (p FilePlan) Unchanged() bool {
	return p.Action == ActionSkip && p.SkipReason == ReasonUnchanged
}

// Options control plan building.
type Options struct {
	// Dedupe resolves duplicate and existing targets with " - dupN"
	// suffixes instead of skipping the file.
	Dedupe bool
	// FoldCase compares paths case-insensitively.
	FoldCase bool
	// Exists reports whether a path is present on disk. Nil means nothing
	// exists.
	Exists func(path string) bool
}
