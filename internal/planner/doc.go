// Package planner decides per-file action (rename or skip) for a batch
// of proposed names and builds the FilePlans the pipeline executes.
//
// A plan is skipped when the name is unchanged, when the new name is not
// a valid file name, when another file in the batch already claimed the
// same target, or when the target exists on disk and is not itself being
// renamed away. With Dedupe, the last two cases get " - dupN" names
// instead of being skipped.
package planner
