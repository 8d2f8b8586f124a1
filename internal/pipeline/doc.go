// Package pipeline orchestrates a rename run: file discovery, the editing
// session, optional metadata probing, planning, the preview table, and
// the two-phase rename with its undo log.
//
// Files:
//   - discover.go: Discover (directory listing, extension filter, natural order)
//   - runner.go: Run, the batch entry point
//   - execute.go: Execute, two-phase rename with rollback
//   - undo.go: WriteUndoLog, ReadUndoLog, Undo
//   - lock.go: per-directory advisory locks
//   - stats.go: RunStats
package pipeline
