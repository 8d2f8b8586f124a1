package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/renword/internal/logging"
	"github.com/backmassage/renword/internal/planner"
)

var undoHeader = []string{"old_path", "new_path", "status", "error"}

// WriteUndoLog writes results as CSV: old_path,new_path,status,error.
func WriteUndoLog(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("undo log: %w", err)
	}
	w := csv.NewWriter(f)
	_ = w.Write(undoHeader)
	for _, r := range results {
		msg := ""
		if r.Err != nil {
			msg = r.Err.Error()
		}
		_ = w.Write([]string{r.OldPath, r.NewPath, string(r.Status), msg})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("undo log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("undo log: %w", err)
	}
	return nil
}

// ReadUndoLog parses a log written by [WriteUndoLog]. Error messages are
// read back as plain strings.
func ReadUndoLog(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(undoHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("undo log header: %w", err)
	}
	for i, h := range undoHeader {
		if header[i] != h {
			return nil, fmt.Errorf("undo log header: column %d is %q, want %q", i+1, header[i], h)
		}
	}

	var out []Result
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("undo log: %w", err)
		}
		r := Result{OldPath: rec[0], NewPath: rec[1], Status: Status(rec[2])}
		if rec[3] != "" {
			r.Err = errors.New(rec[3])
		}
		out = append(out, r)
	}
	return out, nil
}

// Undo reverts the successful renames recorded in the log at path, last
// rename first, through the same two-phase rename used for a run. Rows
// whose new file is gone, or whose old name is held by a file this undo
// does not move away, are reported and skipped. Swaps and chains are
// restored in one pass.
func Undo(ctx context.Context, path string, log *logging.Logger) (RunStats, error) {
	var stats RunStats
	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("undo log: %w", err)
	}
	rows, err := ReadUndoLog(f)
	f.Close()
	if err != nil {
		return stats, err
	}

	var candidates []revert
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		if r.Status != StatusRenamed {
			continue
		}
		stats.Total++
		if _, err := os.Lstat(r.NewPath); err != nil {
			log.Warn("Skip (missing): %s", r.NewPath)
			stats.Skipped++
			continue
		}
		candidates = append(candidates, revert{from: filepath.Clean(r.NewPath), to: filepath.Clean(r.OldPath)})
	}

	reverse := keepFreeTargets(candidates, func(p string) bool {
		_, err := os.Lstat(p)
		return !errors.Is(err, fs.ErrNotExist)
	})
	kept := make(map[revert]bool, len(reverse))
	for _, r := range reverse {
		kept[r] = true
	}
	for _, r := range candidates {
		if !kept[r] {
			log.Warn("Skip (original name taken): %s", r.to)
			stats.Skipped++
		}
	}
	if len(reverse) == 0 {
		return stats, nil
	}

	unlock, err := lockDirs(dirsOf(revertSources(reverse)))
	if err != nil {
		return stats, err
	}
	defer unlock()

	results, err := Execute(ctx, revertPlans(reverse))
	for _, r := range results {
		switch r.Status {
		case StatusRenamed:
			stats.Renamed++
			log.Success("Restored: %s", r.NewPath)
		default:
			stats.Failed++
			if r.Err != nil {
				log.Error("Restore failed: %s: %v", r.OldPath, r.Err)
			}
		}
	}
	return stats, err
}

type revert struct{ from, to string }

// keepFreeTargets drops reverts whose target is occupied by something
// that is not itself moved by a kept revert. Dropping one keeps its
// source in place, so the check repeats until nothing changes.
func keepFreeTargets(rs []revert, exists func(string) bool) []revert {
	kept := append([]revert(nil), rs...)
	for {
		leaving := make(map[string]bool, len(kept))
		for _, r := range kept {
			leaving[r.from] = true
		}
		next := kept[:0:0]
		for _, r := range kept {
			if exists(r.to) && !leaving[r.to] {
				continue
			}
			next = append(next, r)
		}
		if len(next) == len(kept) {
			return kept
		}
		kept = next
	}
}

func revertSources(rs []revert) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.from
	}
	return out
}

func revertPlans(rs []revert) []planner.FilePlan {
	plans := make([]planner.FilePlan, len(rs))
	for i, r := range rs {
		plans[i] = planner.FilePlan{
			Index:   i,
			OldPath: r.from,
			NewPath: r.to,
			Action:  planner.ActionRename,
		}
	}
	return plans
}
