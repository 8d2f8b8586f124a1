package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/renword/internal/planner"
)

// Status of one executed rename.
type Status string

const (
	StatusRenamed    Status = "renamed"
	StatusFailed     Status = "failed"
	StatusRolledBack Status = "rolled_back"
)

// Result is the outcome of renaming one file.
type Result struct {
	OldPath string
	NewPath string
	Status  Status
	Err     error
}

// ErrRolledBack wraps the phase-one failure that caused every file to be
// moved back to its original name.
var ErrRolledBack = errors.New("rename rolled back")

// rename is os.Rename; tests replace it to inject failures.
var rename = os.Rename

// Execute renames every plan with ActionRename in two phases. Phase one
// moves each source to a unique temporary name in its own directory; if
// any move fails, or ctx is canceled, all moved files are restored and an
// error wrapping [ErrRolledBack] is returned. Phase two moves each
// temporary file to its target; a failure there restores that one file
// and the others proceed. Swaps and case-only renames work because no
// target is written while its old occupant is still in place.
func Execute(ctx context.Context, plans []planner.FilePlan) ([]Result, error) {
	var todo []planner.FilePlan
	for _, p := range plans {
		if p.Action == planner.ActionRename {
			todo = append(todo, p)
		}
	}
	results := make([]Result, len(todo))
	temps := make([]string, len(todo))
	for i, p := range todo {
		results[i] = Result{OldPath: p.OldPath, NewPath: p.NewPath}
	}

	// Phase 1: sources to temporaries.
	for i, p := range todo {
		err := ctx.Err()
		if err == nil {
			temps[i], err = tempName(p.OldPath, i)
		}
		if err == nil {
			err = rename(p.OldPath, temps[i])
		}
		if err != nil {
			temps[i] = ""
			results[i].Status = StatusFailed
			results[i].Err = err
			rollback(results, temps, i)
			return results, fmt.Errorf("%w: %s: %v", ErrRolledBack, p.OldPath, err)
		}
	}

	// Phase 2: temporaries to targets.
	var failed int
	for i, p := range todo {
		err := occupiedErr(p.NewPath)
		if err == nil {
			err = rename(temps[i], p.NewPath)
		}
		if err != nil {
			failed++
			results[i].Status = StatusFailed
			results[i].Err = err
			if rerr := rename(temps[i], p.OldPath); rerr != nil {
				results[i].Err = fmt.Errorf("%v; restore failed, file left at %s: %w", err, temps[i], rerr)
			}
			continue
		}
		results[i].Status = StatusRenamed
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d renames failed", failed, len(todo))
	}
	return results, nil
}

// rollback moves the first n temporaries back to their sources.
func rollback(results []Result, temps []string, n int) {
	for j := n - 1; j >= 0; j-- {
		if temps[j] == "" {
			continue
		}
		if err := rename(temps[j], results[j].OldPath); err != nil {
			results[j].Status = StatusFailed
			results[j].Err = fmt.Errorf("restore failed, file left at %s: %w", temps[j], err)
			continue
		}
		results[j].Status = StatusRolledBack
	}
	for j := n + 1; j < len(results); j++ {
		results[j].Status = StatusRolledBack
	}
}

// tempName returns an unused hidden name next to path.
func tempName(path string, i int) (string, error) {
	dir := filepath.Dir(path)
	for n := 0; n < 1000; n++ {
		cand := filepath.Join(dir, fmt.Sprintf(".renword-%d-%d-%d.tmp", os.Getpid(), i, n))
		if _, err := os.Lstat(cand); errors.Is(err, fs.ErrNotExist) {
			return cand, nil
		}
	}
	return "", fmt.Errorf("no free temporary name in %s", dir)
}

func occupiedErr(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("target %s: %w", path, fs.ErrExist)
	}
	return nil
}
