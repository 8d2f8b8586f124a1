package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rogpeppe/go-internal/lockedfile"
)

// lockName is the advisory lock file created in every directory a run
// renames in. It is hidden, so Discover never picks it up, and it is
// removed again when the lock is released.
const lockName = ".renword.lock"

// lockDirs takes the rename lock of every directory in dirs, in sorted
// order, and returns a function releasing them all. Another renword
// process working in the same directory blocks until it is released.
// Releasing also deletes the lock files; a missing file is not an error.
func lockDirs(dirs []string) (func(), error) {
	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)

	var unlocks []func()
	var held []string
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
			_ = os.Remove(held[i])
		}
	}
	for _, d := range sorted {
		name := filepath.Join(d, lockName)
		unlock, err := lockedfile.MutexAt(name).Lock()
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", d, err)
		}
		unlocks = append(unlocks, unlock)
		held = append(held, name)
	}
	return release, nil
}

// dirsOf returns the distinct parent directories of paths.
func dirsOf(paths []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
