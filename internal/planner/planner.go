package planner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/backmassage/renword/internal/naming"
)

// diskOwner marks targets claimed by files that stay where they are.
const diskOwner = "\x00disk"

// DefaultOptions returns options for the running platform: case folding
// on Windows and macOS, and existence checks against the real filesystem.
func DefaultOptions() Options {
	return Options{
		FoldCase: runtime.GOOS == "windows" || runtime.GOOS == "darwin",
		Exists:   pathExists,
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// BuildPlan pairs each path with its proposed base name and decides
// whether it can be renamed. newNames[i] is the new base name for
// paths[i]; targets stay in the source's directory.
//
// Flow:
//  1. Unchanged and invalid names are skipped outright.
//  2. Targets are claimed in batch order; the first claimant wins.
//  3. Targets occupied by a file that is not being renamed are skipped.
//
// Steps 2 and 3 repeat until no new skips appear, since a skipped file
// keeps its old path occupied.
func BuildPlan(paths, newNames []string, opts Options) []FilePlan {
	plans := make([]FilePlan, len(paths))
	requested := make([]string, len(paths))
	for i, p := range paths {
		oldName := filepath.Base(p)
		newName := oldName
		if i < len(newNames) {
			newName = newNames[i]
		}
		plans[i] = FilePlan{
			Index:   i,
			OldPath: p,
			OldName: oldName,
			NewName: newName,
			NewPath: filepath.Join(filepath.Dir(p), newName),
		}
		requested[i] = plans[i].NewPath

		switch {
		case newName == oldName:
			skip(&plans[i], ReasonUnchanged)
		case naming.InvalidNameReason(newName) != "":
			skip(&plans[i], ReasonInvalid+": "+naming.InvalidNameReason(newName))
		}
	}

	key := func(p string) string {
		p = filepath.Clean(p)
		if opts.FoldCase {
			return strings.ToLower(p)
		}
		return p
	}
	exists := opts.Exists
	if exists == nil {
		exists = func(string) bool { return false }
	}

	for {
		leaving := make(map[string]bool)
		for _, pl := range plans {
			if pl.Action == ActionRename {
				leaving[key(pl.OldPath)] = true
			}
		}
		// occupied reports targets held by something that is not moving.
		occupied := func(p string) bool {
			if leaving[key(p)] {
				return false
			}
			return exists(p) || staying(plans, key, p)
		}

		resolver := naming.NewCollisionResolver(opts.FoldCase)
		resolver.Taken = occupied
		changed := false

		for i := range plans {
			pl := &plans[i]
			if pl.Action != ActionRename {
				continue
			}
			target := requested[i]
			self := key(target) == key(pl.OldPath)

			if opts.Dedupe {
				if !self && occupied(target) {
					resolver.Claim(diskOwner, target)
				}
				pl.NewPath = resolver.Resolve(pl.OldPath, target)
				pl.NewName = filepath.Base(pl.NewPath)
				continue
			}

			if _, ok := resolver.Claim(pl.OldPath, target); !ok {
				skip(pl, ReasonDuplicate)
				changed = true
				continue
			}
			if !self && occupied(target) {
				skip(pl, ReasonExists)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return plans
}

// staying reports whether p is the old path of a batch file that is not
// being renamed.
func staying(plans []FilePlan, key func(string) string, p string) bool {
	k := key(p)
	for _, pl := range plans {
		if pl.Action != ActionRename && key(pl.OldPath) == k {
			return true
		}
	}
	return false
}

// skip marks p as skipped. NewName and NewPath keep the proposed name
// so it can still be shown.
func skip(p *FilePlan, reason string) {
	p.Action = ActionSkip
	p.SkipReason = reason
}

// Counts tallies plans by outcome.
func Counts(plans []FilePlan) (rename, unchanged, skipped int) {
	for _, p := range plans {
		switch {
		case p.Action == ActionRename:
			rename++
		case p.Unchanged():
			unchanged++
		default:
			skipped++
		}
	}
	return rename, unchanged, skipped
}
