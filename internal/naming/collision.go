package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks target paths claimed by source files and
// resolves duplicates by appending " - dupN" suffixes. All methods are
// goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	fold     bool
	owners   map[string]string // target key → source path that owns it
	counters map[string]int    // requested target key → next dup counter

	// Taken, when set, reports paths that are occupied outside the
	// resolver (for example existing files that are not being renamed).
	// Resolve never hands out such a path as a dup candidate.
	Taken func(path string) bool
}

// NewCollisionResolver creates a ready-to-use resolver. With foldCase,
// paths differing only in letter case are treated as the same target.
func NewCollisionResolver(foldCase bool) *CollisionResolver {
	return &CollisionResolver{
		fold:     foldCase,
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

func (cr *CollisionResolver) key(path string) string {
	if cr.fold {
		return strings.ToLower(path)
	}
	return path
}

// Claim registers target for source. It returns the current owner and
// false when another source already holds target.
func (cr *CollisionResolver) Claim(source, target string) (string, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	k := cr.key(target)
	owner, exists := cr.owners[k]
	if exists && owner != source {
		return owner, false
	}
	cr.owners[k] = source
	return source, true
}

// Resolve returns the final target for source, handling collisions.
// If requested is unclaimed (or already owned by source), it is returned
// as-is. Otherwise a " - dupN" variant is generated.
func (cr *CollisionResolver) Resolve(source, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	rk := cr.key(requested)
	owner, exists := cr.owners[rk]
	if !exists || owner == source {
		cr.owners[rk] = source
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[rk]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		ck := cr.key(candidate)
		cOwner, cExists := cr.owners[ck]
		if (!cExists && (cr.Taken == nil || !cr.Taken(candidate))) || cOwner == source {
			cr.counters[rk] = counter + 1
			cr.owners[ck] = source
			return candidate
		}
		counter++
	}
}
