package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/renword/internal/naming"
)

// Discover expands paths into the batch of files to rename. Directory
// arguments contribute their regular, non-hidden files (no recursion);
// file arguments are taken as given. exts (lowercase, with leading dot)
// filters by extension case-insensitively; empty means all files.
//
// The result is in natural order with duplicates removed. A path that
// does not exist is an error.
func Discover(paths []string, exts []string) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}
	keep := func(p string) bool {
		return len(allowed) == 0 || allowed[strings.ToLower(filepath.Ext(p))]
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] && keep(p) {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range paths {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", arg, err)
		}
		if !fi.IsDir() {
			if !fi.Mode().IsRegular() {
				return nil, fmt.Errorf("input %q: not a regular file", arg)
			}
			add(arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", arg, err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
				continue
			}
			add(filepath.Join(arg, e.Name()))
		}
	}

	naming.SortNatural(files)
	return files, nil
}
