package naming

import (
	"sort"
	"strings"
)

// NaturalLess orders strings so that digit runs compare by numeric value:
// "clip_2" sorts before "clip_10". Letters compare case-insensitively;
// exact ties fall back to byte order so the ordering is total.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			if c := compareDigits(a[si:i], b[sj:j]); c != 0 {
				return c < 0
			}
			continue
		}
		la, lb := lower(ca), lower(cb)
		if la != lb {
			return la < lb
		}
		i++
		j++
	}
	if rest := (len(a) - i) - (len(b) - j); rest != 0 {
		return rest < 0
	}
	return a < b
}

// SortNatural sorts names in place with [NaturalLess].
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })
}

// compareDigits compares two digit runs by value. Leading zeros only
// break ties: "01" sorts after "1".
func compareDigits(x, y string) int {
	tx, ty := strings.TrimLeft(x, "0"), strings.TrimLeft(y, "0")
	if len(tx) != len(ty) {
		return len(tx) - len(ty)
	}
	if tx != ty {
		if tx < ty {
			return -1
		}
		return 1
	}
	return len(x) - len(y)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
