package wordrule

import "math"

// Score weights and the gate used by [ApplyRules] in similar-only mode.
const (
	structuralWeight = 0.7
	positionalWeight = 0.3

	SimilarityThreshold = 0.8
)

// markerChars are the characters whose placement defines a name's layout.
var markerChars = [...]rune{PlaceholderDigit, '_', '-', '.'}

// Similarity scores two pattern signatures in [0,1] as
// 0.7*structural + 0.3*positional.
//
// Two empty signatures are identical (1.0). When neither signature has a
// marker character the positional part carries no information and takes
// the structural score, so Similarity(s, s) is 1 for every s.
//
// The result is symmetric: Levenshtein distance is symmetric and the
// positional comparison always walks the shorter position list.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	structural := structuralScore(ra, rb)
	positional, weight := positionalScore(ra, rb)
	if weight == 0 {
		positional = structural
	}
	return structuralWeight*structural + positionalWeight*positional
}

// StructuralScore is 1 - levenshtein(a, b) / max(len(a), len(b)), counted
// in runes. Two empty strings score 1.
func StructuralScore(a, b string) float64 {
	return structuralScore([]rune(a), []rune(b))
}

// PositionalScore compares where the marker characters (#, _, -, .) sit in
// each signature, relative to its length. It is 0 when neither signature
// contains a marker.
func PositionalScore(a, b string) float64 {
	s, _ := positionalScore([]rune(a), []rune(b))
	return s
}

// Levenshtein returns the unit-cost edit distance between a and b in runes.
func Levenshtein(a, b string) int {
	return levenshtein([]rune(a), []rune(b))
}

func structuralScore(a, b []rune) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein fills the (len(b)+1) x (len(a)+1) matrix row by row,
// keeping only the previous row.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(b); i++ {
		cur[0] = i
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				cur[j] = prev[j-1]
				continue
			}
			cur[j] = 1 + min(prev[j-1], cur[j-1], prev[j])
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

// positionalScore returns the weighted marker similarity and the total
// weight. A zero weight means no marker appears in either signature.
func positionalScore(a, b []rune) (score, weight float64) {
	var weighted float64
	for _, m := range markerChars {
		pa, pb := markerPositions(a, m), markerPositions(b, m)
		w := float64(max(len(pa), len(pb)))
		if w == 0 {
			continue
		}
		weighted += w * arraySimilarity(pa, pb)
		weight += w
	}
	if weight == 0 {
		return 0, 0
	}
	return weighted / weight, weight
}

// markerPositions returns the indexes of m in s divided by len(s).
func markerPositions(s []rune, m rune) []float64 {
	var out []float64
	for i, r := range s {
		if r == m {
			out = append(out, float64(i)/float64(len(s)))
		}
	}
	return out
}

// arraySimilarity compares two normalized position lists. Equal-length
// lists are compared in order; otherwise each position of the shorter
// list is matched to its nearest neighbour in the longer one. A marker
// present on one side only scores 0.
func arraySimilarity(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		if len(x) == len(y) {
			return 1
		}
		return 0
	}

	var total float64
	if len(x) == len(y) {
		for i := range x {
			total += math.Abs(x[i] - y[i])
		}
		return math.Max(0, 1-total/float64(len(x)))
	}

	short, long := x, y
	if len(short) > len(long) {
		short, long = long, short
	}
	for _, p := range short {
		closest := math.Inf(1)
		for _, q := range long {
			closest = math.Min(closest, math.Abs(p-q))
		}
		total += closest
	}
	return math.Max(0, 1-total/float64(len(short)))
}
