package encoding

import "math"

// Entropy computes the Shannon entropy (base 2) of s over the alphabet of
// characters actually appearing in it, matching the source's entropy()
// helper (itself credited to rosettacode.org). Entropy of the empty string
// is 0.
func Entropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	counts := make(map[rune]int)
	for _, r := range s {
		counts[r]++
	}
	n := float64(len(s))
	var ent float64
	for _, c := range counts {
		p := float64(c) / n
		ent -= p * math.Log2(p)
	}
	return ent
}
