// Package kernel implements the per-field mutation generators: the binary
// kernel (known-bad bit patterns for TypeBinary fields) and the random
// kernel (the unbounded uniform-random stream and the small-field
// exhaustive sweep). Grounded in the source's bbuzz.mutate.binary and
// bbuzz.mutate.random modules.
package kernel

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/lockoutlabs/bbuzz-go/encoding"
	"github.com/lockoutlabs/bbuzz-go/errs"
)

// Binary returns the ordered known-bad mutation set for canonical
// bit-string c of width n = len(c). Identity is always first. The
// all-zero and all-one branches skip flip, the "wrong-direction" shift and
// endian-swap, per §4.C: the shift and endian-swap would be identities on
// those inputs, and flip's result (all-one for all-zero input, and the
// reverse) is already the last entry of the shift family they keep.
func Binary(c string) ([]string, error) {
	n := len(c)
	if n == 0 {
		return nil, fmt.Errorf("%w: binary kernel called on empty bit-string", errs.ErrSchema)
	}

	mutations := []string{c}

	switch {
	case encoding.IsZero(c):
		mutations = append(mutations, bitshiftRight(c)...)
		mutations = append(mutations, knownValues(n)...)
	case encoding.IsOne(c):
		mutations = append(mutations, bitshiftLeft(c)...)
		mutations = append(mutations, knownValues(n)...)
	default:
		mutations = append(mutations, bitflip(c))
		mutations = append(mutations, bitshiftLeft(c)...)
		mutations = append(mutations, bitshiftRight(c)...)
		mutations = append(mutations, knownValues(n)...)
		if swap, ok := endianSwap(c); ok {
			mutations = append(mutations, swap)
		}
	}
	return mutations, nil
}

// stringToBitset parses a canonical '0'/'1' bit-string (MSB first) into a
// bitset.BitSet indexed so that bit 0 of the set is the string's last
// character. Using bitset here (rather than a manual XOR loop over the
// string) keeps the flip arithmetic expressed as a real bitwise
// operation, matching what the BitField's canonical form is allowed to be
// per §9: "an array of booleans, a packed bitset, or an arbitrary-precision
// integer".
func stringToBitset(c string) *bitset.BitSet {
	n := len(c)
	b := bitset.New(uint(n))
	for i, ch := range c {
		if ch == '1' {
			b.Set(uint(n - 1 - i))
		}
	}
	return b
}

func bitsetToString(b *bitset.BitSet, n int) string {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		if b.Test(uint(n - 1 - i)) {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// bitflip computes c XOR (2^n-1), i.e. the bitwise complement of c within
// its declared width.
func bitflip(c string) string {
	n := len(c)
	b := stringToBitset(c)
	b = b.Complement()
	return bitsetToString(b, n)
}

// bitshiftLeft shifts c left bit by bit, filling with zeroes on the right:
// for k = 1..n, c[k:] ‖ 0^k. Produces n values.
func bitshiftLeft(c string) []string {
	n := len(c)
	out := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		out = append(out, c[k:]+strings.Repeat("0", k))
	}
	return out
}

// bitshiftRight shifts c right bit by bit, filling with ones on the left:
// for k = 1..n, 1^k ‖ c[:n-k]. Produces n values. The asymmetry against
// bitshiftLeft's zero-fill is intentional (§9 Open Question 1): it probes
// both the all-zero and all-one saturation boundaries without a separate
// fill-value flag.
func bitshiftRight(c string) []string {
	n := len(c)
	out := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		out = append(out, strings.Repeat("1", k)+c[:n-k])
	}
	return out
}

// knownValues returns the two walking-bit patterns "0101..." and
// "1010...", each truncated to width n.
func knownValues(n int) []string {
	return []string{
		strings.Repeat("01", (n/2)+1)[:n],
		strings.Repeat("10", (n/2)+1)[:n],
	}
}

// endianSwap reverses c's byte order when n%8==0; otherwise it returns
// ok=false and the general branch skips it entirely.
func endianSwap(c string) (string, bool) {
	n := len(c)
	if n%encoding.Byte != 0 {
		return "", false
	}
	nbytes := n / encoding.Byte
	var b strings.Builder
	for i := nbytes - 1; i >= 0; i-- {
		b.WriteString(c[i*encoding.Byte : i*encoding.Byte+encoding.Byte])
	}
	return b.String(), true
}
