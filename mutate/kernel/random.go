package kernel

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"

	"github.com/holiman/uint256"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// maxBinAllWidth bounds GenBinAll to widths the underlying uint256 odometer
// counter can represent. §4.D itself scopes gen_binall to "exhaustive
// sweeps of small fields", so this is not a meaningful restriction in
// practice.
const maxBinAllWidth = 256

// RandBin draws length uniformly-random bits as a canonical bit-string. If
// seed is non-nil the draw is deterministic for a given (value, length,
// seed) triple; otherwise it is seeded from a process-external entropy
// source. Per §9 Open Question 4, the RNG used here is always local to
// this call -- never a shared/global generator -- so a seeded call can
// never leak state into a later unseeded call.
func RandBin(value string, length int, seed *int64) (string, error) {
	if length == 0 {
		length = len(value)
	}
	if length < 0 {
		return "", fmt.Errorf("%w: negative bit width %d", errs.ErrSchema, length)
	}

	var r *mathrand.Rand
	if seed != nil {
		r = mathrand.New(mathrand.NewSource(*seed))
	} else {
		var buf [8]byte
		if _, err := cryptorand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("%w: seeding random source: %v", errs.ErrIO, err)
		}
		r = mathrand.New(mathrand.NewSource(int64(binary.BigEndian.Uint64(buf[:]))))
	}

	out := make([]byte, length)
	for i := 0; i < length; i++ {
		if r.Intn(2) == 1 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out), nil
}

// BinAllIterator lazily walks every n-bit value from 0 to 2^n-1 in order,
// without materializing the full sweep -- the odometer is a single
// uint256.Int counter, incremented on each Next call.
type BinAllIterator struct {
	n    int
	cur  *uint256.Int
	max  *uint256.Int
	done bool
}

// GenBinAll returns an iterator over every n-bit zero-padded bit-string
// from "00...0" to "11...1", intended for exhaustive sweeps of small
// fields (n <= 256).
func GenBinAll(n int) (*BinAllIterator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: gen_binall width must be positive, got %d", errs.ErrSchema, n)
	}
	if n > maxBinAllWidth {
		return nil, fmt.Errorf("%w: gen_binall width %d exceeds %d-bit sweep limit", errs.ErrSchema, n, maxBinAllWidth)
	}
	max := new(uint256.Int).Lsh(uint256.NewInt(1), uint(n))
	max.Sub(max, uint256.NewInt(1))
	return &BinAllIterator{n: n, cur: uint256.NewInt(0), max: max}, nil
}

// Next returns the next bit-string in the sweep, or ok=false once the
// sweep is exhausted.
func (it *BinAllIterator) Next() (val string, ok bool) {
	if it.done {
		return "", false
	}
	val = zeroPadHex(it.cur, it.n)
	if it.cur.Eq(it.max) {
		it.done = true
	} else {
		it.cur.AddUint64(it.cur, 1)
	}
	return val, true
}

// zeroPadHex renders v as an n-bit, zero-padded canonical bit-string. v's
// big-endian 32-byte form always has enough low-order bits for n <= 256;
// the high-order bytes beyond width n are guaranteed zero by the odometer
// bound in GenBinAll.
func zeroPadHex(v *uint256.Int, n int) string {
	raw := v.Bytes32()
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		bitIndex := n - 1 - i // distance from the LSB
		byteIdx := len(raw) - 1 - bitIndex/8
		mask := byte(1) << uint(bitIndex%8)
		if raw[byteIdx]&mask != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
