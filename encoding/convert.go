// Package encoding provides lossless, width-exact conversions between the
// source encodings a BitField may carry (bin, hex, dec, oct, str, bytes)
// and the canonical bit-string form every other bbuzz-go component
// operates on, plus the address parsers and statistical helpers the
// payload schema and mutation engine build on.
//
// The canonical bit-string is a sequence of '0'/'1' runes, left-padded to
// a declared width. Representing it as a string (rather than a bitset or
// big.Int) keeps the shift, known-value and endian-swap operators in
// mutate/kernel trivial string slices, the way the source implementation
// operates on bit-string literals directly; only bit-flip converts to a
// bitset internally.
package encoding

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// Byte is the bit-width of one byte, mirroring the source's BYTE constant.
const Byte = 8

func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func checkWidth(value uint64, width int, format string) error {
	need := bits.Len64(value)
	if need == 0 {
		need = 1
	}
	if need > width {
		return fmt.Errorf("%w: %s value needs %d bits, field width is %d", errs.ErrSchema, format, need, width)
	}
	return nil
}

// HexToBin converts a hexadecimal literal (no "0x" prefix) to a canonical
// bit-string zero-padded to width. width == 0 derives the width from the
// literal's nibble count (4 bits/nibble), matching the source's
// hex2bin(hexvalue, init_length=0) default.
func HexToBin(h string, width int) (string, error) {
	if h == "" {
		return "", fmt.Errorf("%w: empty hex literal", errs.ErrMalformed)
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid hex literal %q: %v", errs.ErrMalformed, h, err)
	}
	if width == 0 {
		width = len(h) * 4
	}
	if err := checkWidth(v, width, "hex"); err != nil {
		return "", err
	}
	return zfill(strconv.FormatUint(v, 2), width), nil
}

// DecToBin converts a decimal literal to a canonical bit-string zero-padded
// to width.
func DecToBin(d string, width int) (string, error) {
	v, err := strconv.ParseUint(d, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid decimal literal %q: %v", errs.ErrMalformed, d, err)
	}
	if err := checkWidth(v, width, "dec"); err != nil {
		return "", err
	}
	return zfill(strconv.FormatUint(v, 2), width), nil
}

// OctToBin converts an octal literal to a canonical bit-string zero-padded
// to width.
func OctToBin(o string, width int) (string, error) {
	v, err := strconv.ParseUint(o, 8, 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid octal literal %q: %v", errs.ErrMalformed, o, err)
	}
	if err := checkWidth(v, width, "oct"); err != nil {
		return "", err
	}
	return zfill(strconv.FormatUint(v, 2), width), nil
}

// StrToBin converts a string to its canonical bit-string form, one byte per
// rune of the literal ASCII text. width == 0 derives the width from the
// string's natural byte length (8 bits/char), matching str2bin(strvalue,
// init_length=0).
func StrToBin(s string, width int) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		b.WriteString(zfill(strconv.FormatUint(uint64(s[i]), 2), Byte))
	}
	if width == 0 {
		width = len(s) * Byte
	}
	return zfill(b.String(), width)
}

// BytesToBin converts a byte slice to its canonical bit-string form.
// width == 0 derives the width from len(data)*8.
func BytesToBin(data []byte, width int) string {
	var b strings.Builder
	for _, c := range data {
		b.WriteString(zfill(strconv.FormatUint(uint64(c), 2), Byte))
	}
	if width == 0 {
		width = len(data) * Byte
	}
	return zfill(b.String(), width)
}

// BinToHex converts a canonical bit-string to a hex string. The input must
// be byte-aligned (len%8==0); the source's bin2hex has this same
// restriction despite converting nibble-sized groups, because it walks the
// string one byte at a time.
func BinToHex(b string) (string, error) {
	if len(b)%Byte != 0 {
		return "", fmt.Errorf("%w: bin->hex requires a byte-aligned bit-string, got %d bits", errs.ErrUnaligned, len(b))
	}
	var out strings.Builder
	for i := 0; i < len(b); i += Byte {
		v, err := strconv.ParseUint(b[i:i+Byte], 2, 8)
		if err != nil {
			return "", fmt.Errorf("%w: invalid bit-string octet %q", errs.ErrMalformed, b[i:i+Byte])
		}
		out.WriteString(zfill(strconv.FormatUint(v, 16), 2))
	}
	return out.String(), nil
}

// BinToBytes packs a canonical bit-string into bytes. Fails with
// errs.ErrUnaligned unless len(b)%8 == 0, per §3's alignment invariant.
func BinToBytes(b string) ([]byte, error) {
	if len(b)%Byte != 0 {
		return nil, fmt.Errorf("%w: assembled payload is %d bits, not byte-aligned", errs.ErrUnaligned, len(b))
	}
	out := make([]byte, len(b)/Byte)
	for i := 0; i < len(out); i++ {
		v, err := strconv.ParseUint(b[i*Byte:i*Byte+Byte], 2, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid bit-string octet %q", errs.ErrMalformed, b[i*Byte:i*Byte+Byte])
		}
		out[i] = byte(v)
	}
	return out, nil
}

// IsZero reports whether the canonical bit-string is entirely '0'.
func IsZero(b string) bool {
	return !strings.ContainsRune(b, '1')
}

// IsOne reports whether the canonical bit-string is entirely '1'.
func IsOne(b string) bool {
	return !strings.ContainsRune(b, '0')
}
