// Package payload implements the append-only bit-field schema every other
// bbuzz-go component builds on: an ordered sequence of BitField
// descriptors, each carrying a source-format value, a mutation-family
// type, a declared bit-width, and a stable identity hash.
//
// Spec: a declarative, bit-accurate description of a structured packet,
// grounded in the source's bbuzz.payload.Payload and, for the field-level
// shape (immutable descriptor + accessor methods), the teacher's
// ssz.Bitvector/Bitlist pattern of small value types with accessor
// methods rather than public struct fields.
package payload

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// Format is the source encoding a BitField's Data is expressed in.
type Format string

// Recognized field formats.
const (
	FormatBin   Format = "bin"
	FormatHex   Format = "hex"
	FormatDec   Format = "dec"
	FormatOct   Format = "oct"
	FormatStr   Format = "str"
	FormatBytes Format = "bytes"
)

// Type selects the mutation family applied to a fuzzable field.
type Type string

// Recognized field types.
const (
	TypeBinary    Type = "binary"
	TypeNumeric   Type = "numeric"
	TypeString    Type = "string"
	TypeDelimiter Type = "delimiter"
	TypeStatic    Type = "static"
)

// hashTailLength is the number of random ASCII alphanumerics appended to a
// field's data before hashing, per §3's "128 random ASCII alphanumerics".
const hashTailLength = 128

const alphanumerics = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Options configures a field passed to Payload.Add. Format and Type are
// required; the rest default per §3/§6.
type Options struct {
	Format   Format
	Type     Type
	Length   int  // bit-width; -1 means variable. Defaults to len(Data) if unset (Length == 0 and len(Data) != 0).
	Group    bool // Data is a comma-list of candidate values. Only recorded: the mutation engine does not select among the values and converts Data as a whole.
	Fuzzable *bool // nil defers to the Type-based default: false iff Type == static.
	// Seed, if non-nil, makes the identity hash's random tail
	// deterministic -- isolated per call rather than mutating any
	// package-level RNG state (see the seeding note on BitField.Hash).
	Seed *int64
}

// BitField is an immutable field descriptor, fixed once it is appended to
// a Payload by Add.
type BitField struct {
	data     string
	format   Format
	typ      Type
	length   int
	group    bool
	fuzzable bool
	hash     string
}

// Data returns the field's value in its declared source format.
func (f BitField) Data() string { return f.data }

// Format returns the field's source encoding.
func (f BitField) Format() Format { return f.format }

// Type returns the field's mutation family.
func (f BitField) Type() Type { return f.typ }

// Length returns the field's declared bit-width, or -1 for variable length.
func (f BitField) Length() int { return f.length }

// Group reports whether Data is a comma-separated list of candidate values.
func (f BitField) Group() bool { return f.group }

// Fuzzable reports whether mutation is applied to this field.
func (f BitField) Fuzzable() bool { return f.fuzzable }

// Hash returns the field's stable 64-hex-char SHA-256 identity.
func (f BitField) Hash() string { return f.hash }

// newBitField validates options and assigns defaults, mirroring
// Payload.add's option-filling in the source.
func newBitField(data string, opts Options) (BitField, error) {
	if opts.Format == "" {
		return BitField{}, fmt.Errorf("%w: missing FORMAT", errs.ErrSchema)
	}
	if opts.Type == "" {
		return BitField{}, fmt.Errorf("%w: missing TYPE", errs.ErrSchema)
	}

	length := opts.Length
	if length == 0 && data != "" {
		length = len(data)
	}

	fuzzable := opts.Type != TypeStatic
	if opts.Fuzzable != nil {
		fuzzable = *opts.Fuzzable
	}

	hash, err := hashField(data, opts.Seed)
	if err != nil {
		return BitField{}, err
	}

	return BitField{
		data:     data,
		format:   opts.Format,
		typ:      opts.Type,
		length:   length,
		group:    opts.Group,
		fuzzable: fuzzable,
		hash:     hash,
	}, nil
}

// hashField computes SHA-256(data || 128 random ASCII alphanumerics). Per
// §9 Open Question 4, the random tail is drawn from an RNG local to this
// call -- never a package-level/global generator -- so a seeded call can
// never leak determinism into an unrelated unseeded call that happens to
// run afterward.
func hashField(data string, seed *int64) (string, error) {
	tail := make([]byte, hashTailLength)
	if seed != nil {
		r := mathrand.New(mathrand.NewSource(*seed))
		for i := range tail {
			tail[i] = alphanumerics[r.Intn(len(alphanumerics))]
		}
	} else {
		idx := make([]byte, hashTailLength)
		if _, err := rand.Read(idx); err != nil {
			return "", fmt.Errorf("%w: reading random hash tail: %v", errs.ErrIO, err)
		}
		for i, b := range idx {
			tail[i] = alphanumerics[int(b)%len(alphanumerics)]
		}
	}
	sum := sha256.Sum256(append([]byte(data), tail...))
	return hex.EncodeToString(sum[:]), nil
}
