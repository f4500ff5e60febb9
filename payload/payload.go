package payload

import (
	"fmt"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// Payload is an append-only, ordered sequence of BitField descriptors. It
// is built once; there is no mutation or deletion of a field once added,
// matching §3's "Payloads are built once by append-only add".
type Payload struct {
	fields []BitField
}

// New returns an empty Payload.
func New() *Payload {
	return &Payload{}
}

// Add appends a new field built from data and opts. See Options for the
// accepted keys and their defaults.
func (p *Payload) Add(data string, opts Options) error {
	f, err := newBitField(data, opts)
	if err != nil {
		return err
	}
	p.fields = append(p.fields, f)
	return nil
}

// FieldCount returns the number of fields in the payload.
func (p *Payload) FieldCount() int {
	return len(p.fields)
}

// BitField returns the field at the given index. Bit fields are numbered
// from 0.
func (p *Payload) BitField(i int) (BitField, error) {
	if i < 0 || i >= len(p.fields) {
		return BitField{}, fmt.Errorf("%w: field %d, have %d fields", errs.ErrIndexOutOfRange, i, len(p.fields))
	}
	return p.fields[i], nil
}

// PayloadLength sums the declared bit-length of every field (variable
// fields, Length == -1, contribute nothing to the sum).
func (p *Payload) PayloadLength() int {
	total := 0
	for _, f := range p.fields {
		if f.length > 0 {
			total += f.length
		}
	}
	return total
}
