package encoding

import (
	"fmt"
	"strings"

	"github.com/lockoutlabs/bbuzz-go/errs"
)

// Mask derives the bit-mask of a set of equal-length bit-strings: each
// position is '0' or '1' when every sample agrees there, '*' otherwise.
// Mirrors the source's payload_analyze mask-building loop.
func Mask(samples []string) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("%w: no samples to mask", errs.ErrSchema)
	}
	width := len(samples[0])
	for _, s := range samples[1:] {
		if len(s) != width {
			return "", fmt.Errorf("%w: sample length mismatch, want %d got %d", errs.ErrSchema, width, len(s))
		}
	}

	out := make([]byte, width)
	for pos := 0; pos < width; pos++ {
		symbol := samples[0][pos]
		agree := true
		for _, s := range samples[1:] {
			if s[pos] != symbol {
				agree = false
				break
			}
		}
		if agree {
			out[pos] = symbol
		} else {
			out[pos] = '*'
		}
	}
	return string(out), nil
}

// Segment is a maximal run of either mutable ('*') or immutable ('0'/'1')
// positions in a sample, as segmented by its mask.
type Segment struct {
	Value   string
	Mutable bool
}

// GroupFields segments sample into maximal runs of mutable/immutable
// positions according to mask, mirroring the source's group_fields.
func GroupFields(sample, mask string) ([]Segment, error) {
	if len(sample) != len(mask) {
		return nil, fmt.Errorf("%w: sample length %d does not match mask length %d", errs.ErrSchema, len(sample), len(mask))
	}
	if len(mask) == 0 {
		return nil, nil
	}

	var segments []Segment
	var cur strings.Builder
	curMutable := mask[0] == '*'
	cur.WriteByte(sample[0])

	for pos := 1; pos < len(mask); pos++ {
		mutable := mask[pos] == '*'
		if mutable == curMutable {
			cur.WriteByte(sample[pos])
			continue
		}
		segments = append(segments, Segment{Value: cur.String(), Mutable: curMutable})
		cur.Reset()
		cur.WriteByte(sample[pos])
		curMutable = mutable
	}
	segments = append(segments, Segment{Value: cur.String(), Mutable: curMutable})
	return segments, nil
}
