// Package analyze implements payload_analyze: offline statistics over a
// captured set of equal-length bit-string samples, per §6's "Capture-
// analysis input" and the source's payload_analyze helper.
//
// Supplements that source with duplicate-sample counting via
// cespare/xxhash/v2 fingerprints, the way a capture-analysis tool in the
// rest of the pack would report how much of a capture is redundant
// before spending time on the more expensive mask/entropy passes.
package analyze

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/lockoutlabs/bbuzz-go/encoding"
	"github.com/lockoutlabs/bbuzz-go/errs"
)

// DetailLevel selects how much of the analysis payload_analyze computes.
type DetailLevel int

// Recognized detail levels, per §6: 0 is mask-only, 1 adds bit-group
// segmentation, 2 adds Shannon entropy of the first sample.
const (
	DetailMaskOnly DetailLevel = 0
	DetailGroups   DetailLevel = 1
	DetailEntropy  DetailLevel = 2
)

// Report is the structured result of PayloadAnalyze, returned to the
// caller rather than printed -- the source's payload_analyze prints
// directly, which this supplements into a value callers can act on.
type Report struct {
	SampleCount int
	Width       int
	Mask        string
	Groups      []encoding.Segment // nil below DetailGroups
	Entropy     float64            // 0 below DetailEntropy
	HasEntropy  bool

	DistinctSamples int
	DuplicateCount  int
}

// PayloadAnalyze computes a Report over dataLists (in-memory samples) and,
// if datafile is non-empty, appends every line read from it (one
// bit-string per line). All samples must be equal-length.
func PayloadAnalyze(dataLists []string, datafile string, detail DetailLevel) (*Report, error) {
	samples := append([]string(nil), dataLists...)

	if datafile != "" {
		f, err := os.Open(datafile)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", errs.ErrIO, datafile, err)
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			samples = append(samples, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrIO, datafile, err)
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples to analyze", errs.ErrSchema)
	}

	mask, err := encoding.Mask(samples)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		SampleCount: len(samples),
		Width:       len(samples[0]),
		Mask:        mask,
	}

	seen := make(map[uint64]struct{}, len(samples))
	for _, s := range samples {
		h := xxhash.Sum64String(s)
		if _, ok := seen[h]; ok {
			rep.DuplicateCount++
			continue
		}
		seen[h] = struct{}{}
	}
	rep.DistinctSamples = len(seen)

	if detail >= DetailGroups {
		groups, err := encoding.GroupFields(samples[0], mask)
		if err != nil {
			return nil, err
		}
		rep.Groups = groups
	}

	if detail >= DetailEntropy {
		rep.Entropy = encoding.Entropy(samples[0])
		rep.HasEntropy = true
	}

	return rep, nil
}
