package mutate

// odometer lazily walks the Cartesian product of a list of per-field
// mutation sets in lexicographic order, field 0 outermost, without ever
// materializing the full product -- a plain array of per-field indices
// incremented like a mechanical odometer, per §9's "strategy of
// odometer-style indices over the per-field mutation arrays is
// sufficient."
type odometer struct {
	sets  [][]string
	idx   []int
	empty bool // a field has zero candidates: the product is empty
	first bool
	done  bool
}

func newOdometer(sets [][]string) *odometer {
	o := &odometer{sets: sets, idx: make([]int, len(sets)), first: true}
	for _, s := range sets {
		if len(s) == 0 {
			o.empty = true
			break
		}
	}
	return o
}

// next returns the next combination (one bit-string per field, in field
// order) or ok=false once the product is exhausted.
func (o *odometer) next() (combo []string, ok bool) {
	if o.done || o.empty {
		return nil, false
	}
	if len(o.sets) == 0 {
		// Zero fields: the product has exactly one (empty) combination.
		if o.first {
			o.first = false
			return []string{}, true
		}
		return nil, false
	}

	if o.first {
		o.first = false
	} else {
		i := len(o.idx) - 1
		for i >= 0 {
			o.idx[i]++
			if o.idx[i] < len(o.sets[i]) {
				break
			}
			o.idx[i] = 0
			i--
		}
		if i < 0 {
			o.done = true
			return nil, false
		}
	}

	combo = make([]string, len(o.sets))
	for i, s := range o.sets {
		combo[i] = s[o.idx[i]]
	}
	return combo, true
}
