// Package mutate implements the mutation engine: converting a payload's
// fields to canonical bit-strings, building each field's per-field
// mutation set, walking their Cartesian product as the static phase, and
// (optionally) continuing with an unbounded random phase afterward.
//
// Grounded in the source's bbuzz.mutate.Mutate class: its __init__
// (convert), get_mutation (per-field set construction), and get (the
// odometer-driven pull loop with its END-OF-STATIC/END-OF-ALL sentinels).
package mutate

import (
	"fmt"
	"strings"

	"github.com/lockoutlabs/bbuzz-go/encoding"
	"github.com/lockoutlabs/bbuzz-go/errs"
	"github.com/lockoutlabs/bbuzz-go/internal/blog"
	"github.com/lockoutlabs/bbuzz-go/internal/telemetry"
	"github.com/lockoutlabs/bbuzz-go/mutate/kernel"
	"github.com/lockoutlabs/bbuzz-go/payload"
)

// ResultKind distinguishes the four things Get can hand back to a driver.
type ResultKind int

const (
	// ResultPayload carries an assembled, byte-aligned candidate.
	ResultPayload ResultKind = iota
	// ResultEndOfStatic marks the single transition out of the static
	// (Cartesian-product) phase. Emitted exactly once per engine whose
	// static phase is enabled; an engine built with Static=false never
	// emits it.
	ResultEndOfStatic
	// ResultEndOfAll marks the end of the entire stream -- either the
	// static phase finished (or was disabled) with random continuation
	// disabled, or the random phase was cut short because no candidate it
	// could ever produce is byte-aligned. Emitted at most once per engine;
	// a byte-aligned engine with random continuation enabled never emits it.
	ResultEndOfAll
)

// Result is the tagged value Engine.Get returns. Bytes is only meaningful
// when Kind == ResultPayload, and an empty Bytes there is a legitimate
// zero-length payload, not an absence of one -- callers must branch on
// Kind, never on whether Bytes is empty.
type Result struct {
	Kind  ResultKind
	Bytes []byte
}

// Options configures an Engine. Static defaults to true; Random defaults
// to false. Seed, if set, makes the random phase's draws deterministic.
type Options struct {
	Static *bool
	Random bool
	Seed   *int64
}

func (o Options) staticEnabled() bool {
	if o.Static == nil {
		return true
	}
	return *o.Static
}

// Engine pulls mutated, assembled candidates from a Payload: first every
// point in the Cartesian product of each field's mutation set (the static
// phase), then, if enabled, an unbounded stream of independently-random
// per-field draws (the random phase).
type Engine struct {
	opts Options

	canonical    []string   // per-field canonical bit-strings, from phase 1 (convert)
	fields       []payload.BitField
	mutationSets [][]string // per-field mutation sets, from phase 2
	aligned      bool       // true iff the sum of field widths is a multiple of 8

	odo *odometer

	staticDone   bool  // odometer exhausted; ResultEndOfStatic already emitted
	streamClosed bool  // ResultEndOfAll already emitted; every further Get is an error
	randCalls    int64 // draws made so far in the random phase, mixed into Seed so repeated draws differ

	log   *blog.Logger
	stats *telemetry.EngineStats
}

// New builds an Engine over p: phase 1 (convert each field to its
// canonical bit-string) and phase 2 (build each field's mutation set) run
// eagerly here: both are schema-level, independent of enumeration order.
//
// A field whose FORMAT cannot be decoded, or whose decoded value does not
// fit its declared Length, is a schema error that New surfaces directly
// -- there is no canonical bit-string to fall back to, so there is
// nothing an engine could safely build with that field (§4.E: "implementations
// must surface this rather than silently proceed").
func New(p *payload.Payload, opts Options) (*Engine, error) {
	e := &Engine{
		opts:  opts,
		log:   blog.Default().Component("mutate"),
		stats: telemetry.NewEngineStats(),
	}

	n := p.FieldCount()
	e.fields = make([]payload.BitField, n)
	e.canonical = make([]string, n)
	e.mutationSets = make([][]string, n)

	totalBits := 0
	for i := 0; i < n; i++ {
		f, err := p.BitField(i)
		if err != nil {
			return nil, err
		}
		e.fields[i] = f

		c, err := convertField(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		e.canonical[i] = c
		totalBits += len(c)
	}
	e.aligned = totalBits%encoding.Byte == 0

	for i, f := range e.fields {
		set, err := mutationSet(f, e.canonical[i], e.log)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		e.mutationSets[i] = set
	}

	e.odo = newOdometer(e.mutationSets)
	return e, nil
}

// Stats returns the engine's candidate-emitted/candidate-skipped counters
// for this run.
func (e *Engine) Stats() *telemetry.EngineStats { return e.stats }

// convertField decodes a field's source-format Data into its canonical
// bit-string, per §3/§4.A's per-FORMAT converters. Length <= 0 (variable
// or unset) takes the converter's natural width for bin, hex, str and
// bytes; the dec and oct converters have no natural width, so a dec or oct
// field with Length <= 0 fails with a schema error. Length > 0 requires
// the decoded value fit within it.
func convertField(f payload.BitField) (string, error) {
	width := f.Length()
	if width < 0 {
		width = 0 // variable-length: passed to the converters as width 0
	}

	switch f.Format() {
	case payload.FormatBin:
		return padBinary(f.Data(), width)
	case payload.FormatHex:
		return encoding.HexToBin(f.Data(), width)
	case payload.FormatDec:
		return encoding.DecToBin(f.Data(), width)
	case payload.FormatOct:
		return encoding.OctToBin(f.Data(), width)
	case payload.FormatStr:
		return encoding.StrToBin(f.Data(), width), nil
	case payload.FormatBytes:
		return encoding.BytesToBin([]byte(f.Data()), width), nil
	default:
		return "", fmt.Errorf("%w: unrecognized FORMAT %q", errs.ErrSchema, f.Format())
	}
}

// padBinary validates a FormatBin field's literal value against its
// declared width and zero-pads it, mirroring what the hex/dec/oct
// converters do for their own literals.
func padBinary(data string, width int) (string, error) {
	for _, c := range data {
		if c != '0' && c != '1' {
			return "", fmt.Errorf("%w: invalid bin literal %q", errs.ErrMalformed, data)
		}
	}
	if width == 0 {
		return data, nil
	}
	if len(data) > width {
		return "", fmt.Errorf("%w: bin literal %q needs %d bits, field width is %d", errs.ErrSchema, data, len(data), width)
	}
	return strings.Repeat("0", width-len(data)) + data, nil
}

// mutationSet builds a field's per-field mutation set, per §4.E:
//   - non-fuzzable fields degenerate to the identity set {c}.
//   - TypeBinary draws from the binary kernel.
//   - TypeNumeric/TypeString/TypeDelimiter/TypeStatic contribute {c}
//     directly -- the spec defines no numeric/string-specific kernel, so
//     these mutate only insofar as they participate in the Cartesian
//     product alongside other fields.
//   - an unrecognized TYPE is a schema error that degrades the field to
//     {c} rather than aborting engine construction, per §4.E: "Unknown
//     type -> SchemaError; field degenerates to {c_i}."
//
// Group fields (f.Group()) carry no selection strategy in the source this
// engine is grounded on either: the contract is preserved (the accessor
// exists, nothing rejects a grouped field) without inventing one.
func mutationSet(f payload.BitField, canonical string, log *blog.Logger) ([]string, error) {
	if !f.Fuzzable() {
		return []string{canonical}, nil
	}

	switch f.Type() {
	case payload.TypeBinary:
		return kernel.Binary(canonical)
	case payload.TypeNumeric, payload.TypeString, payload.TypeDelimiter, payload.TypeStatic:
		return []string{canonical}, nil
	default:
		log.Warn("unrecognized field type, degrading to identity", "type", f.Type())
		return []string{canonical}, nil
	}
}

// Get pulls the next tagged result. A non-nil error is the "falsy value"
// the transmission driver treats as an unrecoverable failure and always
// terminates on; after ResultEndOfAll, every further call returns an
// error.
func (e *Engine) Get() (Result, error) {
	if e.streamClosed {
		return Result{}, fmt.Errorf("%w: Get called after end-of-all", errs.ErrSchema)
	}

	if !e.staticDone && !e.opts.staticEnabled() {
		// STATIC=false skips the Cartesian-product phase outright rather
		// than enumerating it only to discard every result.
		e.staticDone = true
	}

	if !e.staticDone {
		for {
			combo, ok := e.odo.next()
			if !ok {
				e.staticDone = true
				e.log.Info("static phase exhausted", "candidates_emitted", e.stats.CandidatesEmitted.Load(),
					"candidates_skipped_unaligned", e.stats.CandidatesSkippedUnaligned.Load())
				return Result{Kind: ResultEndOfStatic}, nil
			}

			b, err := e.assemble(combo)
			if err != nil {
				e.stats.CandidatesSkippedUnaligned.Add(1)
				continue
			}
			e.stats.CandidatesEmitted.Add(1)
			e.log.Candidate("static candidate assembled", int(e.stats.CandidatesEmitted.Load()), len(b))
			return Result{Kind: ResultPayload, Bytes: b}, nil
		}
	}

	if !e.opts.Random {
		return e.endOfAll()
	}

	if !e.aligned {
		// Every random draw has the same per-field widths as the static
		// phase, so alignment is a schema-level constant: if it failed
		// for every static combination it will fail forever here too.
		// Ending the stream instead of retrying indefinitely is the only
		// way to honor "skip this candidate" without looping forever.
		e.log.Warn("payload is never byte-aligned; ending stream instead of looping the random phase forever")
		return e.endOfAll()
	}

	combo, err := e.randomCombo()
	if err != nil {
		return Result{}, err
	}
	b, err := e.assemble(combo)
	if err != nil {
		// Unreachable given the e.aligned precheck above, but handled
		// rather than assumed.
		e.stats.CandidatesSkippedUnaligned.Add(1)
		return e.endOfAll()
	}
	e.stats.CandidatesEmitted.Add(1)
	e.log.Candidate("random candidate drawn", int(e.stats.CandidatesEmitted.Load()), len(b))
	return Result{Kind: ResultPayload, Bytes: b}, nil
}

func (e *Engine) endOfAll() (Result, error) {
	e.streamClosed = true
	return Result{Kind: ResultEndOfAll}, nil
}

// assemble concatenates a per-field combination and packs it into bytes,
// failing with errs.ErrUnaligned if the concatenation is not byte-aligned.
func (e *Engine) assemble(combo []string) ([]byte, error) {
	return encoding.BinToBytes(strings.Join(combo, ""))
}

// randomCombo draws one random candidate per field: fuzzable fields draw
// from the random kernel at their canonical width, non-fuzzable fields
// keep their canonical value verbatim. When Seed is set, the base seed is
// mixed with the draw count and field index so repeated Get calls produce
// a deterministic sequence rather than the same value forever.
func (e *Engine) randomCombo() ([]string, error) {
	combo := make([]string, len(e.fields))
	for i, f := range e.fields {
		if !f.Fuzzable() {
			combo[i] = e.canonical[i]
			continue
		}
		seed := e.fieldSeed(i)
		v, err := kernel.RandBin(e.canonical[i], len(e.canonical[i]), seed)
		if err != nil {
			return nil, err
		}
		combo[i] = v
	}
	e.randCalls++
	return combo, nil
}

func (e *Engine) fieldSeed(field int) *int64 {
	if e.opts.Seed == nil {
		return nil
	}
	mixed := *e.opts.Seed + e.randCalls*int64(len(e.fields)) + int64(field)
	return &mixed
}
