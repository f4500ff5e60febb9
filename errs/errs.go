// Package errs defines the error taxonomy shared by every bbuzz-go
// component. Errors are plain sentinels, matched with errors.Is and
// wrapped with fmt.Errorf at the call site, the way the teacher package's
// ssz.ErrSize/ErrOffset/ErrInvalidBool sentinels are used.
package errs

import "errors"

var (
	// ErrSchema covers a missing FORMAT/TYPE, an unknown FORMAT, or a
	// length mismatch (including a decoded value wider than its field)
	// while converting a field's data to its canonical bit-string.
	ErrSchema = errors.New("bbuzz: schema error")

	// ErrUnaligned marks an assembled payload (or a bin->bytes call)
	// whose bit length is not a multiple of 8.
	ErrUnaligned = errors.New("bbuzz: unaligned bit length")

	// ErrIndexOutOfRange marks a schema accessor called past field_count.
	ErrIndexOutOfRange = errors.New("bbuzz: field index out of range")

	// ErrIO covers raw-socket creation, bind, or send failures. ErrIO
	// itself is wrapped with %w; the underlying OS error appears only as
	// text in the message.
	ErrIO = errors.New("bbuzz: socket I/O error")

	// ErrMalformed marks an unparsable MAC/IP address or an invalid
	// bin/hex/dec/oct literal or bit-string.
	ErrMalformed = errors.New("bbuzz: malformed input")
)
