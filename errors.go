package vectorcsv

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the configuration, streaming, and extraction
// surfaces. Callers should compare against these with errors.Is rather than
// string matching.
var (
	// ErrEmptyPattern is returned when a separator, escape, or custom
	// newline pattern is the empty byte sequence.
	ErrEmptyPattern = errors.New("vectorcsv: pattern must not be empty")

	// ErrInvalidMaxBuffer is returned when a streaming configuration's
	// MaxBuffer is not a positive number of bytes.
	ErrInvalidMaxBuffer = errors.New("vectorcsv: max buffer must be positive")

	// ErrInputTooLarge is returned when an input slice would require a
	// structural position beyond the 32-bit range the index uses.
	ErrInputTooLarge = errors.New("vectorcsv: input exceeds 4GiB position limit")

	// ErrOverflow is returned by Stream.Feed when appending the chunk
	// would push the internal buffer past MaxBuffer. The call fails
	// before any state mutation: the chunk is not appended, the scan
	// cursor does not advance, and the buffer is left exactly as it was.
	ErrOverflow = errors.New("vectorcsv: streaming buffer would exceed max buffer")

	// ErrStreamFinalised is returned by Feed once Finalize has been
	// called on a Stream.
	ErrStreamFinalised = errors.New("vectorcsv: stream already finalised")

	// ErrStreamLocked is not raised internally -- the streaming parser
	// has no locking of its own. It is provided as a matching sentinel
	// for hosts that wrap a *Stream in a sync.Mutex or sync.RWMutex and
	// want to report a TryLock failure (or a recovered panic from a
	// poisoned lock, in runtimes that have such a concept) with an error
	// value that belongs to this package.
	ErrStreamLocked = errors.New("vectorcsv: stream is locked by another caller")
)

// ParseError reports a single malformed-input condition encountered while
// reading or validating CSV. The core scanner and extractor are best-effort
// and never themselves raise a ParseError; it is constructed by
// Stream.ValidateComplete and GeneralStream.ValidateComplete, the
// after-the-fact strictness check callers run once feeding is done, and is
// available for callers layering further validation of their own.
type ParseError struct {
	// Row and Field are zero-based; Field is -1 when the error is not
	// attributable to a single field.
	Row   int
	Field int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("vectorcsv: row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("vectorcsv: row %d, field %d: %v", e.Row, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrUnterminatedQuote is wrapped by the *ParseError ValidateComplete
// returns when a stream's quote-carry state is still open, instead of
// silently accepting the best-effort "extends to end of input" behaviour.
var ErrUnterminatedQuote = errors.New("vectorcsv: quoted field has no closing quote")
