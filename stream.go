package vectorcsv

// Record is one streaming row: its fields, always owned since the chunk
// bytes backing them are ephemeral -- the streaming parser's buffer is
// reused and compacted, so a borrowed Field would dangle.
type Record []Field

// streamState names the states of spec.md §4.6's state-machine table. It is
// derived on demand by Stream.state rather than stored, since it is fully
// determined by the buffer length, the carry, and whether Finalize has run.
type streamState int

const (
	streamEmpty streamState = iota
	streamAccumulating
	streamCarrying
	streamFinalised
)

// Stream is the stateful chunked front-end over the structural scanner: a
// chunked byte buffer, a scan cursor, a row-in-progress start, a quote
// carry, and a complete-row accumulator, exactly spec.md §4.6's streaming
// parser state.
type Stream struct {
	cfg Config

	buffer     []byte
	scanCursor int
	rowStart   int
	carry      Carry
	idx        *StructuralIndex

	rows []Record

	maxBuffer  int
	finalised  bool
}

// StreamParser is satisfied by both Stream (the vectorised single-byte
// fast path) and GeneralStream (the multi-byte variant, general.go). It
// mirrors the dispatch RustyCSV's resource.rs performs between its
// StreamingParserEnum variants, lifted to a plain interface since Go has no
// sum types: a host-provided wrapper can hold a StreamParser without caring
// which backend Config.isSingleByte() selected.
type StreamParser interface {
	Feed(chunk []byte) error
	TakeRows(max int) []Record
	Status() (available, bufferBytes int, hasPartial bool)
	SetMaxBuffer(n int)
	Finalize() []Record
	ValidateComplete() error
}

// NewAnyStream constructs whichever of Stream or GeneralStream fits cfg,
// selected by Config.isSingleByte() -- the per-call dispatch spec.md §4.9
// calls out explicitly, in contrast to scanner tier selection which is
// fixed at startup.
func NewAnyStream(cfg Config) (StreamParser, error) {
	if cfg.isSingleByte() {
		return NewStream(cfg)
	}
	return NewGeneralStream(cfg)
}

// NewStream constructs a Stream. cfg must be single-byte (separators and
// escape exactly one byte, default newline set); any other configuration,
// including one with custom newlines, uses NewGeneralStream instead.
func NewStream(cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.isSingleByte() {
		return nil, errGeneralVariantIndex
	}
	return &Stream{
		cfg:       cfg,
		idx:       &StructuralIndex{},
		maxBuffer: cfg.maxBuffer(),
	}, nil
}

// SetMaxBuffer changes the buffer ceiling enforced by future Feed calls.
func (s *Stream) SetMaxBuffer(n int) { s.maxBuffer = n }

// state reports the streaming parser's current state per spec.md §4.6.
func (s *Stream) state() streamState {
	switch {
	case s.finalised:
		return streamFinalised
	case s.carry.inQuote:
		return streamCarrying
	case len(s.buffer) == 0:
		return streamEmpty
	default:
		return streamAccumulating
	}
}

// Feed appends chunk to the internal buffer, advances the incremental scan,
// and materialises any newly completed rows into the accumulator as owned
// Records. If appending chunk would push the buffer past MaxBuffer, Feed
// returns ErrOverflow before mutating any state at all -- the caller may
// retry with a smaller chunk after draining rows with TakeRows, or raise the
// limit with SetMaxBuffer.
func (s *Stream) Feed(chunk []byte) error {
	if s.finalised {
		return ErrStreamFinalised
	}
	if len(s.buffer)+len(chunk) > s.maxBuffer {
		return ErrOverflow
	}

	s.buffer = append(s.buffer, chunk...)
	s.idx.InputLen = uint32(len(s.buffer))
	s.carry = ScanIncremental(s.buffer, s.scanCursor, s.cfg.Separators, s.cfg.Escape, s.carry, s.idx)
	s.scanCursor = len(s.buffer)

	s.materialiseCompleteRows()
	s.maybeCompact()
	return nil
}

// materialiseCompleteRows walks every row-end the last scan discovered,
// extracts its fields as owned Records, appends them to the accumulator,
// and advances rowStart past it. Any separators left over belong to the
// still-incomplete row and are kept (shifted to the front of idx.FieldSeps)
// for the next call.
func (s *Stream) materialiseCompleteRows() {
	sepCursor := 0
	for _, re := range s.idx.RowEnds {
		contentEnd := int(re.Pos)
		sepLo := sepCursor
		for sepCursor < len(s.idx.FieldSeps) && int(s.idx.FieldSeps[sepCursor]) < contentEnd {
			sepCursor++
		}
		seps := s.idx.FieldSeps[sepLo:sepCursor]
		row := Row{RowStart: uint32(s.rowStart), ContentEnd: uint32(contentEnd)}
		fields := rowFieldsOwned(s.buffer, row, seps, s.cfg.Escape)
		if !s.cfg.KeepEmptyRows && isSingleEmptyField(fields) {
			// dropped
		} else {
			s.rows = append(s.rows, Record(fields))
		}
		s.rowStart = contentEnd + int(re.Len)
	}
	// Keep only the separators belonging to the row still in progress.
	s.idx.FieldSeps = append(s.idx.FieldSeps[:0], s.idx.FieldSeps[sepCursor:]...)
	s.idx.RowEnds = s.idx.RowEnds[:0]
}

// rowFieldsOwned is rowFields but forces every field to be an owned copy,
// since streaming output must outlive the reused, compactable buffer.
func rowFieldsOwned(input []byte, row Row, seps []uint32, escape []byte) []Field {
	fields := rowFields(input, row, seps, escape)
	for i, f := range fields {
		if !f.Owned() {
			fields[i] = ownedField(append([]byte(nil), f.Bytes()...))
		}
	}
	return fields
}

// maybeCompact shifts the buffer left by rowStart bytes once the consumed
// prefix exceeds half the buffer, per spec.md §4.6's stated policy.
// Compaction is unobservable to the consumer except via a smaller
// bufferBytes in Status.
func (s *Stream) maybeCompact() {
	if s.rowStart == 0 || len(s.buffer) == 0 || s.rowStart <= len(s.buffer)/2 {
		return
	}
	shift := s.rowStart
	copy(s.buffer, s.buffer[shift:])
	s.buffer = s.buffer[:len(s.buffer)-shift]
	s.scanCursor -= shift
	s.rowStart = 0
	for i := range s.idx.FieldSeps {
		s.idx.FieldSeps[i] -= uint32(shift)
	}
}

// TakeRows removes and returns up to max fully complete rows from the
// accumulator, in input order. It never blocks. max <= 0 returns every
// available row.
func (s *Stream) TakeRows(max int) []Record {
	if max <= 0 || max > len(s.rows) {
		max = len(s.rows)
	}
	out := s.rows[:max]
	s.rows = s.rows[max:]
	return out
}

// Status reports the number of fully complete rows waiting in the
// accumulator, the current buffer size in bytes, and whether a row is
// partially accumulated (bytes exist past the last completed row).
func (s *Stream) Status() (available, bufferBytes int, hasPartial bool) {
	return len(s.rows), len(s.buffer), s.rowStart < len(s.buffer)
}

// Finalize treats any bytes after the last terminator as a final row whose
// content end is the buffer end, drains every remaining row (including that
// final one), and transitions the Stream to its terminal state -- no
// further Feed call is accepted afterwards. If the quote carry is set at
// finalisation (an unterminated quoted region), the remaining bytes are
// returned as a single field with no unescape attempt, matching the
// best-effort semantics the scanner and extractor share throughout.
func (s *Stream) Finalize() []Record {
	if !s.finalised && s.rowStart < len(s.buffer) {
		var last Record
		if s.carry.inQuote {
			last = Record{borrowedFieldCopy(s.buffer[s.rowStart:])}
		} else {
			row := Row{RowStart: uint32(s.rowStart), ContentEnd: uint32(len(s.buffer))}
			seps := s.idx.FieldSeps
			last = Record(rowFieldsOwned(s.buffer, row, seps, s.cfg.Escape))
		}
		if !(!s.cfg.KeepEmptyRows && isSingleEmptyField([]Field(last))) {
			s.rows = append(s.rows, last)
		}
		s.rowStart = len(s.buffer)
	}
	s.finalised = true
	out := s.rows
	s.rows = nil
	return out
}

// ValidateComplete reports a strict error when the stream's quote-carry
// state is still open -- an unterminated quoted region extending to the end
// of input. Finalize itself never rejects this (spec.md §6: "callers that
// need strictness must validate after the fact"), returning the trailing
// bytes as a single best-effort field instead; ValidateComplete is that
// after-the-fact check, callable once feeding is done, before or after
// Finalize.
func (s *Stream) ValidateComplete() error {
	if s.carry.inQuote {
		return &ParseError{Row: len(s.rows), Field: -1, Err: ErrUnterminatedQuote}
	}
	return nil
}

func borrowedFieldCopy(b []byte) Field {
	return ownedField(append([]byte(nil), b...))
}
