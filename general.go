package vectorcsv

import "sync"

// The general (multi-byte) variant implements every read strategy and a
// streaming variant using a scalar cursor walk instead of the vectorised
// scanner, for configurations where any of separator, escape, or newline
// exceeds one byte (spec.md §4.8). It reuses StructuralIndex, Cursor,
// RowAt, and the extraction contract unchanged -- only how the index is
// produced differs.

// scanGeneralStructural walks input with the same quote-carry state machine
// as the vectorised scanner, using starts_with-style checks at each
// position: inside quotes, look for the escape pattern and treat a
// doubled occurrence as data; outside quotes, check the escape pattern
// first, then separators (longest match wins among configured
// separators), then newlines (longest match, satisfying the greedy-match
// rule for patterns like "|" vs "||").
func scanGeneralStructural(input []byte, separators [][]byte, escape []byte, nl NewlineSet) *StructuralIndex {
	idx := &StructuralIndex{InputLen: uint32(len(input))}
	seps := sortPatternsLongestFirst(separators)
	inQuote := false
	pos := 0
	elen := len(escape)
	for pos < len(input) {
		if inQuote {
			if hasPrefixAt(input, pos, escape) {
				if hasPrefixAt(input, pos+elen, escape) {
					pos += 2 * elen
					continue
				}
				inQuote = false
				pos += elen
				continue
			}
			pos++
			continue
		}
		if hasPrefixAt(input, pos, escape) {
			inQuote = true
			pos += elen
			continue
		}
		if sep, ok := longestMatch(input[pos:], seps); ok {
			idx.FieldSeps = append(idx.FieldSeps, uint32(pos))
			pos += len(sep)
			continue
		}
		if n := nl.match(input, pos); n > 0 {
			idx.RowEnds = append(idx.RowEnds, RowEnd{Pos: uint32(pos), Len: uint8(n)})
			pos += n
			continue
		}
		pos++
	}
	return idx
}

func hasPrefixAt(buf []byte, pos int, pattern []byte) bool {
	if pos < 0 || pos+len(pattern) > len(buf) {
		return false
	}
	return hasPrefix(buf[pos:], pattern)
}

// fieldBoundsGeneral is fieldBounds generalised for a separator set whose
// members may differ in byte length: plain fieldBounds assumes every
// separator is exactly one byte (pos = s + 1), which holds for the
// vectorised single-byte scanner but not here, so each recorded separator
// position is re-matched against the configured pattern set to learn how
// many bytes it actually consumed.
func fieldBoundsGeneral(input []byte, row Row, seps []uint32, separators [][]byte) [][2]uint32 {
	bounds := make([][2]uint32, 0, len(seps)+1)
	pos := row.RowStart
	for _, s := range seps {
		bounds = append(bounds, [2]uint32{pos, s})
		m, _ := longestMatch(input[s:], separators)
		pos = s + uint32(len(m))
	}
	bounds = append(bounds, [2]uint32{pos, row.ContentEnd})
	return bounds
}

func rowFieldsGeneral(input []byte, row Row, seps []uint32, separators [][]byte, escape []byte) []Field {
	bounds := fieldBoundsGeneral(input, row, seps, separators)
	fields := make([]Field, len(bounds))
	for i, b := range bounds {
		fields[i] = extractField(input, int(b[0]), int(b[1]), escape)
	}
	return fields
}

func rowFieldsOwnedGeneral(input []byte, row Row, seps []uint32, separators [][]byte, escape []byte) []Field {
	fields := rowFieldsGeneral(input, row, seps, separators, escape)
	for i, f := range fields {
		if !f.Owned() {
			fields[i] = ownedField(append([]byte(nil), f.Bytes()...))
		}
	}
	return fields
}

func extractRowRangeOwnedGeneral(input []byte, idx *StructuralIndex, r rowRange, separators [][]byte, escape []byte) []Field {
	seps := idx.FieldSeps[r.sepLo:r.sepHi]
	row := Row{RowStart: r.rowStart, ContentEnd: r.contentEnd}
	return rowFieldsOwnedGeneral(input, row, seps, separators, escape)
}

func parseDirectGeneral(input []byte, cfg Config) ([][]Field, error) {
	idx := scanGeneralStructural(input, cfg.Separators, cfg.Escape, cfg.newlineSet())
	seps := sortPatternsLongestFirst(cfg.Separators)
	var rows [][]Field
	cur := NewCursor(idx)
	for {
		row, rowSeps, ok := cur.Next()
		if !ok {
			break
		}
		rows = append(rows, rowFieldsGeneral(input, row, rowSeps, seps, cfg.Escape))
	}
	return rows, nil
}

func parseBoundariesGeneral(input []byte, cfg Config) ([][]FieldBound, error) {
	idx := scanGeneralStructural(input, cfg.Separators, cfg.Escape, cfg.newlineSet())
	seps := sortPatternsLongestFirst(cfg.Separators)
	var rows [][]FieldBound
	cur := NewCursor(idx)
	for {
		row, rowSeps, ok := cur.Next()
		if !ok {
			break
		}
		bounds := fieldBoundsGeneral(input, row, rowSeps, seps)
		fb := make([]FieldBound, len(bounds))
		for i, b := range bounds {
			fb[i] = FieldBound{Start: b[0], End: b[1]}
		}
		rows = append(rows, fb)
	}
	return rows, nil
}

func parseParallelGeneral(input []byte, cfg Config) ([][]Field, error) {
	idx := scanGeneralStructural(input, cfg.Separators, cfg.Escape, cfg.newlineSet())
	seps := sortPatternsLongestFirst(cfg.Separators)
	ranges := buildRowRanges(idx)
	if len(ranges) == 0 {
		return nil, nil
	}
	filter := !cfg.KeepEmptyRows
	results := make([][]Field, len(ranges))
	owned := make([]bool, len(ranges))
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for i, r := range ranges {
		i, r := i, r
		sharedPool().submit(func() {
			defer wg.Done()
			fields := extractRowRangeOwnedGeneral(input, idx, r, seps, cfg.Escape)
			if filter && len(fields) == 1 && len(fields[0].Bytes()) == 0 {
				return
			}
			results[i] = fields
			owned[i] = true
		})
	}
	wg.Wait()
	out := make([][]Field, 0, len(ranges))
	for i := range results {
		if owned[i] {
			out = append(out, results[i])
		}
	}
	return out, nil
}

// GeneralStream is the streaming front-end for multi-byte configurations,
// mirroring Stream's state machine and compaction policy but using
// scanBounded, a bounded form of scanGeneralStructural's cursor walk, in
// place of the vectorised
// incremental scanner. Its chunk-boundary contract matches spec.md §4.6:
// a pattern that might not fit in the bytes received so far is deferred to
// the next Feed rather than guessed at.
type GeneralStream struct {
	cfg        Config
	separators [][]byte
	escape     []byte
	newlines   NewlineSet

	buffer     []byte
	scanCursor int
	rowStart   int
	inQuote    bool
	idx        *StructuralIndex

	rows      []Record
	maxBuffer int
	finalised bool
}

// NewGeneralStream constructs a GeneralStream for cfg. Unlike NewStream,
// any pattern length is accepted -- this is the variant single-byte
// configurations route away from, not the one they require.
func NewGeneralStream(cfg Config) (*GeneralStream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GeneralStream{
		cfg:        cfg,
		separators: sortPatternsLongestFirst(cfg.Separators),
		escape:     cfg.Escape,
		newlines:   cfg.newlineSet(),
		idx:        &StructuralIndex{},
		maxBuffer:  cfg.maxBuffer(),
	}, nil
}

func (s *GeneralStream) SetMaxBuffer(n int) { s.maxBuffer = n }

// maxLookahead is the number of trailing bytes that must be available
// before the walk will commit to ruling out every configured pattern at a
// given position -- the longest pattern, or twice the escape length
// (whichever is greater), since confirming a closing escape is not doubled
// requires seeing one more escape-length of bytes beyond it.
func (s *GeneralStream) maxLookahead() int {
	m := 2 * len(s.escape)
	for _, sep := range s.separators {
		if len(sep) > m {
			m = len(sep)
		}
	}
	if nl := s.newlines.MaxLen(); nl > m {
		m = nl
	}
	return m
}

func (s *GeneralStream) Feed(chunk []byte) error {
	if s.finalised {
		return ErrStreamFinalised
	}
	if len(s.buffer)+len(chunk) > s.maxBuffer {
		return ErrOverflow
	}
	s.buffer = append(s.buffer, chunk...)
	s.idx.InputLen = uint32(len(s.buffer))
	s.scanCursor = s.scanBounded(s.scanCursor, false)
	s.materialiseCompleteRows()
	s.maybeCompact()
	return nil
}

// scanBounded walks from up to the end of the buffer, deferring to the next
// Feed (via the outer lookahead guard, and via NewlineSet.matchBounded's own
// deferred result) whenever a configured pattern might still be completed by
// bytes that have not arrived yet. finalising lifts both deferrals, since no
// further bytes are coming.
func (s *GeneralStream) scanBounded(from int, finalising bool) int {
	pos := from
	lookahead := s.maxLookahead()
	elen := len(s.escape)
	for pos < len(s.buffer) {
		if !finalising && len(s.buffer)-pos < lookahead {
			return pos
		}
		if s.inQuote {
			if hasPrefixAt(s.buffer, pos, s.escape) {
				if hasPrefixAt(s.buffer, pos+elen, s.escape) {
					pos += 2 * elen
					continue
				}
				s.inQuote = false
				pos += elen
				continue
			}
			pos++
			continue
		}
		if hasPrefixAt(s.buffer, pos, s.escape) {
			s.inQuote = true
			pos += elen
			continue
		}
		if sep, ok := longestMatch(s.buffer[pos:], s.separators); ok {
			s.idx.FieldSeps = append(s.idx.FieldSeps, uint32(pos))
			pos += len(sep)
			continue
		}
		if n, deferred := s.newlines.matchBounded(s.buffer, pos); n > 0 {
			s.idx.RowEnds = append(s.idx.RowEnds, RowEnd{Pos: uint32(pos), Len: uint8(n)})
			pos += n
			continue
		} else if deferred && !finalising {
			return pos
		}
		pos++
	}
	return pos
}

func (s *GeneralStream) materialiseCompleteRows() {
	sepCursor := 0
	for _, re := range s.idx.RowEnds {
		contentEnd := int(re.Pos)
		sepLo := sepCursor
		for sepCursor < len(s.idx.FieldSeps) && int(s.idx.FieldSeps[sepCursor]) < contentEnd {
			sepCursor++
		}
		seps := s.idx.FieldSeps[sepLo:sepCursor]
		row := Row{RowStart: uint32(s.rowStart), ContentEnd: uint32(contentEnd)}
		fields := rowFieldsOwnedGeneral(s.buffer, row, seps, s.separators, s.escape)
		if !(!s.cfg.KeepEmptyRows && isSingleEmptyField(fields)) {
			s.rows = append(s.rows, Record(fields))
		}
		s.rowStart = contentEnd + int(re.Len)
	}
	s.idx.FieldSeps = append(s.idx.FieldSeps[:0], s.idx.FieldSeps[sepCursor:]...)
	s.idx.RowEnds = s.idx.RowEnds[:0]
}

func (s *GeneralStream) maybeCompact() {
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

func (s *GeneralStream) TakeRows(max int) []Record {
	if max <= 0 || max > len(s.rows) {
		max = len(s.rows)
	}
	out := s.rows[:max]
	s.rows = s.rows[max:]
	return out
}

func (s *GeneralStream) Status() (available, bufferBytes int, hasPartial bool) {
	return len(s.rows), len(s.buffer), s.rowStart < len(s.buffer)
}

func (s *GeneralStream) Finalize() []Record {
	if !s.finalised {
		s.scanCursor = s.scanBounded(s.scanCursor, true)
		s.materialiseCompleteRows()
		if s.rowStart < len(s.buffer) {
			var last Record
			if s.inQuote {
				last = Record{borrowedFieldCopy(s.buffer[s.rowStart:])}
			} else {
				row := Row{RowStart: uint32(s.rowStart), ContentEnd: uint32(len(s.buffer))}
				last = Record(rowFieldsOwnedGeneral(s.buffer, row, s.idx.FieldSeps, s.separators, s.escape))
			}
			if !(!s.cfg.KeepEmptyRows && isSingleEmptyField([]Field(last))) {
				s.rows = append(s.rows, last)
			}
			s.rowStart = len(s.buffer)
		}
	}
	s.finalised = true
	out := s.rows
	s.rows = nil
	return out
}

// ValidateComplete is GeneralStream's counterpart to Stream.ValidateComplete:
// a strict after-the-fact check for an unterminated quoted region, left
// unrejected by Finalize's best-effort semantics.
func (s *GeneralStream) ValidateComplete() error {
	if s.inQuote {
		return &ParseError{Row: len(s.rows), Field: -1, Err: ErrUnterminatedQuote}
	}
	return nil
}
