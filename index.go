package vectorcsv

import "sort"

// RowEnd records a single row terminator: its starting byte position and its
// length in bytes (1 or 2 for the default newline set, arbitrary for a
// custom one).
type RowEnd struct {
	Pos uint32
	Len uint8
}

// StructuralIndex is the flat position table produced by the structural
// scanner (scanner.go): every unquoted field separator position, every
// unquoted row terminator record, and the total input length. Both
// sequences are strictly increasing by position and every recorded position
// lies outside any quoted region (spec.md §3 invariants).
//
// A StructuralIndex is immutable after construction. It borrows nothing
// itself -- its fields are plain slices of positions -- but every consumer
// that derives field content from it must index into the same input slice
// the scan was run against.
type StructuralIndex struct {
	FieldSeps []uint32
	RowEnds   []RowEnd
	InputLen  uint32
}

// RowCount returns the number of rows the index implies: len(RowEnds) plus
// one iff InputLen exceeds the position immediately after the last
// terminator (an implicit trailing row with no terminator of its own).
// Empty input has row count 0.
func (idx *StructuralIndex) RowCount() int {
	if idx.InputLen == 0 {
		return 0
	}
	n := len(idx.RowEnds)
	if n == 0 {
		return 1
	}
	last := idx.RowEnds[n-1]
	if uint32(idx.InputLen) > uint32(last.Pos)+uint32(last.Len) {
		n++
	}
	return n
}

// Row is the synthesised view of one row: its content bounds (excluding any
// terminator) and the position where the next row begins.
type Row struct {
	RowStart      uint32
	ContentEnd    uint32
	NextRowStart  uint32
	terminatorLen uint8
}

// Cursor walks a StructuralIndex sequentially, yielding each row along with
// a zero-allocation slice of the field_seps positions that fall within it.
// This is the O(1)-amortised-per-field iteration path; prefer it over RowAt
// when rows are consumed start-to-finish, such as by the Direct and
// Boundary strategies and by the Parallel strategy's row-range table
// builder. The Indexed strategy (RowFieldsAt) uses RowAt instead.
type Cursor struct {
	idx       *StructuralIndex
	rowStart  uint32
	rowIdx    int
	sepCursor int
	done      bool
}

// NewCursor returns a Cursor positioned at the first row of idx.
func NewCursor(idx *StructuralIndex) *Cursor {
	return &Cursor{idx: idx}
}

// Next yields the next row and the separators within it, or ok=false once
// every row (including any implicit trailing row) has been produced.
func (c *Cursor) Next() (row Row, seps []uint32, ok bool) {
	if c.done {
		return Row{}, nil, false
	}
	if c.rowIdx < len(c.idx.RowEnds) {
		re := c.idx.RowEnds[c.rowIdx]
		contentEnd := re.Pos
		sepLo := c.sepCursor
		for c.sepCursor < len(c.idx.FieldSeps) && c.idx.FieldSeps[c.sepCursor] < contentEnd {
			c.sepCursor++
		}
		row = Row{
			RowStart:      c.rowStart,
			ContentEnd:    contentEnd,
			NextRowStart:  re.Pos + uint32(re.Len),
			terminatorLen: re.Len,
		}
		seps = c.idx.FieldSeps[sepLo:c.sepCursor]
		c.rowStart = row.NextRowStart
		c.rowIdx++
		return row, seps, true
	}
	// Implicit trailing row with no terminator.
	if c.rowStart < c.idx.InputLen {
		sepLo := c.sepCursor
		c.sepCursor = len(c.idx.FieldSeps)
		row = Row{
			RowStart:     c.rowStart,
			ContentEnd:   c.idx.InputLen,
			NextRowStart: c.idx.InputLen,
		}
		seps = c.idx.FieldSeps[sepLo:c.sepCursor]
		c.done = true
		return row, seps, true
	}
	c.done = true
	return Row{}, nil, false
}

// RowAt locates the slice of field_seps lying strictly within
// [rowStart, contentEnd) via two binary searches, for random-access callers
// that want to address a single row without a sequential walk. O(log n).
func RowAt(idx *StructuralIndex, rowStart, contentEnd uint32) []uint32 {
	lo := sort.Search(len(idx.FieldSeps), func(i int) bool {
		return idx.FieldSeps[i] >= rowStart
	})
	hi := sort.Search(len(idx.FieldSeps), func(i int) bool {
		return idx.FieldSeps[i] >= contentEnd
	})
	if hi < lo {
		hi = lo
	}
	return idx.FieldSeps[lo:hi]
}

// fieldBounds expands a row and its separator slice into the (start, end)
// pairs for each field, per spec.md §3's "Field view": k separators produce
// k+1 fields.
func fieldBounds(row Row, seps []uint32) [][2]uint32 {
	bounds := make([][2]uint32, 0, len(seps)+1)
	pos := row.RowStart
	for _, s := range seps {
		bounds = append(bounds, [2]uint32{pos, s})
		pos = s + 1
	}
	bounds = append(bounds, [2]uint32{pos, row.ContentEnd})
	return bounds
}
