package vectorcsv

// FieldBound is a raw (start, end) byte position pair into the original
// input, with no field materialisation: no quote-stripping, no unescape
// copy, no Field allocation at all. This is the "Boundary" strategy of
// spec.md §4.5, for callers that only need positions -- e.g. building their
// own zero-copy view, or counting fields without touching field bytes.
type FieldBound struct {
	Start, End uint32
}

// ParseBoundaries scans input and returns every row as a slice of raw field
// position pairs. Quote bytes are included verbatim in a quoted field's
// bounds (the caller is responsible for stripping and unescaping if it
// later wants field content -- extractField, given these exact bounds,
// performs that work).
func ParseBoundaries(input []byte, cfg Config) ([][]FieldBound, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateInputLen(len(input)); err != nil {
		return nil, err
	}
	if !cfg.isSingleByte() {
		return parseBoundariesGeneral(input, cfg)
	}

	idx := scan(input, cfg.Separators, cfg.Escape)
	var rows [][]FieldBound
	cur := NewCursor(idx)
	for {
		row, seps, ok := cur.Next()
		if !ok {
			break
		}
		bounds := fieldBounds(row, seps)
		fb := make([]FieldBound, len(bounds))
		for i, b := range bounds {
			fb[i] = FieldBound{Start: b[0], End: b[1]}
		}
		rows = append(rows, fb)
	}
	return rows, nil
}
