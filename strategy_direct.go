package vectorcsv

// ParseDirect scans input and returns every row as a slice of Fields,
// borrowed from input where possible and owned only where extraction
// requires an unescape copy. Rows are returned in input order and an
// all-empty-field row is always preserved verbatim -- unlike ParseParallel
// and the streaming parser, Direct never applies the empty-row filter
// (spec.md §4.5 "Other strategies preserve empty rows verbatim").
func ParseDirect(input []byte, cfg Config) ([][]Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateInputLen(len(input)); err != nil {
		return nil, err
	}
	if !cfg.isSingleByte() {
		return parseDirectGeneral(input, cfg)
	}

	idx := scan(input, cfg.Separators, cfg.Escape)
	var rows [][]Field
	cur := NewCursor(idx)
	for {
		row, seps, ok := cur.Next()
		if !ok {
			break
		}
		rows = append(rows, rowFields(input, row, seps, cfg.Escape))
	}
	return rows, nil
}

func rowFields(input []byte, row Row, seps []uint32, escape []byte) []Field {
	bounds := fieldBounds(row, seps)
	fields := make([]Field, len(bounds))
	for i, b := range bounds {
		fields[i] = extractField(input, int(b[0]), int(b[1]), escape)
	}
	return fields
}

func isSingleEmptyField(fields []Field) bool {
	return len(fields) == 1 && len(fields[0].Bytes()) == 0
}
