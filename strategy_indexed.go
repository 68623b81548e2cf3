package vectorcsv

// ScanAndIndex runs the structural scanner once and returns the resulting
// StructuralIndex for callers that want to address rows explicitly rather
// than consuming them via ParseDirect's full walk -- e.g. skipping to a
// specific row, or reusing one index across multiple random-access reads.
func ScanAndIndex(input []byte, cfg Config) (*StructuralIndex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateInputLen(len(input)); err != nil {
		return nil, err
	}
	if !cfg.isSingleByte() {
		return nil, errGeneralVariantIndex
	}
	return scan(input, cfg.Separators, cfg.Escape), nil
}

// RowFieldsAt extracts the fields of the row spanning
// [rowStart, contentEnd) using an explicit StructuralIndex, the same
// extraction contract as ParseDirect but driven by a caller-supplied index
// value rather than a full sequential walk -- this is the "Indexed"
// strategy of spec.md §4.5, permitting skip or random access. It locates
// the row's separators via RowAt's binary search.
func RowFieldsAt(input []byte, idx *StructuralIndex, rowStart, contentEnd uint32, escape []byte) []Field {
	seps := RowAt(idx, rowStart, contentEnd)
	row := Row{RowStart: rowStart, ContentEnd: contentEnd}
	return rowFields(input, row, seps, escape)
}

// errGeneralVariantIndex is returned by ScanAndIndex and NewStream when the
// configuration is not single-byte. ScanAndIndex only hands out an index
// built by the vectorised single-byte scanner; for other configurations the
// general variant builds its StructuralIndex internally and exposes it only
// through its own read strategies.
var errGeneralVariantIndex = wrapConfigError("structural index is only available for single-byte separator/escape/newline configurations; use the general variant")

func wrapConfigError(msg string) error {
	return &configError{msg: msg}
}

type configError struct{ msg string }

func (e *configError) Error() string { return "vectorcsv: " + e.msg }
