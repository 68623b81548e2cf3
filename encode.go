package vectorcsv

import "sync"

// Encode writes rows to a single byte buffer: fields joined by cfg.Separator,
// rows joined by cfg.Terminator, with per-field quoting applied per
// spec.md §4.7's quoting rule. Classification of "does this field need
// quoting" runs through a scalar or SWAR tier chosen per field by
// fieldNeedsQuoting (only the SWAR tier's unroll factor is fixed once at
// package init, in encode_swar.go); both tiers are defined to produce
// byte-identical output (spec.md invariant 10).
func Encode(rows [][]Field, cfg EncodeConfig) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var out []byte
	if cfg.Parallel && cfg.isSingleByte() && len(rows) > 1 {
		out = encodeParallel(rows, cfg)
	} else {
		out = encodeSequential(rows, cfg)
	}

	if cfg.EncodingTarget != EncodingUTF8 {
		out = transcode(out, cfg.EncodingTarget)
	}
	return out, nil
}

func encodeSequential(rows [][]Field, cfg EncodeConfig) []byte {
	out := make([]byte, 0, estimateEncodedSize(rows))
	for r, row := range rows {
		if r > 0 {
			out = append(out, cfg.Terminator...)
		}
		out = appendEncodedRow(out, row, cfg)
	}
	if len(rows) > 0 {
		out = append(out, cfg.Terminator...)
	}
	return out
}

func appendEncodedRow(out []byte, row []Field, cfg EncodeConfig) []byte {
	for f, field := range row {
		if f > 0 {
			out = append(out, cfg.Separator...)
		}
		out = appendEncodedField(out, field.Bytes(), cfg)
	}
	return out
}

// encodeParallel is the single-byte fast path's parallel option (spec.md
// §4.7 "Parallel encoding is an option for the single-byte fast path"):
// the row vector is chunked, each chunk encoded into its own buffer on the
// shared worker pool, and the per-chunk buffers concatenated in order.
// Chunk boundary handling needs no special care because the encoder is
// line-local -- no state crosses a row boundary.
func encodeParallel(rows [][]Field, cfg EncodeConfig) []byte {
	workers := recommendedWorkers()
	if workers > len(rows) {
		workers = len(rows)
	}
	chunkSize := (len(rows) + workers - 1) / workers
	chunks := make([][]byte, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for c := 0; c < workers; c++ {
		c := c
		lo := c * chunkSize
		hi := lo + chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}
		if lo >= hi {
			wg.Done()
			continue
		}
		sharedPool().submit(func() {
			defer wg.Done()
			buf := make([]byte, 0, estimateEncodedSize(rows[lo:hi]))
			for i := lo; i < hi; i++ {
				buf = appendEncodedRow(buf, rows[i], cfg)
				buf = append(buf, cfg.Terminator...)
			}
			chunks[c] = buf
		})
	}
	wg.Wait()

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func estimateEncodedSize(rows [][]Field) int {
	n := 0
	for _, row := range rows {
		for _, f := range row {
			n += len(f.Bytes()) + 3
		}
	}
	return n
}

// appendEncodedField appends one field's encoded form -- quoted or plain,
// with formula escaping applied to the UTF-8 intermediate form if
// configured -- to dst and returns the extended slice.
func appendEncodedField(dst []byte, data []byte, cfg EncodeConfig) []byte {
	reserved := classifyReserved(cfg.ReservedBytes)
	needsQuote := fieldNeedsQuoting(data, cfg.Separator, cfg.Escape, reserved)

	prefix, prependInsideQuotes := formulaPrefix(data, cfg.FormulaRules, needsQuote)

	if !needsQuote {
		dst = append(dst, prefix...)
		dst = append(dst, data...)
		return dst
	}

	dst = append(dst, cfg.Escape...)
	if prependInsideQuotes {
		dst = append(dst, prefix...)
	}
	dst = appendDoubled(dst, data, cfg.Escape)
	dst = append(dst, cfg.Escape...)
	return dst
}

// appendDoubled appends data to dst with every occurrence of escape
// replaced by two copies of itself.
func appendDoubled(dst, data, escape []byte) []byte {
	i := 0
	for {
		j := indexOfPattern(data[i:], escape)
		if j < 0 {
			return append(dst, data[i:]...)
		}
		dst = append(dst, data[i:i+j]...)
		dst = append(dst, escape...)
		dst = append(dst, escape...)
		i += j + len(escape)
	}
}

// formulaPrefix reports the replacement bytes to prepend when the field's
// first byte matches a configured trigger, and whether that prefix belongs
// inside the quotes (when the field needed quoting) or outside.
func formulaPrefix(data []byte, rules []FormulaRule, needsQuote bool) (prefix []byte, insideQuotes bool) {
	if len(data) == 0 || len(rules) == 0 {
		return nil, needsQuote
	}
	for _, r := range rules {
		if data[0] == r.Trigger {
			return r.Replacement, needsQuote
		}
	}
	return nil, needsQuote
}

func classifyReserved(reserved []byte) [][]byte {
	if len(reserved) == 0 {
		return nil
	}
	out := make([][]byte, len(reserved))
	for i, b := range reserved {
		out[i] = []byte{b}
	}
	return out
}

// fieldNeedsQuoting implements spec.md §4.7's quoting rule: a field needs
// quoting iff it contains the separator, the escape, 0x0A, 0x0D, or any
// reserved byte. Dispatches to the SWAR tier when the field is long enough
// to amortise the per-word setup, otherwise the scalar tier; both are
// defined to agree on every input.
func fieldNeedsQuoting(data []byte, separator, escape []byte, reserved [][]byte) bool {
	if len(separator) == 1 && len(escape) == 1 && len(data) >= 8 {
		return fieldNeedsQuotingSWAR(data, separator[0], escape[0], reserved)
	}
	return fieldNeedsQuotingScalar(data, separator, escape, reserved)
}

func fieldNeedsQuotingScalar(data []byte, separator, escape []byte, reserved [][]byte) bool {
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == 0x0A || b == 0x0D {
			return true
		}
		for _, r := range reserved {
			if len(r) == 1 && b == r[0] {
				return true
			}
		}
	}
	if indexOfPattern(data, separator) >= 0 {
		return true
	}
	if indexOfPattern(data, escape) >= 0 {
		return true
	}
	return false
}
