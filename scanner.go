package vectorcsv

// Carry is the quote-parity state threaded between calls to ScanIncremental:
// the parity (odd/even) of escape bytes seen so far outside previously
// closed quoted regions. A fresh Carry (its zero value) starts "outside any
// quote".
type Carry struct {
	inQuote bool
}

// scan runs a one-shot structural scan over the whole of input and returns a
// fresh StructuralIndex. seps must each be exactly one byte; escape must be
// exactly one byte. Callers route here only when Config.isSingleByte()
// holds -- multi-byte configurations use the general variant (general.go)
// instead.
func scan(input []byte, seps [][]byte, escape []byte) *StructuralIndex {
	idx := &StructuralIndex{InputLen: uint32(len(input))}
	ScanIncremental(input, 0, seps, escape, Carry{}, idx)
	return idx
}

// ScanIncremental is the sole scanning primitive: it scans input starting at
// byte offset from, using carry as the quote-parity state at that offset,
// and appends newly discovered separator and row-end positions to idx. It
// returns the quote-parity carry to resume from at the end of input --
// callers that have more bytes coming (the streaming parser, C6) save this
// and pass it back on the next call together with the concatenated buffer.
//
// The scanner never fails: an unterminated quoted region simply carries
// inQuote=true off the end of input, and no further separators or row ends
// are emitted past the opening escape byte.
func ScanIncremental(input []byte, from int, seps [][]byte, escape []byte, carry Carry, idx *StructuralIndex) (newCarry Carry) {
	escByte := escape[0]
	sepBytes := make([]byte, len(seps))
	for i, s := range seps {
		sepBytes[i] = s[0]
	}
	sset := newSepSet(sepBytes)

	pos := from
	inQuote := carry.inQuote

	for pos+8 <= len(input) {
		words := 1
		if wideTierWords > 1 && pos+8*wideTierWords <= len(input) {
			words = wideTierWords
		}
		for w := 0; w < words; w++ {
			base := pos
			word := le64(input[base : base+8])

			escLane := broadcastFind64(word, escByte)
			escBits := movemaskByteLane(escLane)
			quotedBits, nextInQuote := quoteParity8(escBits, inQuote)
			notQuoted := (^quotedBits) & 0xFF

			var sepLane uint64
			sset.forEach(func(sb byte) {
				sepLane |= broadcastFind64(word, sb)
			})
			sepBits := movemaskByteLane(sepLane) & notQuoted
			emitSetBits(sepBits, func(i int) {
				idx.FieldSeps = append(idx.FieldSeps, uint32(base+i))
			})

			lfLane := broadcastFind64(word, 0x0A)
			lfBits := movemaskByteLane(lfLane) & notQuoted
			emitSetBits(lfBits, func(i int) {
				lfPos := base + i
				if lfPos > 0 && input[lfPos-1] == 0x0D {
					idx.RowEnds = append(idx.RowEnds, RowEnd{Pos: uint32(lfPos - 1), Len: 2})
				} else {
					idx.RowEnds = append(idx.RowEnds, RowEnd{Pos: uint32(lfPos), Len: 1})
				}
			})

			inQuote = nextInQuote
			pos = base + 8
		}
	}

	// Scalar tail: remaining bytes (< 8), or the whole input if it was
	// never at least one word long. Same quote-carry semantics, byte at
	// a time.
	for pos < len(input) {
		b := input[pos]
		if b == escByte {
			inQuote = !inQuote
			pos++
			continue
		}
		if !inQuote {
			if sset.contains(b) {
				idx.FieldSeps = append(idx.FieldSeps, uint32(pos))
				pos++
				continue
			}
			if b == 0x0A {
				if pos > 0 && input[pos-1] == 0x0D {
					idx.RowEnds = append(idx.RowEnds, RowEnd{Pos: uint32(pos - 1), Len: 2})
				} else {
					idx.RowEnds = append(idx.RowEnds, RowEnd{Pos: uint32(pos), Len: 1})
				}
			}
		}
		pos++
	}

	return Carry{inQuote: inQuote}
}

// le64 reads 8 bytes as a little-endian uint64, matching the byte-lane
// layout broadcastFind64 and movemaskByteLane assume (lane 0 is the lowest
// byte, i.e. the first byte in input order).
func le64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// emitSetBits calls fn once per set bit in mask (only the low 8 bits are
// examined), in ascending order.
func emitSetBits(mask uint64, fn func(i int)) {
	for i := 0; i < 8; i++ {
		if mask&(1<<uint(i)) != 0 {
			fn(i)
		}
	}
}
