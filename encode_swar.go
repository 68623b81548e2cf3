package vectorcsv

import "github.com/klauspost/cpuid/v2"

// encodeWideTier reports whether the encoder's classifier should process
// wider chunks per iteration. Unlike scanner_amd64.go's x/sys/cpu dispatch
// (used for the scanner's tier selection), the encoder dispatches via
// klauspost/cpuid/v2 -- a second, independently-sourced CPU-feature
// detector for a second tier-selection call site, deliberately kept
// separate rather than sharing one detector for both concerns. As with the
// scanner, this only changes how many SWAR words are processed per loop
// pass, never the bits computed; there is no hand-written vector
// instruction emission here either.
var encodeWideTier = cpuid.CPU.Supports(cpuid.AVX2)

// fieldNeedsQuotingSWAR applies the word-parallel classification tier:
// per 8-byte word, a byte-broadcast XOR followed by Mycroft's zero-byte
// test (spec.md §4.7), checked against the separator byte, the escape
// byte, LF, and CR simultaneously, then a scalar check for any remaining
// tail bytes and reserved bytes (reserved bytes are rare enough in
// practice that a dedicated SWAR lane for them is not worth the added
// branching; they are always checked via the scalar path below).
func fieldNeedsQuotingSWAR(data []byte, separator, escape byte, reserved [][]byte) bool {
	words := 1
	if encodeWideTier {
		words = 4
	}
	pos := 0
	for pos+8 <= len(data) {
		n := words
		if pos+8*n > len(data) {
			n = 1
		}
		for w := 0; w < n; w++ {
			word := le64(data[pos : pos+8])
			if hasAnyByteLane(word, separator, escape, 0x0A, 0x0D) {
				return true
			}
			pos += 8
		}
	}
	for i := pos; i < len(data); i++ {
		b := data[i]
		if b == separator || b == escape || b == 0x0A || b == 0x0D {
			return true
		}
	}
	for _, r := range reserved {
		if len(r) == 1 && indexByte1(data, r[0]) >= 0 {
			return true
		}
	}
	return false
}

// hasAnyByteLane reports whether word contains any of the four given
// target bytes in any of its 8 lanes, via four broadcast-XOR/Mycroft
// checks OR'd together and tested once.
func hasAnyByteLane(word uint64, b0, b1, b2, b3 byte) bool {
	m := broadcastFind64(word, b0) | broadcastFind64(word, b1) |
		broadcastFind64(word, b2) | broadcastFind64(word, b3)
	return m != 0
}
