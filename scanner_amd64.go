//go:build amd64

package vectorcsv

import "golang.org/x/sys/cpu"

// wideTierWords is the number of 8-byte SWAR words processed per outer loop
// iteration by ScanIncremental. On targets that expose 256-bit SIMD (AVX2) the
// wide tier unrolls four words (32 bytes) per iteration, matching spec.md
// §4.3's "wide tier (32-byte lanes)"; the unroll factor only changes how
// many baseline SWAR words are processed per pass through the loop, never
// the bits computed -- there is no hand-written vector instruction emission
// in this module (see DESIGN.md).
var wideTierWords = func() int {
	if cpu.X86.HasAVX2 {
		return 4
	}
	return 1
}()
