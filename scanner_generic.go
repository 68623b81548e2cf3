//go:build !amd64

package vectorcsv

// wideTierWords is 1 on targets without the amd64 CPU-feature dispatch in
// scanner_amd64.go: every word is processed through the baseline SWAR tier.
var wideTierWords = 1
