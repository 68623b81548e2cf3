package vectorcsv

// NewlineSet holds the configured row-terminator patterns, stored
// longest-first so that greedy matching always prefers a longer pattern
// over one of its prefixes (e.g. "||" over "|").
type NewlineSet struct {
	patterns  [][]byte
	isDefault bool
}

// defaultNewlines matches both CRLF and bare LF, longest first.
func defaultNewlines() NewlineSet {
	return NewlineSet{
		patterns:  [][]byte{[]byte("\r\n"), []byte("\n")},
		isDefault: true,
	}
}

// customNewlines builds a NewlineSet from caller-supplied patterns, sorting
// them longest-first. Every pattern must be non-empty; callers validate this
// via Config.Validate before construction.
func customNewlines(patterns [][]byte) NewlineSet {
	return NewlineSet{
		patterns:  sortPatternsLongestFirst(patterns),
		isDefault: false,
	}
}

// MaxLen returns the length in bytes of the longest configured pattern. The
// streaming parser uses this to decide, at a chunk boundary, which patterns
// it can safely rule out versus which it must defer to the next Feed.
func (n NewlineSet) MaxLen() int {
	max := 0
	for _, p := range n.patterns {
		if len(p) > max {
			max = len(p)
		}
	}
	return max
}

// isSingleByte reports whether this newline set is compatible with the
// vectorised scanner. The vectorised scanner (scanner.go) hardcodes the
// default convention directly -- 0x0A is the terminator byte, optionally
// preceded by 0x0D merged into one two-byte record -- rather than running
// general pattern matching, so the default set always qualifies regardless
// of CRLF being two bytes. Any custom newline set, even a single configured
// byte, routes through the general scalar variant instead, since the
// vectorised scanner has no custom-pattern matching path to hand it to.
func (n NewlineSet) isSingleByte() bool {
	return n.isDefault
}

// match attempts every configured pattern, longest first, against
// input[pos:]. It returns the matched length, 0 if no pattern matches; that
// length is also the terminator length recorded in the row end.
func (n NewlineSet) match(input []byte, pos int) int {
	rest := input[pos:]
	if _, ok := longestMatch(rest, n.patterns); ok {
		_, matched := longestMatchLen(rest, n.patterns)
		return matched
	}
	return 0
}

// longestMatchLen is longestMatch's companion returning the matched length
// directly, avoiding a second allocation-free pass duplicated at call sites
// that only need the length.
func longestMatchLen(data []byte, patterns [][]byte) (matched []byte, n int) {
	for _, p := range patterns {
		if len(p) == 0 || len(p) > len(data) {
			continue
		}
		if hasPrefix(data, p) {
			return p, len(p)
		}
	}
	return nil, 0
}

// matchBounded is the chunk-boundary-safe variant used by the streaming
// general-variant parser: patterns whose length does not fit in the
// remaining bytes are skipped rather than rejected, since they might still
// match once more input arrives. It returns (length, deferred): deferred is
// true when at least one configured pattern could not be ruled out because
// it didn't fit, and none of the patterns that did fit matched.
func (n NewlineSet) matchBounded(input []byte, pos int) (length int, deferred bool) {
	remaining := len(input) - pos
	any := false
	for _, p := range n.patterns {
		if len(p) > remaining {
			any = true
			continue
		}
		if hasPrefix(input[pos:], p) {
			return len(p), false
		}
	}
	return 0, any
}
