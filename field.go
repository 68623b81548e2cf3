package vectorcsv

// Field is the tagged borrowed-or-owned byte sequence returned by field
// extraction. Go has no lifetime-checked Cow type, so the owned/borrowed
// distinction is carried as an explicit bit rather than inferred from a
// pointer comparison: a borrowed Field aliases the caller's input slice and
// must not outlive it; an owned Field holds a freshly allocated copy safe to
// retain indefinitely.
type Field struct {
	data  []byte
	owned bool
}

// Bytes returns the field's bytes. For a borrowed Field this aliases the
// original input; callers that need to retain the result past the input's
// lifetime must copy it themselves (or extract with a strategy that always
// owns, such as Parallel).
func (f Field) Bytes() []byte { return f.data }

// String is a convenience accessor; it allocates for a borrowed Field just
// as any []byte-to-string conversion would.
func (f Field) String() string { return string(f.data) }

// Owned reports whether Bytes() is a fresh allocation rather than an alias
// into the original input. Callers embedding fields in a long-lived arena or
// pool use this to decide whether a further defensive copy is needed.
func (f Field) Owned() bool { return f.owned }

func borrowedField(b []byte) Field { return Field{data: b} }

func ownedField(b []byte) Field { return Field{data: b, owned: true} }

// extractField implements the field extraction contract: empty borrow when
// start>=end, verbatim borrow when the field is not quoted, inner borrow
// when quoted with no escape occurrence inside, and an owned unescape copy
// otherwise (doubled escape-pattern runs collapsed, odd trailing runs
// preserved rather than panicking).
func extractField(input []byte, start, end int, escape []byte) Field {
	if start >= end {
		return borrowedField(input[start:start])
	}
	raw := input[start:end]
	elen := len(escape)
	if len(raw) < 2*elen || !hasPrefix(raw, escape) || !hasSuffix(raw, escape) {
		return borrowedField(raw)
	}
	inner := raw[elen : len(raw)-elen]
	if indexOfPattern(inner, escape) < 0 {
		return borrowedField(inner)
	}
	return ownedField(unescapeDoubled(inner, escape))
}

func hasSuffix(data, suffix []byte) bool {
	if len(suffix) > len(data) {
		return false
	}
	off := len(data) - len(suffix)
	for i := 0; i < len(suffix); i++ {
		if data[off+i] != suffix[i] {
			return false
		}
	}
	return true
}

// indexOfPattern finds the first occurrence of pattern in data, or -1. It is
// a general-purpose variant of indexByte1 for multi-byte escape patterns;
// single-byte escapes (the overwhelmingly common case) take the fast path.
func indexOfPattern(data, pattern []byte) int {
	if len(pattern) == 1 {
		return indexByte1(data, pattern[0])
	}
	if len(pattern) == 0 || len(pattern) > len(data) {
		return -1
	}
	first := pattern[0]
	limit := len(data) - len(pattern)
	for i := 0; i <= limit; i++ {
		if data[i] == first && hasPrefix(data[i:], pattern) {
			return i
		}
	}
	return -1
}

// unescapeDoubled collapses every maximal run of 2k escape patterns to k
// escape patterns. A trailing odd-length run (ill-formed input) preserves
// the final unpaired escape pattern verbatim rather than dropping it or
// panicking, matching the best-effort failure semantics the scanner and
// extractor share throughout this package.
func unescapeDoubled(inner, escape []byte) []byte {
	out := make([]byte, 0, len(inner))
	elen := len(escape)
	i := 0
	for i < len(inner) {
		if i+elen <= len(inner) && hasPrefix(inner[i:], escape) {
			if i+2*elen <= len(inner) && hasPrefix(inner[i+elen:], escape) {
				out = append(out, escape...)
				i += 2 * elen
				continue
			}
			// Odd trailing escape: preserve verbatim.
			out = append(out, escape...)
			i += elen
			continue
		}
		out = append(out, inner[i])
		i++
	}
	return out
}

// fieldNeedsUnescape reports whether inner (the content between a quoted
// field's opening and closing escape) contains at least one occurrence of
// the escape pattern, which is exactly the condition under which extraction
// must allocate an owned copy.
func fieldNeedsUnescape(inner, escape []byte) bool {
	return indexOfPattern(inner, escape) >= 0
}
