package vectorcsv

import "testing"

// FuzzScan exercises the vectorised scanner directly, checking the
// structural invariants (strictly increasing row ends and separator
// positions) and that the best-effort surfaces above it never error on
// arbitrary input, matching the style of oleg578-swiftcsv's
// FuzzReaderConsistency.
func FuzzScan(f *testing.F) {
	seeds := []string{
		"",
		"a,b,c\n",
		"a,\"b,b\",c\n",
		"a,\"b\nc\",d\n",
		"\"unterminated\n",
		"a\"b,c\n",
		"one\r\ntwo\r\n",
		",,,\n",
		"\"\"\"\"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 {
			t.Skip()
		}

		cfg := NewConfig(',', '"')
		idx := scan([]byte(input), cfg.Separators, cfg.Escape)

		last := -1
		for _, re := range idx.RowEnds {
			if int(re.Pos) <= last {
				t.Fatalf("row ends not strictly increasing: %v (input %q)", idx.RowEnds, input)
			}
			last = int(re.Pos)
		}
		lastSep := -1
		for _, s := range idx.FieldSeps {
			if int(s) <= lastSep {
				t.Fatalf("separators not strictly increasing: %v (input %q)", idx.FieldSeps, input)
			}
			lastSep = int(s)
		}

		if _, err := ParseDirect([]byte(input), cfg); err != nil {
			t.Fatalf("ParseDirect returned an error for best-effort input %q: %v", input, err)
		}
	})
}

// FuzzStreamChunking exercises spec.md invariant 8 -- streaming output must
// equal batch output for any partition of the input into chunks -- by
// feeding a single random split point through Stream and comparing against
// ParseDirect on the unsplit input, grounded on the same differential style
// as FuzzReaderConsistency and shapestone-shape-csv's FuzzParser.
func FuzzStreamChunking(f *testing.F) {
	f.Add("a,b,c\nd,e,f\n", 3)
	f.Add("a,\"b,c\",d\n", 5)
	f.Add("x,\"0123456789abcdefghij\",y\n", 15)
	f.Add("", 0)
	f.Add("a,b\r\nc,d\n", 4)

	f.Fuzz(func(t *testing.T, input string, split int) {
		if len(input) > 1<<12 {
			t.Skip()
		}
		data := []byte(input)

		if split < 0 {
			split = -split
		}
		if len(data) == 0 {
			split = 0
		} else {
			split %= len(data) + 1
		}

		// KeepEmptyRows keeps Stream's filtering out of the comparison --
		// ParseDirect never filters, so only an apples-to-apples config lets
		// this invariant be checked without the documented filtering
		// difference (Config.KeepEmptyRows) getting in the way.
		cfg := NewConfig(',', '"')
		cfg.KeepEmptyRows = true

		s, err := NewStream(cfg)
		if err != nil {
			t.Fatalf("unexpected error constructing stream: %v", err)
		}
		if err := s.Feed(data[:split]); err != nil {
			t.Fatalf("feed 1 (input %q split %d): %v", input, split, err)
		}
		if err := s.Feed(data[split:]); err != nil {
			t.Fatalf("feed 2 (input %q split %d): %v", input, split, err)
		}
		streamed := append(s.TakeRows(0), s.Finalize()...)

		batch, err := ParseDirect(data, cfg)
		if err != nil {
			t.Fatalf("ParseDirect (input %q): %v", input, err)
		}

		if len(streamed) != len(batch) {
			t.Fatalf("row count mismatch: streamed=%d batch=%d input=%q split=%d",
				len(streamed), len(batch), input, split)
		}
		for i := range batch {
			if !equalStrings(fieldStrings(streamed[i]), fieldStrings(batch[i])) {
				t.Fatalf("row %d mismatch: streamed=%v batch=%v input=%q split=%d",
					i, fieldStrings(streamed[i]), fieldStrings(batch[i]), input, split)
			}
		}
	})
}
