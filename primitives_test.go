package vectorcsv

import "testing"

func TestIndexByte1(t *testing.T) {
	if got := indexByte1([]byte("abc"), 'b'); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := indexByte1([]byte("abc"), 'z'); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
	if got := indexByte1(nil, 'a'); got != -1 {
		t.Errorf("empty input: got %d, want -1", got)
	}
}

func TestIndexByte2(t *testing.T) {
	if got := indexByte2([]byte("a,b;c"), ',', ';'); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := indexByte2([]byte("a;b,c"), ',', ';'); got != 1 {
		t.Errorf("got %d, want 1 (first match should be the semicolon)", got)
	}
	if got := indexByte2([]byte("abc"), ',', ';'); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}

func TestIndexByte3(t *testing.T) {
	cases := []struct {
		data string
		want int
	}{
		{"abc", -1},
		{"a,b", 1},
		{"a;b", 1},
		{"a|b", 1},
		{"xx|yy,zz;ww", 2},
	}
	for _, c := range cases {
		if got := indexByte3([]byte(c.data), ',', ';', '|'); got != c.want {
			t.Errorf("indexByte3(%q) = %d, want %d", c.data, got, c.want)
		}
	}
}

func TestSepSetContains(t *testing.T) {
	cases := []struct {
		name string
		seps []byte
		b    byte
		want bool
	}{
		{"Empty", nil, ',', false},
		{"SingleMatch", []byte{','}, ',', true},
		{"SingleMiss", []byte{','}, ';', false},
		{"TwoMatchFirst", []byte{',', ';'}, ',', true},
		{"TwoMatchSecond", []byte{',', ';'}, ';', true},
		{"ThreeMatchThird", []byte{',', ';', '|'}, '|', true},
		{"ThreeMiss", []byte{',', ';', '|'}, 'x', false},
		{"MoreThanThreeDegradesButStillWorks", []byte{',', ';', '|', '#'}, '#', true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newSepSet(c.seps)
			if got := s.contains(c.b); got != c.want {
				t.Errorf("contains(%q) = %v, want %v", c.b, got, c.want)
			}
		})
	}
}

func TestNewSepSetMoreThanThreeFallsBackRatherThanDropping(t *testing.T) {
	s := newSepSet([]byte{',', ';', '|', '#', '@'})
	if s.n != 3 {
		t.Errorf("expected the fixed-size fast path capped at 3, got %d", s.n)
	}
	for _, b := range []byte{',', ';', '|', '#', '@'} {
		if !s.contains(b) {
			t.Errorf("contains(%q) = false, want true -- separators beyond the first three must not be dropped", b)
		}
	}
	if s.contains('z') {
		t.Errorf("contains('z') = true, want false")
	}
}

func TestSepSetForEachVisitsEveryByte(t *testing.T) {
	s := newSepSet([]byte{',', ';', '|', '#'})
	var seen []byte
	s.forEach(func(b byte) { seen = append(seen, b) })
	if len(seen) != 4 {
		t.Fatalf("expected 4 bytes visited, got %d: %q", len(seen), seen)
	}
	for _, b := range []byte{',', ';', '|', '#'} {
		if !containsByte(seen, b) {
			t.Errorf("forEach never visited %q", b)
		}
	}
}

func containsByte(bs []byte, b byte) bool {
	for _, c := range bs {
		if c == b {
			return true
		}
	}
	return false
}

func TestLongestMatch(t *testing.T) {
	patterns := sortPatternsLongestFirst([][]byte{[]byte("|"), []byte("|||"), []byte("||")})

	cases := []struct {
		name string
		data string
		want string
		ok   bool
	}{
		{"LongestWins", "|||rest", "|||", true},
		{"MediumWins", "||rest", "||", true},
		{"ShortestWins", "|rest", "|", true},
		{"NoMatch", "xrest", "", false},
		{"TooShortForAnyPattern", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := longestMatch([]byte(c.data), patterns)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && string(got) != c.want {
				t.Errorf("matched %q, want %q", got, c.want)
			}
		})
	}
}

func TestHasPrefix(t *testing.T) {
	if !hasPrefix([]byte("abcdef"), []byte("abc")) {
		t.Errorf("expected prefix match")
	}
	if hasPrefix([]byte("abcdef"), []byte("xyz")) {
		t.Errorf("expected no match")
	}
	if hasPrefix([]byte("ab"), []byte("abc")) {
		t.Errorf("a longer prefix than data must never match")
	}
}

func TestSortPatternsLongestFirstStable(t *testing.T) {
	in := [][]byte{[]byte("aa"), []byte("bb"), []byte("c"), []byte("dd")}
	out := sortPatternsLongestFirst(in)

	if len(out) != 4 {
		t.Fatalf("expected 4 patterns, got %d", len(out))
	}
	if string(out[3]) != "c" {
		t.Errorf("expected the single 1-byte pattern last, got %q", out[3])
	}
	// Same-length patterns keep their relative input order.
	if string(out[0]) != "aa" || string(out[1]) != "bb" || string(out[2]) != "dd" {
		t.Errorf("expected stable order among equal-length patterns, got %q %q %q",
			out[0], out[1], out[2])
	}
	// The input slice itself must be untouched.
	if string(in[0]) != "aa" || string(in[2]) != "c" {
		t.Errorf("sortPatternsLongestFirst must not mutate its input")
	}
}
