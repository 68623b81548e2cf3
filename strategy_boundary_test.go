package vectorcsv

import "testing"

func TestParseBoundaries(t *testing.T) {
	cfg := NewConfig(',', '"')
	input := []byte(`a,"b,c",d` + "\n")

	rows, err := ParseBoundaries(input, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 3 {
		t.Fatalf("unexpected shape: %v", rows)
	}

	// Boundary never strips quotes -- the caller sees the raw span
	// including the surrounding escape bytes.
	b := rows[0][1]
	got := string(input[b.Start:b.End])
	if got != `"b,c"` {
		t.Errorf("raw boundary span = %q, want %q", got, `"b,c"`)
	}

	// extractField, given the same bounds, performs the strip/unescape.
	f := extractField(input, int(b.Start), int(b.End), cfg.Escape)
	if f.String() != "b,c" {
		t.Errorf("extracted = %q", f.String())
	}
}

func TestParseBoundariesPreservesEmptyRows(t *testing.T) {
	cfg := NewConfig(',', '"')
	rows, err := ParseBoundaries([]byte("a\n\nb\n"), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}
