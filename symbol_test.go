package tawa

import "testing"

func TestSymbolValid(t *testing.T) {
	cases := []struct {
		s    Symbol
		want bool
	}{
		{0, true},
		{65, true},
		{MaxSymbol, true},
		{MaxSymbol + 1, true}, // equals SENTINEL1
		{SENTINEL, true},
		{SENTINEL1, true},
		{-1, false},
	}
	for _, c := range cases {
		if got := c.s.Valid(); got != c.want {
			t.Errorf("Symbol(%d).Valid() = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestSequenceEqual(t *testing.T) {
	a := Sequence{1, 2, 3}
	b := Sequence{1, 2, 3}
	c := Sequence{1, 2}
	if !a.Equal(b) {
		t.Fatalf("expected equal sequences")
	}
	if a.Equal(c) {
		t.Fatalf("expected unequal sequences")
	}
}

func TestSequenceCompare(t *testing.T) {
	cases := []struct {
		a, b Sequence
		want int
	}{
		{Sequence{1, 2}, Sequence{1, 2}, 0},
		{Sequence{1, 2}, Sequence{1, 3}, -1},
		{Sequence{1, 3}, Sequence{1, 2}, 1},
		{Sequence{1}, Sequence{1, 2}, -1},
		{Sequence{1, 2}, Sequence{1}, 1},
	}
	for _, c := range cases {
		if got := c.a.Compare(c.b); got != c.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSequenceClone(t *testing.T) {
	a := Sequence{1, 2, 3}
	b := a.Clone()
	b[0] = 9
	if a[0] == 9 {
		t.Fatalf("Clone shared backing array with original")
	}
}
