// Package tawa implements the core of a statistical-compression and
// noisy-channel text-transformation toolkit: a binary arithmetic coder, an
// adaptive PPM language model, and a search engine that finds the
// minimum-codelength transformation of an input sequence under a set of
// declarative rewrite rules.
package tawa

// Symbol is a single token in a Tawa sequence. Most alphabets are bytes or
// characters, but a Symbol may also name a word, a tag, or a model-switch
// marker: the toolkit never interprets a Symbol's meaning itself, only its
// identity.
type Symbol int32

// MaxSymbol is the largest value an ordinary Symbol may hold (2^31-3).
const MaxSymbol Symbol = 1<<31 - 3

const (
	// SENTINEL denotes end-of-sequence, a model-switch marker between
	// transform stages, and a structural separator between pattern atoms.
	SENTINEL Symbol = 1<<31 - 1

	// SENTINEL1 is used internally by the text table to escape
	// multi-symbol keys that would otherwise collide with shorter keys.
	SENTINEL1 Symbol = 1<<31 - 2
)

// Valid reports whether s is a legal Symbol: a non-negative ordinary value
// not exceeding MaxSymbol, or one of the two reserved sentinels.
func (s Symbol) Valid() bool {
	if s == SENTINEL || s == SENTINEL1 {
		return true
	}
	return s >= 0 && s <= MaxSymbol
}

// Sequence is an ordered list of symbols, the unit exchanged between the
// tokeniser, the language models, and the search engine.
type Sequence []Symbol

// Equal reports whether two sequences hold the same symbols in the same
// order.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare returns -1, 0, or 1 as s is lexicographically less than, equal
// to, or greater than o, comparing symbol-by-symbol and then by length.
func (s Sequence) Compare(o Sequence) int {
	n := len(s)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		switch {
		case s[i] < o[i]:
			return -1
		case s[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(s) < len(o):
		return -1
	case len(s) > len(o):
		return 1
	default:
		return 0
	}
}

// Clone returns a freshly allocated copy of s, independent of the original
// backing array.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
