// Package word implements word/non-word text processing: alternating
// runs of word and non-word symbols are each routed through their own
// adaptive PPM model, with a character-level model as an escape path for
// tokens seen for the first time. Grounded on
// original_source/Tawa-0.7/lib/pyTawa/word.c's TLM_process_word_text and
// TLM_process_word, supplementing spec.md's core modules.
package word

import (
	tawa "github.com/tawa-lang/tawa"
)

// isWordSymbol classifies a symbol as part of a word run (letters and
// digits), mirroring confusion.isWordSymbol. Duplicated rather than
// imported: word tokenisation and confusion-rule predicates are distinct
// concerns that happen to share a classifier.
func isWordSymbol(s tawa.Symbol) bool {
	return (s >= 'A' && s <= 'Z') || (s >= 'a' && s <= 'z') || (s >= '0' && s <= '9')
}

// Pair is one non-word/word token pair, the unit TLM_process_word_text's
// main loop advances by. The final Pair produced by Tokenize always has a
// nil Word, signalling end of text (word.c's eof-driven TXT_sentinel_symbol
// path).
type Pair struct {
	Nonword tawa.Sequence
	Word    tawa.Sequence
	EOF     bool
}

// Tokenize splits text into alternating non-word/word runs. A run may be
// empty (e.g. text starting with a word has an empty leading non-word
// run; text ending with a non-word run has an empty trailing word run).
// The returned slice always ends with a Pair whose EOF is true and whose
// Word is nil, so Processor can drive encode/decode termination the same
// way word.c's sentinel-word check does.
func Tokenize(text tawa.Sequence) []Pair {
	var pairs []Pair
	pos := 0
	for pos < len(text) {
		start := pos
		for pos < len(text) && !isWordSymbol(text[pos]) {
			pos++
		}
		nonword := text[start:pos]

		start = pos
		for pos < len(text) && isWordSymbol(text[pos]) {
			pos++
		}
		word := text[start:pos]

		pairs = append(pairs, Pair{Nonword: nonword, Word: word})
	}
	pairs = append(pairs, Pair{EOF: true})
	return pairs
}
