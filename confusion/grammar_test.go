package confusion

import (
	"testing"

	tawa "github.com/tawa-lang/tawa"
)

func TestParseRuleSimple(t *testing.T) {
	source, output, err := ParseRule("%sa -> %sb")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if len(source) != 1 || source[0].Kind != Symbol || source[0].Sym != tawa.Symbol('a') {
		t.Fatalf("source = %v", source)
	}
	if len(output) != 1 || output[0].Kind != Symbol || output[0].Sym != tawa.Symbol('b') {
		t.Fatalf("output = %v", output)
	}
}

func TestParseRuleMissingArrow(t *testing.T) {
	if _, _, err := ParseRule("%s a %s b"); err == nil {
		t.Fatalf("expected error for missing '->'")
	}
}

func TestParsePatternAllAtomKinds(t *testing.T) {
	atoms, err := parsePattern(`%w%$%_%.%%%[abc]%bupper%ffunc`)
	if err != nil {
		t.Fatalf("parsePattern: %v", err)
	}
	wantKinds := []AtomKind{Wildcard, Sentinel, Ghost, Suspend, Symbol, Range, Boolean, Function}
	if len(atoms) != len(wantKinds) {
		t.Fatalf("got %d atoms, want %d: %v", len(atoms), len(wantKinds), atoms)
	}
	for i, want := range wantKinds {
		if atoms[i].Kind != want {
			t.Fatalf("atom %d kind = %v, want %v", i, atoms[i].Kind, want)
		}
	}
}

func TestParseSymbolLiteralDecimalEscape(t *testing.T) {
	sym, err := parseSymbolLiteral(`\200\`)
	if err != nil {
		t.Fatalf("parseSymbolLiteral: %v", err)
	}
	if sym != 200 {
		t.Fatalf("sym = %d, want 200", sym)
	}
}

func TestParseRangeLiteralSortsAndDedups(t *testing.T) {
	syms, err := parseRangeLiteral("cba" + "a")
	if err != nil {
		t.Fatalf("parseRangeLiteral: %v", err)
	}
	want := []tawa.Symbol{tawa.Symbol('a'), tawa.Symbol('b'), tawa.Symbol('c')}
	if len(syms) != len(want) {
		t.Fatalf("syms = %v", syms)
	}
	for i := range want {
		if syms[i] != want[i] {
			t.Fatalf("syms = %v, want %v", syms, want)
		}
	}
}
