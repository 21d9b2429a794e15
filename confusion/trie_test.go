package confusion

import (
	"testing"

	tawa "github.com/tawa-lang/tawa"
)

func TestChildrenSortedNonLiteralFirstThenAscending(t *testing.T) {
	trie := New()
	trie.Add([]Atom{{Kind: Symbol, Sym: 5}}, 1, Symbol, Rule{Codelength: 1})
	trie.Add([]Atom{{Kind: Symbol, Sym: 2}}, 2, Symbol, Rule{Codelength: 1})
	trie.Add([]Atom{{Kind: Wildcard}}, 3, Symbol, Rule{Codelength: 1})
	trie.Add([]Atom{{Kind: Boolean, Name: "upper"}}, 4, Symbol, Rule{Codelength: 1})

	children := trie.Root().Children
	if len(children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(children))
	}
	// non-literal atoms (wildcard, boolean) sort before literal (symbol) ones.
	for _, c := range children[:2] {
		if c.Atom.literal() {
			t.Fatalf("literal atom %v sorted before non-literal children", c.Atom)
		}
	}
	if children[2].Atom.Sym != 2 || children[3].Atom.Sym != 5 {
		t.Fatalf("literal children not in ascending order: %v, %v", children[2].Atom, children[3].Atom)
	}
}

func TestMatchEarlyTermination(t *testing.T) {
	trie := New()
	trie.Add([]Atom{{Kind: Symbol, Sym: 1}}, 1, Symbol, Rule{})
	trie.Add([]Atom{{Kind: Symbol, Sym: 10}}, 2, Symbol, Rule{})
	trie.Add([]Atom{{Kind: Symbol, Sym: 20}}, 3, Symbol, Rule{})

	ctx := MatchContext{SourceSymbol: 5}
	matches := trie.Root().Match(ctx)
	if len(matches) != 0 {
		t.Fatalf("expected no matches for source symbol 5 against {1,10,20}, got %d", len(matches))
	}
}

func TestMatchSymbolHit(t *testing.T) {
	trie := New()
	trie.Add([]Atom{{Kind: Symbol, Sym: 7}}, 1, Symbol, Rule{Codelength: 2.5})
	matches := trie.Root().Match(MatchContext{SourceSymbol: 7})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	_, _, rules, ok := matches[0].Terminal()
	if !ok || len(rules) != 1 || rules[0].Codelength != 2.5 {
		t.Fatalf("terminal payload mismatch: %v %v", ok, rules)
	}
}

func TestMatchWildcardAlwaysMatches(t *testing.T) {
	trie := New()
	trie.Add([]Atom{{Kind: Wildcard}}, 1, Symbol, Rule{})
	for _, sym := range []tawa.Symbol{0, 1, 255} {
		matches := trie.Root().Match(MatchContext{SourceSymbol: sym})
		if len(matches) != 1 {
			t.Fatalf("wildcard failed to match symbol %d", sym)
		}
	}
}

func TestMatchRangeMembership(t *testing.T) {
	trie := New()
	trie.Add([]Atom{{Kind: Range, Range: NewRange([]tawa.Symbol{1, 3, 5})}}, 1, Symbol, Rule{})
	if m := trie.Root().Match(MatchContext{SourceSymbol: 3}); len(m) != 1 {
		t.Fatalf("expected range to match symbol 3")
	}
	if m := trie.Root().Match(MatchContext{SourceSymbol: 4}); len(m) != 0 {
		t.Fatalf("expected range to reject symbol 4")
	}
}

func TestMatchFunctionPredicate(t *testing.T) {
	trie := New()
	trie.Add([]Atom{{Kind: Function, Name: "word_start"}}, 1, Symbol, Rule{})
	matches := trie.Root().Match(MatchContext{SourcePos: 0})
	if len(matches) != 1 {
		t.Fatalf("expected word_start to match at position 0")
	}
}

func TestAddOnSharedPathKeepsBothRules(t *testing.T) {
	trie := New()
	pattern := []Atom{{Kind: Symbol, Sym: 9}}
	trie.Add(pattern, 11, Symbol, Rule{Codelength: 1})
	trie.Add(pattern, 11, Model, Rule{Codelength: 2})
	contextID, contextType, rules, ok := trie.Root().Match(MatchContext{SourceSymbol: 9})[0].Terminal()
	if !ok || contextID != 11 || contextType != Model {
		t.Fatalf("expected second Add's context fields to win without losing rules: id=%d type=%v ok=%v", contextID, contextType, ok)
	}
	if len(rules) != 2 {
		t.Fatalf("expected both rules preserved, got %d", len(rules))
	}
}
