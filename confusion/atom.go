// Package confusion implements the confusion trie of spec §4.4: a trie
// of declarative rewrite-rule source patterns, each terminal node
// carrying the candidate outputs ("confusions") it may be rewritten to
// along with their prior codelength cost.
package confusion

import (
	"github.com/bits-and-blooms/bitset"

	tawa "github.com/tawa-lang/tawa"
)

// AtomKind tags one atom of a rewrite-rule pattern (spec §4.4, §6 grammar
// prefixes), grounded on confusion.h's Ctype/Confusion_type fields.
type AtomKind int

const (
	Symbol AtomKind = iota
	Model
	Boolean
	Function
	Wildcard
	Range
	Sentinel
	Ghost
	Suspend
)

func (k AtomKind) String() string {
	switch k {
	case Symbol:
		return "symbol"
	case Model:
		return "model"
	case Boolean:
		return "boolean"
	case Function:
		return "function"
	case Wildcard:
		return "wildcard"
	case Range:
		return "range"
	case Sentinel:
		return "sentinel"
	case Ghost:
		return "ghost"
	case Suspend:
		return "suspend"
	default:
		return "unknown"
	}
}

// literal reports whether atoms of this kind sort among the literal
// (ascending-symbol-ordered) children of a trie node, rather than the
// non-literal children that must be tried unconditionally and so sort
// first (spec §4.4 "Children of a node are sorted so that non-literal
// atoms precede literal atoms").
func (k AtomKind) literal() bool {
	return k == Symbol
}

// Atom is one element of a rewrite rule's source or output pattern.
type Atom struct {
	Kind  AtomKind
	Sym   tawa.Symbol     // Symbol/Model atoms: the literal value to match/emit
	Name  string          // Boolean/Function atoms: registered predicate name; %r Range atoms: registered range-function name
	Range *bitset.BitSet  // Range atoms: fixed symbol-set membership (nil for %r)
}

// NewRange builds a Range atom's membership set from an explicit symbol
// list.
func NewRange(syms []tawa.Symbol) *bitset.BitSet {
	var max uint
	for _, s := range syms {
		if uint(s) > max {
			max = uint(s)
		}
	}
	b := bitset.New(max + 1)
	for _, s := range syms {
		b.Set(uint(s))
	}
	return b
}

// matches decides whether this atom accepts the given source position,
// per spec §4.4's per-kind matching rules.
func (a Atom) matches(ctx MatchContext) bool {
	switch a.Kind {
	case Symbol:
		return a.Sym == ctx.SourceSymbol
	case Model:
		return a.Sym == tawa.Symbol(ctx.ModelID)
	case Boolean:
		pred, ok := booleanPredicates[a.Name]
		if !ok {
			tawa.Raise(tawa.RuleCompileError, "confusion.Atom.matches", "unknown boolean predicate %q", a.Name)
		}
		return pred(ctx.SourceSymbol)
	case Function:
		pred, ok := functionPredicates[a.Name]
		if !ok {
			tawa.Raise(tawa.RuleCompileError, "confusion.Atom.matches", "unknown function predicate %q", a.Name)
		}
		return pred(ctx)
	case Wildcard:
		return true
	case Range:
		if a.Range == nil && a.Name != "" {
			fn, ok := rangeFunctions[a.Name]
			if !ok {
				tawa.Raise(tawa.RuleCompileError, "confusion.Atom.matches", "unknown range function %q", a.Name)
			}
			for _, s := range fn(ctx) {
				if s == ctx.SourceSymbol {
					return true
				}
			}
			return false
		}
		return a.Range != nil && uint(ctx.SourceSymbol) < a.Range.Len() && a.Range.Test(uint(ctx.SourceSymbol))
	case Sentinel, Ghost, Suspend:
		// structural markers: survive into the output but never
		// themselves consume a source position during matching.
		return true
	default:
		return false
	}
}

// MatchContext carries every piece of state a Boolean/Function predicate
// or an atom match may need (spec §4.4 "Matching against
// (source_text, source_pos, source_symbol, previous_symbol, model)").
type MatchContext struct {
	ModelID        int
	SourceSymbol   tawa.Symbol
	PreviousSymbol tawa.Symbol
	SourceText     tawa.Sequence
	SourcePos      int
}
