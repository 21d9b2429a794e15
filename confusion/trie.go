package confusion

import (
	"sort"

	tawa "github.com/tawa-lang/tawa"
)

// Rule is one candidate rewrite output reachable from a terminal pattern
// node, carrying the prior codelength cost added to a path's score when
// taken (spec §4.4 "A rewrite carries an associated codelength").
type Rule struct {
	Output     []Atom
	Codelength float64
}

// Node is a trie node over rewrite-rule source patterns (spec §4.4),
// grounded on the original confusionTrieType: Ctype/Csymbol become Atom,
// Context/Context_type become ContextID/ContextType, Confusions becomes
// Rules, Cnext/Cdown become the sorted Children slice.
type Node struct {
	Atom     Atom
	Children []*Node

	terminal    bool
	ContextID   int
	ContextType AtomKind
	Rules       []Rule
}

// Trie is the root of a confusion trie: its Children are the first-atom
// choices of every registered rewrite rule.
type Trie struct {
	root *Node
}

// New returns an empty confusion trie (original createConfusion).
func New() *Trie {
	return &Trie{root: &Node{}}
}

// Root returns the trie's root node, whose children are the set of
// possible first pattern atoms.
func (t *Trie) Root() *Node { return t.root }

// Add inserts a rewrite rule with the given source pattern, binding its
// terminal node to contextID/contextType (the interned id and atom-type
// of the full source pattern) and appending rule to that node's
// candidate output list (original addConfusion / addConfusionNode).
//
// Per the resolved open question on the reference implementation's
// addConfusionNode (spec.md §9): ContextID and ContextType are kept in
// separate fields, so setting one never clobbers the other. A later Add
// that ends on an existing terminal node replaces both fields with its
// own values, while Rules keeps every rule added there.
func (t *Trie) Add(pattern []Atom, contextID int, contextType AtomKind, rule Rule) {
	if len(pattern) == 0 {
		tawa.Raise(tawa.RuleCompileError, "confusion.Trie.Add", "empty source pattern")
	}
	n := t.root
	for _, atom := range pattern {
		n = n.childFor(atom)
	}
	n.terminal = true
	n.ContextID = contextID
	n.ContextType = contextType
	n.Rules = append(n.Rules, rule)
}

// childFor finds or creates the child matching atom, re-sorting the
// sibling list so non-literal atoms precede literal atoms and literal
// atoms stay in ascending symbol order (spec §4.4).
func (n *Node) childFor(atom Atom) *Node {
	for _, c := range n.Children {
		if sameAtom(c.Atom, atom) {
			return c
		}
	}
	child := &Node{Atom: atom}
	n.Children = append(n.Children, child)
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i].Atom, n.Children[j].Atom
		if a.literal() != b.literal() {
			return !a.literal() // non-literal first
		}
		if !a.literal() {
			return false // non-literal atoms keep insertion order among themselves
		}
		return a.Sym < b.Sym
	})
	return child
}

func sameAtom(a, b Atom) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Symbol, Model:
		return a.Sym == b.Sym
	case Boolean, Function:
		return a.Name == b.Name
	case Range:
		if a.Range == nil || b.Range == nil {
			return a.Range == b.Range && a.Name == b.Name
		}
		return a.Range.Equal(b.Range)
	default:
		return true
	}
}

// Terminal reports whether n is the terminal node of at least one
// rewrite rule, returning its context id/type and candidate rules.
func (n *Node) Terminal() (contextID int, contextType AtomKind, rules []Rule, ok bool) {
	return n.ContextID, n.ContextType, n.Rules, n.terminal
}

// Match returns every child of n whose atom accepts ctx (spec §4.4's
// per-kind matching rules), exploiting the sorted child order for early
// termination: non-literal children are always evaluated since they
// match unconditionally or via a predicate, but once a literal (Symbol)
// child's value exceeds ctx.SourceSymbol, no later literal sibling can
// match either, and the scan stops.
func (n *Node) Match(ctx MatchContext) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Atom.literal() && c.Atom.Sym > ctx.SourceSymbol {
			break
		}
		if c.Atom.matches(ctx) {
			out = append(out, c)
		}
	}
	return out
}
