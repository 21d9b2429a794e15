// Package ppm implements the adaptive PPM (prediction-by-partial-match)
// language model core of spec §4.3: blended N-gram contexts linked by
// vine pointers, escape-D probability estimation, full and update
// exclusion, and frequency rescaling.
package ppm

import (
	tawa "github.com/tawa-lang/tawa"
)

type countEntry struct {
	sym   tawa.Symbol
	count uint32
}

// ctxNode is one order's worth of statistics for a particular suffix of
// recent history. vine is the node for the same suffix with its oldest
// symbol dropped (spec §4.3 "vine-pointer contexts"): cascading from a
// node to its vine pointer moves from order k to order k-1 without a
// fresh trie descent from the root.
type ctxNode struct {
	order    int
	entries  []countEntry          // sorted ascending by sym
	index    map[tawa.Symbol]int   // sym -> position in entries
	total    uint32
	children map[tawa.Symbol]*ctxNode // extend this suffix by one more recent symbol
	vine     *ctxNode
}

func newCtxNode(order int, vine *ctxNode) *ctxNode {
	return &ctxNode{order: order, vine: vine, index: make(map[tawa.Symbol]int)}
}

func (n *ctxNode) find(sym tawa.Symbol) (countEntry, bool) {
	i, ok := n.index[sym]
	if !ok {
		return countEntry{}, false
	}
	return n.entries[i], true
}

// bump increments sym's count by delta, inserting a fresh entry (count
// starts at delta) if sym has not been seen in this node before. Entries
// stay sorted by symbol so cumulative-frequency order is deterministic.
func (n *ctxNode) bump(sym tawa.Symbol, delta uint32) {
	if i, ok := n.index[sym]; ok {
		n.entries[i].count += delta
		n.total += delta
		return
	}
	n.entries = append(n.entries, countEntry{sym: sym, count: delta})
	for i := len(n.entries) - 1; i > 0 && n.entries[i-1].sym > n.entries[i].sym; i-- {
		n.entries[i], n.entries[i-1] = n.entries[i-1], n.entries[i]
	}
	n.total += delta
	n.reindex()
}

func (n *ctxNode) reindex() {
	for i, e := range n.entries {
		n.index[e.sym] = i
	}
}

// rescale halves every count, preserving relative ranking, once the
// node's total would otherwise exceed the model's max-frequency cap
// (spec §4.3: "rescaled by halving when denominator would exceed 2^27").
func (n *ctxNode) rescale() {
	n.total = 0
	kept := n.entries[:0]
	for _, e := range n.entries {
		e.count = (e.count + 1) / 2
		if e.count == 0 {
			continue
		}
		kept = append(kept, e)
		n.total += e.count
	}
	n.entries = kept
	n.reindex()
}

// Context is a handle onto one position in a Model's history: the
// bounded window of recently seen symbols that determines which order-k
// nodes cascading starts from.
type Context struct {
	history []tawa.Symbol // oldest first, length capped at the model's order
	deepest *ctxNode       // node for the full current history, lazily descended
}

// NewContext returns a fresh context at the start of a sequence, with an
// empty history.
func (m *Model) NewContext() *Context {
	return &Context{deepest: m.root}
}

// Clone returns a context sharing no mutable state with ctx (spec §4.3
// "clone(ctx) produces a context sharing no mutable state with its
// source"). The underlying model trie (shared statistics) is untouched;
// only the position (history slice, deepest pointer) is copied.
func (ctx *Context) Clone() *Context {
	out := &Context{deepest: ctx.deepest}
	out.history = append(out.history, ctx.history...)
	return out
}

// Overlay copies src's position onto dst without touching model
// statistics (spec §4.3 "overlay(src, dst) copies context position
// without touching model statistics").
func Overlay(src, dst *Context) {
	dst.history = append(dst.history[:0], src.history...)
	dst.deepest = src.deepest
}

// descend walks (or extends) the trie from ctx's current deepest node to
// the node matching the full updated history, creating nodes and vine
// links as it goes.
func (m *Model) descend(ctx *Context, sym tawa.Symbol) *ctxNode {
	child, ok := ctx.deepest.children[sym]
	if !ok {
		child = newCtxNode(ctx.deepest.order+1, m.vineFor(ctx, sym))
		if ctx.deepest.children == nil {
			ctx.deepest.children = make(map[tawa.Symbol]*ctxNode)
		}
		ctx.deepest.children[sym] = child
	}
	return child
}

// vineFor locates the node that the about-to-be-created child (extending
// ctx.deepest by sym) should point to as its vine pointer: the node for
// the same suffix with the oldest symbol of that suffix dropped, i.e.
// ctx.deepest.vine extended by sym.
func (m *Model) vineFor(ctx *Context, sym tawa.Symbol) *ctxNode {
	base := ctx.deepest.vine
	if base == nil {
		return m.root
	}
	child, ok := base.children[sym]
	if !ok {
		child = newCtxNode(base.order+1, m.vineFor(&Context{deepest: base}, sym))
		if base.children == nil {
			base.children = make(map[tawa.Symbol]*ctxNode)
		}
		base.children[sym] = child
	}
	return child
}

// advance appends sym to ctx's history, trimming to the model's order,
// and descends to the matching node. Once history is already at the
// model's maximum order, the new deepest node is reached purely through
// vine pointers (the suffix with its oldest symbol dropped, extended by
// sym) rather than by growing a node beyond the order cap.
func (m *Model) advance(ctx *Context, sym tawa.Symbol) {
	var next *ctxNode
	if len(ctx.history) < m.order {
		next = m.descend(ctx, sym)
	} else {
		next = m.vineFor(ctx, sym)
	}
	ctx.history = append(ctx.history, sym)
	if len(ctx.history) > m.order {
		ctx.history = ctx.history[1:]
	}
	ctx.deepest = next
}
