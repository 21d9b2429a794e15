// Package search implements the transform search engine of spec §4.5-
// §4.7: a growable paths trie shared by every live leaf, the position
// and model-state hashes that drive Viterbi recombine, and the Viterbi /
// stack search drivers that walk the confusion trie against the source
// text.
package search

import (
	tawa "github.com/tawa-lang/tawa"
)

// noNode marks the absence of a path node (root's parent, an empty
// child list, an unlinked sibling).
const noNode int32 = -1

// pathNode is one emitted-symbol record in the shared paths trie (spec
// §4.5): "Each non-root path node has exactly one parent and appears
// exactly once in its parent's child list." Parent/child/sibling
// linkage is by arena index rather than pointer, mirroring
// `_examples/gaissmai-bart`'s pool-recycled node arena generalised here
// to a free-list-backed slice instead of a sync.Pool, since path nodes
// must be walked root-ward by stable index from many live leaves at
// once (a sync.Pool instance has no identity once returned).
type pathNode struct {
	parent      int32
	firstChild  int32
	nextSibling int32
	prevSibling int32
	childCount  int32
	leafRefs    int32
	symbol      tawa.Symbol
	ghost       bool // emitted without entropy-coding cost (spec §4.7 GHOST marker)
}

// arena is the growable paths trie storage (spec §4.5's "path node
// arena, free-list reuse").
type arena struct {
	nodes []pathNode
	free  []int32
}

// newArena returns an arena containing only the root node at index 0.
func newArena() *arena {
	a := &arena{nodes: make([]pathNode, 1)}
	a.nodes[0] = pathNode{parent: noNode, firstChild: noNode, nextSibling: noNode, prevSibling: noNode}
	return a
}

// Root is the paths trie's root index; it is never pruned.
func (a *arena) Root() int32 { return 0 }

// alloc returns a fresh node index parented under parent, prepended to
// parent's child list.
func (a *arena) alloc(parent int32, symbol tawa.Symbol, ghost bool) int32 {
	var idx int32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, pathNode{})
		idx = int32(len(a.nodes) - 1)
	}
	oldFirst := a.nodes[parent].firstChild
	a.nodes[idx] = pathNode{
		parent:      parent,
		firstChild:  noNode,
		nextSibling: oldFirst,
		prevSibling: noNode,
		symbol:      symbol,
		ghost:       ghost,
	}
	if oldFirst != noNode {
		a.nodes[oldFirst].prevSibling = idx
	}
	a.nodes[parent].firstChild = idx
	a.nodes[parent].childCount++
	return idx
}

// addLeafRef marks idx as directly referenced by a leaf.
func (a *arena) addLeafRef(idx int32) {
	a.nodes[idx].leafRefs++
}

// dropLeafRef removes idx's leaf reference and prunes it (and any
// ancestor left childless and leafless) out of the trie, per spec
// §4.5's pruning invariant.
func (a *arena) dropLeafRef(idx int32) {
	a.nodes[idx].leafRefs--
	a.prune(idx)
}

func (a *arena) prune(idx int32) {
	for idx != a.Root() {
		n := &a.nodes[idx]
		if n.childCount > 0 || n.leafRefs > 0 {
			return
		}
		parent := n.parent
		a.unlink(idx)
		a.free = append(a.free, idx)
		a.nodes[parent].childCount--
		idx = parent
	}
}

func (a *arena) unlink(idx int32) {
	n := a.nodes[idx]
	if n.prevSibling != noNode {
		a.nodes[n.prevSibling].nextSibling = n.nextSibling
	} else {
		a.nodes[n.parent].firstChild = n.nextSibling
	}
	if n.nextSibling != noNode {
		a.nodes[n.nextSibling].prevSibling = n.prevSibling
	}
}

// Path walks idx to the root, collecting every emitted symbol (ghost
// atoms included, since they were still emitted into the path, just not
// entropy-coded) in source order (spec §4.7 "Best-path extraction": "walk
// its path node to the root collecting emitted symbols; reverse to
// restore source order").
func (a *arena) Path(idx int32) []tawa.Symbol {
	var rev []tawa.Symbol
	for idx != a.Root() {
		rev = append(rev, a.nodes[idx].symbol)
		idx = a.nodes[idx].parent
	}
	out := make([]tawa.Symbol, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}
