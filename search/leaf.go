package search

import (
	"container/heap"
	"container/list"

	"github.com/tawa-lang/tawa/ppm"
)

// Leaf is one live candidate path through the confusion trie (spec
// §4.5): it owns a clone of its model's context, points at the deepest
// path node it has emitted, and carries the accumulated codelengths
// that drive Viterbi recombine and stack-mode ordering.
type Leaf struct {
	node             int32
	Model            int
	Context          *ppm.Context
	InputPos         int
	TotalCodelength  float64
	SymbolCodelength float64

	elem      *list.Element // Viterbi frontier membership, nil outside that mode
	heapIndex int           // stack-mode heap slot, -1 outside that mode
}

// frontier is the leaf-ordering discipline of spec §4.5: Viterbi keeps
// an insertion-ordered list ("all leaves are expanded at each step"),
// stack mode keeps a codelength-ordered heap ("the head is always the
// globally best frontier entry").
type frontier struct {
	viterbi *list.List
	stack   *leafHeap
}

func newViterbiFrontier() *frontier {
	return &frontier{viterbi: list.New()}
}

func newStackFrontier() *frontier {
	h := &leafHeap{}
	heap.Init(h)
	return &frontier{stack: h}
}

func (f *frontier) add(l *Leaf) {
	if f.viterbi != nil {
		l.elem = f.viterbi.PushFront(l)
		return
	}
	heap.Push(f.stack, l)
}

func (f *frontier) remove(l *Leaf) {
	if f.viterbi != nil {
		if l.elem != nil {
			f.viterbi.Remove(l.elem)
			l.elem = nil
		}
		return
	}
	if l.heapIndex >= 0 {
		heap.Remove(f.stack, l.heapIndex)
	}
}

// snapshot returns every currently frontier leaf, stable under
// concurrent additions to the underlying structure (spec §4.7: "for
// each leaf snapshot at loop start").
func (f *frontier) snapshot() []*Leaf {
	if f.viterbi != nil {
		out := make([]*Leaf, 0, f.viterbi.Len())
		for e := f.viterbi.Front(); e != nil; e = e.Next() {
			out = append(out, e.Value.(*Leaf))
		}
		return out
	}
	out := make([]*Leaf, len(*f.stack))
	copy(out, *f.stack)
	return out
}

func (f *frontier) len() int {
	if f.viterbi != nil {
		return f.viterbi.Len()
	}
	return f.stack.Len()
}

// head returns the stack frontier's globally best (lowest codelength)
// leaf without removing it. Viterbi mode has no single head.
func (f *frontier) head() *Leaf {
	if f.stack == nil || f.stack.Len() == 0 {
		return nil
	}
	return (*f.stack)[0]
}

// leafHeap orders leaves by ascending total codelength (stack mode),
// grounded on the teacher's `container/heap`-based candidate ranking in
// train.go (`qsym`'s Less/Swap/Push/Pop over a gain-ordered slice).
type leafHeap []*Leaf

func (h leafHeap) Len() int { return len(h) }
func (h leafHeap) Less(i, j int) bool {
	return h[i].TotalCodelength < h[j].TotalCodelength
}
func (h leafHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}
func (h *leafHeap) Push(x any) {
	l := x.(*Leaf)
	l.heapIndex = len(*h)
	*h = append(*h, l)
}
func (h *leafHeap) Pop() any {
	old := *h
	n := len(old)
	l := old[n-1]
	old[n-1] = nil
	l.heapIndex = -1
	*h = old[:n-1]
	return l
}
