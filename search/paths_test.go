package search

import (
	"testing"

	tawa "github.com/tawa-lang/tawa"
)

func TestArenaAllocLinksChildren(t *testing.T) {
	a := newArena()
	root := a.Root()
	c1 := a.alloc(root, 'a', false)
	c2 := a.alloc(root, 'b', false)
	if a.nodes[root].childCount != 2 {
		t.Fatalf("childCount = %d, want 2", a.nodes[root].childCount)
	}
	if a.nodes[root].firstChild != c2 {
		t.Fatalf("expected most recent alloc prepended as firstChild")
	}
	if a.nodes[c2].nextSibling != c1 {
		t.Fatalf("sibling chain broken")
	}
}

func TestArenaPathReturnsSourceOrder(t *testing.T) {
	a := newArena()
	n1 := a.alloc(a.Root(), 'a', false)
	n2 := a.alloc(n1, 'b', false)
	n3 := a.alloc(n2, 'c', false)
	got := a.Path(n3)
	want := []tawa.Symbol{'a', 'b', 'c'}
	if len(got) != len(want) {
		t.Fatalf("Path length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Path[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestArenaPruneRemovesLeaflessChildlessChain(t *testing.T) {
	a := newArena()
	a.addLeafRef(a.Root())
	n1 := a.alloc(a.Root(), 'a', false)
	n2 := a.alloc(n1, 'b', false)
	a.addLeafRef(n2)

	before := len(a.nodes) - len(a.free)
	a.dropLeafRef(n2)
	after := len(a.nodes) - len(a.free)
	if after != before-2 {
		t.Fatalf("expected both n1 and n2 freed, live went %d -> %d", before, after)
	}
	if a.nodes[a.Root()].childCount != 0 {
		t.Fatalf("root childCount = %d, want 0", a.nodes[a.Root()].childCount)
	}
}

func TestArenaPruneStopsAtSharedAncestor(t *testing.T) {
	a := newArena()
	a.addLeafRef(a.Root())
	n1 := a.alloc(a.Root(), 'a', false)
	branchA := a.alloc(n1, 'x', false)
	branchB := a.alloc(n1, 'y', false)
	a.addLeafRef(branchA)
	a.addLeafRef(branchB)

	a.dropLeafRef(branchA)
	if a.nodes[n1].childCount != 1 {
		t.Fatalf("n1 childCount = %d, want 1 (branchB still alive)", a.nodes[n1].childCount)
	}
	// n1 itself must not have been freed.
	if a.nodes[n1].parent != a.Root() {
		t.Fatalf("n1 appears to have been recycled while still holding a live child")
	}
}

func TestArenaAllocReusesFreedSlots(t *testing.T) {
	a := newArena()
	a.addLeafRef(a.Root())
	n1 := a.alloc(a.Root(), 'a', false)
	a.addLeafRef(n1)
	a.dropLeafRef(n1)
	if len(a.free) != 1 {
		t.Fatalf("expected one freed slot, got %d", len(a.free))
	}
	sizeBefore := len(a.nodes)
	a.alloc(a.Root(), 'z', false)
	if len(a.nodes) != sizeBefore {
		t.Fatalf("alloc grew the arena instead of reusing the free slot")
	}
}
