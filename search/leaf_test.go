package search

import "testing"

func TestViterbiFrontierInsertionOrder(t *testing.T) {
	f := newViterbiFrontier()
	a := &Leaf{TotalCodelength: 3, heapIndex: -1}
	b := &Leaf{TotalCodelength: 1, heapIndex: -1}
	f.add(a)
	f.add(b)
	got := f.snapshot()
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Fatalf("expected insertion order (most recent first), got %v", got)
	}
}

func TestViterbiFrontierRemove(t *testing.T) {
	f := newViterbiFrontier()
	a := &Leaf{heapIndex: -1}
	b := &Leaf{heapIndex: -1}
	f.add(a)
	f.add(b)
	f.remove(a)
	got := f.snapshot()
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only b left, got %v", got)
	}
}

func TestStackFrontierOrdersByAscendingCodelength(t *testing.T) {
	f := newStackFrontier()
	high := &Leaf{TotalCodelength: 9}
	low := &Leaf{TotalCodelength: 1}
	mid := &Leaf{TotalCodelength: 5}
	f.add(high)
	f.add(low)
	f.add(mid)
	if f.head() != low {
		t.Fatalf("head = %+v, want the lowest-codelength leaf", f.head())
	}
}

func TestStackFrontierRemoveRebalances(t *testing.T) {
	f := newStackFrontier()
	a := &Leaf{TotalCodelength: 1}
	b := &Leaf{TotalCodelength: 2}
	f.add(a)
	f.add(b)
	f.remove(a)
	if f.len() != 1 || f.head() != b {
		t.Fatalf("expected b to become head after removing a")
	}
}
