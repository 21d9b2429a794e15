package hash

import "testing"

func TestPositionAddNewEntry(t *testing.T) {
	tbl := NewPositionTable()
	key := PositionKey{TransformModel: 1, LanguageModel: 2, InputPosition: 3, ContextPosition: 4}
	added, update, old := tbl.Add(key, 10.0, 2.0, "leaf-a")
	if !added || update || old != nil {
		t.Fatalf("first Add: added=%v update=%v old=%v", added, update, old)
	}
}

func TestPositionAddWorseCandidateDiscarded(t *testing.T) {
	tbl := NewPositionTable()
	key := PositionKey{InputPosition: 1}
	tbl.Add(key, 5.0, 1.0, "leaf-a")
	added, update, old := tbl.Add(key, 7.0, 1.0, "leaf-b")
	if added || update || old != nil {
		t.Fatalf("worse candidate not discarded: added=%v update=%v old=%v", added, update, old)
	}
	total, _, leaf, ok := tbl.Find(key)
	if !ok || total != 5.0 || leaf != "leaf-a" {
		t.Fatalf("existing entry was mutated: total=%v leaf=%v", total, leaf)
	}
}

func TestPositionAddEqualCandidateDiscarded(t *testing.T) {
	tbl := NewPositionTable()
	key := PositionKey{InputPosition: 1}
	tbl.Add(key, 5.0, 1.0, "leaf-a")
	added, update, _ := tbl.Add(key, 5.0, 1.0, "leaf-b")
	if added || update {
		t.Fatalf("equal candidate should not strictly improve: added=%v update=%v", added, update)
	}
}

func TestPositionAddBetterCandidateRecombines(t *testing.T) {
	tbl := NewPositionTable()
	key := PositionKey{InputPosition: 1}
	tbl.Add(key, 5.0, 1.0, "leaf-a")
	added, update, old := tbl.Add(key, 3.0, 1.0, "leaf-b")
	if added || !update || old != "leaf-a" {
		t.Fatalf("better candidate did not recombine: added=%v update=%v old=%v", added, update, old)
	}
	total, _, leaf, _ := tbl.Find(key)
	if total != 3.0 || leaf != "leaf-b" {
		t.Fatalf("entry not updated: total=%v leaf=%v", total, leaf)
	}
}

func TestPositionResetRecyclesEntries(t *testing.T) {
	tbl := NewPositionTable()
	key := PositionKey{InputPosition: 1}
	tbl.Add(key, 1.0, 1.0, "leaf-a")
	tbl.Reset()
	if _, _, _, ok := tbl.Find(key); ok {
		t.Fatalf("entry survived Reset")
	}
	if len(tbl.free) != 1 {
		t.Fatalf("Reset did not recycle the entry onto the free list: %d", len(tbl.free))
	}
	tbl.Add(PositionKey{InputPosition: 2}, 1.0, 1.0, "leaf-c")
	if len(tbl.free) != 0 {
		t.Fatalf("subsequent Add did not reuse the freed entry")
	}
}
