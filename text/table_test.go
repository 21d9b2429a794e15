package text

import (
	"testing"

	tawa "github.com/tawa-lang/tawa"
)

func TestTableUpdateAssignsStableIDs(t *testing.T) {
	tbl := NewTable()
	id1, count1, isNew1 := tbl.Update(tawa.Sequence{65, 66}, 1)
	if !isNew1 || count1 != 1 {
		t.Fatalf("first Update: isNew=%v count=%d", isNew1, count1)
	}
	id2, count2, isNew2 := tbl.Update(tawa.Sequence{65, 66}, 3)
	if isNew2 {
		t.Fatalf("second Update on same key reported isNew")
	}
	if id1 != id2 {
		t.Fatalf("id changed between updates: %d vs %d", id1, id2)
	}
	if count2 != 4 {
		t.Fatalf("count after two updates = %d, want 4", count2)
	}
}

func TestTableDistinctKeysGetDistinctIDs(t *testing.T) {
	tbl := NewTable()
	idA, _, _ := tbl.Update(tawa.Sequence{1}, 1)
	idB, _, _ := tbl.Update(tawa.Sequence{2}, 1)
	if idA == idB {
		t.Fatalf("distinct keys received the same id")
	}
}

func TestTableGetIDMissingKey(t *testing.T) {
	tbl := NewTable()
	tbl.Update(tawa.Sequence{1, 2}, 1)
	if _, ok := tbl.GetID(tawa.Sequence{1, 3}); ok {
		t.Fatalf("GetID found a key that was never inserted")
	}
}

func TestTableGetInfoRoundTrip(t *testing.T) {
	tbl := NewTable()
	id, _, _ := tbl.Update(tawa.Sequence{9, 9, 9}, 5)
	key, count := tbl.GetInfo(id)
	if !key.Equal(tawa.Sequence{9, 9, 9}) || count != 5 {
		t.Fatalf("GetInfo = %v, %d", key, count)
	}
}

func TestTableInsertForDeserialization(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(tawa.Sequence{1, 2, 3}, 7, 42)
	id, ok := tbl.GetID(tawa.Sequence{1, 2, 3})
	if !ok || id != 7 {
		t.Fatalf("GetID after Insert = %d, %v", id, ok)
	}
	if tbl.Count(7) != 42 {
		t.Fatalf("Count(7) = %d, want 42", tbl.Count(7))
	}
}

func TestTableInsertConflictingKeyPanics(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(tawa.Sequence{1}, 3, 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic rebinding key {1} from id 3 to id 9")
		}
	}()
	tbl.Insert(tawa.Sequence{1}, 9, 1)
}

func TestTableIteratorVisitsEveryID(t *testing.T) {
	tbl := NewTable()
	keys := []tawa.Sequence{{1}, {1, 2}, {1, 3}, {2}, {2, 1}}
	want := map[ID]bool{NilID: true}
	for _, k := range keys {
		id, _, _ := tbl.Update(k, 1)
		want[id] = true
	}
	got := map[ID]bool{}
	it := tbl.Iterate()
	for {
		id, ok := it.Next()
		if !ok {
			break
		}
		got[id] = true
	}
	if len(got) != len(want) {
		t.Fatalf("iterator visited %d ids, want %d", len(got), len(want))
	}
	for id := range want {
		if !got[id] {
			t.Fatalf("iterator missed id %d", id)
		}
	}
}

func TestTableSetCount(t *testing.T) {
	tbl := NewTable()
	id, _, _ := tbl.Update(tawa.Sequence{4, 5}, 1)
	tbl.SetCount(id, 100)
	if tbl.Count(id) != 100 {
		t.Fatalf("Count after SetCount = %d", tbl.Count(id))
	}
}
