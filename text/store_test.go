package text

import (
	"testing"

	tawa "github.com/tawa-lang/tawa"
)

func TestStoreInternRoundTrip(t *testing.T) {
	cases := []tawa.Sequence{
		{},
		{65},
		{65, 66},
		{65, 66, 67, 68, 69},
	}
	s := NewStore()
	for _, seq := range cases {
		id := s.Intern(seq)
		if s.Len(id) != len(seq) {
			t.Fatalf("Len(%v) = %d, want %d", seq, s.Len(id), len(seq))
		}
		got := s.Sequence(id)
		if !got.Equal(seq) {
			t.Fatalf("Sequence(%v) = %v", seq, got)
		}
	}
}

func TestStoreEmptyIsNilID(t *testing.T) {
	s := NewStore()
	id := s.Intern(nil)
	if id != NilID {
		t.Fatalf("Intern(nil) = %d, want NilID", id)
	}
	if !s.IsNull(id) {
		t.Fatalf("IsNull(NilID) = false")
	}
}

func TestStoreAppendSpillsPastInline(t *testing.T) {
	s := NewStore()
	id := s.Intern(tawa.Sequence{1})
	for _, sym := range []tawa.Symbol{2, 3, 4, 5} {
		s.Append(id, sym)
	}
	want := tawa.Sequence{1, 2, 3, 4, 5}
	if got := s.Sequence(id); !got.Equal(want) {
		t.Fatalf("Sequence = %v, want %v", got, want)
	}
}

func TestStoreSetLengthTruncatesOnly(t *testing.T) {
	s := NewStore()
	id := s.Intern(tawa.Sequence{1, 2, 3, 4})
	s.SetLength(id, 2)
	if got := s.Sequence(id); !got.Equal(tawa.Sequence{1, 2}) {
		t.Fatalf("Sequence after truncate = %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic growing via SetLength")
		}
	}()
	s.SetLength(id, 10)
}

func TestStoreReleaseRecyclesSlot(t *testing.T) {
	s := NewStore()
	id := s.Intern(tawa.Sequence{1, 2, 3})
	s.Release(id)
	id2 := s.Intern(tawa.Sequence{9})
	if id2 != id {
		t.Fatalf("expected freed slot %d to be reused, got %d", id, id2)
	}
}

func TestStoreRetainKeepsEntryAlive(t *testing.T) {
	s := NewStore()
	id := s.Intern(tawa.Sequence{7, 8})
	s.Retain(id)
	s.Release(id)
	// still alive due to the extra retain
	if got := s.Sequence(id); !got.Equal(tawa.Sequence{7, 8}) {
		t.Fatalf("Sequence after single release = %v, want entry to survive", got)
	}
	s.Release(id)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic reading a fully released id")
		}
	}()
	s.Sequence(id)
}

func TestStoreCompare(t *testing.T) {
	s := NewStore()
	a := s.Intern(tawa.Sequence{1, 2})
	b := s.Intern(tawa.Sequence{1, 2, 3})
	c := s.Intern(tawa.Sequence{1, 2})
	if s.Compare(a, b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if s.Compare(a, c) != 0 {
		t.Fatalf("expected a == c")
	}
}

func TestStoreCopyIsIndependent(t *testing.T) {
	s := NewStore()
	a := s.Intern(tawa.Sequence{1, 2})
	b := s.Copy(a)
	s.Put(b, 0, 99)
	if s.Get(a, 0) == 99 {
		t.Fatalf("Copy shared backing storage with original")
	}
}
