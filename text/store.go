// Package text implements the text store and text table of spec §4.8:
// an interned pool of dynamic symbol sequences with stable ids, and a
// trie over those sequences assigning each a stable unique id plus a
// running frequency count.
package text

import (
	tawa "github.com/tawa-lang/tawa"
)

// ID is a stable handle into a Store, valid for the Store's lifetime.
type ID int32

// NilID denotes the distinguished null/sentinel-only text (spec §3).
const NilID ID = 0

// inlineCapacity is the number of symbols a Store entry packs directly
// rather than spilling to a heap slice. axiomhq/fsst's symbol type
// (symbol.go) packs up to 8 one-byte symbols into a single 64-bit word;
// Tawa's Symbol is a 32-bit value, so the same "small sequences avoid an
// allocation" idea carries over at a smaller inline width.
const inlineCapacity = 2

type entry struct {
	inline   [inlineCapacity]tawa.Symbol
	length   int32 // -1 marks a released, free slot
	spill    []tawa.Symbol
	refCount int32
}

func (e *entry) spilled() bool { return e.spill != nil }

// Store is a reference-counted-by-id pool of dynamic symbol sequences
// with O(1) append, O(1) length query, and O(n) compare (spec §4.8).
// Release is explicit and freed slots are recycled; a fresh interned copy
// is made at every retention point, matching the ownership discipline of
// spec §3.
type Store struct {
	entries []entry
	free    []ID
}

// NewStore returns an empty Store, already holding the distinguished
// null text at NilID.
func NewStore() *Store {
	s := &Store{entries: make([]entry, 1)}
	s.entries[NilID] = entry{length: 0, refCount: 1}
	return s
}

func (s *Store) alloc() ID {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		return id
	}
	s.entries = append(s.entries, entry{})
	return ID(len(s.entries) - 1)
}

func (s *Store) entryAt(id ID) *entry {
	if int(id) < 0 || int(id) >= len(s.entries) || s.entries[id].length < 0 {
		tawa.Raise(tawa.ContractViolation, "text.Store", "invalid id %d", id)
	}
	return &s.entries[id]
}

// Intern copies seq into a newly allocated text with reference count 1
// and returns its id. Interning an empty sequence returns NilID.
func (s *Store) Intern(seq tawa.Sequence) ID {
	if len(seq) == 0 {
		s.entries[NilID].refCount++
		return NilID
	}
	id := s.alloc()
	e := &s.entries[id]
	e.refCount = 1
	if len(seq) <= inlineCapacity {
		for i, sym := range seq {
			e.inline[i] = sym
		}
		e.length = int32(len(seq))
		e.spill = nil
	} else {
		e.length = int32(len(seq))
		e.spill = append([]tawa.Symbol(nil), seq...)
	}
	return id
}

// Retain increments id's reference count.
func (s *Store) Retain(id ID) {
	if id == NilID {
		return
	}
	s.entryAt(id).refCount++
}

// Release decrements id's reference count, recycling the slot once it
// reaches zero. Releasing NilID is a no-op.
func (s *Store) Release(id ID) {
	if id == NilID {
		return
	}
	e := s.entryAt(id)
	e.refCount--
	if e.refCount <= 0 {
		e.spill = nil
		e.length = -1
		s.free = append(s.free, id)
	}
}

// Len returns the number of symbols held at id.
func (s *Store) Len(id ID) int {
	return int(s.entryAt(id).length)
}

// Get returns the symbol at position i of id's sequence.
func (s *Store) Get(id ID, i int) tawa.Symbol {
	e := s.entryAt(id)
	if i < 0 || i >= int(e.length) {
		tawa.Raise(tawa.ContractViolation, "text.Store.Get", "index %d out of range for length %d", i, e.length)
	}
	if e.spilled() {
		return e.spill[i]
	}
	return e.inline[i]
}

// Put overwrites the symbol at position i of id's sequence.
func (s *Store) Put(id ID, i int, sym tawa.Symbol) {
	e := s.entryAt(id)
	if i < 0 || i >= int(e.length) {
		tawa.Raise(tawa.ContractViolation, "text.Store.Put", "index %d out of range for length %d", i, e.length)
	}
	if e.spilled() {
		e.spill[i] = sym
	} else {
		e.inline[i] = sym
	}
}

// Append adds sym to the end of id's sequence, spilling from the inline
// representation to a heap slice once it outgrows inlineCapacity.
func (s *Store) Append(id ID, sym tawa.Symbol) {
	e := s.entryAt(id)
	if !e.spilled() && int(e.length) < inlineCapacity {
		e.inline[e.length] = sym
		e.length++
		return
	}
	if !e.spilled() {
		e.spill = append(append([]tawa.Symbol(nil), e.inline[:e.length]...), sym)
	} else {
		e.spill = append(e.spill, sym)
	}
	e.length++
}

// SetLength truncates id's sequence to n symbols. Only truncation is
// supported (spec §3: "append, set-length (truncate only)"); growing via
// SetLength is a contract violation.
func (s *Store) SetLength(id ID, n int) {
	e := s.entryAt(id)
	if n > int(e.length) || n < 0 {
		tawa.Raise(tawa.ContractViolation, "text.Store.SetLength", "not a truncation: %d of %d", n, e.length)
	}
	e.length = int32(n)
	if e.spilled() {
		e.spill = e.spill[:n]
	}
}

// Sequence returns a freshly allocated copy of id's symbols.
func (s *Store) Sequence(id ID) tawa.Sequence {
	e := s.entryAt(id)
	out := make(tawa.Sequence, e.length)
	if e.spilled() {
		copy(out, e.spill)
	} else {
		copy(out, e.inline[:e.length])
	}
	return out
}

// Compare lexicographically compares the sequences held at a and b.
func (s *Store) Compare(a, b ID) int {
	return s.Sequence(a).Compare(s.Sequence(b))
}

// Copy interns a fresh, independent copy of id's current contents.
func (s *Store) Copy(id ID) ID {
	return s.Intern(s.Sequence(id))
}

// IsNull reports whether id is the distinguished null/sentinel-only text.
func (s *Store) IsNull(id ID) bool {
	return id == NilID
}
