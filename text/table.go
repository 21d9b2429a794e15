package text

import (
	tawa "github.com/tawa-lang/tawa"
)

// noID marks a trie node that has not yet been assigned an id.
const noID ID = -1

type trieNode struct {
	children map[tawa.Symbol]*trieNode
	id       ID
}

func newTrieNode() *trieNode {
	return &trieNode{id: noID}
}

type record struct {
	key   tawa.Sequence
	count uint32
}

// Table is a trie over symbol-sequence keys, assigning each distinct key
// a stable id on first insertion and tracking a running frequency count,
// per spec §4.8 "text table". Grounded on axiomhq/fsst's Table (table.go)
// for the geometrically-growing id index array, and on the original
// Tawa-0.7 table.c's TXT_update_table / TXT_getid_table / TXT_getkey_table
// / TXT_getinfo_table naming and the TXT_reset_table / TXT_next_table
// stack-based iteration pair.
type Table struct {
	root    *trieNode
	records []record // indexed by ID; records[0] is the empty key
}

// NewTable returns an empty Table, with the empty sequence already bound
// to NilID.
func NewTable() *Table {
	t := &Table{root: newTrieNode(), records: make([]record, 1)}
	t.root.id = NilID
	t.records[0] = record{key: nil, count: 0}
	return t
}

func (t *Table) walk(key tawa.Sequence, create bool) *trieNode {
	n := t.root
	for _, sym := range key {
		child, ok := n.children[sym]
		if !ok {
			if !create {
				return nil
			}
			child = newTrieNode()
			if n.children == nil {
				n.children = make(map[tawa.Symbol]*trieNode)
			}
			n.children[sym] = child
		}
		n = child
	}
	return n
}

// Update increments key's frequency count by incr, creating a fresh id
// for key the first time it is seen (spec §4.8 "Update" / original
// TXT_update_table). isNew reports whether this call allocated the id.
func (t *Table) Update(key tawa.Sequence, incr uint32) (id ID, count uint32, isNew bool) {
	n := t.walk(key, true)
	if n.id == noID {
		n.id = ID(len(t.records))
		t.records = append(t.records, record{key: key.Clone()})
		isNew = true
	}
	t.records[n.id].count += incr
	return n.id, t.records[n.id].count, isNew
}

// GetID looks up key without creating it (original TXT_getid_table).
func (t *Table) GetID(key tawa.Sequence) (ID, bool) {
	n := t.walk(key, false)
	if n == nil || n.id == noID {
		return NilID, false
	}
	return n.id, true
}

// Insert binds key to an explicit id with an explicit count, for
// deserialising a previously-written table (original TXT_insert_table /
// TXT_load_table). key must not already be bound to a different id.
func (t *Table) Insert(key tawa.Sequence, id ID, count uint32) {
	n := t.walk(key, true)
	if n.id != noID && n.id != id {
		tawa.Raise(tawa.ModelFormatError, "text.Table.Insert", "key already bound to id %d, cannot rebind to %d", n.id, id)
	}
	n.id = id
	for int(id) >= len(t.records) {
		t.records = append(t.records, record{})
	}
	t.records[id] = record{key: key.Clone(), count: count}
}

// GetKey returns the sequence bound to id (original TXT_getkey_table).
func (t *Table) GetKey(id ID) tawa.Sequence {
	t.checkID(id, "GetKey")
	return t.records[id].key.Clone()
}

// GetInfo returns both the key and count bound to id in one call
// (original TXT_getinfo_table).
func (t *Table) GetInfo(id ID) (key tawa.Sequence, count uint32) {
	t.checkID(id, "GetInfo")
	r := t.records[id]
	return r.key.Clone(), r.count
}

// SetCount overwrites id's frequency count directly, used by rescaling
// passes (spec §4.3 "rescale") and by suspend/resume update bracketing
// (spec §4.8, original TXT_suspend_update_table / TXT_resume_update_table).
func (t *Table) SetCount(id ID, count uint32) {
	t.checkID(id, "SetCount")
	t.records[id].count = count
}

// Count returns id's current frequency count.
func (t *Table) Count(id ID) uint32 {
	t.checkID(id, "Count")
	return t.records[id].count
}

// Len returns the number of distinct keys held, including the empty key.
func (t *Table) Len() int {
	return len(t.records)
}

func (t *Table) checkID(id ID, op string) {
	if int(id) < 0 || int(id) >= len(t.records) {
		tawa.Raise(tawa.ContractViolation, "text.Table."+op, "invalid id %d", id)
	}
}

// Iterator walks every id in a Table in trie order, mirroring the
// original table.c's explicit push_table_stack/pop_table_stack frontier
// rather than recursion, so arbitrarily deep keys don't consume Go stack.
type Iterator struct {
	stack []*trieNode
}

// Iterate returns a fresh Iterator positioned before the first entry
// (original TXT_reset_table).
func (t *Table) Iterate() *Iterator {
	it := &Iterator{stack: make([]*trieNode, 0, 16)}
	it.stack = append(it.stack, t.root)
	return it
}

// Next advances to the next bound id in the table, returning false once
// exhausted (original TXT_next_table).
func (it *Iterator) Next() (ID, bool) {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		for _, child := range n.children {
			it.stack = append(it.stack, child)
		}
		if n.id != noID {
			return n.id, true
		}
	}
	return NilID, false
}
