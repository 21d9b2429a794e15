// Package hash implements the position hash and model-state hash of
// spec §4.6, grounded on the original Tawa-0.7 hash.c's hashpType /
// hashmType record layouts: a fixed-size array of hash buckets, each a
// chain of entries, keyed by (transform model, language model, input
// position[, context position]). Bucket indices come from
// github.com/cespare/xxhash/v2 over the key's encoded bytes rather than
// hash.c's HASHP_NUMBER multiply-mod scheme.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// positionBuckets is the position hash's bucket count, playing the role
// of hash.c's HASHP_SIZE.
const positionBuckets = 5003

// PositionKey identifies one position-hash entry (original hashpType's
// H_transform_model/H_language_model/H_input_position/H_context_position).
type PositionKey struct {
	TransformModel  int
	LanguageModel   int
	InputPosition   int
	ContextPosition int
}

func (k PositionKey) bucket() uint64 {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(k.TransformModel))
	binary.BigEndian.PutUint64(buf[8:16], uint64(k.LanguageModel))
	binary.BigEndian.PutUint64(buf[16:24], uint64(k.InputPosition))
	binary.BigEndian.PutUint64(buf[24:32], uint64(k.ContextPosition))
	return xxhash.Sum64(buf[:]) % positionBuckets
}

type positionEntry struct {
	key              PositionKey
	totalCodelength  float64
	symbolCodelength float64
	leaf             any // the search-package Leaf currently registered here
}

// PositionTable is the position hash of spec §4.6: keyed by (model,
// input-position, context-position), it supports Viterbi recombine by
// reporting whether a candidate strictly improves on an existing entry.
// Each bucket holds the chain of entries whose key hashes there, mirroring
// hash.c's array-of-chains layout.
type PositionTable struct {
	buckets [positionBuckets][]*positionEntry
	free    []*positionEntry
}

// NewPositionTable returns an empty position hash.
func NewPositionTable() *PositionTable {
	return &PositionTable{}
}

// Add records a candidate path's codelengths at key (spec §4.6
// "add(..., total_cl, symbol_cl) returns added ... and update ...").
// added reports a brand-new entry; update reports a strict
// improvement over an existing entry (an equal codelength is discarded) (so the caller should prune the old
// leaf and register the new one — the Viterbi recombine). If neither,
// the candidate is discarded and oldLeaf is nil.
func (t *PositionTable) Add(key PositionKey, totalCL, symbolCL float64, leaf any) (added, update bool, oldLeaf any) {
	b := key.bucket()
	for _, e := range t.buckets[b] {
		if e.key != key {
			continue
		}
		if e.totalCodelength <= totalCL {
			return false, false, nil
		}
		oldLeaf = e.leaf
		e.totalCodelength = totalCL
		e.symbolCodelength = symbolCL
		e.leaf = leaf
		return false, true, oldLeaf
	}
	e := t.alloc(key)
	e.totalCodelength = totalCL
	e.symbolCodelength = symbolCL
	e.leaf = leaf
	t.buckets[b] = append(t.buckets[b], e)
	return true, false, nil
}

// Find reports the entry registered at key, if any.
func (t *PositionTable) Find(key PositionKey) (totalCL, symbolCL float64, leaf any, ok bool) {
	for _, e := range t.buckets[key.bucket()] {
		if e.key == key {
			return e.totalCodelength, e.symbolCodelength, e.leaf, true
		}
	}
	return 0, 0, nil, false
}

func (t *PositionTable) alloc(key PositionKey) *positionEntry {
	if n := len(t.free); n > 0 {
		e := t.free[n-1]
		t.free = t.free[:n-1]
		*e = positionEntry{key: key}
		return e
	}
	return &positionEntry{key: key}
}

// Reset splices every in-use entry back onto the free list rather than
// discarding it (spec §4.6 "Both hashes are reinitialised between
// transform steps by splicing their used lists back onto a free list
// rather than freeing"), and clears every bucket for the next step.
func (t *PositionTable) Reset() {
	for i := range t.buckets {
		if len(t.buckets[i]) == 0 {
			continue
		}
		t.free = append(t.free, t.buckets[i]...)
		t.buckets[i] = nil
	}
}
