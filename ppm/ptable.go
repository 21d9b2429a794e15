package ppm

import (
	tawa "github.com/tawa-lang/tawa"
)

// PTable is the PT (probability-table) model kind: a flat, unordered
// cumulative-frequency table with no blended contexts, supplemented from
// original_source/Tawa-0.7/Tawa/cpt_ptable.h's CPTp_table_type. Unlike
// Model it carries no vine-pointer chain; it is used where a single flat
// distribution over an open set of keys suffices (e.g. confusion-rule
// selection tables), not the blended N-gram cascade of §4.3.
type PTable struct {
	entries []countEntry
	index   map[tawa.Symbol]int
	total   uint32
	types   int // number of distinct keys (original "types")
	singles int // number of keys with freq == 1 (original "singletons")
}

// NewPTable returns an empty probability table (original CPTp_create_table).
func NewPTable() *PTable {
	return &PTable{index: make(map[tawa.Symbol]int)}
}

// Update adds freq to key's count, inserting it if new. Returns whether
// key was previously unseen (original CPTp_update_table).
func (p *PTable) Update(key tawa.Symbol, freq uint32) bool {
	if i, ok := p.index[key]; ok {
		if p.entries[i].count == 1 && freq > 0 {
			p.singles--
		}
		p.entries[i].count += freq
		p.total += freq
		if p.entries[i].count == 1 {
			p.singles++
		}
		return false
	}
	p.entries = append(p.entries, countEntry{sym: key, count: freq})
	p.index[key] = len(p.entries) - 1
	p.total += freq
	p.types++
	if freq == 1 {
		p.singles++
	}
	return true
}

// Find looks up key without mutating the table (original CPTp_find_table).
func (p *PTable) Find(key tawa.Symbol) (uint32, bool) {
	i, ok := p.index[key]
	if !ok {
		return 0, false
	}
	return p.entries[i].count, true
}

// Types returns the number of distinct keys held.
func (p *PTable) Types() int { return p.types }

// Singletons returns the number of keys with frequency exactly 1.
func (p *PTable) Singletons() int { return p.singles }

// EncodeRange computes the arithmetic-coding range for key, excluding any
// key present in excl, mirroring CPTp_encode_arith_range. The escape
// range (key not present) occupies [hitTotal(excl), total).
func (p *PTable) EncodeRange(key tawa.Symbol, excl *PTable) (low, high, total uint32, isEscape bool) {
	var cum uint32
	var hitTotal uint32
	found := false
	var foundLow, foundHigh uint32
	for _, e := range p.entries {
		if excl != nil {
			if _, excluded := excl.Find(e.sym); excluded {
				continue
			}
		}
		if e.sym == key {
			foundLow, foundHigh = cum, cum+e.count
			found = true
		}
		cum += e.count
		hitTotal += e.count
	}
	escNum := uint32(p.types)
	if excl != nil {
		escNum -= uint32(excl.Types())
	}
	total = hitTotal + escNum
	if found {
		return foundLow, foundHigh, total, false
	}
	return hitTotal, total, total, true
}

// DecodeTotal returns the denominator needed to decode the next key
// (original CPTp_decode_arith_total).
func (p *PTable) DecodeTotal(excl *PTable) uint32 {
	var hitTotal uint32
	for _, e := range p.entries {
		if excl != nil {
			if _, excluded := excl.Find(e.sym); excluded {
				continue
			}
		}
		hitTotal += e.count
	}
	escNum := uint32(p.types)
	if excl != nil {
		escNum -= uint32(excl.Types())
	}
	return hitTotal + escNum
}

// DecodeKey locates the key (or escape) owning target out of total,
// mirroring CPTp_decode_arith_key.
func (p *PTable) DecodeKey(target, total uint32, excl *PTable) (key tawa.Symbol, low, high uint32, isEscape bool) {
	var cum uint32
	for _, e := range p.entries {
		if excl != nil {
			if _, excluded := excl.Find(e.sym); excluded {
				continue
			}
		}
		if target < cum+e.count {
			return e.sym, cum, cum + e.count, false
		}
		cum += e.count
	}
	return 0, cum, total, true
}
