package ppm

import (
	"math"

	"github.com/tawa-lang/tawa/coder"
	tawa "github.com/tawa-lang/tawa"
)

// PTableModel adapts the flat PTable to the LanguageModel contract surface
// (spec §3 "kind: PT"; §9 "PT ... modeled as the same capability set with
// a different storage backing"). PT carries no vine-pointer chain, so
// every Context it's handed is accepted only for signature compatibility
// with search.Driver and the cmd/tawa coder drivers, which hold one
// regardless of the model kind behind a given model id.
type PTableModel struct {
	table    *PTable
	alphabet int
	frozen   bool
}

var _ LanguageModel = (*PTableModel)(nil)

// NewPTableModel returns an empty PT-kind model over the given alphabet.
func NewPTableModel(alphabet int) *PTableModel {
	return &PTableModel{table: NewPTable(), alphabet: alphabet}
}

// NewContext returns an unused Context handle; PTable has no position
// concept to track.
func (p *PTableModel) NewContext() *Context { return &Context{} }

func (p *PTableModel) AlphabetSize() int { return p.alphabet }

func (p *PTableModel) SetAlphabetSize(n int) {
	if n < p.alphabet {
		tawa.Raise(tawa.ContractViolation, "ppm.PTableModel.SetAlphabetSize", "cannot shrink alphabet from %d to %d", p.alphabet, n)
	}
	p.alphabet = n
}

func (p *PTableModel) SuspendUpdate() { p.frozen = true }
func (p *PTableModel) ResumeUpdate()  { p.frozen = false }

// ptableRank extends rankAmongNonExcluded's SENTINEL-aware-last-slot idea
// to a flat PTable instead of an exclusionSet.
func ptableRank(sym tawa.Symbol, alphabet int, p *PTable) uint32 {
	if sym == tawa.SENTINEL {
		return uint32(alphabet) - uint32(p.Types())
	}
	var rank uint32
	for s := tawa.Symbol(0); s < sym; s++ {
		if _, ok := p.Find(s); !ok {
			rank++
		}
	}
	return rank
}

func ptableSymbolAtRank(rank uint32, alphabet int, p *PTable) tawa.Symbol {
	if rank == uint32(alphabet)-uint32(p.Types()) {
		return tawa.SENTINEL
	}
	var seen uint32
	for s := tawa.Symbol(0); s < tawa.Symbol(alphabet); s++ {
		if _, ok := p.Find(s); ok {
			continue
		}
		if seen == rank {
			return s
		}
		seen++
	}
	tawa.Raise(tawa.ContractViolation, "ppm.ptableSymbolAtRank", "rank %d outside non-hit alphabet", rank)
	panic("unreachable")
}

// codelength runs sym's range lookup against the table (mirroring
// CPTp_encode_arith_range), optionally invoking emit at every range a
// coder would need to encode, and falls through to a uniform floor over
// never-seen keys plus one trailing SENTINEL slot exactly like Model's
// order -1 fallback. A table with no entries yet skips the hit/escape
// range entirely (Types()==0 would otherwise divide 0/0), matching how
// Model's cascade skips any node whose denom is zero.
func (p *PTableModel) codelength(sym tawa.Symbol, emit func(low, high, total uint32)) float64 {
	if p.table.Types() == 0 {
		return p.uniformFallback(sym, emit)
	}
	low, high, total, isEscape := p.table.EncodeRange(sym, nil)
	if emit != nil {
		emit(low, high, total)
	}
	bits := -math.Log2(float64(high-low) / float64(total))
	if !isEscape {
		return bits
	}
	return bits + p.uniformFallback(sym, emit)
}

// uniformFallback spends the residual probability mass uniformly over
// every symbol the table hasn't seen yet, plus one slot for SENTINEL.
func (p *PTableModel) uniformFallback(sym tawa.Symbol, emit func(low, high, total uint32)) float64 {
	denom := uint32(p.alphabet) - uint32(p.table.Types()) + 1
	rank := ptableRank(sym, p.alphabet, p.table)
	if emit != nil {
		emit(rank, rank+1, denom)
	}
	return -math.Log2(1 / float64(denom))
}

func (p *PTableModel) commit(sym tawa.Symbol) {
	if !p.frozen {
		p.table.Update(sym, 1)
	}
}

// FindSymbol reports sym's codelength without mutating the table (spec
// §4.3 "find_symbol").
func (p *PTableModel) FindSymbol(ctx *Context, sym tawa.Symbol) float64 {
	return p.codelength(sym, nil)
}

// UpdateContext bumps sym's count and returns the bits it cost.
func (p *PTableModel) UpdateContext(ctx *Context, sym tawa.Symbol) float64 {
	bits := p.codelength(sym, nil)
	p.commit(sym)
	return bits
}

// EncodeSymbol drives c with sym's range, then updates the table.
func (p *PTableModel) EncodeSymbol(ctx *Context, c *coder.Coder, sym tawa.Symbol) (float64, error) {
	var encErr error
	bits := p.codelength(sym, func(low, high, total uint32) {
		if encErr != nil {
			return
		}
		encErr = c.Encode(low, high, total)
	})
	if encErr != nil {
		return 0, encErr
	}
	p.commit(sym)
	return bits, nil
}

// DecodeSymbol mirrors EncodeSymbol, driven by c's decode targets
// (original CPTp_decode_arith_total / CPTp_decode_arith_key). An empty
// table skips straight to the uniform decode, matching codelength's
// Types()==0 special case.
func (p *PTableModel) DecodeSymbol(ctx *Context, c *coder.Coder) (tawa.Symbol, float64, error) {
	if p.table.Types() == 0 {
		return p.decodeUniform(c)
	}
	total := p.table.DecodeTotal(nil)
	target := c.DecodeTarget(total)
	sym, low, high, isEscape := p.table.DecodeKey(target, total, nil)
	if err := c.Decode(low, high, total); err != nil {
		return 0, 0, err
	}
	bits := -math.Log2(float64(high-low) / float64(total))
	if !isEscape {
		p.commit(sym)
		return sym, bits, nil
	}
	outSym, escBits, err := p.decodeUniform(c)
	if err != nil {
		return 0, 0, err
	}
	return outSym, bits + escBits, nil
}

// decodeUniform decodes one symbol from the residual uniform range over
// every symbol the table hasn't seen yet, plus SENTINEL, and commits it.
func (p *PTableModel) decodeUniform(c *coder.Coder) (tawa.Symbol, float64, error) {
	denom := uint32(p.alphabet) - uint32(p.table.Types()) + 1
	target := c.DecodeTarget(denom)
	if err := c.Decode(target, target+1, denom); err != nil {
		return 0, 0, err
	}
	bits := -math.Log2(1 / float64(denom))
	sym := ptableSymbolAtRank(target, p.alphabet, p.table)
	p.commit(sym)
	return sym, bits, nil
}
