package ppm

import (
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/tawa-lang/tawa/coder"
	tawa "github.com/tawa-lang/tawa"
)

// EscapeMethod selects the escape-probability numerator rule (spec §3/§4.3:
// "escape method" is a per-model attribute with tags A/B/C/D). Method D is
// the only one with an implemented numerator rule; A/B/C are modeled so the
// config surface can name them, but fail closed at construction time (spec
// §1 narrows "specific escape-method variants beyond the default" out of
// CORE scope).
type EscapeMethod int

const (
	EscapeA EscapeMethod = iota
	EscapeB
	EscapeC
	EscapeD
)

// LanguageModel is the contract surface every model kind (PPM, binary-PPM,
// PT) drives search and coding through (spec §3 "kind: PPM, binary-PPM,
// PT, SSS"; §9 "dynamic dispatch over model kind"). BinaryModel and
// PTableModel implement it by delegating to the same cascade machinery
// (BinaryModel) or a flat table (PTableModel) under these same method
// names, so search.Driver and the cmd/tawa encode/decode drivers never
// need to know which kind backs a given model id.
type LanguageModel interface {
	NewContext() *Context
	FindSymbol(ctx *Context, sym tawa.Symbol) float64
	UpdateContext(ctx *Context, sym tawa.Symbol) float64
	EncodeSymbol(ctx *Context, c *coder.Coder, sym tawa.Symbol) (float64, error)
	DecodeSymbol(ctx *Context, c *coder.Coder) (tawa.Symbol, float64, error)
	SuspendUpdate()
	ResumeUpdate()
	AlphabetSize() int
	SetAlphabetSize(n int)
}

// maxFrequency is the cumulative-frequency cap (spec §4.3: "rescaled by
// halving when denominator would exceed ≈2^27").
const maxFrequency = 1 << 27

// Model is an adaptive PPM language model: a blended N-gram of order up
// to Order, escape-D, with full and update exclusion, grounded on spec
// §4.3 and the original Tawa-0.7 cpt_ptable.h cumulative-frequency table
// contract (CPTp_update_table / CPTp_encode_arith_range /
// CPTp_decode_arith_key), generalised here from a flat order-0 table to
// the full blended-order cascade.
type Model struct {
	alphabet        int
	static          map[tawa.Symbol]bool // symbols added by growth: static freq 1, never incremented
	order           int
	root            *ctxNode
	frozen          bool
	fullExclusion   bool
	updateExclusion bool
	escape          EscapeMethod
}

var _ LanguageModel = (*Model)(nil)

// NewModel creates a PPM model over an alphabet of the given size and
// maximum context order (spec §6 defaults: alphabet 256, order 5), with
// full and update exclusion both on by default.
func NewModel(alphabet, order int) *Model {
	if alphabet <= 0 || order < 0 {
		tawa.Raise(tawa.ContractViolation, "ppm.NewModel", "invalid alphabet=%d order=%d", alphabet, order)
	}
	return &Model{
		alphabet:        alphabet,
		order:           order,
		root:            newCtxNode(0, nil),
		static:          make(map[tawa.Symbol]bool),
		fullExclusion:   true,
		updateExclusion: true,
		escape:          EscapeD,
	}
}

// SetFullExclusion toggles whether a symbol seen (as a hit or an escape
// numerator) at one cascade level is excluded from the levels below it
// (spec §3/§6 "full_exclusion"). On by default.
func (m *Model) SetFullExclusion(on bool) { m.fullExclusion = on }

// SetUpdateExclusion toggles whether statistics are only bumped at the
// order that predicted the symbol and above, rather than at every
// visited order (spec §3/§6 "update_exclusion"). On by default.
func (m *Model) SetUpdateExclusion(on bool) { m.updateExclusion = on }

// SetEscapeMethod selects a model's escape-probability numerator rule
// (spec §3/§4.3 "escape method"). Only EscapeD has an implemented
// numerator; A/B/C fail closed here rather than silently behaving like D
// (spec §1 narrows "specific escape-method variants beyond the default"
// out of CORE scope).
func (m *Model) SetEscapeMethod(method EscapeMethod) {
	if method != EscapeD {
		tawa.Raise(tawa.RuleCompileError, "ppm.Model.SetEscapeMethod", "escape method %d has no implemented numerator rule (only EscapeD)", method)
	}
	m.escape = method
}

// Order reports the model's configured maximum context order.
func (m *Model) Order() int { return m.order }

// AlphabetSize reports the model's current alphabet size.
func (m *Model) AlphabetSize() int { return m.alphabet }

// SetAlphabetSize grows the model's alphabet (spec §4.3 "set_alphabet_size").
// Newly added symbols are static: frequency 1, never incremented, so they
// can serve as model-switch markers without perturbing existing statistics.
// Shrinking the alphabet is a contract violation.
func (m *Model) SetAlphabetSize(newSize int) {
	if newSize < m.alphabet {
		tawa.Raise(tawa.ContractViolation, "ppm.SetAlphabetSize", "cannot shrink alphabet from %d to %d", m.alphabet, newSize)
	}
	for sym := tawa.Symbol(m.alphabet); sym < tawa.Symbol(newSize); sym++ {
		m.static[sym] = true
	}
	m.alphabet = newSize
}

// SuspendUpdate freezes statistics: subsequent UpdateContext/Encode/Decode
// calls still advance context position but stop mutating counts (spec
// §4.3 "suspend_update(model)").
func (m *Model) SuspendUpdate() { m.frozen = true }

// ResumeUpdate re-enables statistics updates (spec §4.3 "resume_update").
func (m *Model) ResumeUpdate() { m.frozen = false }

// exclusionSet tracks which symbols have already been accounted for at a
// higher order during one cascade, so lower orders don't double-count
// their probability mass (spec §4.3 "full exclusion"). Alphabets are
// small and bounded, so a bitset is both denser and faster to test than
// a map.
type exclusionSet struct {
	bits  *bitset.BitSet
	count uint32
}

func newExclusionSet(alphabet int) exclusionSet {
	return exclusionSet{bits: bitset.New(uint(alphabet))}
}

func (e *exclusionSet) add(sym tawa.Symbol) {
	if !e.bits.Test(uint(sym)) {
		e.bits.Set(uint(sym))
		e.count++
	}
}

func (e exclusionSet) has(sym tawa.Symbol) bool {
	return e.bits.Test(uint(sym))
}

// levelStats summarises a node's non-excluded entries for one cascade
// step: sorted hits plus the escape numerator/denominator.
type levelStats struct {
	hits     []countEntry // non-excluded entries, ascending by sym
	hitTotal uint32
	escNum   uint32 // method D: count of distinct non-excluded symbols
	denom    uint32
}

func computeLevel(n *ctxNode, excluded exclusionSet) levelStats {
	var ls levelStats
	for _, e := range n.entries {
		if excluded.has(e.sym) {
			continue
		}
		ls.hits = append(ls.hits, e)
		ls.hitTotal += e.count
	}
	ls.escNum = uint32(len(ls.hits))
	ls.denom = ls.hitTotal + ls.escNum
	return ls
}

// FindSymbol reports the codelength sym would cost if encoded from ctx's
// current position, without advancing the context or touching statistics
// (spec §4.3 "find_symbol").
func (m *Model) FindSymbol(ctx *Context, sym tawa.Symbol) float64 {
	scratch := ctx.Clone()
	bits, _, _ := m.cascadeEncode(scratch, sym, nil)
	return bits
}

// UpdateContext advances ctx by sym in pure codelength mode: statistics
// are updated (unless the model is suspended) and the context position
// moves forward, but nothing is emitted to a coder. Returns the bits cost
// reported for sym under the model's current statistics (spec §4.3).
func (m *Model) UpdateContext(ctx *Context, sym tawa.Symbol) float64 {
	bits, foundOrder, hist := m.cascadeEncode(ctx, sym, nil)
	m.commit(ctx, sym, foundOrder, hist)
	return bits
}

// EncodeSymbol drives c so that the emitted bits correspond to sym's
// codelength under ctx's current statistics, then advances ctx and
// updates statistics the same way UpdateContext does.
func (m *Model) EncodeSymbol(ctx *Context, c *coder.Coder, sym tawa.Symbol) (float64, error) {
	var encErr error
	bits, foundOrder, hist := m.cascadeEncode(ctx, sym, func(low, high, total uint32) {
		if encErr != nil {
			return
		}
		encErr = c.Encode(low, high, total)
	})
	if encErr != nil {
		return 0, encErr
	}
	m.commit(ctx, sym, foundOrder, hist)
	return bits, nil
}

// cascadeEncode runs the escape cascade for sym (known in advance),
// optionally invoking emit(low, high, total) at each range the coder
// would need to encode. It does not mutate model statistics; callers
// that want the update applied call commit afterwards.
func (m *Model) cascadeEncode(ctx *Context, sym tawa.Symbol, emit func(low, high, total uint32)) (bits float64, foundOrder int, hist []*ctxNode) {
	excluded := newExclusionSet(m.alphabet)
	n := ctx.deepest
	for n != nil {
		hist = append(hist, n)
		ls := computeLevel(n, excluded)
		if ls.denom == 0 {
			n = n.vine
			continue
		}
		if i := indexOfHit(ls.hits, sym); i >= 0 {
			low := cumBefore(ls.hits, i)
			high := low + ls.hits[i].count
			if emit != nil {
				emit(low, high, ls.denom)
			}
			bits += -math.Log2(float64(ls.hits[i].count) / float64(ls.denom))
			foundOrder = n.order
			if !m.updateExclusion {
				hist = appendVineChain(hist, n.vine)
			}
			return bits, foundOrder, hist
		}
		if emit != nil {
			emit(ls.hitTotal, ls.denom, ls.denom)
		}
		bits += -math.Log2(float64(ls.escNum) / float64(ls.denom))
		if m.fullExclusion {
			for _, e := range ls.hits {
				excluded.add(e.sym)
			}
		}
		n = n.vine
	}
	// order -1: uniform over the non-excluded alphabet, plus one extra
	// slot for SENTINEL (spec §4.6 "the codelength of SENTINEL in that
	// context"): SENTINEL never occurs in ordinary statistics, so it
	// always falls through every level to this uniform floor.
	denom := uint32(m.alphabet) - excluded.count + 1
	rank := sentinelAwareRank(sym, m.alphabet, excluded)
	if emit != nil {
		emit(rank, rank+1, denom)
	}
	bits += -math.Log2(1 / float64(denom))
	return bits, -1, hist
}

// appendVineChain walks the remaining vine pointers below the order a
// symbol was found at, so commit can still bump their statistics when
// update exclusion is disabled (spec §4.3 "update exclusion off: update
// every order visited by the full context, not just the escape chain").
func appendVineChain(hist []*ctxNode, n *ctxNode) []*ctxNode {
	for ; n != nil; n = n.vine {
		hist = append(hist, n)
	}
	return hist
}

func indexOfHit(hits []countEntry, sym tawa.Symbol) int {
	for i, e := range hits {
		if e.sym == sym {
			return i
		}
	}
	return -1
}

func cumBefore(hits []countEntry, i int) uint32 {
	var cum uint32
	for j := 0; j < i; j++ {
		cum += hits[j].count
	}
	return cum
}

func rankAmongNonExcluded(sym tawa.Symbol, alphabet int, excluded exclusionSet) uint32 {
	var rank uint32
	for s := tawa.Symbol(0); s < sym; s++ {
		if !excluded.has(s) {
			rank++
		}
	}
	return rank
}

// sentinelAwareRank extends rankAmongNonExcluded with one trailing slot
// for SENTINEL, which sits outside the ordinary 0..alphabet-1 range and
// so always ranks last among the non-excluded symbols.
func sentinelAwareRank(sym tawa.Symbol, alphabet int, excluded exclusionSet) uint32 {
	if sym == tawa.SENTINEL {
		return uint32(alphabet) - excluded.count
	}
	return rankAmongNonExcluded(sym, alphabet, excluded)
}

// commit bumps statistics for every node in hist, then advances ctx's
// history. With update exclusion on (the default), hist already stops at
// the order that predicted sym, so only that order and the higher ones
// visited during the escape cascade get bumped; the cascade callers append
// the remaining lower orders onto hist when update exclusion is off, so
// this loop never needs to special-case them beyond the order guard.
// Static (alphabet-growth) symbols and SENTINEL are never incremented.
func (m *Model) commit(ctx *Context, sym tawa.Symbol, foundOrder int, hist []*ctxNode) {
	if !m.frozen && !m.static[sym] && sym != tawa.SENTINEL {
		for _, n := range hist {
			if m.updateExclusion && n.order < foundOrder {
				continue
			}
			n.bump(sym, 1)
			if n.total > maxFrequency {
				n.rescale()
			}
		}
	}
	m.advance(ctx, sym)
}

// DecodeSymbol mirrors EncodeSymbol: it determines which symbol c's
// current window encodes by cascading through decode targets, commits
// the matching range, advances ctx, and updates statistics identically
// to the encode side.
func (m *Model) DecodeSymbol(ctx *Context, c *coder.Coder) (tawa.Symbol, float64, error) {
	var bits float64
	excluded := newExclusionSet(m.alphabet)
	var hist []*ctxNode
	n := ctx.deepest
	for n != nil {
		hist = append(hist, n)
		ls := computeLevel(n, excluded)
		if ls.denom == 0 {
			n = n.vine
			continue
		}
		target := c.DecodeTarget(ls.denom)
		if target < ls.hitTotal {
			i, low, high := locateHit(ls.hits, target)
			if err := c.Decode(low, high, ls.denom); err != nil {
				return 0, 0, err
			}
			bits += -math.Log2(float64(ls.hits[i].count) / float64(ls.denom))
			sym := ls.hits[i].sym
			foundOrder := n.order
			if !m.updateExclusion {
				hist = appendVineChain(hist, n.vine)
			}
			m.commit(ctx, sym, foundOrder, hist)
			return sym, bits, nil
		}
		if err := c.Decode(ls.hitTotal, ls.denom, ls.denom); err != nil {
			return 0, 0, err
		}
		bits += -math.Log2(float64(ls.escNum) / float64(ls.denom))
		if m.fullExclusion {
			for _, e := range ls.hits {
				excluded.add(e.sym)
			}
		}
		n = n.vine
	}
	denom := uint32(m.alphabet) - excluded.count + 1
	target := c.DecodeTarget(denom)
	if err := c.Decode(target, target+1, denom); err != nil {
		return 0, 0, err
	}
	bits += -math.Log2(1 / float64(denom))
	sym := sentinelAwareSymbolAtRank(target, m.alphabet, excluded)
	m.commit(ctx, sym, -1, hist)
	return sym, bits, nil
}

func locateHit(hits []countEntry, target uint32) (idx int, low, high uint32) {
	var cum uint32
	for i, e := range hits {
		if target < cum+e.count {
			return i, cum, cum + e.count
		}
		cum += e.count
	}
	tawa.Raise(tawa.ContractViolation, "ppm.locateHit", "target %d outside hit ranges", target)
	panic("unreachable")
}

func symbolAtRank(rank uint32, alphabet int, excluded exclusionSet) tawa.Symbol {
	var seen uint32
	for s := tawa.Symbol(0); s < tawa.Symbol(alphabet); s++ {
		if excluded.has(s) {
			continue
		}
		if seen == rank {
			return s
		}
		seen++
	}
	tawa.Raise(tawa.ContractViolation, "ppm.symbolAtRank", "rank %d outside non-excluded alphabet", rank)
	panic("unreachable")
}

// sentinelAwareSymbolAtRank mirrors sentinelAwareRank for decoding: the
// trailing slot beyond the ordinary alphabet decodes to SENTINEL.
func sentinelAwareSymbolAtRank(rank uint32, alphabet int, excluded exclusionSet) tawa.Symbol {
	if rank == uint32(alphabet)-excluded.count {
		return tawa.SENTINEL
	}
	return symbolAtRank(rank, alphabet, excluded)
}
