package ppm

import (
	"github.com/tawa-lang/tawa/coder"
	tawa "github.com/tawa-lang/tawa"
)

// BinaryModel is the binary-PPM kind (spec §3 "kind: PPM, binary-PPM,
// PT..."): a two-symbol alphabet (0/1) driven through the coder's binary
// specialisation instead of the general multi-symbol range, for contexts
// where a yes/no decision (e.g. "does this confusion rule apply here")
// is modeled directly rather than through a full alphabet cascade.
type BinaryModel struct {
	inner *Model
}

var _ LanguageModel = (*BinaryModel)(nil)

// NewBinaryModel creates a binary-PPM model of the given order.
func NewBinaryModel(order int) *BinaryModel {
	return &BinaryModel{inner: NewModel(2, order)}
}

func sym2bit(s tawa.Symbol) bool { return s == 1 }
func bit2sym(b bool) tawa.Symbol {
	if b {
		return 1
	}
	return 0
}

// Encode drives c's binary specialisation with the counts of the
// highest-order context that has seen at least one symbol (an unseen
// symbol counts as 1), falling back through vine pointers past contexts
// with no statistics. Unlike the general cascade it codes no escape: it
// emits one EncodeBinary decision rather than a multi-symbol range.
func (bm *BinaryModel) Encode(ctx *Context, c *coder.Coder, bit bool) error {
	sym := bit2sym(bit)
	n := ctx.deepest
	for n != nil {
		if n.total > 0 {
			c0, c1 := countsOf(n)
			if err := c.EncodeBinary(c0, c1, bit); err != nil {
				return err
			}
			bm.inner.commit(ctx, sym, n.order, []*ctxNode{n})
			return nil
		}
		n = n.vine
	}
	if err := c.EncodeBinary(1, 1, bit); err != nil {
		return err
	}
	bm.inner.commit(ctx, sym, -1, nil)
	return nil
}

// Decode mirrors Encode, using DecodeBinary to recover the bit.
func (bm *BinaryModel) Decode(ctx *Context, c *coder.Coder) (bool, error) {
	n := ctx.deepest
	for n != nil {
		if n.total > 0 {
			c0, c1 := countsOf(n)
			bit, err := c.DecodeBinary(c0, c1)
			if err != nil {
				return false, err
			}
			bm.inner.commit(ctx, bit2sym(bit), n.order, []*ctxNode{n})
			return bit, nil
		}
		n = n.vine
	}
	bit, err := c.DecodeBinary(1, 1)
	if err != nil {
		return false, err
	}
	bm.inner.commit(ctx, bit2sym(bit), -1, nil)
	return bit, nil
}

func countsOf(n *ctxNode) (c0, c1 uint32) {
	for _, e := range n.entries {
		if e.sym == 0 {
			c0 = e.count
		} else {
			c1 = e.count
		}
	}
	if c0 == 0 {
		c0 = 1
	}
	if c1 == 0 {
		c1 = 1
	}
	return c0, c1
}

// NewContext delegates to the inner model so BinaryModel shares the same
// Context type and vine-pointer machinery as the general Model.
func (bm *BinaryModel) NewContext() *Context { return bm.inner.NewContext() }

// FindSymbol, UpdateContext, EncodeSymbol, DecodeSymbol, SuspendUpdate,
// ResumeUpdate, AlphabetSize and SetAlphabetSize delegate to the inner
// two-symbol Model, so *BinaryModel satisfies LanguageModel (spec §3
// "BinaryModel shares the same Model contract surface"). They run the
// inner model's escape cascade, whereas Encode/Decode code one binary
// decision from a single context's counts: both read and update the same
// statistics, but the codelength they give a symbol generally differs.
func (bm *BinaryModel) FindSymbol(ctx *Context, sym tawa.Symbol) float64 {
	return bm.inner.FindSymbol(ctx, sym)
}

func (bm *BinaryModel) UpdateContext(ctx *Context, sym tawa.Symbol) float64 {
	return bm.inner.UpdateContext(ctx, sym)
}

func (bm *BinaryModel) EncodeSymbol(ctx *Context, c *coder.Coder, sym tawa.Symbol) (float64, error) {
	return bm.inner.EncodeSymbol(ctx, c, sym)
}

func (bm *BinaryModel) DecodeSymbol(ctx *Context, c *coder.Coder) (tawa.Symbol, float64, error) {
	return bm.inner.DecodeSymbol(ctx, c)
}

func (bm *BinaryModel) SuspendUpdate() { bm.inner.SuspendUpdate() }
func (bm *BinaryModel) ResumeUpdate()  { bm.inner.ResumeUpdate() }

func (bm *BinaryModel) AlphabetSize() int     { return bm.inner.AlphabetSize() }
func (bm *BinaryModel) SetAlphabetSize(n int) { bm.inner.SetAlphabetSize(n) }

// SetFullExclusion, SetUpdateExclusion and SetEscapeMethod forward to the
// inner Model so the §6 config surface applies uniformly across model
// kinds, not just the plain PPM one.
func (bm *BinaryModel) SetFullExclusion(on bool)            { bm.inner.SetFullExclusion(on) }
func (bm *BinaryModel) SetUpdateExclusion(on bool)          { bm.inner.SetUpdateExclusion(on) }
func (bm *BinaryModel) SetEscapeMethod(method EscapeMethod) { bm.inner.SetEscapeMethod(method) }
