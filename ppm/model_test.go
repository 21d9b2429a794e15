package ppm

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tawa-lang/tawa/coder"
	tawa "github.com/tawa-lang/tawa"
)

func nopLog() zerolog.Logger { return zerolog.Nop() }

func TestUpdateContextAdvancesHistory(t *testing.T) {
	m := NewModel(4, 3)
	ctx := m.NewContext()
	m.UpdateContext(ctx, 1)
	m.UpdateContext(ctx, 2)
	if len(ctx.history) != 2 {
		t.Fatalf("history length = %d, want 2", len(ctx.history))
	}
	if ctx.history[0] != 1 || ctx.history[1] != 2 {
		t.Fatalf("history = %v", ctx.history)
	}
}

func TestUpdateContextLearnsDistribution(t *testing.T) {
	m := NewModel(4, 2)
	ctx := m.NewContext()
	for i := 0; i < 20; i++ {
		m.UpdateContext(ctx, 0)
	}
	firstBits := m.FindSymbol(ctx, 0)
	otherBits := m.FindSymbol(ctx, 1)
	if firstBits >= otherBits {
		t.Fatalf("expected a well-seen symbol to cost fewer bits: seen=%.3f unseen=%.3f", firstBits, otherBits)
	}
}

func TestFindSymbolDoesNotMutate(t *testing.T) {
	m := NewModel(4, 2)
	ctx := m.NewContext()
	before := m.FindSymbol(ctx, 0)
	m.FindSymbol(ctx, 0)
	after := m.FindSymbol(ctx, 0)
	if before != after {
		t.Fatalf("FindSymbol mutated model state: %.6f != %.6f", before, after)
	}
	if len(ctx.history) != 0 {
		t.Fatalf("FindSymbol advanced context history")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	symbols := []tawa.Symbol{0, 1, 2, 1, 0, 0, 3, 2, 1, 0, 0, 0, 1, 2, 3, 0}

	var buf bytes.Buffer
	encModel := NewModel(4, 3)
	ctx := encModel.NewContext()
	c := coder.NewEncoder(&buf, nopLog())
	for _, s := range symbols {
		if _, err := encModel.EncodeSymbol(ctx, c, s); err != nil {
			t.Fatalf("EncodeSymbol: %v", err)
		}
	}
	if err := c.FinishEncode(); err != nil {
		t.Fatalf("FinishEncode: %v", err)
	}

	decModel := NewModel(4, 3)
	dctx := decModel.NewContext()
	dc, err := coder.NewDecoder(bytes.NewReader(buf.Bytes()), nopLog())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	for i, want := range symbols {
		got, _, err := decModel.DecodeSymbol(dctx, dc)
		if err != nil {
			t.Fatalf("DecodeSymbol at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d want %d", i, got, want)
		}
	}
	if err := dc.FinishDecode(); err != nil {
		t.Fatalf("FinishDecode: %v", err)
	}
}

func TestCloneSharesNoMutableState(t *testing.T) {
	m := NewModel(4, 3)
	ctx := m.NewContext()
	m.UpdateContext(ctx, 1)
	clone := ctx.Clone()
	m.UpdateContext(clone, 2)
	if len(ctx.history) == len(clone.history) && ctx.history[len(ctx.history)-1] == clone.history[len(clone.history)-1] {
		t.Fatalf("clone's advance leaked back into the source context")
	}
}

func TestOverlayCopiesPositionOnly(t *testing.T) {
	m := NewModel(4, 3)
	src := m.NewContext()
	m.UpdateContext(src, 1)
	m.UpdateContext(src, 2)
	dst := m.NewContext()
	Overlay(src, dst)
	if len(dst.history) != len(src.history) {
		t.Fatalf("Overlay did not copy history")
	}
	wantLen, wantDeepest := len(dst.history), dst.deepest
	m.UpdateContext(src, 3)
	if len(dst.history) != wantLen || dst.deepest != wantDeepest {
		t.Fatalf("advancing the source after Overlay moved the destination's position")
	}
}

func TestSetAlphabetSizeMarksStaticSymbols(t *testing.T) {
	m := NewModel(4, 2)
	ctx := m.NewContext()
	m.SetAlphabetSize(6)
	m.UpdateContext(ctx, 4)
	if m.root.total != 0 {
		t.Fatalf("static alphabet-growth symbol was incremented into root stats")
	}
}

func TestSuspendUpdateFreezesStatistics(t *testing.T) {
	m := NewModel(4, 2)
	ctx := m.NewContext()
	m.UpdateContext(ctx, 0)
	before := m.root.total
	m.SuspendUpdate()
	m.UpdateContext(ctx, 0)
	if m.root.total != before {
		t.Fatalf("statistics changed while suspended: before=%d after=%d", before, m.root.total)
	}
	m.ResumeUpdate()
	m.UpdateContext(ctx, 0)
	if m.root.total == before {
		t.Fatalf("statistics did not resume updating")
	}
}

func TestUpdateExclusionGatesLowerOrderBump(t *testing.T) {
	m := NewModel(4, 2)
	root := m.root

	// A node two orders deep that already predicts symbol 1 directly, so
	// the cascade finds it without ever visiting root.
	deep := newCtxNode(2, root)
	deep.bump(1, 1)

	rootBefore := root.total
	m.UpdateContext(&Context{deepest: deep}, 1)
	if root.total != rootBefore {
		t.Fatalf("root bumped even though the symbol was a hit at a higher order: before=%d after=%d", rootBefore, root.total)
	}

	deep2 := newCtxNode(2, root)
	deep2.bump(1, 1)
	m.SetUpdateExclusion(false)
	rootBefore2 := root.total
	m.UpdateContext(&Context{deepest: deep2}, 1)
	if root.total == rootBefore2 {
		t.Fatalf("disabling update exclusion should still bump root even though a higher order predicted the symbol")
	}
}

func TestFullExclusionChangesEscapeCodelength(t *testing.T) {
	withExclusion := NewModel(4, 2)
	ctxA := withExclusion.NewContext()
	withExclusion.UpdateContext(ctxA, 0)
	withExclusion.UpdateContext(ctxA, 0)

	withoutExclusion := NewModel(4, 2)
	withoutExclusion.SetFullExclusion(false)
	ctxB := withoutExclusion.NewContext()
	withoutExclusion.UpdateContext(ctxB, 0)
	withoutExclusion.UpdateContext(ctxB, 0)

	bitsWith := withExclusion.FindSymbol(ctxA, 2)
	bitsWithout := withoutExclusion.FindSymbol(ctxB, 2)
	if bitsWith == bitsWithout {
		t.Fatalf("toggling full exclusion had no effect on escape codelength: %v == %v", bitsWith, bitsWithout)
	}
}

func TestRescaleCapsTotal(t *testing.T) {
	m := NewModel(2, 1)
	ctx := m.NewContext()
	for i := 0; i < 5; i++ {
		m.UpdateContext(ctx, 0)
	}
	// force an oversized count directly to exercise rescale without a
	// multi-million-iteration loop.
	m.root.bump(1, maxFrequency)
	if m.root.total <= maxFrequency {
		t.Fatalf("setup invariant violated")
	}
	m.root.rescale()
	if m.root.total > maxFrequency {
		t.Fatalf("rescale left total over cap: %d", m.root.total)
	}
}

func TestModelSerializeRoundTrip(t *testing.T) {
	m := NewModel(4, 2)
	ctx := m.NewContext()
	for _, s := range []tawa.Symbol{0, 1, 2, 1, 0, 3} {
		m.UpdateContext(ctx, s)
	}
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	reloaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if reloaded.AlphabetSize() != m.AlphabetSize() || reloaded.Order() != m.Order() {
		t.Fatalf("reloaded model parameters mismatch")
	}
	if reloaded.root.total != m.root.total {
		t.Fatalf("reloaded root total = %d, want %d", reloaded.root.total, m.root.total)
	}
}
