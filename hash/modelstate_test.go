package hash

import "testing"

func TestModelStateStartAndUpdate(t *testing.T) {
	tbl := NewModelStateTable()
	key := ModelStateKey{TransformModel: 1, LanguageModel: 2}
	tbl.Start(key, 0, "ctx0", "sentinel0")
	tbl.Update(key, 1, 4.0, 1.0, 0.5, "ctx1", "sentinel1")
	pos, ctx, sctx, ok := tbl.Find(key)
	if !ok || pos != 1 || ctx != "ctx1" || sctx != "sentinel1" {
		t.Fatalf("Find after Update = %d %v %v %v", pos, ctx, sctx, ok)
	}
}

func TestModelStateNonMonotonicAdvancePanics(t *testing.T) {
	tbl := NewModelStateTable()
	key := ModelStateKey{LanguageModel: 1}
	tbl.Start(key, 0, "ctx0", "sentinel0")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on non-monotonic advance")
		}
	}()
	tbl.Update(key, 5, 1.0, 1.0, 1.0, "ctx", "sctx")
}

func TestModelStateUpdateWithoutStartPanics(t *testing.T) {
	tbl := NewModelStateTable()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic updating an unstarted key")
		}
	}()
	tbl.Update(ModelStateKey{LanguageModel: 9}, 1, 1.0, 1.0, 1.0, "ctx", "sctx")
}

func TestModelStateResetRequiresRestart(t *testing.T) {
	tbl := NewModelStateTable()
	key := ModelStateKey{LanguageModel: 1}
	tbl.Start(key, 0, "ctx0", "sentinel0")
	tbl.Reset()
	if _, _, _, ok := tbl.Find(key); ok {
		t.Fatalf("entry survived Reset")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic updating a reset-but-not-restarted key")
		}
	}()
	tbl.Update(key, 1, 1.0, 1.0, 1.0, "ctx", "sctx")
}
