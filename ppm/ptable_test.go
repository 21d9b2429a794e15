package ppm

import "testing"

func TestPTableUpdateAndFind(t *testing.T) {
	p := NewPTable()
	isNew := p.Update(5, 3)
	if !isNew {
		t.Fatalf("first Update reported not-new")
	}
	if isNew := p.Update(5, 2); isNew {
		t.Fatalf("second Update on same key reported new")
	}
	count, ok := p.Find(5)
	if !ok || count != 5 {
		t.Fatalf("Find(5) = %d, %v, want 5, true", count, ok)
	}
	if p.Types() != 1 {
		t.Fatalf("Types() = %d, want 1", p.Types())
	}
}

func TestPTableEncodeRangeEscape(t *testing.T) {
	p := NewPTable()
	p.Update(1, 4)
	p.Update(2, 6)
	_, _, total, isEscape := p.EncodeRange(3, nil)
	if !isEscape {
		t.Fatalf("expected escape for unseen key")
	}
	if total != 4+6+2 {
		t.Fatalf("total = %d, want %d", total, 4+6+2)
	}
}

func TestPTableEncodeDecodeRangeConsistent(t *testing.T) {
	p := NewPTable()
	p.Update(1, 4)
	p.Update(2, 6)
	low, high, total, isEscape := p.EncodeRange(2, nil)
	if isEscape {
		t.Fatalf("expected a hit for key 2")
	}
	key, dlow, dhigh, dEscape := p.DecodeKey(low, total, nil)
	if dEscape || key != 2 || dlow != low || dhigh != high {
		t.Fatalf("DecodeKey mismatch: key=%d low=%d high=%d escape=%v", key, dlow, dhigh, dEscape)
	}
}

func TestPTableExclusions(t *testing.T) {
	p := NewPTable()
	p.Update(1, 4)
	p.Update(2, 6)
	excl := NewPTable()
	excl.Update(1, 1)
	total := p.DecodeTotal(excl)
	if total != 6+1 {
		t.Fatalf("DecodeTotal with exclusion = %d, want %d", total, 6+1)
	}
}
