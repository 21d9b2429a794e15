package ppm

import (
	"bytes"
	"testing"

	"github.com/tawa-lang/tawa/coder"
)

func TestBinaryModelRoundTrip(t *testing.T) {
	bits := []bool{true, false, false, true, true, false, true, true, false, false}

	var buf bytes.Buffer
	enc := NewBinaryModel(3)
	ectx := enc.NewContext()
	c := coder.NewEncoder(&buf, nopLog())
	for _, b := range bits {
		if err := enc.Encode(ectx, c, b); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	if err := c.FinishEncode(); err != nil {
		t.Fatalf("FinishEncode: %v", err)
	}

	dec := NewBinaryModel(3)
	dctx := dec.NewContext()
	dc, err := coder.NewDecoder(bytes.NewReader(buf.Bytes()), nopLog())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	for i, want := range bits {
		got, err := dec.Decode(dctx, dc)
		if err != nil {
			t.Fatalf("Decode at %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("bit %d: got %v want %v", i, got, want)
		}
	}
	if err := dc.FinishDecode(); err != nil {
		t.Fatalf("FinishDecode: %v", err)
	}
}
