package word

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tawa-lang/tawa/coder"

	tawa "github.com/tawa-lang/tawa"
)

func nopLog() zerolog.Logger { return zerolog.Nop() }

func TestProcessorRoundTrip(t *testing.T) {
	input := seq("the cat sat on the mat. the cat ran.")

	p := NewProcessor(64, 3, 256, 3, nopLog())
	var buf bytes.Buffer
	enc := coder.NewEncoder(&buf, nopLog())
	if _, err := p.Encode(enc, input); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := enc.FinishEncode(); err != nil {
		t.Fatalf("FinishEncode: %v", err)
	}

	q := NewProcessor(64, 3, 256, 3, nopLog())
	dec, err := coder.NewDecoder(bytes.NewReader(buf.Bytes()), nopLog())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	got, err := q.Decode(dec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := dec.FinishDecode(); err != nil {
		t.Fatalf("FinishDecode: %v", err)
	}

	if !got.Equal(input) {
		t.Fatalf("round trip = %q, want %q", bytesOf(got), bytesOf(input))
	}
}

func TestProcessorRepeatedWordCodesAsKnownID(t *testing.T) {
	input := seq("cat cat cat")

	p := NewProcessor(64, 3, 256, 3, nopLog())
	var buf bytes.Buffer
	enc := coder.NewEncoder(&buf, nopLog())
	if _, err := p.Encode(enc, input); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := enc.FinishEncode(); err != nil {
		t.Fatalf("FinishEncode: %v", err)
	}

	if p.wordTable.Len() != 2 {
		t.Fatalf("wordTable.Len() = %d, want 2 (NilID + \"cat\")", p.wordTable.Len())
	}

	q := NewProcessor(64, 3, 256, 3, nopLog())
	dec, err := coder.NewDecoder(bytes.NewReader(buf.Bytes()), nopLog())
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	got, err := q.Decode(dec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(input) {
		t.Fatalf("round trip = %q, want %q", bytesOf(got), bytesOf(input))
	}
}

func TestIsFullStop(t *testing.T) {
	cases := []struct {
		tok  tawa.Sequence
		want bool
	}{
		{seq("."), true},
		{seq(". "), true},
		{seq(".\n"), true},
		{seq(", "), false},
		{seq(""), false},
	}
	for _, c := range cases {
		if got := isFullStop(c.tok); got != c.want {
			t.Fatalf("isFullStop(%q) = %v, want %v", bytesOf(c.tok), got, c.want)
		}
	}
}
