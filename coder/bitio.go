package coder

import (
	"io"

	"github.com/icza/bitio"
)

// bitWriter accumulates single bits into a byte stream, MSB-first within
// each byte, per spec §4.1: "each emitted byte contains the eight bits in
// emission order, first bit = MSB of the byte". This is exactly
// icza/bitio's native bit order, so no reordering logic is needed here.
type bitWriter struct {
	w *bitio.Writer
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: bitio.NewWriter(w)}
}

func (bw *bitWriter) writeBit(b bool) error {
	return bw.w.WriteBool(b)
}

// flush pads the final partial byte with zero bits and writes it to the
// underlying stream. Called once, at the true end of an encoder session
// (not at an internal follow-bit-cap resync, which only needs the
// terminator bits, not a padded flush).
func (bw *bitWriter) flush() error {
	return bw.w.Close()
}

// bitReader consumes single bits from a byte stream in the same MSB-first
// order bitWriter produces them in.
type bitReader struct {
	r       *bitio.Reader
	garbage int // zero bits supplied past the end of the stream so far
}

func newBitReader(r io.Reader) *bitReader {
	return &bitReader{r: bitio.NewReader(r)}
}

// readBit returns the next bit. The decoder's CodeBits-wide window runs
// ahead of the last bits the encoder wrote, so past the end of the stream
// readBit supplies up to CodeBits-2 zero bits (the same padding the
// encoder's flush uses) before it reports io.EOF. StartDecode and
// renormaliseDecode treat that io.EOF as a truncation; finishDecodeSegment
// ignores it in the trailing terminator bits.
func (br *bitReader) readBit() (bool, error) {
	bit, err := br.r.ReadBool()
	if err == io.EOF && br.garbage < CodeBits-2 {
		br.garbage++
		return false, nil
	}
	return bit, err
}
