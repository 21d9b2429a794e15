// Package coder implements the low-precision carry-free binary arithmetic
// coder of spec §4.1-§4.2: bit I/O over an external byte stream, (L, R)
// state maintenance with follow-bit accounting and renormalisation, and a
// binary specialisation used by binary-kind language models.
package coder

import (
	"io"

	"github.com/rs/zerolog"

	tawa "github.com/tawa-lang/tawa"
)

// Bit widths and thresholds from spec §3 "Coder state".
const (
	CodeBits = 32
	Half     = uint64(1) << 31
	Quarter  = uint64(1) << 30
	mask32   = 1<<32 - 1

	// terminatorBits is the number of disambiguating bits finish/Encode
	// emits (and finish/Decode consumes) at the end of a segment.
	terminatorBits = 3

	// maxFollow bounds the follow-bit counter; exceeding it forces a
	// finish+restart self-resync segment boundary (spec §4.2).
	maxFollow = 256
)

func raise(op, format string, args ...any) {
	tawa.Raise(tawa.ContractViolation, op, format, args...)
}

// Coder holds the (L, R) range-coder state shared by encode and decode,
// plus whichever side of the bit stream is active. A zero Coder is not
// usable; construct one with NewEncoder or NewDecoder.
type Coder struct {
	l, r uint64
	v    uint64 // decode-only: current code window

	follow int

	bw *bitWriter
	br *bitReader

	decoding bool
	vPrimed  bool // V has been filled with its initial CodeBits of input

	pendingR uint64 // r computed by DecodeTarget, consumed by Decode

	log zerolog.Logger
}

// NewEncoder creates a Coder that writes to w and starts an encode
// session (spec §4.2 start_encode).
func NewEncoder(w io.Writer, log zerolog.Logger) *Coder {
	c := &Coder{bw: newBitWriter(w), log: log}
	c.StartEncode()
	return c
}

// NewDecoder creates a Coder that reads from r and starts a decode
// session (spec §4.2 start_decode). The first call primes V with
// CodeBits of input; subsequent internal restarts do not re-prime V, per
// spec §4.2: "only on the very first call; across internal coder
// restarts, V is retained".
func NewDecoder(r io.Reader, log zerolog.Logger) (*Coder, error) {
	c := &Coder{br: newBitReader(r), decoding: true, log: log}
	if err := c.StartDecode(); err != nil {
		return nil, err
	}
	return c, nil
}

// StartEncode resets (L, R) and the follow-bit counter.
func (c *Coder) StartEncode() {
	c.l = 0
	c.r = Half - 1
	c.follow = 0
}

// StartDecode resets (L, R) and the follow-bit counter, priming V with
// CodeBits of input bits the first time it is called.
func (c *Coder) StartDecode() error {
	if !c.vPrimed {
		c.v = 0
		for i := 0; i < CodeBits; i++ {
			bit, err := c.br.readBit()
			if err != nil {
				return tawa.NewFault(tawa.IOTruncation, "coder.StartDecode", err)
			}
			c.v = (c.v<<1 | b2u64(bit)) & mask32
		}
		c.vPrimed = true
	}
	c.l = 0
	c.r = Half - 1
	c.follow = 0
	c.pendingR = 0
	return nil
}

func b2u64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// bitPlusFollow emits b, then emits the opposite of b once for every
// pending follow bit (spec §4.2 BIT_PLUS_FOLLOW in the original source).
func (c *Coder) bitPlusFollow(b bool) error {
	if err := c.bw.writeBit(b); err != nil {
		return err
	}
	for ; c.follow > 0; c.follow-- {
		if err := c.bw.writeBit(!b); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coder) renormaliseEncode() error {
	for c.r < Quarter {
		switch {
		case c.l >= Half:
			if err := c.bitPlusFollow(true); err != nil {
				return err
			}
			c.l -= Half
		case c.l+c.r <= Half:
			if err := c.bitPlusFollow(false); err != nil {
				return err
			}
		default:
			c.follow++
			c.l -= Quarter
		}
		c.l = (c.l << 1) & mask32
		c.r = (c.r << 1) & mask32
	}
	return nil
}

func (c *Coder) renormaliseDecode() error {
	for c.r < Quarter {
		switch {
		case c.l >= Half:
			c.v -= Half
			c.l -= Half
			c.follow = 0
		case c.l+c.r <= Half:
			c.follow = 0
		default:
			c.v -= Quarter
			c.l -= Quarter
			c.follow++
		}
		c.l = (c.l << 1) & mask32
		c.r = (c.r << 1) & mask32
		bit, err := c.br.readBit()
		if err != nil {
			return tawa.NewFault(tawa.IOTruncation, "coder.renormaliseDecode", err)
		}
		c.v = (c.v<<1 | b2u64(bit)) & mask32
	}
	return nil
}

// Encode drives the coder with the (low, high, total) triple describing a
// symbol's cumulative-frequency range, per spec §4.2. When low==0 and
// high==total (probability 1) the range update is a no-op and nothing is
// emitted, naturally, with no special case needed.
func (c *Coder) Encode(low, high, total uint32) error {
	if !(low < high && uint64(high) <= uint64(total)) {
		raise("coder.Encode", "invalid range low=%d high=%d total=%d", low, high, total)
	}
	rr := divide(c.r, uint64(total))
	c.l = (c.l + rr*uint64(low)) & mask32
	if uint64(high) < uint64(total) {
		c.r = rr * uint64(high-low)
	} else {
		c.r -= rr * uint64(low)
	}
	if err := c.renormaliseEncode(); err != nil {
		return err
	}
	if c.follow > maxFollow {
		c.log.Debug().Msg("coder: follow-bit cap reached, resyncing segment")
		if err := c.finishSegment(); err != nil {
			return err
		}
		c.StartEncode()
	}
	return nil
}

// DecodeTarget returns floor((V-L)*total/R), capped at total-1, locating
// which symbol's cumulative-frequency range contains the coder's current
// window (spec §4.2). The caller must follow with Decode using the same
// total to commit the range update.
func (c *Coder) DecodeTarget(total uint32) uint32 {
	rr := divide(c.r, uint64(total))
	c.pendingR = rr
	target := divide(c.v-c.l, rr)
	if target >= uint64(total) {
		target = uint64(total) - 1
	}
	return uint32(target)
}

// Decode applies the same (L, R) update as Encode and renormalises V in
// lockstep, committing the range located by the prior DecodeTarget call.
func (c *Coder) Decode(low, high, total uint32) error {
	if !(low < high && uint64(high) <= uint64(total)) {
		raise("coder.Decode", "invalid range low=%d high=%d total=%d", low, high, total)
	}
	rr := c.pendingR
	c.l = (c.l + rr*uint64(low)) & mask32
	if uint64(high) < uint64(total) {
		c.r = rr * uint64(high-low)
	} else {
		c.r -= rr * uint64(low)
	}
	if err := c.renormaliseDecode(); err != nil {
		return err
	}
	if c.follow > maxFollow {
		c.log.Debug().Msg("coder: follow-bit cap reached, resyncing segment")
		if err := c.finishDecodeSegment(); err != nil {
			return err
		}
		return c.StartDecode()
	}
	return nil
}

// finishSegment emits the three terminator bits that make the last
// symbol's encoding unambiguous, without flushing the underlying byte
// buffer. Used both by FinishEncode (the true end of a session) and by
// the internal follow-bit-cap resync (spec §4.2).
func (c *Coder) finishSegment() error {
	bits := (c.l + c.r/2) >> (CodeBits - terminatorBits)
	for i := 1; i <= terminatorBits; i++ {
		bit := (bits>>(terminatorBits-i))&1 == 1
		if err := c.bitPlusFollow(bit); err != nil {
			return err
		}
	}
	return nil
}

// FinishEncode emits the terminator bits and flushes the final partial
// byte of the stream. Call once, at the true end of an encoder session.
func (c *Coder) FinishEncode() error {
	if err := c.finishSegment(); err != nil {
		return err
	}
	return c.bw.flush()
}

// finishDecodeSegment consumes the three terminator bits emitted by
// finishSegment. An EOF encountered here is tolerated (spec §7: "ignored
// if it occurs in the trailing bits") since the terminator exists only to
// disambiguate the final symbol, not to carry information the decoder
// still needs.
func (c *Coder) finishDecodeSegment() error {
	for i := 0; i < terminatorBits; i++ {
		bit, err := c.br.readBit()
		if err == io.EOF {
			bit = false
		} else if err != nil {
			return tawa.NewFault(tawa.IOTruncation, "coder.finishDecodeSegment", err)
		}
		c.v = (c.v<<1 | b2u64(bit)) & mask32
	}
	c.follow = 0
	return nil
}

// FinishDecode consumes the trailing terminator bits at the true end of a
// decode session.
func (c *Coder) FinishDecode() error {
	return c.finishDecodeSegment()
}
