package coder

// EncodeBinary drives the coder's binary specialisation (spec §4.2
// "Binary specialisation") given counts c0, c1 for the two symbols and
// the bit actually observed. LPS (least probable symbol) is whichever of
// c0, c1 is smaller; ties favor symbol 1 as LPS, matching the reference
// algorithm's "c0 < c1 ? 0 : 1" tie-break.
func (c *Coder) EncodeBinary(c0, c1 uint32, bit bool) error {
	if c0 == 0 && c1 == 0 {
		raise("coder.EncodeBinary", "zero total count")
	}
	lps, cLPS := lpsOf(c0, c1)
	rr := divide(c.r, uint64(c0+c1))
	rLPS := rr * uint64(cLPS)
	if bit == lps {
		c.l = (c.l + c.r - rLPS) & mask32
		c.r = rLPS
	} else {
		c.r -= rLPS
	}
	if err := c.renormaliseEncode(); err != nil {
		return err
	}
	if c.follow > maxFollow {
		if err := c.finishSegment(); err != nil {
			return err
		}
		c.StartEncode()
	}
	return nil
}

// DecodeBinary decodes a single bit given counts c0, c1 for the two
// symbols, testing V-L against R-rLPS per spec §4.2.
func (c *Coder) DecodeBinary(c0, c1 uint32) (bool, error) {
	if c0 == 0 && c1 == 0 {
		raise("coder.DecodeBinary", "zero total count")
	}
	lps, cLPS := lpsOf(c0, c1)
	rr := divide(c.r, uint64(c0+c1))
	rLPS := rr * uint64(cLPS)
	var bit bool
	if c.v-c.l >= c.r-rLPS {
		bit = lps
		c.l = (c.l + c.r - rLPS) & mask32
		c.r = rLPS
	} else {
		bit = !lps
		c.r -= rLPS
	}
	if err := c.renormaliseDecode(); err != nil {
		return false, err
	}
	if c.follow > maxFollow {
		if err := c.finishDecodeSegment(); err != nil {
			return false, err
		}
		if err := c.StartDecode(); err != nil {
			return false, err
		}
	}
	return bit, nil
}

// lpsOf returns which of the two symbols (false=0, true=1) is the least
// probable and its count.
func lpsOf(c0, c1 uint32) (lps bool, cLPS uint32) {
	if c0 < c1 {
		return false, c0
	}
	return true, c1
}
