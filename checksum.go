package r503

// checksum accumulates a 16-bit wrapping sum of bytes in wire order, per
// spec §4.1. It is instantiated per frame emit and per frame parse and
// discarded once the frame is complete — it carries no field-ordering
// knowledge of its own, callers feed it bytes in the exact order they
// appear on the wire.
type checksum struct {
	sum uint16
}

// update folds each byte of b into the running sum, widened to 16 bits,
// with wrapping addition.
func (c *checksum) update(b []byte) {
	for _, v := range b {
		c.sum += uint16(v)
	}
}

// finalize returns the accumulated checksum.
func (c *checksum) finalize() uint16 {
	return c.sum
}
