package r503

import "encoding/binary"

// builder accumulates the bytes of an outgoing frame. Every write that
// should count toward the frame checksum is also folded into cks when
// cks is non-nil — callers toggle this by passing or omitting a
// checksum, matching spec §4.2's "optional mutable reference".
type builder struct {
	buf []byte
}

func newBuilder() *builder {
	return &builder{buf: make([]byte, 0, 32)}
}

func (b *builder) bytes() []byte {
	return b.buf
}

func (b *builder) writeRaw(p []byte) {
	b.buf = append(b.buf, p...)
}

func (b *builder) writeChecked(p []byte, cks *checksum) {
	b.buf = append(b.buf, p...)
	if cks != nil {
		cks.update(p)
	}
}

func (b *builder) putU8(v uint8, cks *checksum) {
	b.writeChecked([]byte{v}, cks)
}

func (b *builder) putU16(v uint16, cks *checksum) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.writeChecked(tmp[:], cks)
}

func (b *builder) putU32(v uint32, cks *checksum) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.writeChecked(tmp[:], cks)
}

func (b *builder) putBytes(v []byte, cks *checksum) {
	b.writeChecked(v, cks)
}

// reader consumes bytes from an underlying Reader, optionally folding
// every byte read into a checksum, mirroring builder on the decode
// side.
type reader struct {
	src Reader
}

func newReader(src Reader) *reader {
	return &reader{src: src}
}

func (r *reader) readRaw(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if err := r.src.ReadBytes(buf); err != nil {
		return nil, translateReadErr(err)
	}
	return buf, nil
}

func (r *reader) readChecked(n int, cks *checksum) ([]byte, error) {
	buf, err := r.readRaw(n)
	if err != nil {
		return nil, err
	}
	if cks != nil {
		cks.update(buf)
	}
	return buf, nil
}

func (r *reader) getU8(cks *checksum) (uint8, error) {
	b, err := r.readChecked(1, cks)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) getU16(cks *checksum) (uint16, error) {
	b, err := r.readChecked(2, cks)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) getU32(cks *checksum) (uint32, error) {
	b, err := r.readChecked(4, cks)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) getBytes(n int, cks *checksum) ([]byte, error) {
	return r.readChecked(n, cks)
}

// translateReadErr maps a transport-reported error to the taxonomy in
// spec §7: ErrUnexpectedEOF becomes KindEOF, anything else (io.EOF
// included) is wrapped verbatim as KindWire.
func translateReadErr(err error) error {
	if err == nil {
		return nil
	}
	if err == ErrUnexpectedEOF {
		return errEOF()
	}
	return errWire(err)
}
