package r503

// magic is the fixed 16-bit value every frame begins with (spec §3, §6).
const magic uint16 = 0xEF01

// emitCommand assembles and writes a complete command frame: magic,
// address, then CommandPacket/length/instruction/body under checksum,
// then the trailing checksum (spec §4.3). body is the already-encoded
// request payload, built by the caller per instruction (spec §4.2, §9:
// no dynamic dispatch on body types); the length field is derived from
// len(body).
func emitCommand(w Writer, address uint32, instr Instruction, body []byte) error {
	b := newBuilder()
	b.putU16(uint16(magic), nil)
	b.putU32(address, nil)

	cks := &checksum{}
	b.putU8(uint8(CommandPacket), cks)

	length := uint16(1 + len(body) + 2) // instruction + body + checksum
	b.putU16(length, cks)
	b.putU8(uint8(instr), cks)
	b.putBytes(body, cks)
	b.putU16(cks.finalize(), nil)

	if err := w.WriteAll(b.bytes()); err != nil {
		return errWire(err)
	}
	return nil
}

// frameHeader is the common prefix every received frame shares, parsed
// before the caller branches on expected identifier (ack vs. streaming).
type frameHeader struct {
	address    uint32
	identifier PackageIdentifier
	length     uint16
	cks        *checksum
}

// readFrameHeader reads magic, address, identifier, and length, folding
// identifier and length into a fresh checksum (spec §4.4 steps 1-5,
// §4.5's shared prefix).
func readFrameHeader(r *reader) (*frameHeader, error) {
	m, err := r.getU16(nil)
	if err != nil {
		return nil, err
	}
	if m != magic {
		return nil, errIncorrectData("bad magic")
	}

	address, err := r.getU32(nil)
	if err != nil {
		return nil, err
	}

	cks := &checksum{}
	identByte, err := r.getU8(cks)
	if err != nil {
		return nil, err
	}
	identifier, err := decodePackageIdentifier(identByte)
	if err != nil {
		return nil, err
	}

	length, err := r.getU16(cks)
	if err != nil {
		return nil, err
	}

	return &frameHeader{address: address, identifier: identifier, length: length, cks: cks}, nil
}

// verifyTrailingChecksum reads the trailing 16-bit checksum and compares
// it against the accumulator (spec §4.4 step 8).
func verifyTrailingChecksum(r *reader, cks *checksum) error {
	trailing, err := r.getU16(nil)
	if err != nil {
		return err
	}
	if trailing != cks.finalize() {
		return errBadChecksum()
	}
	return nil
}

// ack is a fully validated, fully decoded acknowledge: address and
// identifier already checked, confirmation code extracted and checksum
// verified. The caller still owns deciding whether a non-success
// confirmation is fatal (device.go does; the streaming path in
// stream.go never calls receiveAck at all).
type ack struct {
	confirmation ConfirmationCode
	body         []byte
}

// receiveAck reads one AcknowledgePacket frame and validates it in full
// per spec §4.4: magic, address, identifier == AcknowledgePacket,
// checksum, then returns the raw body bytes (bodySize long) plus the
// confirmation code for the caller to decode further. It does NOT
// itself reject a non-success confirmation: device.go and the Auto*
// drivers apply that check themselves via requireSuccess, each with its
// own policy for what a failure does to its state.
func receiveAck(r *reader, address uint32, bodySize int) (*ack, error) {
	hdr, err := readFrameHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.identifier != AcknowledgePacket {
		return nil, errIncorrectData("expected acknowledge packet")
	}
	if hdr.address != address {
		return nil, errIncorrectData("unexpected device address")
	}

	confByte, err := r.getU8(hdr.cks)
	if err != nil {
		return nil, err
	}

	body, err := r.getBytes(bodySize, hdr.cks)
	if err != nil {
		return nil, err
	}

	if err := verifyTrailingChecksum(r, hdr.cks); err != nil {
		return nil, err
	}

	return &ack{confirmation: decodeConfirmationCode(confByte), body: body}, nil
}

// requireSuccess turns a non-success confirmation into a BadConfirmation
// error; call sites that need the ack to have succeeded before trusting
// its body use this right after receiveAck.
func requireSuccess(a *ack) error {
	if a.confirmation != Success {
		return errBadConfirmation(a.confirmation)
	}
	return nil
}
