package r503

// readStream consumes a sequence of DataPacket frames followed by
// exactly one EndOfDataPacket frame, writing payload bytes contiguously
// into dst starting at offset 0 and returning the total number of bytes
// written (spec §4.5). It is used after upload_template/upload_image's
// own command acknowledge has already been consumed normally.
func readStream(r *reader, address uint32, dst []byte) (int, error) {
	written := 0

	for {
		hdr, err := readFrameHeader(r)
		if err != nil {
			return written, err
		}

		var done bool
		switch hdr.identifier {
		case DataPacket:
			done = false
		case EndOfDataPacket:
			done = true
		default:
			return written, errIncorrectData("expected data or end-of-data packet")
		}

		if hdr.address != address {
			return written, errIncorrectData("unexpected device address")
		}
		if hdr.length < 2 {
			return written, errIncorrectData("frame length too small for streaming payload")
		}

		payloadSize := int(hdr.length) - 2
		if written+payloadSize > len(dst) {
			return written, errIncorrectData("caller buffer too small for streamed payload")
		}

		payload, err := r.getBytes(payloadSize, hdr.cks)
		if err != nil {
			return written, err
		}
		copy(dst[written:], payload)
		written += payloadSize

		if err := verifyTrailingChecksum(r, hdr.cks); err != nil {
			return written, err
		}

		if done {
			return written, nil
		}
	}
}
