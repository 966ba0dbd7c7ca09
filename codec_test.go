package r503

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPrimitivesFoldIntoChecksum(t *testing.T) {
	b := newBuilder()
	cks := &checksum{}
	b.putU8(0x1D, cks)
	b.putU16(0x0003, cks)
	b.putBytes([]byte{0xAA}, cks)

	assert.Equal(t, []byte{0x1D, 0x00, 0x03, 0xAA}, b.bytes())
	assert.Equal(t, uint16(0x1D+0x00+0x03+0xAA), cks.finalize())
}

func TestBuilderUnfoldedWritesExcludedFromChecksum(t *testing.T) {
	b := newBuilder()
	cks := &checksum{}
	b.putU16(magic, nil) // address/magic never fold into the body checksum
	b.putU8(0x01, cks)

	assert.Equal(t, []byte{0xEF, 0x01, 0x01}, b.bytes())
	assert.Equal(t, uint16(0x01), cks.finalize())
}

func TestBuilderPutU32BigEndian(t *testing.T) {
	b := newBuilder()
	b.putU32(0x12345678, nil)
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, b.bytes())
}

func TestReaderPrimitivesRoundTrip(t *testing.T) {
	src := newFakeTransport([]byte{0x42, 0x12, 0x34, 0x01, 0x02, 0x03, 0x04, 0xDE, 0xAD})
	r := newReader(src)

	u8, err := r.getU8(nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), u8)

	u16, err := r.getU16(nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.getU32(nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), u32)

	buf, err := r.getBytes(2, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, buf)
}

func TestReaderChecksumFolding(t *testing.T) {
	src := newFakeTransport([]byte{0x01, 0x00, 0x03})
	r := newReader(src)
	cks := &checksum{}

	_, err := r.getU8(cks)
	require.NoError(t, err)
	_, err = r.getU16(cks)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x01+0x00+0x03), cks.finalize())
}

func TestReaderZeroLengthReadDoesNotTouchTransport(t *testing.T) {
	// An empty-body response (e.g. GetImage's ack) must not attempt a
	// zero-byte ReadBytes against the underlying transport.
	src := newFakeTransport(nil)
	r := newReader(src)

	buf, err := r.getBytes(0, nil)
	require.NoError(t, err)
	assert.Nil(t, buf)
}

func TestReaderTranslatesUnexpectedEOF(t *testing.T) {
	src := newFakeTransport([]byte{0x01})
	r := newReader(src)

	_, err := r.getU16(nil) // needs 2 bytes, only 1 available
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEOF)
}
