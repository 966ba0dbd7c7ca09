package r503

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAckFrame assembles one AcknowledgePacket frame by hand, mirroring
// the accumulator emitCommand uses for commands.
func buildAckFrame(address uint32, confirmation ConfirmationCode, body []byte) []byte {
	b := newBuilder()
	b.putU16(magic, nil)
	b.putU32(address, nil)

	cks := &checksum{}
	b.putU8(uint8(AcknowledgePacket), cks)
	b.putU16(uint16(1+len(body)+2), cks)
	b.putU8(uint8(confirmation), cks)
	b.putBytes(body, cks)
	b.putU16(cks.finalize(), nil)
	return b.bytes()
}

func TestDeviceGetImageSuccess(t *testing.T) {
	d := New(0xFFFFFFFF)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, nil))

	require.NoError(t, d.GetImage(tr))
	assert.Equal(t, []byte{0xEF, 0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0x01, 0x00, 0x03, 0x01, 0x00, 0x05}, tr.out.Bytes())
}

func TestDeviceGetImagePropagatesBadConfirmation(t *testing.T) {
	d := New(0xFFFFFFFF)
	tr := newFakeTransport(buildAckFrame(d.Address, NoFinger, nil))

	err := d.GetImage(tr)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindBadConfirmation, perr.Kind)
	assert.Equal(t, NoFinger, perr.Confirmation)
}

func TestDeviceGenerateChar(t *testing.T) {
	d := New(0x00000001)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, nil))
	require.NoError(t, d.GenerateChar(tr, CharBuffer2))

	want := []byte{0xEF, 0x01, 0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x04, 0x02, 0x02, 0x00, 0x09}
	assert.Equal(t, want, tr.out.Bytes())
}

func TestDeviceMatchTemplates(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, []byte{0x01, 0x23}))

	score, err := d.MatchTemplates(tr)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0123), score)
}

func TestDeviceSearch(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, []byte{0x00, 0x07, 0x01, 0x00}))

	res, err := d.Search(tr, CharBuffer1, 0, 200)
	require.NoError(t, err)
	assert.Equal(t, SearchResult{ModelID: 7, Score: 256}, res)
}

func TestDeviceStoreAndLoadChar(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(append(buildAckFrame(d.Address, Success, nil), buildAckFrame(d.Address, Success, nil)...))

	require.NoError(t, d.Store(tr, CharBuffer1, 12))
	require.NoError(t, d.LoadChar(tr, CharBuffer1, 12))
}

func TestDeviceUploadTemplateStreams(t *testing.T) {
	d := New(1)
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	wire := append(buildAckFrame(d.Address, Success, nil), buildStreamFrame(d.Address, EndOfDataPacket, payload)...)
	tr := newFakeTransport(wire)

	dst := make([]byte, 4)
	n, err := d.UploadTemplate(tr, CharBuffer1, dst)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, payload, dst)
}

func TestDeviceUploadImageStreams(t *testing.T) {
	d := New(1)
	payload := []byte{0xAA, 0xBB}
	wire := append(buildAckFrame(d.Address, Success, nil), buildStreamFrame(d.Address, EndOfDataPacket, payload)...)
	tr := newFakeTransport(wire)

	dst := make([]byte, 2)
	n, err := d.UploadImage(tr, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, payload, dst)
}

func TestDeviceDeleteCharAndEmpty(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(append(buildAckFrame(d.Address, Success, nil), buildAckFrame(d.Address, Success, nil)...))

	require.NoError(t, d.DeleteChar(tr, 0, 10))
	require.NoError(t, d.Empty(tr))
}

func TestDeviceReadSystemParameter(t *testing.T) {
	d := New(1)
	body := make([]byte, 16)
	for i := range body {
		body[i] = byte(i)
	}
	tr := newFakeTransport(buildAckFrame(d.Address, Success, body))

	out, err := d.ReadSystemParameter(tr)
	require.NoError(t, err)
	var want [16]byte
	copy(want[:], body)
	assert.Equal(t, want, out)
}

func TestDeviceSetAndVfyPassword(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(append(buildAckFrame(d.Address, Success, nil), buildAckFrame(d.Address, Success, nil)...))

	require.NoError(t, d.SetPassword(tr, 0xDEADBEEF))
	require.NoError(t, d.VfyPassword(tr, 0xDEADBEEF))
}

func TestDeviceGetRandomCode(t *testing.T) {
	d := New(0xFFFFFFFF)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, []byte{0x12, 0x34, 0x56, 0x78}))

	v, err := d.GetRandomCode(tr)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)
}

func TestDeviceSetAddress(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, nil))
	require.NoError(t, d.SetAddress(tr, 0x2))
}

func TestDeviceReadIndexTable(t *testing.T) {
	d := New(1)
	body := make([]byte, 32)
	body[0] = 0xFF
	tr := newFakeTransport(buildAckFrame(d.Address, Success, body))

	out, err := d.ReadIndexTable(tr, IndexPage0)
	require.NoError(t, err)
	var want [32]byte
	copy(want[:], body)
	assert.Equal(t, want, out)
}

func TestDeviceAuraControl(t *testing.T) {
	d := New(1)
	tr := newFakeTransport(buildAckFrame(d.Address, Success, nil))

	payload := AuraControlPayload{Ctrl: AuraBreathing, Speed: 50, Color: AuraBlue, Cycles: Forever()}
	require.NoError(t, d.AuraControl(tr, payload))

	// instruction body: ctrl, speed, color, cycles(0 => infinite)
	out := tr.out.Bytes()
	body := out[len(out)-2-4 : len(out)-2]
	assert.Equal(t, []byte{0x01, 50, 0x02, 0x00}, body)
}
