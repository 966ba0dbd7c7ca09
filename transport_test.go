package r503

import (
	"bytes"
	"io"
)

// fakeTransport is an in-memory Reader/Writer pair standing in for a
// real serial transport, grounded on the teacher's pattern of swapping
// the real device.USBDevice for a fake backend in tests.
type fakeTransport struct {
	out bytes.Buffer
	in  *bytes.Reader
}

func newFakeTransport(incoming []byte) *fakeTransport {
	return &fakeTransport{in: bytes.NewReader(incoming)}
}

func (f *fakeTransport) WriteAll(p []byte) error {
	_, err := f.out.Write(p)
	return err
}

func (f *fakeTransport) ReadBytes(buf []byte) error {
	_, err := io.ReadFull(f.in, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return ErrUnexpectedEOF
	}
	return err
}
