package r503

import (
	"encoding/binary"
	"log"
)

// R503 is the typed device facade (spec §4.7). It is constructed once
// with a fixed address and borrows a Transport for the duration of each
// call — it owns no transport itself (spec §3 Lifecycles).
type R503 struct {
	// Address is the device address this driver accepts frames from
	// and addresses commands to. Factory default is 0xFFFFFFFF.
	Address uint32

	// Logger, when non-nil, traces every emitted command (opcode, body
	// length) and the confirmation code of every acknowledge it parses.
	// Streamed data frames are not traced. Nil by default, meaning
	// silent.
	Logger *log.Logger
}

// New constructs a facade for the device at address.
func New(address uint32) *R503 {
	return &R503{Address: address}
}

func (d *R503) logf(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// command is the generic request/reply transaction of spec §4.6: emit a
// command frame, receive exactly one acknowledge, return its validated
// body. respSize is the statically-known size of the response body
// (0 for instructions with no response body).
func (d *R503) command(t Transport, instr Instruction, body []byte, respSize int) (*ack, error) {
	d.logf("r503: -> instruction 0x%02X (%d body bytes)", uint8(instr), len(body))
	if err := emitCommand(t, d.Address, instr, body); err != nil {
		return nil, err
	}

	a, err := receiveAck(newReader(t), d.Address, respSize)
	if err != nil {
		return nil, err
	}
	d.logf("r503: <- confirmation %s", a.confirmation)
	if err := requireSuccess(a); err != nil {
		return nil, err
	}
	return a, nil
}

// GetImage captures a fingerprint image into the device's internal
// image buffer (opcode 0x01).
func (d *R503) GetImage(t Transport) error {
	_, err := d.command(t, InstructionGetImage, nil, 0)
	return err
}

// GenerateChar extracts features from the current image into buf
// (opcode 0x02).
func (d *R503) GenerateChar(t Transport, buf CharBufferId) error {
	_, err := d.command(t, InstructionGenChar, []byte{uint8(buf)}, 0)
	return err
}

// MatchTemplates compares the contents of character buffers 1 and 2,
// returning a match score (opcode 0x03).
func (d *R503) MatchTemplates(t Transport) (uint16, error) {
	a, err := d.command(t, InstructionMatch, nil, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(a.body), nil
}

// SearchResult is the response body of Search (spec §4.7).
type SearchResult struct {
	ModelID uint16
	Score   uint16
}

// Search looks up buf's feature against the library starting at start
// for num slots (opcode 0x04).
func (d *R503) Search(t Transport, buf CharBufferId, start, num uint16) (SearchResult, error) {
	body := make([]byte, 0, 5)
	body = append(body, uint8(buf))
	body = appendU16(body, start)
	body = appendU16(body, num)

	a, err := d.command(t, InstructionSearch, body, 4)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		ModelID: binary.BigEndian.Uint16(a.body[0:2]),
		Score:   binary.BigEndian.Uint16(a.body[2:4]),
	}, nil
}

// GenerateTemplate merges the features in buffers 1 and 2 into a single
// template, left in both buffers (opcode 0x05, "RegModel").
func (d *R503) GenerateTemplate(t Transport) error {
	_, err := d.command(t, InstructionRegModel, nil, 0)
	return err
}

// Store saves buf's template into the library at modelID (opcode 0x06).
func (d *R503) Store(t Transport, buf CharBufferId, modelID uint16) error {
	body := append([]byte{uint8(buf)}, appendU16(nil, modelID)...)
	_, err := d.command(t, InstructionStore, body, 0)
	return err
}

// LoadChar loads the template at modelID from the library into buf
// (opcode 0x07).
func (d *R503) LoadChar(t Transport, buf CharBufferId, modelID uint16) error {
	body := append([]byte{uint8(buf)}, appendU16(nil, modelID)...)
	_, err := d.command(t, InstructionLoadChar, body, 0)
	return err
}

// UploadTemplate streams buf's template to the host, writing it into
// dst and returning the number of bytes written (opcode 0x08, spec
// §4.5).
func (d *R503) UploadTemplate(t Transport, buf CharBufferId, dst []byte) (int, error) {
	_, err := d.command(t, InstructionUpChar, []byte{uint8(buf)}, 0)
	if err != nil {
		return 0, err
	}
	return readStream(newReader(t), d.Address, dst)
}

// UploadImage streams the current fingerprint image to the host,
// writing it into dst and returning the number of bytes written
// (opcode 0x0A, spec §4.5).
func (d *R503) UploadImage(t Transport, dst []byte) (int, error) {
	_, err := d.command(t, InstructionUpImage, nil, 0)
	if err != nil {
		return 0, err
	}
	return readStream(newReader(t), d.Address, dst)
}

// DeleteChar removes num consecutive templates from the library
// starting at startID (opcode 0x0C).
func (d *R503) DeleteChar(t Transport, startID, num uint16) error {
	body := append(appendU16(nil, startID), appendU16(nil, num)...)
	_, err := d.command(t, InstructionDeleteChar, body, 0)
	return err
}

// Empty clears the entire fingerprint library (opcode 0x0D).
func (d *R503) Empty(t Transport) error {
	_, err := d.command(t, InstructionEmpty, nil, 0)
	return err
}

// ReadSystemParameter reads the 16-byte system parameter block (opcode
// 0x0F).
func (d *R503) ReadSystemParameter(t Transport) ([16]byte, error) {
	var out [16]byte
	a, err := d.command(t, InstructionReadSysPara, nil, 16)
	if err != nil {
		return out, err
	}
	copy(out[:], a.body)
	return out, nil
}

// SetPassword sets the device's handshake password (opcode 0x12).
func (d *R503) SetPassword(t Transport, password uint32) error {
	_, err := d.command(t, InstructionSetPwd, appendU32(nil, password), 0)
	return err
}

// VfyPassword verifies the device's handshake password (opcode 0x13).
func (d *R503) VfyPassword(t Transport, password uint32) error {
	_, err := d.command(t, InstructionVfyPwd, appendU32(nil, password), 0)
	return err
}

// GetRandomCode returns a 32-bit random value generated by the device
// (opcode 0x14).
func (d *R503) GetRandomCode(t Transport) (uint32, error) {
	a, err := d.command(t, InstructionGetRandomCode, nil, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(a.body), nil
}

// SetAddress reprograms the device's address (opcode 0x15). The
// caller is responsible for constructing a new R503 with newAddress —
// this facade's own Address is fixed for its lifetime (spec §3
// Lifecycles).
func (d *R503) SetAddress(t Transport, newAddress uint32) error {
	_, err := d.command(t, InstructionSetAdder, appendU32(nil, newAddress), 0)
	return err
}

// ReadIndexTable reads the 32-byte occupancy bitmap for page (opcode
// 0x1F).
func (d *R503) ReadIndexTable(t Transport, page IndexPage) ([32]byte, error) {
	var out [32]byte
	a, err := d.command(t, InstructionReadIndexTable, []byte{uint8(page)}, 32)
	if err != nil {
		return out, err
	}
	copy(out[:], a.body)
	return out, nil
}

// AuraControlPayload configures the sensor ring's LED animation (spec
// §3).
type AuraControlPayload struct {
	Ctrl   AuraControl
	Speed  uint8
	Color  AuraColor
	Cycles InfiniteOrCount
}

func (p AuraControlPayload) encode() []byte {
	return []byte{uint8(p.Ctrl), p.Speed, uint8(p.Color), p.Cycles.encode()}
}

// AuraControl drives the sensor ring's LED (opcode 0x35).
func (d *R503) AuraControl(t Transport, payload AuraControlPayload) error {
	_, err := d.command(t, InstructionAuraLedConfig, payload.encode(), 0)
	return err
}

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
