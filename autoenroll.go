package r503

import "log"

// AutoEnrollConfig configures the start of a six-capture enrollment
// (spec §3, §4.8).
type AutoEnrollConfig struct {
	Location       AutoEnrollLocation
	CoverID        bool
	AllowDupes     bool
	ReturnStatus   bool
	RequireRelease bool
}

// DefaultAutoEnrollConfig mirrors the device's own defaults: let the
// device choose a slot, no cover ID, no duplicates, report status at
// each critical step, and require the finger to be lifted between
// captures.
func DefaultAutoEnrollConfig() AutoEnrollConfig {
	return AutoEnrollConfig{
		Location:       AutoEnrollLocationAny,
		ReturnStatus:   true,
		RequireRelease: true,
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (c AutoEnrollConfig) encode() []byte {
	return []byte{
		uint8(c.Location),
		boolByte(c.CoverID),
		boolByte(c.AllowDupes),
		boolByte(c.ReturnStatus),
		boolByte(c.RequireRelease),
	}
}

// autoEnrollStatus is AutoEnroll's lifecycle state (spec §4.8): Idle
// until Start, then advancing one step at a time until Stored or
// Failed, both terminal.
type autoEnrollStatus int

const (
	autoEnrollIdle autoEnrollStatus = iota
	autoEnrollRunning
	autoEnrollStored
	autoEnrollFailed
)

// AutoEnroll drives the fifteen-acknowledge enrollment sequence. It
// borrows its Transport for the lifetime of one enroll sequence (spec
// §3 Lifecycles) — construct a new one per enrollment.
type AutoEnroll struct {
	address uint32
	t       Transport
	Logger  *log.Logger

	status   autoEnrollStatus
	nextStep int // index into autoEnrollSteps
	modelID  uint8
	err      error
}

// NewAutoEnroll constructs a driver for one enrollment sequence against
// the device at address, reachable over t.
func NewAutoEnroll(address uint32, t Transport) *AutoEnroll {
	return &AutoEnroll{address: address, t: t, status: autoEnrollIdle}
}

func (e *AutoEnroll) logf(format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// Start emits the AutoEnroll command (opcode 0x31, spec §4.10) and
// resets the driver to expect the first of fifteen ordered
// acknowledges. Calling Start again after a Failed terminal state
// begins a fresh sequence.
func (e *AutoEnroll) Start(cfg AutoEnrollConfig) error {
	if err := emitCommand(e.t, e.address, InstructionAutoEnroll, cfg.encode()); err != nil {
		e.status = autoEnrollFailed
		e.err = err
		return err
	}
	e.status = autoEnrollRunning
	e.nextStep = 0
	e.modelID = 0
	e.err = nil
	return nil
}

// decodeAutoEnrollAckBody decodes the 3-byte body of every AutoEnroll
// progress acknowledge: [step_code, reserved, model_id]. The reserved byte is
// read and discarded — never checksum-excluded, never assumed zero
// (spec §9).
func decodeAutoEnrollAckBody(body []byte) (AutoEnrollStep, uint8, error) {
	step, err := decodeAutoEnrollStep(body[0])
	if err != nil {
		return 0, 0, err
	}
	// body[1] is the undocumented reserved byte; intentionally ignored.
	return step, body[2], nil
}

// waitStep consumes exactly one acknowledge and requires it to carry
// the expected step code (spec §4.8, §8 Test 5). Any error — including
// a step mismatch — is terminal: the driver moves to Failed and must
// not be reused without a new Start.
func (e *AutoEnroll) waitStep(expected AutoEnrollStep) (uint8, error) {
	if e.status != autoEnrollRunning {
		return 0, errIncorrectData("auto-enroll driver is not running; call Start")
	}

	a, err := receiveAck(newReader(e.t), e.address, 3)
	if err == nil {
		err = requireSuccess(a)
	}
	var step AutoEnrollStep
	var modelID uint8
	if err == nil {
		step, modelID, err = decodeAutoEnrollAckBody(a.body)
	}
	if err == nil && step != expected {
		err = errIncorrectData("auto-enroll step mismatch")
	}
	if err != nil {
		e.status = autoEnrollFailed
		e.err = err
		return 0, err
	}

	e.logf("r503: auto-enroll step %v complete (model id candidate %d)", step, modelID)
	e.nextStep++
	e.modelID = modelID
	if expected == StorageTemplate {
		e.status = autoEnrollStored
	}
	return modelID, nil
}

// WaitCollectImage1 consumes the first capture's acknowledge (0x01).
func (e *AutoEnroll) WaitCollectImage1() error { _, err := e.waitStep(CollectImage1); return err }

// WaitGenerateFeature1 consumes the first feature-extraction
// acknowledge (0x02).
func (e *AutoEnroll) WaitGenerateFeature1() error { _, err := e.waitStep(GenerateFeature1); return err }

// WaitCollectImage2 consumes the second capture's acknowledge (0x03).
func (e *AutoEnroll) WaitCollectImage2() error { _, err := e.waitStep(CollectImage2); return err }

// WaitGenerateFeature2 consumes the second feature-extraction
// acknowledge (0x04).
func (e *AutoEnroll) WaitGenerateFeature2() error { _, err := e.waitStep(GenerateFeature2); return err }

// WaitCollectImage3 consumes the third capture's acknowledge (0x05).
func (e *AutoEnroll) WaitCollectImage3() error { _, err := e.waitStep(CollectImage3); return err }

// WaitGenerateFeature3 consumes the third feature-extraction
// acknowledge (0x06).
func (e *AutoEnroll) WaitGenerateFeature3() error { _, err := e.waitStep(GenerateFeature3); return err }

// WaitCollectImage4 consumes the fourth capture's acknowledge (0x07).
func (e *AutoEnroll) WaitCollectImage4() error { _, err := e.waitStep(CollectImage4); return err }

// WaitGenerateFeature4 consumes the fourth feature-extraction
// acknowledge (0x08).
func (e *AutoEnroll) WaitGenerateFeature4() error { _, err := e.waitStep(GenerateFeature4); return err }

// WaitCollectImage5 consumes the fifth capture's acknowledge (0x09).
func (e *AutoEnroll) WaitCollectImage5() error { _, err := e.waitStep(CollectImage5); return err }

// WaitGenerateFeature5 consumes the fifth feature-extraction
// acknowledge (0x0A).
func (e *AutoEnroll) WaitGenerateFeature5() error { _, err := e.waitStep(GenerateFeature5); return err }

// WaitCollectImage6 consumes the sixth capture's acknowledge (0x0B).
func (e *AutoEnroll) WaitCollectImage6() error { _, err := e.waitStep(CollectImage6); return err }

// WaitGenerateFeature6 consumes the sixth feature-extraction
// acknowledge (0x0C).
func (e *AutoEnroll) WaitGenerateFeature6() error { _, err := e.waitStep(GenerateFeature6); return err }

// WaitRepeatFingerprint consumes the repeat-fingerprint check
// acknowledge (0x0D).
func (e *AutoEnroll) WaitRepeatFingerprint() error { _, err := e.waitStep(Repeatfingerprint); return err }

// WaitMergeFeature consumes the feature-merge acknowledge (0x0E).
func (e *AutoEnroll) WaitMergeFeature() error { _, err := e.waitStep(MergeFeature); return err }

// WaitStorageTemplate consumes the final storage acknowledge (0x0F) and
// returns the assigned model id. This is the only step whose model id
// the caller should trust — every earlier step discards it.
func (e *AutoEnroll) WaitStorageTemplate() (uint8, error) {
	return e.waitStep(StorageTemplate)
}

// Oneshot chains all fifteen waits in order and returns the assigned
// model id, for callers that don't need per-step progress
// notifications.
func (e *AutoEnroll) Oneshot() (uint8, error) {
	waits := []func() error{
		e.WaitCollectImage1, e.WaitGenerateFeature1,
		e.WaitCollectImage2, e.WaitGenerateFeature2,
		e.WaitCollectImage3, e.WaitGenerateFeature3,
		e.WaitCollectImage4, e.WaitGenerateFeature4,
		e.WaitCollectImage5, e.WaitGenerateFeature5,
		e.WaitCollectImage6, e.WaitGenerateFeature6,
		e.WaitRepeatFingerprint, e.WaitMergeFeature,
	}
	for _, wait := range waits {
		if err := wait(); err != nil {
			return 0, err
		}
	}
	return e.WaitStorageTemplate()
}
