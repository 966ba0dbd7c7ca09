package r503

import "log"

// AutoIdentifyConfig configures the start of a capture/feature/search
// identification (spec §3, §4.9).
type AutoIdentifyConfig struct {
	// Grade is the match strictness, 1 (loosest) to 5 (strictest).
	Grade IdentifySafety
	// StartPos and StepsOrEnd bound the library search range.
	StartPos   uint8
	StepsOrEnd uint8
	// ReturnStatus asks the device to report status at each step.
	ReturnStatus bool
	// ErrCount is Infinite (retry forever on soft failures) or
	// TimesWithTimeout(n) (attempt at most n+1 cycles).
	ErrCount InfiniteOrCount
}

// DefaultAutoIdentifyConfig matches the reference device manual's
// example configuration: grade 3, search the whole library, report
// status, allow up to 256 attempts (255 retries).
func DefaultAutoIdentifyConfig() AutoIdentifyConfig {
	count, _ := Times(0xFF)
	return AutoIdentifyConfig{
		Grade:        SafetyThree,
		StartPos:     0,
		StepsOrEnd:   0xC7,
		ReturnStatus: true,
		ErrCount:     count,
	}
}

func (c AutoIdentifyConfig) encode() []byte {
	return []byte{
		uint8(c.Grade),
		c.StartPos,
		c.StepsOrEnd,
		boolByte(c.ReturnStatus),
		c.ErrCount.encode(),
	}
}

// AutoIdentifyResult is wait_search's response: the assigned model id
// and match score when the step succeeds (spec §4.9).
type AutoIdentifyResult struct {
	ModelID uint8
	Score   uint16
}

// autoIdentifyStatus is AutoIdentify's lifecycle state.
type autoIdentifyStatus int

const (
	autoIdentifyIdle autoIdentifyStatus = iota
	autoIdentifyRunning
	autoIdentifySuccess
	autoIdentifyExhausted
	autoIdentifyFailed
)

// AutoIdentify drives the capture/feature/search identification loop.
// It borrows its Transport for the lifetime of one identify sequence
// (spec §3 Lifecycles) — construct a new one per identification.
type AutoIdentify struct {
	address uint32
	t       Transport
	Logger  *log.Logger

	status    autoIdentifyStatus
	remaining *int // nil means Infinite, never exhausts
	err       error
}

// NewAutoIdentify constructs a driver for one identify sequence against
// the device at address, reachable over t.
func NewAutoIdentify(address uint32, t Transport) *AutoIdentify {
	return &AutoIdentify{address: address, t: t, status: autoIdentifyIdle}
}

func (d *AutoIdentify) logf(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// Status reports the driver's current lifecycle state.
func (d *AutoIdentify) Status() string {
	switch d.status {
	case autoIdentifyIdle:
		return "idle"
	case autoIdentifyRunning:
		return "running"
	case autoIdentifySuccess:
		return "success"
	case autoIdentifyExhausted:
		return "exhausted"
	case autoIdentifyFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Start emits the AutoIdentify command (opcode 0x32, spec §4.10) and
// resets the driver's attempt budget per cfg.ErrCount.
func (d *AutoIdentify) Start(cfg AutoIdentifyConfig) error {
	if err := emitCommand(d.t, d.address, InstructionAutoIdentify, cfg.encode()); err != nil {
		d.status = autoIdentifyFailed
		d.err = err
		return err
	}
	d.status = autoIdentifyRunning
	d.err = nil
	if cfg.ErrCount.Infinite {
		d.remaining = nil
	} else {
		n := int(cfg.ErrCount.Count)
		d.remaining = &n
	}
	return nil
}

// decodeAutoIdentifyAckBody decodes the 5-byte body of every
// AutoIdentify acknowledge: [step_code, reserved, model_id, score_hi, score_lo]. The
// reserved byte is read and discarded (spec §9).
func decodeAutoIdentifyAckBody(body []byte) (AutoIdentifyStep, uint8, uint16, error) {
	step, err := decodeAutoIdentifyStep(body[0])
	if err != nil {
		return 0, 0, 0, err
	}
	modelID := body[2]
	score := uint16(body[3])<<8 | uint16(body[4])
	return step, modelID, score, nil
}

// waitStep consumes one acknowledge and requires it to carry the
// expected step code. For capture/feature steps a non-success
// confirmation is not immediately terminal: it consumes one attempt
// from the budget (unless Infinite) and is returned to the caller, who
// retries by starting the next cycle at WaitCollectImage — the device
// keeps emitting acknowledges for the next attempt (spec §4.9, §9). A step
// code outside the defined set, or a mismatch against expected, is
// always terminal IncorrectData.
func (d *AutoIdentify) waitStep(expected AutoIdentifyStep, retryable bool) (AutoIdentifyResult, error) {
	if d.status != autoIdentifyRunning {
		return AutoIdentifyResult{}, errIncorrectData("auto-identify driver is not running; call Start")
	}

	a, err := receiveAck(newReader(d.t), d.address, 5)
	if err != nil {
		d.status = autoIdentifyFailed
		d.err = err
		return AutoIdentifyResult{}, err
	}

	if confErr := requireSuccess(a); confErr != nil {
		if retryable {
			if d.consumeAttempt() {
				d.status = autoIdentifyExhausted
				d.err = confErr
				return AutoIdentifyResult{}, confErr
			}
			// Budget not yet exhausted: stay Running so the caller can
			// retry this step against the device's next attempt.
			return AutoIdentifyResult{}, confErr
		}
		d.status = autoIdentifyFailed
		d.err = confErr
		return AutoIdentifyResult{}, confErr
	}

	step, modelID, score, err := decodeAutoIdentifyAckBody(a.body)
	if err == nil && step != expected {
		err = errIncorrectData("auto-identify step mismatch")
	}
	if err != nil {
		d.status = autoIdentifyFailed
		d.err = err
		return AutoIdentifyResult{}, err
	}

	d.logf("r503: auto-identify step %v complete", expected)
	if expected == AutoIdentifySearch {
		d.status = autoIdentifySuccess
	}
	return AutoIdentifyResult{ModelID: modelID, Score: score}, nil
}

// consumeAttempt decrements the remaining budget (no-op when Infinite)
// and reports whether the budget is now exhausted.
func (d *AutoIdentify) consumeAttempt() bool {
	if d.remaining == nil {
		return false
	}
	if *d.remaining <= 0 {
		return true
	}
	*d.remaining--
	return false
}

// WaitCollectImage consumes one capture acknowledge. On a soft failure
// (e.g. NoFinger) it returns BadConfirmation and leaves the driver
// Running so the caller can call WaitCollectImage again for the
// device's next attempt, unless the attempt budget is now exhausted.
func (d *AutoIdentify) WaitCollectImage() error {
	_, err := d.waitStep(AutoIdentifyCollectImage, true)
	return err
}

// WaitGenerateFeature consumes one feature-extraction acknowledge. A
// soft failure consumes one attempt like WaitCollectImage's; the
// device's next attempt starts again at WaitCollectImage.
func (d *AutoIdentify) WaitGenerateFeature() error {
	_, err := d.waitStep(AutoIdentifyGenerateFeature, true)
	return err
}

// WaitSearch consumes the search acknowledge. Unlike capture/feature,
// a failure here is always terminal (spec §4.9).
func (d *AutoIdentify) WaitSearch() (AutoIdentifyResult, error) {
	return d.waitStep(AutoIdentifySearch, false)
}

// Run drives the full collect→feature→search loop to completion,
// retrying capture/feature soft failures within the configured attempt
// budget, and returns the search result once it succeeds. It returns
// the first terminal error (budget exhaustion or a hard failure)
// otherwise.
func (d *AutoIdentify) Run() (AutoIdentifyResult, error) {
	for {
		if err := d.WaitCollectImage(); err != nil {
			if d.status != autoIdentifyRunning {
				return AutoIdentifyResult{}, err
			}
			continue
		}
		if err := d.WaitGenerateFeature(); err != nil {
			if d.status != autoIdentifyRunning {
				return AutoIdentifyResult{}, err
			}
			continue
		}
		return d.WaitSearch()
	}
}
