package r503

import "fmt"

// PackageIdentifier tags the kind of frame on the wire (spec §3, §6).
type PackageIdentifier uint8

const (
	CommandPacket     PackageIdentifier = 0x01
	DataPacket        PackageIdentifier = 0x02
	AcknowledgePacket PackageIdentifier = 0x07
	EndOfDataPacket   PackageIdentifier = 0x08
)

func (p PackageIdentifier) String() string {
	switch p {
	case CommandPacket:
		return "command"
	case DataPacket:
		return "data"
	case AcknowledgePacket:
		return "acknowledge"
	case EndOfDataPacket:
		return "end-of-data"
	default:
		return fmt.Sprintf("identifier(0x%02X)", uint8(p))
	}
}

func decodePackageIdentifier(v uint8) (PackageIdentifier, error) {
	switch PackageIdentifier(v) {
	case CommandPacket, DataPacket, AcknowledgePacket, EndOfDataPacket:
		return PackageIdentifier(v), nil
	default:
		return 0, errIncorrectData(fmt.Sprintf("unknown package identifier 0x%02X", v))
	}
}

// Instruction is the 8-bit opcode of a command frame (spec §6).
type Instruction uint8

const (
	InstructionGetImage         Instruction = 0x01
	InstructionGenChar          Instruction = 0x02
	InstructionMatch            Instruction = 0x03
	InstructionSearch           Instruction = 0x04
	InstructionRegModel         Instruction = 0x05
	InstructionStore            Instruction = 0x06
	InstructionLoadChar         Instruction = 0x07
	InstructionUpChar           Instruction = 0x08
	InstructionUpImage          Instruction = 0x0A
	InstructionDeleteChar       Instruction = 0x0C
	InstructionEmpty            Instruction = 0x0D
	InstructionReadSysPara      Instruction = 0x0F
	InstructionSetPwd           Instruction = 0x12
	InstructionVfyPwd           Instruction = 0x13
	InstructionGetRandomCode    Instruction = 0x14
	InstructionSetAdder         Instruction = 0x15
	InstructionReadIndexTable   Instruction = 0x1F
	InstructionAutoEnroll       Instruction = 0x31
	InstructionAutoIdentify     Instruction = 0x32
	InstructionAuraLedConfig    Instruction = 0x35

	// InstructionTempleteNum (0x1D) reads the number of valid templates
	// currently stored. It has no entry in the device facade's table
	// (spec §4.7) but its exact checksum is pinned by spec §8 Test 1, so
	// the opcode is modeled even though R503 exposes no typed method
	// for it.
	InstructionTempleteNum Instruction = 0x1D
)

func (i Instruction) String() string {
	return fmt.Sprintf("instruction(0x%02X)", uint8(i))
}

// ConfirmationCode is the first body byte of every acknowledge (spec §6).
// All 36 documented codes are modeled, not just the subset the device
// facade's table happens to name — any instruction's ACK can surface
// any code.
type ConfirmationCode uint8

const (
	Success                        ConfirmationCode = 0x00
	PacketRecvError                ConfirmationCode = 0x01
	NoFinger                       ConfirmationCode = 0x02
	EnrollFail                     ConfirmationCode = 0x03
	DisorderlyImage                ConfirmationCode = 0x06
	PoorImage                      ConfirmationCode = 0x07
	NoMatch                        ConfirmationCode = 0x08
	NotFound                       ConfirmationCode = 0x09
	MergeFail                      ConfirmationCode = 0x0A
	AddressOutOfRange              ConfirmationCode = 0x0B
	TemplateReadErr                ConfirmationCode = 0x0C
	TemplateUploadErr              ConfirmationCode = 0x0D
	CannotReceiveData              ConfirmationCode = 0x0E
	ImageUploadErr                 ConfirmationCode = 0x0F
	DeleteFail                     ConfirmationCode = 0x10
	EmptyFail                      ConfirmationCode = 0x11
	WrongPassword                  ConfirmationCode = 0x13
	NoValidImage                   ConfirmationCode = 0x15
	FlashWriteErr                  ConfirmationCode = 0x18
	NoDefinition                   ConfirmationCode = 0x19
	BadRegisterNumber              ConfirmationCode = 0x1A
	BadRegisterConfig              ConfirmationCode = 0x1B
	BadNotepadPage                 ConfirmationCode = 0x1C
	CommPortFail                   ConfirmationCode = 0x1D
	LibraryFull                    ConfirmationCode = 0x1F
	AddressIncorrect               ConfirmationCode = 0x20
	MustVerifyPassword             ConfirmationCode = 0x21
	TemplateEmpty                  ConfirmationCode = 0x22
	LibraryEmpty                   ConfirmationCode = 0x24
	Timeout                        ConfirmationCode = 0x26
	AlreadyExists                  ConfirmationCode = 0x27
	SensorHwErr                    ConfirmationCode = 0x29
	UnsupportedCommand             ConfirmationCode = 0xFC
	HardwareErr                    ConfirmationCode = 0xFD
	ExecutionFailure               ConfirmationCode = 0xFE
	// SystemReserved renders any confirmation byte the device sent that
	// isn't one of the above. It MUST NOT be used when decoding a byte
	// that maps to a known code — decodeConfirmationCode never
	// produces it for bytes other than 0xFF, and the general
	// "reserved -> default" fallback spec §9 warns against does not
	// apply here: every other unrecognized value stays what it is
	// (ConfirmationCode is not validated against a closed set like the
	// other enums, since the device manual documents it as open-ended).
	SystemReserved ConfirmationCode = 0xFF
)

var confirmationNames = map[ConfirmationCode]string{
	Success:             "success",
	PacketRecvError:     "packet receive error",
	NoFinger:            "no finger on sensor",
	EnrollFail:          "fail to enroll finger",
	DisorderlyImage:     "disorderly fingerprint image",
	PoorImage:           "fingerprint image too small or lacks detail",
	NoMatch:             "fingerprint does not match",
	NotFound:            "no matching finger found",
	MergeFail:           "fail to combine character files",
	AddressOutOfRange:   "addressing page id beyond finger library",
	TemplateReadErr:     "error reading template from library",
	TemplateUploadErr:   "error uploading template",
	CannotReceiveData:   "module cannot receive following data packets",
	ImageUploadErr:      "error uploading image",
	DeleteFail:          "fail to delete template",
	EmptyFail:           "fail to clear finger library",
	WrongPassword:       "wrong password",
	NoValidImage:        "no valid primary image to generate",
	FlashWriteErr:       "error writing flash",
	NoDefinition:        "no definition error",
	BadRegisterNumber:   "invalid register number",
	BadRegisterConfig:   "incorrect register configuration",
	BadNotepadPage:      "wrong notepad page number",
	CommPortFail:        "fail to operate communication port",
	LibraryFull:         "fingerprint library full",
	AddressIncorrect:    "address code incorrect",
	MustVerifyPassword:  "password must be verified",
	TemplateEmpty:       "fingerprint template empty",
	LibraryEmpty:        "fingerprint library empty",
	Timeout:             "timeout",
	AlreadyExists:       "fingerprint already exists",
	SensorHwErr:         "sensor hardware error",
	UnsupportedCommand:  "unsupported command",
	HardwareErr:         "hardware error",
	ExecutionFailure:    "command execution failure",
	SystemReserved:      "reserved",
}

func (c ConfirmationCode) String() string {
	if s, ok := confirmationNames[c]; ok {
		return s
	}
	return fmt.Sprintf("confirmation(0x%02X)", uint8(c))
}

// decodeConfirmationCode never maps an unrecognized byte onto
// SystemReserved silently — it returns the raw code so BadConfirmation
// can still report the device's exact byte; SystemReserved is reserved
// for rendering the device's own 0xFF value, never for coercing unknown
// input (spec §9).
func decodeConfirmationCode(v uint8) ConfirmationCode {
	return ConfirmationCode(v)
}

// CharBufferId selects one of the device's six feature buffers (spec §3).
type CharBufferId uint8

const (
	CharBuffer1 CharBufferId = 1
	CharBuffer2 CharBufferId = 2
	CharBuffer3 CharBufferId = 3
	CharBuffer4 CharBufferId = 4
	CharBuffer5 CharBufferId = 5
	CharBuffer6 CharBufferId = 6
)

func decodeCharBufferId(v uint8) (CharBufferId, error) {
	if v < 1 || v > 6 {
		return 0, errIncorrectData(fmt.Sprintf("char buffer id out of range: %d", v))
	}
	return CharBufferId(v), nil
}

// IndexPage selects one of the four 32-byte occupancy bitmaps (spec §3).
type IndexPage uint8

const (
	IndexPage0 IndexPage = 0
	IndexPage1 IndexPage = 1
	IndexPage2 IndexPage = 2
	IndexPage3 IndexPage = 3
)

func decodeIndexPage(v uint8) (IndexPage, error) {
	if v > 3 {
		return 0, errIncorrectData(fmt.Sprintf("index page out of range: %d", v))
	}
	return IndexPage(v), nil
}

// AutoEnrollLocation is either a specific slot in 0x00..0xC8 or the
// AutoEnrollLocationAny sentinel meaning "device chooses" (spec §3).
type AutoEnrollLocation uint8

// AutoEnrollLocationAny is the 0xC8 sentinel meaning the device picks
// an available slot itself.
const AutoEnrollLocationAny AutoEnrollLocation = 0xC8

// NewAutoEnrollLocation validates a specific slot in 0x00..0xC7; use
// AutoEnrollLocationAny directly for the "device chooses" sentinel.
func NewAutoEnrollLocation(slot uint8) (AutoEnrollLocation, error) {
	if slot >= uint8(AutoEnrollLocationAny) {
		return 0, errIncorrectData(fmt.Sprintf("auto-enroll location out of range: %d", slot))
	}
	return AutoEnrollLocation(slot), nil
}

// AutoEnrollStep identifies which phase of AutoEnroll just completed
// (spec §4.8), in strict execution order.
type AutoEnrollStep uint8

const (
	CollectImage1     AutoEnrollStep = 0x01
	GenerateFeature1  AutoEnrollStep = 0x02
	CollectImage2     AutoEnrollStep = 0x03
	GenerateFeature2  AutoEnrollStep = 0x04
	CollectImage3     AutoEnrollStep = 0x05
	GenerateFeature3  AutoEnrollStep = 0x06
	CollectImage4     AutoEnrollStep = 0x07
	GenerateFeature4  AutoEnrollStep = 0x08
	CollectImage5     AutoEnrollStep = 0x09
	GenerateFeature5  AutoEnrollStep = 0x0A
	CollectImage6     AutoEnrollStep = 0x0B
	GenerateFeature6  AutoEnrollStep = 0x0C
	Repeatfingerprint AutoEnrollStep = 0x0D
	MergeFeature      AutoEnrollStep = 0x0E
	StorageTemplate   AutoEnrollStep = 0x0F
)

// autoEnrollSteps lists the fifteen steps in the order the device emits
// their acknowledges.
var autoEnrollSteps = []AutoEnrollStep{
	CollectImage1, GenerateFeature1,
	CollectImage2, GenerateFeature2,
	CollectImage3, GenerateFeature3,
	CollectImage4, GenerateFeature4,
	CollectImage5, GenerateFeature5,
	CollectImage6, GenerateFeature6,
	Repeatfingerprint, MergeFeature, StorageTemplate,
}

func decodeAutoEnrollStep(v uint8) (AutoEnrollStep, error) {
	switch AutoEnrollStep(v) {
	case CollectImage1, GenerateFeature1, CollectImage2, GenerateFeature2,
		CollectImage3, GenerateFeature3, CollectImage4, GenerateFeature4,
		CollectImage5, GenerateFeature5, CollectImage6, GenerateFeature6,
		Repeatfingerprint, MergeFeature, StorageTemplate:
		return AutoEnrollStep(v), nil
	default:
		return 0, errIncorrectData(fmt.Sprintf("unknown auto-enroll step 0x%02X", v))
	}
}

// AutoIdentifyStep identifies which phase of AutoIdentify just
// completed (spec §4.9).
type AutoIdentifyStep uint8

const (
	AutoIdentifyCollectImage    AutoIdentifyStep = 0x01
	AutoIdentifyGenerateFeature AutoIdentifyStep = 0x02
	AutoIdentifySearch          AutoIdentifyStep = 0x03
)

func decodeAutoIdentifyStep(v uint8) (AutoIdentifyStep, error) {
	switch AutoIdentifyStep(v) {
	case AutoIdentifyCollectImage, AutoIdentifyGenerateFeature, AutoIdentifySearch:
		return AutoIdentifyStep(v), nil
	default:
		return 0, errIncorrectData(fmt.Sprintf("unknown auto-identify step 0x%02X", v))
	}
}

// IdentifySafety is AutoIdentifyConfig's match-grade, 1 (loosest) to 5
// (strictest).
type IdentifySafety uint8

const (
	SafetyOne   IdentifySafety = 1
	SafetyTwo   IdentifySafety = 2
	SafetyThree IdentifySafety = 3
	SafetyFour  IdentifySafety = 4
	SafetyFive  IdentifySafety = 5
)

func decodeIdentifySafety(v uint8) (IdentifySafety, error) {
	if v < 1 || v > 5 {
		return 0, errIncorrectData(fmt.Sprintf("identify safety grade out of range: %d", v))
	}
	return IdentifySafety(v), nil
}

// AuraControl selects the LED ring's animation mode (spec §3).
type AuraControl uint8

const (
	AuraBreathing    AuraControl = 0x01
	AuraFlashing     AuraControl = 0x02
	AuraAlwaysOn     AuraControl = 0x03
	AuraAlwaysOff    AuraControl = 0x04
	AuraGraduallyOn  AuraControl = 0x05
	AuraGraduallyOff AuraControl = 0x06
)

func decodeAuraControl(v uint8) (AuraControl, error) {
	switch AuraControl(v) {
	case AuraBreathing, AuraFlashing, AuraAlwaysOn, AuraAlwaysOff, AuraGraduallyOn, AuraGraduallyOff:
		return AuraControl(v), nil
	default:
		return 0, errIncorrectData(fmt.Sprintf("unknown aura control 0x%02X", v))
	}
}

// AuraColor selects the LED ring's color (spec §3).
type AuraColor uint8

const (
	AuraRed    AuraColor = 0x01
	AuraBlue   AuraColor = 0x02
	AuraPurple AuraColor = 0x03
	AuraGreen  AuraColor = 0x04
	AuraYellow AuraColor = 0x05
	AuraCyan   AuraColor = 0x06
	AuraWhite  AuraColor = 0x07
)

func decodeAuraColor(v uint8) (AuraColor, error) {
	switch AuraColor(v) {
	case AuraRed, AuraBlue, AuraPurple, AuraGreen, AuraYellow, AuraCyan, AuraWhite:
		return AuraColor(v), nil
	default:
		return 0, errIncorrectData(fmt.Sprintf("unknown aura color 0x%02X", v))
	}
}

// InfiniteOrCount is the shared wire shape used by both
// AuraControlPayload.Cycles and AutoIdentifyConfig.ErrCount: a single
// byte where 0x00 means "run forever" and any other value is a literal
// count (spec §3, §9).
type InfiniteOrCount struct {
	// Infinite, when true, ignores Count and encodes as 0x00.
	Infinite bool
	// Count is the literal byte value when Infinite is false. 0 is not
	// a valid Count — use Infinite instead.
	Count uint8
}

// Forever is the Infinite sentinel.
func Forever() InfiniteOrCount {
	return InfiniteOrCount{Infinite: true}
}

// Times is a finite count; n must be nonzero.
func Times(n uint8) (InfiniteOrCount, error) {
	if n == 0 {
		return InfiniteOrCount{}, errIncorrectData("count must be nonzero, use Forever() for infinite")
	}
	return InfiniteOrCount{Count: n}, nil
}

func (v InfiniteOrCount) encode() uint8 {
	if v.Infinite {
		return 0x00
	}
	return v.Count
}

func decodeInfiniteOrCount(v uint8) InfiniteOrCount {
	if v == 0x00 {
		return Forever()
	}
	return InfiniteOrCount{Count: v}
}
