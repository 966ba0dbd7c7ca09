package r503

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAutoEnrollAck assembles one AutoEnroll progress acknowledge:
// [step, reserved, model_id].
func buildAutoEnrollAck(address uint32, step AutoEnrollStep, modelID uint8) []byte {
	return buildAckFrame(address, Success, []byte{uint8(step), 0xAA, modelID})
}

func TestAutoEnrollOneshotHappyPath(t *testing.T) {
	const address = uint32(1)
	steps := []AutoEnrollStep{
		CollectImage1, GenerateFeature1, CollectImage2, GenerateFeature2,
		CollectImage3, GenerateFeature3, CollectImage4, GenerateFeature4,
		CollectImage5, GenerateFeature5, CollectImage6, GenerateFeature6,
		Repeatfingerprint, MergeFeature, StorageTemplate,
	}

	var wire []byte
	for _, s := range steps {
		wire = append(wire, buildAutoEnrollAck(address, s, 7)...)
	}

	tr := newFakeTransport(wire)
	e := NewAutoEnroll(address, tr)
	require.NoError(t, e.Start(DefaultAutoEnrollConfig()))

	modelID, err := e.Oneshot()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), modelID)
}

// TestAutoEnrollStepMismatchIsTerminal pins spec §8 Test 5: the first
// ack decodes to GenerateFeature1 instead of the expected CollectImage1.
func TestAutoEnrollStepMismatchIsTerminal(t *testing.T) {
	const address = uint32(1)
	wire := buildAutoEnrollAck(address, GenerateFeature1, 0)
	tr := newFakeTransport(wire)

	e := NewAutoEnroll(address, tr)
	require.NoError(t, e.Start(DefaultAutoEnrollConfig()))

	err := e.WaitCollectImage1()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncorrectData)

	// The driver is now Failed; reuse without a new Start must also fail.
	err = e.WaitGenerateFeature1()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncorrectData)
}

func TestAutoEnrollFailedConfirmationIsTerminal(t *testing.T) {
	const address = uint32(1)
	wire := buildAckFrame(address, NoFinger, []byte{uint8(CollectImage1), 0, 0})
	tr := newFakeTransport(wire)

	e := NewAutoEnroll(address, tr)
	require.NoError(t, e.Start(DefaultAutoEnrollConfig()))

	err := e.WaitCollectImage1()
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindBadConfirmation, perr.Kind)

	// The driver is now Failed; reuse without a new Start must also fail.
	err = e.WaitGenerateFeature1()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncorrectData)
}

func TestAutoEnrollStartEncodesConfig(t *testing.T) {
	tr := newFakeTransport(nil)
	e := NewAutoEnroll(0xFFFFFFFF, tr)

	cfg := AutoEnrollConfig{
		Location:       AutoEnrollLocationAny,
		CoverID:        true,
		AllowDupes:     false,
		ReturnStatus:   true,
		RequireRelease: true,
	}
	require.NoError(t, e.Start(cfg))

	out := tr.out.Bytes()
	body := out[len(out)-2-5 : len(out)-2]
	assert.Equal(t, []byte{0xC8, 1, 0, 1, 1}, body)
}
